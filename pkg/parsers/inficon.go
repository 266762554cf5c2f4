package parsers

import (
	"bytes"

	"github.com/seqtab/seqtab/pkg/buffer"
	"github.com/seqtab/seqtab/pkg/errors"
	"github.com/seqtab/seqtab/pkg/record"
)

func init() {
	Register("inficon", func() Decoder { return &inficonDecoder{} }, true)
}

// InficonRecord is one (time, m/z, intensity) point from a Hapsite
// GC/MS run. Time is in minutes.
type InficonRecord struct {
	Time      float64
	MZ        float64
	Intensity float64
}

func (r *InficonRecord) Fields() []any {
	return []any{r.Time, r.MZ, r.Intensity}
}

var inficonHeaders = []string{"time", "mz", "intensity"}

var inficonMagic = []byte{4, 3, 2, 1}

// mzListMarker sits at the end of the instrument collection steps, a
// fixed distance before the list of m/z segments.
var mzListMarker = []byte{
	0xFF, 0xFF, 0xFF, 0xFF,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0xF6, 0xFF, 0xFF, 0xFF,
	0, 0, 0, 0,
}

// scanDataMarker precedes the section whose length field sits right
// before the "HapsScan" header.
var scanDataMarker = []byte("\xFF\xFF\xFF\xFFHapsGPIR")

// inficonDecoder reads Hapsite binary files. Setup walks the header
// maze to build the per-segment m/z lists; Parse then emits one
// intensity per call, cycling through the current segment's m/z list.
type inficonDecoder struct {
	segments [][]float64
	dataLeft int

	mzsLeft    int
	curSegment int
	curTime    float64
	rec        InficonRecord
}

func (d *inficonDecoder) Headers() []string { return inficonHeaders }

func (d *inficonDecoder) Setup(rb *buffer.Buffer) error {
	magic, err := extractN(rb, 4, "Inficon magic")
	if err != nil {
		return err
	}
	if !bytes.Equal(magic, inficonMagic) {
		return errors.New("Inficon file has bad magic bytes")
	}

	found, err := rb.SeekPattern(mzListMarker)
	if err != nil {
		return err
	}
	if !found {
		return errors.New("could not find m/z header list")
	}
	if err := discardN(rb, 148, "Inficon header"); err != nil {
		return err
	}
	nSegments, err := extractU32(rb, "Inficon segment count")
	if err != nil {
		return err
	}
	if nSegments > 10000 {
		return errors.New("Inficon file has too many segments")
	}

	d.segments = make([][]float64, nSegments)
	for i := range d.segments {
		if err := discardN(rb, 96, "Inficon segment header"); err != nil {
			return err
		}
		nMzs, err := extractU32(rb, "Inficon m/z range count")
		if err != nil {
			return err
		}
		if nMzs > 100000 {
			return errors.New("too many m/z ranges")
		}
		var segment []float64
		for j := uint32(0); j < nMzs; j++ {
			entry, err := extractN(rb, 32, "Inficon m/z range")
			if err != nil {
				return err
			}
			c := newCursor(entry)
			startMz := c.u32()
			endMz := c.u32()
			if endMz > 4000000000 {
				return errors.New("end of m/z range is invalid")
			}
			// dwell time and three more values precede the type
			c.skip(16)
			iType := c.u32()
			if iType == 0 {
				// selected ion monitoring: one fixed m/z
				segment = append(segment, float64(startMz)/100)
				continue
			}
			if startMz >= endMz || endMz-startMz >= 200000 {
				return errors.New("m/z range is too big or invalid")
			}
			// full scan mode covers the range in centi-amu steps
			for mz := startMz; mz < endMz+1; mz += 100 {
				segment = append(segment, float64(mz)/100)
			}
		}
		d.segments[i] = segment
	}

	found, err = rb.SeekPattern(scanDataMarker)
	if err != nil {
		return err
	}
	if !found {
		return errors.New("could not find start of scan data")
	}
	if err := discardN(rb, 180, "Inficon data header"); err != nil {
		return err
	}
	dataLen, err := extractU32(rb, "Inficon data length")
	if err != nil {
		return err
	}
	if err := discardN(rb, 8, "Inficon data header"); err != nil {
		return err
	}
	header, err := extractN(rb, 8, "Inficon data header")
	if err != nil {
		return err
	}
	if !bytes.Equal(header, []byte("HapsScan")) {
		return errors.New("data header was malformed")
	}
	if err := discardN(rb, 56, "Inficon data header"); err != nil {
		return err
	}
	d.dataLeft = int(dataLen)
	return nil
}

func (d *inficonDecoder) Parse(window []byte, eof bool) (Result, error) {
	if d.dataLeft == 0 {
		return endOfStream()
	}
	c := newCursor(window)
	mzsLeft := d.mzsLeft
	segIdx := d.curSegment
	time := d.curTime
	if mzsLeft == 0 {
		c.skip(4) // 1-based scan number
		rawTime := c.i32()
		c.skip(2) // always 1
		nMzs := int(c.u16())
		c.skip(2) // always 0xFFFF
		// the segment lives in the upper nibbles; the low one is F
		rawSegment := c.u16()
		if c.short {
			if eof {
				return Result{}, errors.Premature("Inficon scan header")
			}
			return needMore()
		}
		segIdx = int(rawSegment >> 4)
		if segIdx >= len(d.segments) {
			return Result{}, errors.Newf("invalid segment number (%d) specified", segIdx)
		}
		if nMzs != len(d.segments[segIdx]) {
			return Result{}, errors.Newf(
				"number of intensities (%d) doesn't match number of mzs (%d)",
				nMzs, len(d.segments[segIdx]))
		}
		time = float64(rawTime) / 60000
		mzsLeft = nMzs
	}
	intensity := c.f32()
	if c.short {
		if eof {
			return Result{}, errors.Premature("Inficon scan data")
		}
		return needMore()
	}
	segment := d.segments[segIdx]
	if mzsLeft == 0 || mzsLeft > len(segment) {
		return Result{}, errors.New("invalid m/z segment")
	}

	d.rec = InficonRecord{
		Time:      time,
		MZ:        segment[len(segment)-mzsLeft],
		Intensity: float64(intensity),
	}
	d.curTime = time
	d.curSegment = segIdx
	d.mzsLeft = mzsLeft - 1
	if c.pos > d.dataLeft {
		d.dataLeft = 0
	} else {
		d.dataLeft -= c.pos
	}
	return haveRecord(c.pos)
}

func (d *inficonDecoder) Get([]byte) (record.Record, error) {
	rec := d.rec
	return &rec, nil
}

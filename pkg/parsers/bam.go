package parsers

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"unicode/utf8"

	"github.com/seqtab/seqtab/pkg/buffer"
	"github.com/seqtab/seqtab/pkg/errors"
	"github.com/seqtab/seqtab/pkg/record"
)

func init() {
	Register("bam", func() Decoder { return &bamDecoder{} }, true)
}

var bamMagic = []byte("BAM\x01")

// cigarOps maps the 4-bit CIGAR op codes to their letters.
const cigarOps = "MIDNSHP=X"

// seqNibbles maps 4-bit base codes to IUPAC letters, high nibble first.
const seqNibbles = "=ACMGRSVTWYHKDBN"

type bamReference struct {
	name   string
	length uint32
}

// bamDecoder reads the binary alignment format: a plain-text header,
// a reference dictionary, then length-prefixed records. It produces
// the same Alignment values the SAM decoder does.
type bamDecoder struct {
	refs []bamReference
}

func (d *bamDecoder) Headers() []string { return alignmentHeaders }

func (d *bamDecoder) Setup(rb *buffer.Buffer) error {
	magic, err := extractN(rb, 4, "BAM magic")
	if err != nil {
		return err
	}
	if !bytes.Equal(magic, bamMagic) {
		return errors.New("not a valid BAM file")
	}
	headerLen, err := extractU32(rb, "BAM header length")
	if err != nil {
		return err
	}
	// the SAM-text header inside a BAM is not decoded, just skipped
	if err := discardN(rb, int(headerLen), "BAM header"); err != nil {
		return err
	}
	nRefs, err := extractU32(rb, "BAM reference count")
	if err != nil {
		return err
	}
	for i := uint32(0); i < nRefs; i++ {
		nameLen, err := extractU32(rb, "BAM reference name length")
		if err != nil {
			return err
		}
		rawName, err := extractN(rb, int(nameLen), "BAM reference name")
		if err != nil {
			return err
		}
		if len(rawName) > 0 && rawName[len(rawName)-1] == 0 {
			rawName = rawName[:len(rawName)-1]
		}
		if !utf8.Valid(rawName) {
			return errors.New("BAM reference name is not valid UTF-8")
		}
		name := string(rawName)
		refLen, err := extractU32(rb, "BAM reference length")
		if err != nil {
			return err
		}
		d.refs = append(d.refs, bamReference{name: name, length: refLen})
	}
	return nil
}

func (d *bamDecoder) Parse(window []byte, eof bool) (Result, error) {
	if len(window) == 0 && eof {
		return endOfStream()
	}
	if len(window) < 4 {
		if eof {
			return Result{}, errors.Premature("BAM record length")
		}
		return needMore()
	}
	total := 4 + int(binary.LittleEndian.Uint32(window))
	if len(window) < total {
		if eof {
			return Result{}, errors.Premature("BAM record")
		}
		return needMore()
	}
	return haveRecord(total)
}

func (d *bamDecoder) Get(window []byte) (record.Record, error) {
	recLen := int(binary.LittleEndian.Uint32(window))
	return d.decode(window[4 : 4+recLen])
}

func (d *bamDecoder) decode(data []byte) (*Alignment, error) {
	if len(data) < 32 {
		return nil, errors.New("BAM record is unexpectedly short")
	}
	c := newCursor(data)
	refID := c.i32()
	rawPos := c.i32()
	qnameLen := int(c.u8())
	rawMapq := c.u8()
	c.skip(2) // BAI index bin
	nCigar := int(c.u16())
	flag := c.u16()
	seqLen := int(c.u32())
	rnextID := c.i32()
	rawPnext := c.i32()
	tlen := c.i32()

	refName := ""
	if refID >= 0 {
		if int(refID) >= len(d.refs) {
			return nil, errors.New("invalid reference sequence ID")
		}
		refName = d.refs[refID].name
	}
	rnext := ""
	if rnextID >= 0 {
		if int(rnextID) >= len(d.refs) {
			return nil, errors.New("invalid next reference sequence ID")
		}
		rnext = d.refs[rnextID].name
	}
	var pos, pnext *int64
	if rawPos != -1 {
		v := int64(rawPos)
		pos = &v
	}
	if rawPnext != -1 {
		v := int64(rawPnext)
		pnext = &v
	}
	var mapq *uint8
	if rawMapq != 255 {
		q := rawMapq
		mapq = &q
	}

	variable := data[32:]
	start := qnameLen
	if start > len(variable) {
		return nil, errors.New("invalid query name length")
	}
	qname := variable[:start]
	if len(qname) > 0 && qname[len(qname)-1] == 0 {
		qname = qname[:len(qname)-1]
	}
	if !utf8.Valid(qname) {
		return nil, errors.New("BAM query name is not valid UTF-8")
	}

	cigar := make([]byte, 0, nCigar*4)
	for i := 0; i < nCigar; i++ {
		if start+4 > len(variable) {
			return nil, errors.New("BAM record ended abruptly while reading CIGAR")
		}
		op := binary.LittleEndian.Uint32(variable[start:])
		cigar = strconv.AppendUint(cigar, uint64(op>>4), 10)
		cigar = append(cigar, cigarOps[op&7])
		start += 4
	}

	if start+seqLen/2 >= len(variable) {
		return nil, errors.New("BAM record ended abruptly while reading sequence")
	}
	seq := make([]byte, seqLen)
	for idx := 0; idx < seqLen; idx++ {
		b := variable[start+idx/2]
		if idx%2 == 0 {
			b >>= 4
		} else {
			b &= 15
		}
		seq[idx] = seqNibbles[b]
	}
	start += (seqLen + 1) / 2

	if start >= len(variable) {
		return nil, errors.New("BAM record ended abruptly while reading quality scores")
	}
	qual := []byte{}
	// 0xFF in the first quality byte means scores are absent
	if variable[start] != 255 {
		if start+seqLen > len(variable) {
			return nil, errors.New("BAM record ended abruptly while reading quality scores")
		}
		qual = make([]byte, seqLen)
		for i, m := range variable[start : start+seqLen] {
			qual[i] = m + 33
		}
	}

	return &Alignment{
		QueryName:   string(qname),
		Flag:        flag,
		RefName:     refName,
		Pos:         pos,
		MapQual:     mapq,
		Cigar:       cigar,
		RNext:       rnext,
		PNext:       pnext,
		TemplateLen: tlen,
		Sequence:    seq,
		Quality:     qual,
		Extra:       []byte{},
	}, nil
}

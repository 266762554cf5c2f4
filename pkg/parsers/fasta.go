package parsers

import (
	"bytes"
	"unicode/utf8"

	"github.com/seqtab/seqtab/pkg/buffer"
	"github.com/seqtab/seqtab/pkg/errors"
	"github.com/seqtab/seqtab/pkg/record"
)

func init() {
	Register("fasta", func() Decoder { return &fastaDecoder{} }, false)
}

// FastaRecord is one sequence from a FASTA file. The sequence has all
// interior line breaks removed.
type FastaRecord struct {
	ID       string
	Sequence []byte
}

func (r *FastaRecord) Fields() []any {
	return []any{r.ID, r.Sequence}
}

var fastaHeaders = []string{"id", "sequence"}

// fastaDecoder scans '>'-headed records. A record runs from its header
// line to the newline preceding the next '>' or to the end of stream.
type fastaDecoder struct {
	idEnd    int
	seqStart int
	seqEnd   int
	// newline positions inside the sequence region, relative to
	// seqStart, that Get splices out
	newlines []int
}

func (d *fastaDecoder) Setup(*buffer.Buffer) error { return nil }

func (d *fastaDecoder) Headers() []string { return fastaHeaders }

func (d *fastaDecoder) Parse(window []byte, eof bool) (Result, error) {
	if len(window) == 0 {
		if eof {
			return endOfStream()
		}
		return needMore()
	}
	if window[0] != '>' {
		return Result{}, errors.New("valid FASTA records start with '>'")
	}
	p := bytes.IndexByte(window, '\n')
	if p < 0 {
		if eof {
			return Result{}, errors.Premature("FASTA header")
		}
		return needMore()
	}
	headerEnd := p
	if p > 0 && window[p-1] == '\r' {
		headerEnd = p - 1
	}
	seqStart := p + 1

	d.newlines = d.newlines[:0]
	foundEnd := false
	seq := window[seqStart:]
	off := 0
	for {
		i := bytes.IndexByte(seq[off:], '\n')
		if i < 0 {
			break
		}
		rel := off + i
		abs := seqStart + rel
		if window[abs-1] == '\r' {
			d.newlines = append(d.newlines, rel-1)
		}
		d.newlines = append(d.newlines, rel)
		if abs+1 < len(window) && window[abs+1] == '>' {
			foundEnd = true
			break
		}
		off = rel + 1
	}
	if !foundEnd && !eof {
		d.newlines = d.newlines[:0]
		return needMore()
	}

	var recEnd int
	if foundEnd {
		endpos := d.newlines[len(d.newlines)-1]
		d.newlines = d.newlines[:len(d.newlines)-1]
		recEnd = seqStart + endpos + 1
		// trailing runs of newline bytes (\r\n and blank lines) are
		// not part of the sequence
		for endpos > 0 && len(d.newlines) > 0 && d.newlines[len(d.newlines)-1] == endpos-1 {
			endpos = d.newlines[len(d.newlines)-1]
			d.newlines = d.newlines[:len(d.newlines)-1]
		}
		d.seqEnd = seqStart + endpos
	} else {
		d.seqEnd = len(window)
		recEnd = len(window)
	}
	d.idEnd = headerEnd
	d.seqStart = seqStart
	return haveRecord(recEnd)
}

func (d *fastaDecoder) Get(window []byte) (record.Record, error) {
	id := window[1:d.idEnd]
	if !utf8.Valid(id) {
		return nil, errors.New("FASTA header is not valid UTF-8")
	}
	raw := window[d.seqStart:d.seqEnd]
	var seq []byte
	if len(d.newlines) == 0 {
		seq = append([]byte(nil), raw...)
	} else {
		seq = make([]byte, 0, len(raw)-len(d.newlines))
		start := 0
		for _, pos := range d.newlines {
			seq = append(seq, raw[start:pos]...)
			start = pos + 1
		}
		seq = append(seq, raw[start:]...)
	}
	return &FastaRecord{ID: string(id), Sequence: seq}, nil
}

package parsers

import (
	"bytes"
	"unicode/utf8"

	"github.com/seqtab/seqtab/pkg/buffer"
	"github.com/seqtab/seqtab/pkg/errors"
	"github.com/seqtab/seqtab/pkg/record"
)

func init() {
	Register("fastq", func() Decoder { return &fastqDecoder{} }, false)
}

// FastqRecord is one sequence with quality scores from a FASTQ file.
type FastqRecord struct {
	ID       string
	Sequence []byte
	Quality  []byte
}

func (r *FastqRecord) Fields() []any {
	return []any{r.ID, r.Sequence, r.Quality}
}

var fastqHeaders = []string{"id", "sequence", "quality"}

// fastqDecoder reads the four-line FASTQ layout. The quality line is
// located by length rather than by newline, so sequences containing
// '@' or quality strings containing '+' decode correctly.
type fastqDecoder struct {
	headerEnd int
	seqStart  int
	seqEnd    int
	qualStart int
	qualEnd   int
}

func (d *fastqDecoder) Setup(*buffer.Buffer) error { return nil }

func (d *fastqDecoder) Headers() []string { return fastqHeaders }

func (d *fastqDecoder) Parse(window []byte, eof bool) (Result, error) {
	if len(window) == 0 {
		if eof {
			return endOfStream()
		}
		return needMore()
	}
	if window[0] != '@' {
		return Result{}, errors.New("valid FASTQ records start with '@'")
	}
	p := bytes.IndexByte(window, '\n')
	if p < 0 {
		if eof {
			return Result{}, errors.Premature("FASTQ header")
		}
		return needMore()
	}
	headerEnd := p
	if p > 0 && window[p-1] == '\r' {
		headerEnd = p - 1
	}
	seqStart := p + 1

	q := bytes.IndexByte(window[seqStart:], '+')
	if q < 0 {
		if eof {
			return Result{}, errors.Premature("FASTQ sequence")
		}
		return needMore()
	}
	if q == 0 || window[seqStart+q-1] != '\n' {
		return Result{}, errors.New("unexpected + found in sequence")
	}
	// the + starts the second header line, so the sequence already
	// ends one byte earlier before accounting for a \r
	seqEnd := seqStart + q - 1
	if seqStart+q > 2 && window[seqStart+q-2] == '\r' {
		seqEnd = seqStart + q - 2
	}
	plusStart := seqStart + q

	r := bytes.IndexByte(window[plusStart:], '\n')
	if r < 0 {
		if eof {
			return Result{}, errors.Premature("FASTQ second header")
		}
		return needMore()
	}
	qualStart := plusStart + r + 1
	qualEnd := qualStart + (seqEnd - seqStart)
	recEnd := qualEnd + (plusStart - seqEnd)
	// the terminal newline(s) may be missing on the last record
	if recEnd > len(window) && eof {
		recEnd -= plusStart - seqEnd
	}
	if recEnd > len(window) {
		if eof {
			return Result{}, errors.Premature("FASTQ quality")
		}
		return needMore()
	}

	d.headerEnd = headerEnd
	d.seqStart = seqStart
	d.seqEnd = seqEnd
	d.qualStart = qualStart
	d.qualEnd = qualEnd
	return haveRecord(recEnd)
}

func (d *fastqDecoder) Get(window []byte) (record.Record, error) {
	id := window[1:d.headerEnd]
	if !utf8.Valid(id) {
		return nil, errors.New("FASTQ header is not valid UTF-8")
	}
	return &FastqRecord{
		ID:       string(id),
		Sequence: append([]byte(nil), window[d.seqStart:d.seqEnd]...),
		Quality:  append([]byte(nil), window[d.qualStart:d.qualEnd]...),
	}, nil
}

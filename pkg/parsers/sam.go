package parsers

import (
	"bytes"
	"strconv"
	"unicode/utf8"

	"github.com/seqtab/seqtab/pkg/buffer"
	"github.com/seqtab/seqtab/pkg/errors"
	"github.com/seqtab/seqtab/pkg/record"
)

func init() {
	Register("sam", func() Decoder { return &samDecoder{} }, false)
}

// Alignment is one read mapping, produced identically by the SAM and
// BAM decoders: the same input alignment yields the same field values
// from either format.
type Alignment struct {
	QueryName string
	Flag      uint16
	RefName   string
	// Pos is the 0-based mapping position; nil when unmapped.
	Pos     *int64
	MapQual *uint8
	Cigar   []byte
	RNext   string
	PNext   *int64
	// TemplateLen is the signed observed template length.
	TemplateLen int32
	Sequence    []byte
	Quality     []byte
	Extra       []byte
}

func (r *Alignment) Fields() []any {
	return []any{
		r.QueryName, r.Flag, r.RefName, optInt(r.Pos), optU8(r.MapQual),
		r.Cigar, r.RNext, optInt(r.PNext), r.TemplateLen,
		r.Sequence, r.Quality, r.Extra,
	}
}

func optInt(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func optU8(p *uint8) any {
	if p == nil {
		return nil
	}
	return *p
}

var alignmentHeaders = []string{
	"query_name", "flag", "ref_name", "pos", "mapq", "cigar",
	"rnext", "pnext", "tlen", "seq", "qual", "extra",
}

// samDecoder reads tab-separated alignment lines after skipping the
// '@'-prefixed header section.
type samDecoder struct {
	lineLen int
}

func (d *samDecoder) Headers() []string { return alignmentHeaders }

func (d *samDecoder) Setup(rb *buffer.Buffer) error {
	if err := rb.Reserve(1); err != nil {
		return err
	}
	for rb.Len() > 0 && rb.Window()[0] == '@' {
		found, err := rb.SeekPattern([]byte{'\n'})
		if err != nil {
			return err
		}
		if !found {
			break
		}
		rb.Consume(1)
		if err := rb.Reserve(1); err != nil {
			return err
		}
	}
	return nil
}

func (d *samDecoder) Parse(window []byte, eof bool) (Result, error) {
	if len(window) == 0 {
		if eof {
			return endOfStream()
		}
		return needMore()
	}
	i := bytes.IndexByte(window, '\n')
	var consumed int
	if i < 0 {
		if !eof {
			return needMore()
		}
		d.lineLen = len(window)
		consumed = len(window)
	} else {
		d.lineLen = i
		consumed = i + 1
	}
	if d.lineLen > 0 && window[d.lineLen-1] == '\r' {
		d.lineLen--
	}
	return haveRecord(consumed)
}

func (d *samDecoder) Get(window []byte) (record.Record, error) {
	chunks := bytes.Split(window[:d.lineLen], []byte{'\t'})
	if len(chunks) < 11 {
		return nil, errors.New("SAM record too short")
	}

	queryName, err := samString(chunks[0], "query name")
	if err != nil {
		return nil, err
	}
	flag, err := strconv.ParseUint(string(chunks[1]), 10, 16)
	if err != nil {
		return nil, errors.Wrap(err, "invalid SAM flag")
	}
	refName := ""
	if !bytes.Equal(chunks[2], []byte("*")) {
		if refName, err = samString(chunks[2], "reference name"); err != nil {
			return nil, err
		}
	}
	pos, err := samPosition(chunks[3], "position")
	if err != nil {
		return nil, err
	}
	var mapq *uint8
	if !bytes.Equal(chunks[4], []byte("255")) {
		v, merr := strconv.ParseUint(string(chunks[4]), 10, 8)
		if merr != nil {
			return nil, errors.Wrap(merr, "invalid SAM mapping quality")
		}
		q := uint8(v)
		mapq = &q
	}
	rnext := ""
	if !bytes.Equal(chunks[6], []byte("*")) {
		if rnext, err = samString(chunks[6], "next reference name"); err != nil {
			return nil, err
		}
	}
	pnext, err := samPosition(chunks[7], "next position")
	if err != nil {
		return nil, err
	}
	tlen, err := strconv.ParseInt(string(chunks[8]), 10, 32)
	if err != nil {
		return nil, errors.Wrap(err, "invalid SAM template length")
	}

	var extra []byte
	switch {
	case len(chunks) == 11:
		extra = []byte{}
	case len(chunks) == 12:
		extra = append([]byte(nil), chunks[11]...)
	default:
		// the tab delimiters between optional fields are gone after
		// splitting, so rejoin them with a separator
		extra = append([]byte(nil), chunks[11]...)
		for _, c := range chunks[12:] {
			extra = append(extra, '|')
			extra = append(extra, c...)
		}
	}

	return &Alignment{
		QueryName:   queryName,
		Flag:        uint16(flag),
		RefName:     refName,
		Pos:         pos,
		MapQual:     mapq,
		Cigar:       samBytes(chunks[5]),
		RNext:       rnext,
		PNext:       pnext,
		TemplateLen: int32(tlen),
		Sequence:    samBytes(chunks[9]),
		Quality:     samBytes(chunks[10]),
		Extra:       extra,
	}, nil
}

func samString(b []byte, what string) (string, error) {
	if !utf8.Valid(b) {
		return "", errors.Newf("SAM %s is not valid UTF-8", what)
	}
	return string(b), nil
}

// samPosition converts a 1-based text coordinate to the 0-based form
// BAM uses; "0" means absent.
func samPosition(b []byte, what string) (*int64, error) {
	if bytes.Equal(b, []byte("0")) {
		return nil, nil
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid SAM %s", what)
	}
	v--
	return &v, nil
}

// samBytes copies a field, mapping the "*" placeholder to empty.
func samBytes(b []byte) []byte {
	if bytes.Equal(b, []byte("*")) {
		return []byte{}
	}
	return append([]byte(nil), b...)
}

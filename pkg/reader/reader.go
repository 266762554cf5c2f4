// Package reader ties sniffing, decompression, and the decoders into a
// pull API: construct a Reader over any io.Reader, then call Next until
// io.EOF.
package reader

import (
	"io"

	"github.com/seqtab/seqtab/pkg/buffer"
	"github.com/seqtab/seqtab/pkg/compression"
	"github.com/seqtab/seqtab/pkg/errors"
	"github.com/seqtab/seqtab/pkg/filetype"
	"github.com/seqtab/seqtab/pkg/parsers"
	"github.com/seqtab/seqtab/pkg/record"
)

// Options adjusts Reader construction. The zero value sniffs the
// format and transparently unwraps one compression layer.
type Options struct {
	// Parser forces a decoder by registry name instead of sniffing.
	Parser string
	// DisableDecompression classifies compressed input as its
	// container type instead of looking inside.
	DisableDecompression bool
}

// Reader decodes a stream record by record. It is not safe for
// concurrent use; drive it from one goroutine.
type Reader struct {
	buf        *buffer.Buffer
	dec        parsers.Decoder
	ftype      filetype.FileType
	comp       filetype.FileType
	closer     io.Closer
	positional bool
	done       bool
	err        error
}

// New sniffs r, unwraps compression unless disabled, resolves a
// decoder, and runs its setup phase.
func New(r io.Reader, opts *Options) (*Reader, error) {
	if opts == nil {
		opts = &Options{}
	}
	var (
		stream io.Reader
		closer io.Closer
		ftype  filetype.FileType
		comp   filetype.FileType
		err    error
	)
	if opts.DisableDecompression {
		stream, ftype, err = compression.Sniff(r)
	} else {
		var rc io.ReadCloser
		rc, ftype, comp, err = compression.Decompress(r)
		if err == nil {
			stream, closer = rc, rc
		}
	}
	if err != nil {
		return nil, err
	}

	fail := func(err error) (*Reader, error) {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}

	name := opts.Parser
	if name == "" {
		name = ftype.ParserName()
		if name == "" {
			return fail(errors.Newf("no parser available for %s input", ftype))
		}
	}
	dec, positional, err := parsers.Get(name)
	if err != nil {
		return fail(err)
	}

	buf := buffer.New(stream)
	if err := dec.Setup(buf); err != nil {
		return fail(err)
	}
	return &Reader{
		buf:        buf,
		dec:        dec,
		ftype:      ftype,
		comp:       comp,
		closer:     closer,
		positional: positional,
	}, nil
}

// Close releases the decompression layer's resources. It does not
// close the io.Reader the stream was constructed from, and it is safe
// to call on readers over uncompressed input.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	c := r.closer
	r.closer = nil
	return c.Close()
}

// Headers returns the column names for this stream's records.
func (r *Reader) Headers() []string { return r.dec.Headers() }

// FileType returns the decoded (inner) format.
func (r *Reader) FileType() filetype.FileType { return r.ftype }

// Compression returns the unwrapped container type, or Unknown for
// uncompressed input.
func (r *Reader) Compression() filetype.FileType { return r.comp }

// Next returns the next record, or io.EOF after the last one. Errors
// are sticky: once Next fails, it keeps returning the same error.
func (r *Reader) Next() (record.Record, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.done {
		return nil, io.EOF
	}
	for {
		byteOff := r.buf.Offset()
		recIdx := r.buf.RecordIndex()
		res, err := r.dec.Parse(r.buf.Window(), r.buf.EOF())
		if err != nil {
			return nil, r.fail(err, byteOff, recIdx)
		}
		switch res.Outcome {
		case parsers.EndOfStream:
			r.done = true
			return nil, io.EOF
		case parsers.NeedMoreBytes:
			if r.buf.EOF() {
				return nil, r.fail(errors.New("decoder stalled at end of stream"), byteOff, recIdx)
			}
			if _, err := r.buf.Refill(); err != nil {
				return nil, r.fail(err, byteOff, recIdx)
			}
		case parsers.HaveRecord:
			rec, err := r.dec.Get(r.buf.Window())
			if err != nil {
				return nil, r.fail(err, byteOff, recIdx)
			}
			r.buf.Consume(res.Consumed)
			r.buf.BumpRecord()
			return rec, nil
		}
	}
}

func (r *Reader) fail(err error, byteOff, recIdx int64) error {
	if r.positional {
		err = errors.WithPosition(err, byteOff, recIdx+1)
	}
	r.err = err
	return err
}

// Package compression sniffs a stream's file type and unwraps a single
// layer of compression when one is present. Exactly one layer: a
// gzipped gzip stream decodes to a gzip stream, never recursed into.
package compression

import (
	"bufio"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/seqtab/seqtab/pkg/errors"
	"github.com/seqtab/seqtab/pkg/filetype"
)

// sniffLen covers the longest magic plus the Thermo CF marker window.
const sniffLen = 128

// Sniff classifies r by its leading bytes without consuming them. The
// returned reader replays the full stream.
func Sniff(r io.Reader) (io.Reader, filetype.FileType, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	prefix, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, filetype.Unknown, errors.Wrap(err, "could not read stream prefix")
	}
	return br, filetype.FromMagic(prefix), nil
}

// stream pairs the sniffable reader with the decompressor that feeds
// it, so callers can release the decompressor's resources early.
type stream struct {
	io.Reader
	closer io.Closer
}

func (s *stream) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Decompress classifies r, unwraps one compression layer if the stream
// is compressed, and classifies what is inside. For uncompressed input
// the compression type is Unknown and the stream passes through.
// Closing the returned stream releases the decompressor without
// touching r; it is safe on passthrough streams too.
func Decompress(r io.Reader) (io.ReadCloser, filetype.FileType, filetype.FileType, error) {
	rd, outer, err := Sniff(r)
	if err != nil {
		return nil, filetype.Unknown, filetype.Unknown, err
	}
	if !outer.IsCompression() {
		return &stream{Reader: rd}, outer, filetype.Unknown, nil
	}

	var (
		inner  io.Reader
		closer io.Closer
	)
	switch outer {
	case filetype.Gzip:
		gz, gerr := gzip.NewReader(rd)
		if gerr != nil {
			return nil, filetype.Unknown, outer, errors.Wrap(gerr, "invalid gzip stream")
		}
		inner, closer = gz, gz
	case filetype.Bzip:
		bz, berr := bzip2.NewReader(rd, nil)
		if berr != nil {
			return nil, filetype.Unknown, outer, errors.Wrap(berr, "invalid bzip2 stream")
		}
		inner, closer = bz, bz
	case filetype.Lzma:
		xr, xerr := xz.NewReader(rd)
		if xerr != nil {
			return nil, filetype.Unknown, outer, errors.Wrap(xerr, "invalid xz stream")
		}
		inner = xr
	case filetype.Zstd:
		zr, zerr := zstd.NewReader(rd)
		if zerr != nil {
			return nil, filetype.Unknown, outer, errors.Wrap(zerr, "invalid zstd stream")
		}
		// IOReadCloser stops the decoder's workers on Close
		zrc := zr.IOReadCloser()
		inner, closer = zrc, zrc
	}

	rd2, ftype, err := Sniff(inner)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, filetype.Unknown, outer, err
	}
	return &stream{Reader: rd2, closer: closer}, ftype, outer, nil
}

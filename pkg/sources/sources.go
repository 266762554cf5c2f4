// Package sources adapts the places a stream can come from (local
// files, memory, HTTP, S3, stdin) to a single interface the CLI and
// reader consume.
package sources

import (
	"context"
	"io"
	"strings"
)

// Source is one input stream. Open may be called more than once; each
// call returns a fresh stream from the beginning when the backing
// store supports it.
type Source interface {
	// ID is a short name for logs and progress output.
	ID() string
	// Location is the full path or URL.
	Location() string
	// Size is the total byte size, or -1 when unknown.
	Size() int64
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Resolve maps a CLI argument to a source: "-" is stdin, s3:// and
// http(s):// URLs hit the network, everything else is a local path.
func Resolve(ctx context.Context, arg string) (Source, error) {
	switch {
	case arg == "-":
		return NewStream(), nil
	case strings.HasPrefix(arg, "s3://"):
		return NewS3FromURL(ctx, arg)
	case strings.HasPrefix(arg, "http://"), strings.HasPrefix(arg, "https://"):
		return NewHTTP(arg), nil
	default:
		return NewFile(arg)
	}
}

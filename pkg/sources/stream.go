package sources

import (
	"context"
	"io"
	"os"
)

// StreamSource reads standard input. Size is unknown and Open works
// only once per process.
type StreamSource struct{}

func NewStream() *StreamSource { return &StreamSource{} }

func (s *StreamSource) ID() string       { return "stdin" }
func (s *StreamSource) Location() string { return "-" }
func (s *StreamSource) Size() int64      { return -1 }

func (s *StreamSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(os.Stdin), nil
}

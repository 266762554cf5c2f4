package sources

import (
	"bytes"
	"context"
	"io"
)

// MemorySource serves a byte slice. Mostly useful in tests and for
// embedding small inputs.
type MemorySource struct {
	name string
	data []byte
}

func NewMemory(name string, data []byte) *MemorySource {
	return &MemorySource{name: name, data: data}
}

func (s *MemorySource) ID() string       { return s.name }
func (s *MemorySource) Location() string { return "memory://" + s.name }
func (s *MemorySource) Size() int64      { return int64(len(s.data)) }

func (s *MemorySource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

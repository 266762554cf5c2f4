package sources

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/seqtab/seqtab/pkg/filetype"
)

// FileSource reads a local file.
type FileSource struct {
	path string
	size int64
}

// NewFile stats path and returns a source for it.
func NewFile(path string) (*FileSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{path: path, size: info.Size()}, nil
}

func (s *FileSource) ID() string       { return filepath.Base(s.path) }
func (s *FileSource) Location() string { return s.path }
func (s *FileSource) Size() int64      { return s.size }

func (s *FileSource) Open(context.Context) (io.ReadCloser, error) {
	return os.Open(s.path)
}

// Hint returns the candidate file types suggested by the file's
// extension, looking under a compression suffix when present.
func (s *FileSource) Hint() []filetype.FileType {
	name := s.path
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if types := filetype.FromExtension(ext); len(types) > 0 {
		if len(types) == 1 && types[0].IsCompression() {
			inner := strings.TrimPrefix(filepath.Ext(strings.TrimSuffix(name, "."+ext)), ".")
			if innerTypes := filetype.FromExtension(inner); len(innerTypes) > 0 {
				return innerTypes
			}
		}
		return types
	}
	return nil
}

// Package corpus supplies training text to a markov.Model, either from a
// plain file or from documents kept in a SQLite corpus database.
package corpus

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Source is anything that can produce the full text of a corpus. The returned
// reader must be closed by the caller.
type Source interface {
	// Name returns a human-readable description used in logs.
	Name() string
	// Open returns a reader over the whole corpus.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads the corpus from a single file on disk.
type FileSource struct {
	Path string
}

// NewFileSource returns a Source for the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Name returns the file path.
func (f *FileSource) Name() string {
	return f.Path
}

// Open opens the file. Errors such as a missing file are returned wrapped,
// so errors.Is(err, fs.ErrNotExist) still holds.
func (f *FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("could not open corpus file: %w", err)
	}
	return file, nil
}

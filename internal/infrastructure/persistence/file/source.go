package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"samarth/internal/domain/dataset"
)

// Source loads a dataset document from the local filesystem.
type Source struct {
	path string
}

// NewSource returns a source reading path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Path is the file being read.
func (s *Source) Path() string { return s.path }

// Load implements ports.DatasetSource.
func (s *Source) Load(ctx context.Context) (*dataset.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()

	return Decode(f,
		dataset.WithSource(s.Describe()),
		dataset.WithLoadedAt(time.Now()),
	)
}

// Describe implements ports.DatasetSource.
func (s *Source) Describe() string { return "file:" + s.path }

// Write implements ports.SnapshotWriter. The document is written to a
// temporary file in the same directory and renamed over the target.
func (s *Source) Write(ctx context.Context, snap *dataset.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".dataset-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, snap); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace dataset file: %w", err)
	}
	return nil
}

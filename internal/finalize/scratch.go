package finalize

import (
	"fmt"
	"os"
	"path/filepath"
)

// ScratchDir is a freshly created private directory that is removed with
// everything in it on Close.
type ScratchDir struct {
	dir string
}

// NewScratchDir creates a scratch directory under root, or under the system
// temp directory when root is empty.
func NewScratchDir(root string) (*ScratchDir, error) {
	dir, err := os.MkdirTemp(root, "invoice-tex-*")
	if err != nil {
		return nil, err
	}
	return &ScratchDir{dir: dir}, nil
}

// Dir returns the directory path
func (s *ScratchDir) Dir() string {
	return s.dir
}

// Path returns the path of name inside the directory
func (s *ScratchDir) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Close removes the directory. Calling it more than once is a no-op.
func (s *ScratchDir) Close() error {
	if s.dir == "" {
		return nil
	}
	dir := s.dir
	s.dir = ""
	return os.RemoveAll(dir)
}

// WithScratchDir runs fn inside a new scratch directory and removes the
// directory afterwards, whether fn succeeds, fails or panics.
func WithScratchDir(root string, fn func(*ScratchDir) error) (err error) {
	scratch, err := NewScratchDir(root)
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer func() {
		if cerr := scratch.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to remove scratch directory: %w", cerr)
		}
	}()
	return fn(scratch)
}

// Package storage loads and persists raw document content.
//
// FileStore works on an afero filesystem, so the same code serves the real
// OS filesystem and in-memory filesystems in tests. Writes are atomic: the
// content goes to a temporary file in the target directory which is then
// renamed over the destination.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/dshills/mirrorpad/internal/document"
	"github.com/dshills/mirrorpad/internal/logging"
)

// TempFilePrefix is the prefix used for temporary atomic write files.
const TempFilePrefix = "mirrorpad-tmp-"

// DefaultPerm is the permission given to persisted files.
const DefaultPerm os.FileMode = 0o644

// FileStore persists document content as plain files.
type FileStore struct {
	fs     afero.Fs
	root   string
	perm   os.FileMode
	logger *logging.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithRoot resolves relative resources against root.
func WithRoot(root string) Option {
	return func(s *FileStore) { s.root = root }
}

// WithPerm sets the permission of persisted files.
func WithPerm(perm os.FileMode) Option {
	return func(s *FileStore) {
		if perm != 0 {
			s.perm = perm
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFileStore creates a store on fs.
func NewFileStore(fs afero.Fs, opts ...Option) *FileStore {
	s := &FileStore{
		fs:     fs,
		perm:   DefaultPerm,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("storage")
	return s
}

// NewOsFileStore creates a store on the OS filesystem rooted at root.
func NewOsFileStore(root string, opts ...Option) *FileStore {
	return NewFileStore(afero.NewOsFs(), append([]Option{WithRoot(root)}, opts...)...)
}

// Path returns the filesystem path for r.
func (s *FileStore) Path(r document.Resource) string {
	p := filepath.Clean(string(r))
	if s.root == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.root, p)
}

// Load reads the full content of r.
func (s *FileStore) Load(ctx context.Context, r document.Resource) (string, error) {
	if r.IsZero() {
		return "", ErrEmptyResource
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := s.Path(r)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return "", fmt.Errorf("%w: load %s: %w", ErrIO, path, err)
	}
	s.logger.Debug("loaded", "path", path, "bytes", len(data))
	return string(data), nil
}

// Persist writes text to r, replacing any previous content.
// Missing parent directories are created.
func (s *FileStore) Persist(ctx context.Context, r document.Resource, text string) error {
	if r.IsZero() {
		return ErrEmptyResource
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.Path(r)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: persist %s: %w", ErrIO, path, err)
	}
	if err := s.writeAtomic(path, []byte(text)); err != nil {
		return fmt.Errorf("%w: persist %s: %w", ErrIO, path, err)
	}
	s.logger.Debug("persisted", "path", path, "bytes", len(text))
	return nil
}

// Exists reports whether r names an existing file.
func (s *FileStore) Exists(r document.Resource) (bool, error) {
	if r.IsZero() {
		return false, nil
	}
	return afero.Exists(s.fs, s.Path(r))
}

// writeAtomic writes data to a temp file in the target directory and then
// renames it to path.
func (s *FileStore) writeAtomic(path string, data []byte) error {
	tmp, err := afero.TempFile(s.fs, filepath.Dir(path), TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	name := tmp.Name()
	defer s.fs.Remove(name) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := s.fs.Chmod(name, s.perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := s.fs.Rename(name, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}

package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrExists is returned when the target file name is already taken.
var ErrExists = errors.New("file already exists")

// Store persists uploaded files and returns the public path they are served
// under.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

var _ Store = (*LocalStore)(nil)

// LocalStore writes files into a directory that is served statically.
type LocalStore struct {
	dir        string
	publicPath string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir, publicPath string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	return &LocalStore{
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
	}, nil
}

// Dir returns the directory files are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save creates name exclusively; an existing file is never overwritten. A
// partially written file is removed on failure.
func (s *LocalStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	dst := filepath.Join(s.dir, name)
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%s: %w", name, ErrExists)
		}
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, contextReader{ctx: ctx, r: r}); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("close file: %w", err)
	}

	return path.Join(s.publicPath, name), nil
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

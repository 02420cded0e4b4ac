package images

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Local stores uploads on disk under a static directory. Used in
// development and when no imgur client id is configured.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates a disk-backed store. baseURL is the public path the
// directory is served under, e.g. "/static/upload".
func NewLocal(dir, baseURL string) *Local {
	return &Local{dir: dir, baseURL: baseURL}
}

func (l *Local) Upload(ctx context.Context, r io.Reader, filename string) (*Image, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, err
	}

	name := uuid.NewString() + filepath.Ext(filename)
	path := filepath.Join(l.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return nil, err
	}

	return &Image{URL: l.baseURL + "/" + name, DeleteHandle: name}, nil
}

package fileops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/osdp-go/osdp-go/pkg/engine"
)

// Errors returned by the FileOps implementations in this package.
var (
	ErrNoFile  = errors.New("fileops: no such file")
	ErrNotOpen = errors.New("fileops: no file open")
)

// Dir serves and stores transfer files in a directory. File id N maps to
// "file_N.bin".
type Dir struct {
	dir string

	mu sync.Mutex
	f  *os.File
	id int
}

// NewDir returns a Dir rooted at dir. The directory is created if needed.
func NewDir(dir string) (*Dir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("fileops: create %s: %w", dir, err)
	}
	return &Dir{dir: dir}, nil
}

// Path returns the path of file id.
func (d *Dir) Path(id int) string {
	return filepath.Join(d.dir, fmt.Sprintf("file_%d.bin", id))
}

func (d *Dir) Open(id int, size int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.f != nil {
		_ = d.f.Close()
		d.f = nil
	}

	if size > 0 {
		f, err := os.OpenFile(d.Path(id), os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o644)
		if err != nil {
			return 0, fmt.Errorf("fileops: create file %d: %w", id, err)
		}
		d.f, d.id = f, id
		return size, nil
	}

	f, err := os.Open(d.Path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("%w: %d", ErrNoFile, id)
		}
		return 0, fmt.Errorf("fileops: open file %d: %w", id, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("fileops: stat file %d: %w", id, err)
	}
	d.f, d.id = f, id
	return int(info.Size()), nil
}

func (d *Dir) Read(size int, offset int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.f == nil {
		return nil, ErrNotOpen
	}
	buf := make([]byte, size)
	n, err := d.f.ReadAt(buf, int64(offset))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("fileops: read file %d: %w", d.id, err)
	}
	return buf[:n], nil
}

func (d *Dir) Write(data []byte, offset int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.f == nil {
		return 0, ErrNotOpen
	}
	n, err := d.f.WriteAt(data, int64(offset))
	if err != nil {
		return n, fmt.Errorf("fileops: write file %d: %w", d.id, err)
	}
	return n, nil
}

func (d *Dir) Close(id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.f == nil || d.id != id {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	if err != nil {
		return fmt.Errorf("fileops: close file %d: %w", id, err)
	}
	return nil
}

var _ engine.FileOps = (*Dir)(nil)

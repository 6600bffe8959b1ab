package scratch

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Handle identifies one scratch file owned by a single request.
type Handle struct {
	ID   string
	Path string
}

// Store is a per-request scratch area for uploaded images. Files written
// here are transient: the owning request releases them, and the sweeper
// removes anything a crashed request left behind.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes r to a freshly named scratch file. The name is generated
// here and never derived from client input. A failed write leaves no
// partial file behind.
func (s *Store) Save(r io.Reader, ext string) (Handle, error) {
	if ext == "" {
		ext = "jpg"
	}
	id := uuid.NewString()
	path := filepath.Join(s.dir, fmt.Sprintf("%s.%s", id, ext))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Handle{}, fmt.Errorf("create scratch file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return Handle{}, fmt.Errorf("write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return Handle{}, fmt.Errorf("close scratch file: %w", err)
	}

	return Handle{ID: id, Path: path}, nil
}

// Release removes the backing file. It is idempotent: releasing an already
// removed handle is not an error.
func (s *Store) Release(h Handle) error {
	if h.Path == "" {
		return nil
	}
	if err := os.Remove(h.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove scratch file: %w", err)
	}
	return nil
}

// Sweep deletes scratch files older than maxAge and reports how many were
// removed. Live requests hold files for seconds, so a generous maxAge only
// catches orphans from crashed processes.
func (s *Store) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read scratch dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

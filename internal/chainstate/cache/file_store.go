package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileStore keeps the state in a single file. Writes go to a temporary file
// in the same directory and are published with a rename.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore at path, creating its directory.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("state file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o775); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Load reads the state file and its modification time.
func (s *FileStore) Load(_ context.Context) (Entry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("open state file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return Entry{}, fmt.Errorf("stat state file: %w", err)
	}
	payload, err := io.ReadAll(f)
	if err != nil {
		return Entry{}, fmt.Errorf("read state file: %w", err)
	}
	return Entry{Payload: payload, WrittenAt: info.ModTime()}, nil
}

// Save atomically replaces the state file with payload.
func (s *FileStore) Save(ctx context.Context, payload []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp state file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp state file: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("publish state file: %w", err)
	}
	return nil
}

// WrittenAt returns the state file's modification time.
func (s *FileStore) WrittenAt(_ context.Context) (time.Time, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, fmt.Errorf("stat state file: %w", err)
	}
	return info.ModTime(), nil
}

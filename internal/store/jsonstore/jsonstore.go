package jsonstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/Makepad-fr/tada/internal/store"
)

// File-backed storage. One file per key, value written verbatim, so the task
// list lives in a human-readable tasks.json next to the other data files.
// Writes go to a temp file and are renamed into place under an advisory lock.

const (
	fileExt        = ".json"
	lockRetryDelay = 25 * time.Millisecond
)

// Store implements store.Store on a directory of files.
type Store struct {
	dir string
}

var _ store.Store = (*Store)(nil)

// New returns a store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the file backing key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := store.ValidateKey(key); err != nil {
		return "", false, err
	}
	p := s.Path(key)

	if _, err := os.Stat(s.dir); errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}

	lock := flock.New(p + ".lock")
	if _, err := lock.TryRLockContext(ctx, lockRetryDelay); err != nil {
		return "", false, fmt.Errorf("lock %s: %w", key, err)
	}
	defer func() { _ = lock.Unlock() }()

	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read file: %w", err)
	}
	return string(b), true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	p := s.Path(key)

	lock := flock.New(p + ".lock")
	if _, err := lock.TryLockContext(ctx, lockRetryDelay); err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	defer func() { _ = lock.Unlock() }()

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

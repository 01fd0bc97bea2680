package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront/internal/cart"
)

// FileStore persists one JSON snapshot per session key as a file in a
// directory. Writes go through a temp file and rename, so a crash mid-write
// leaves the previous snapshot intact rather than a torn one.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the directory if needed and returns a FileStore over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create snapshot dir")
	}
	return &FileStore{dir: dir}, nil
}

// Load reads the snapshot for key. A missing file yields an empty cart and
// no error; an unreadable or invalid snapshot yields ErrCorrupt.
func (s *FileStore) Load(_ context.Context, key string) (cart.Cart, error) {
	path, err := s.path(key)
	if err != nil {
		return cart.Cart{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cart.Cart{}, nil
		}
		return cart.Cart{}, errors.Wrap(err, "read snapshot")
	}

	return decodeCart(data)
}

// Save writes the snapshot for key atomically.
func (s *FileStore) Save(_ context.Context, key string, c cart.Cart) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp snapshot")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(encodeCart(c)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "write snapshot")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "close snapshot")
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "replace snapshot")
	}
	return nil
}

// path maps a session key to a file path, rejecting keys that would escape
// the snapshot directory.
func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", errors.Errorf("invalid session key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

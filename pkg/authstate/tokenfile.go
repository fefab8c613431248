package authstate

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileTokenStore persists the bearer token to a single file on disk.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore returns a store writing to the given path. The parent
// directory is created on the first Save.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load reads the persisted token. A missing file means no token and is
// not an error.
func (f *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Save writes the token with owner-only permissions.
func (f *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, []byte(token), 0o600)
}

// Clear removes the persisted token. Clearing an absent token is a no-op.
func (f *FileTokenStore) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

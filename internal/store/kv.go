package store

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// Keys of the two persisted entries.
const (
	EventsKey = "events.json"
	ThemeKey  = "theme"
)

// ErrNotExist is returned by KV.Get for a missing key.
var ErrNotExist = errors.New("key does not exist")

// KV is durable key/value storage.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// FileKV stores each key as a file in a directory.
type FileKV struct {
	fs  afero.Fs
	dir string
}

// NewFileKV returns a FileKV rooted at dir on fsys.
func NewFileKV(fsys afero.Fs, dir string) *FileKV {
	return &FileKV{fs: fsys, dir: dir}
}

// Dir is the directory holding the entries.
func (kv *FileKV) Dir() string {
	return kv.dir
}

// Path is the file backing key.
func (kv *FileKV) Path(key string) string {
	return filepath.Join(kv.dir, key)
}

func (kv *FileKV) Get(key string) ([]byte, error) {
	data, err := afero.ReadFile(kv.fs, kv.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set writes value atomically: a temp file in the same directory is synced,
// then renamed over the target.
func (kv *FileKV) Set(key string, value []byte) error {
	if err := kv.fs.MkdirAll(kv.dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", kv.dir, err)
	}

	tmp, err := afero.TempFile(kv.fs, kv.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	tmpName := tmp.Name()
	defer kv.fs.Remove(tmpName)

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := kv.fs.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod %s: %w", key, err)
	}
	if err := kv.fs.Rename(tmpName, kv.Path(key)); err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

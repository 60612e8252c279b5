// Package kv is a flat string key-value store kept in a single JSON file.
//
// It plays the role browser local storage plays for the todo list: every
// value is an opaque string, and the last write to a key wins. Writers
// serialize on a flock and replace the file atomically, so readers never
// observe a torn file.
package kv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/natefinch/atomic"
)

// FileName is the store file inside the data directory.
const FileName = "store.json"

const (
	dirPerms  = 0o750
	filePerms = 0o600
)

// Store is a handle on a store file. It holds no open resources.
type Store struct {
	path     string
	lockPath string
}

// Open returns a store rooted at dir, creating dir if needed.
// The store file itself is created on first write.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("kv: dir is empty")
	}

	if err := os.MkdirAll(dir, dirPerms); err != nil {
		return nil, fmt.Errorf("kv: create dir: %w", err)
	}

	path := filepath.Join(dir, FileName)

	return &Store{path: path, lockPath: path + ".lock"}, nil
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value for key and whether it exists.
func (s *Store) Get(key string) (string, bool, error) {
	data, err := s.read()
	if err != nil {
		return "", false, err
	}

	v, ok := data[key]

	return v, ok, nil
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() ([]string, error) {
	data, err := s.read()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys, nil
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	if key == "" {
		return ErrKeyEmpty
	}

	return s.Update(func(data map[string]string) error {
		data[key] = value

		return nil
	})
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	return s.Update(func(data map[string]string) error {
		delete(data, key)

		return nil
	})
}

// Update runs fn on the current contents while holding the store lock and
// writes the result back. If fn returns an error nothing is written.
func (s *Store) Update(fn func(data map[string]string) error) error {
	lock, err := acquireLock(s.lockPath, LockTimeout)
	if err != nil {
		return err
	}

	defer lock.release()

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) read() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}

		return nil, fmt.Errorf("kv: read: %w", err)
	}

	data := map[string]string{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return data, nil
	}

	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}

	return data, nil
}

func (s *Store) write(data map[string]string) error {
	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("kv: encode: %w", err)
	}

	buf = append(buf, '\n')

	if err := atomic.WriteFile(s.path, bytes.NewReader(buf)); err != nil {
		return fmt.Errorf("kv: write: %w", err)
	}

	// atomic.WriteFile leaves new files with the temp file's mode.
	if err := os.Chmod(s.path, filePerms); err != nil {
		return fmt.Errorf("kv: chmod: %w", err)
	}

	return nil
}

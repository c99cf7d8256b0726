// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package file stores every key as one file in a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	gerrors "github.com/tochemey/snapkeep/errors"
	"github.com/tochemey/snapkeep/internal/validation"
	"github.com/tochemey/snapkeep/storage"
)

const (
	dirMode   os.FileMode = 0o755
	fileMode  os.FileMode = 0o600
	extension             = ".snapshot"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Storage is a directory backed storage.Storage. Values must be text.
//
// Writes go to a temporary file that is renamed over the previous value, so a
// reader never observes a partially written snapshot.
type Storage struct {
	mu  sync.RWMutex
	dir string
}

var _ storage.Storage = (*Storage)(nil)

// New creates the directory when missing and returns a Storage rooted at it.
func New(dir string) (*Storage, error) {
	if err := validation.NewEmptyStringValidator("dir", dir).Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("storage/file: failed to create dir %s: %w", dir, err)
	}
	return &Storage{dir: dir}, nil
}

// Dir returns the root directory.
func (s *Storage) Dir() string {
	return s.dir
}

// Get implements storage.Storage.
func (s *Storage) Get(ctx context.Context, key string) (any, error) {
	path, err := s.path(ctx, key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Set implements storage.Storage.
func (s *Storage) Set(ctx context.Context, key string, value any) error {
	path, err := s.path(ctx, key)
	if err != nil {
		return err
	}

	bytea, err := storage.Bytes(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(bytea); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// Delete removes the value stored under key.
func (s *Storage) Delete(ctx context.Context, key string) error {
	path, err := s.path(ctx, key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Keys returns the stored keys.
func (s *Storage) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, extension) || strings.HasPrefix(name, ".") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, extension))
	}
	return keys, nil
}

func (s *Storage) path(ctx context.Context, key string) (string, error) {
	if err := storage.ContextErr(ctx); err != nil {
		return "", err
	}
	if err := validation.NewPatternValidator("key", keyPattern, key, gerrors.NewErrInvalidKey(key)).Validate(); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key+extension), nil
}

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

// Package memory provides in-process storage engines.
package memory

import (
	"context"

	"github.com/tochemey/snapkeep/internal/xsync"
	"github.com/tochemey/snapkeep/storage"
	"github.com/tochemey/snapkeep/storage/localstorage"
)

// Storage is an in-memory storage.Storage.
//
// Unlike byte oriented engines it keeps values as given, so it accepts the
// structured envelopes written by persisters configured without JSON encoding.
type Storage struct {
	items *xsync.Map[string, any]
}

var _ storage.Storage = (*Storage)(nil)

// New creates an empty Storage.
func New() *Storage {
	return &Storage{items: xsync.NewMap[string, any]()}
}

// Get returns the value stored under key, or nil when there is none.
func (s *Storage) Get(ctx context.Context, key string) (any, error) {
	if err := storage.ContextErr(ctx); err != nil {
		return nil, err
	}
	value, _ := s.items.Get(key)
	return value, nil
}

// Set stores value under key. Byte slices are copied.
func (s *Storage) Set(ctx context.Context, key string, value any) error {
	if err := storage.ContextErr(ctx); err != nil {
		return err
	}
	if bytea, ok := value.([]byte); ok {
		value = append([]byte(nil), bytea...)
	}
	s.items.Set(key, value)
	return nil
}

// Delete removes the value stored under key.
func (s *Storage) Delete(key string) {
	s.items.Delete(key)
}

// Keys returns the stored keys in ascending order.
func (s *Storage) Keys() []string {
	return xsync.SortedKeys(s.items)
}

// LocalStorage is an in-memory localstorage.SyncStorage holding text values,
// behaving like a browser localStorage.
type LocalStorage struct {
	items *xsync.Map[string, string]
}

var _ localstorage.SyncStorage = (*LocalStorage)(nil)

// NewLocalStorage creates an empty LocalStorage.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{items: xsync.NewMap[string, string]()}
}

// GetItem returns the value stored under key and whether it exists.
func (l *LocalStorage) GetItem(key string) (string, bool) {
	return l.items.Get(key)
}

// SetItem stores value under key.
func (l *LocalStorage) SetItem(key, value string) error {
	l.items.Set(key, value)
	return nil
}

// RemoveItem removes the value stored under key.
func (l *LocalStorage) RemoveItem(key string) {
	l.items.Delete(key)
}

// Len returns the number of stored items.
func (l *LocalStorage) Len() int {
	return l.items.Len()
}

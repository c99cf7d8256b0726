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

// Package localstorage adapts a synchronous, browser-style local storage to
// the storage.Storage contract and models the host environment that may
// provide one.
package localstorage

import (
	"context"

	"github.com/tochemey/snapkeep/storage"
)

// SyncStorage is a synchronous text key-value store in the shape of the
// browser localStorage API.
type SyncStorage interface {
	// GetItem returns the value for key and whether it exists.
	GetItem(key string) (string, bool)
	// SetItem stores value under key.
	SetItem(key, value string) error
}

// Adapter wraps a SyncStorage into a storage.Storage.
//
// Each call is forwarded as is: there is no retry and errors raised by the
// underlying store, such as quota failures, are returned to the caller.
type Adapter struct {
	underlying SyncStorage
}

var _ storage.Storage = (*Adapter)(nil)

// NewAdapter creates an Adapter over the given SyncStorage.
func NewAdapter(underlying SyncStorage) *Adapter {
	return &Adapter{underlying: underlying}
}

// Get returns the text stored under key, or nil when there is none.
func (a *Adapter) Get(ctx context.Context, key string) (any, error) {
	if err := storage.ContextErr(ctx); err != nil {
		return nil, err
	}
	value, ok := a.underlying.GetItem(key)
	if !ok {
		return nil, nil
	}
	return value, nil
}

// Set stores a text value under key.
// Only string and []byte values are accepted.
func (a *Adapter) Set(ctx context.Context, key string, value any) error {
	if err := storage.ContextErr(ctx); err != nil {
		return err
	}
	bytea, err := storage.Bytes(value)
	if err != nil {
		return err
	}
	return a.underlying.SetItem(key, string(bytea))
}

// Underlying returns the wrapped SyncStorage.
func (a *Adapter) Underlying() SyncStorage {
	return a.underlying
}

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

// Package storage defines the key-value contract persisters write snapshots to.
//
// Implementations live in the sub packages:
//
//   - localstorage: adapter over a synchronous, browser-style local storage
//   - memory: in-process maps, accepting structured values
//   - file: one file per key in a directory
//   - boltdb: a go.etcd.io/bbolt bucket
//   - redis: a Redis server through go-redis
//   - nats: a NATS JetStream KeyValue bucket
//   - etcd: an etcd cluster through clientv3
//   - compress: a decorator compressing values of another Storage
package storage

import (
	"context"

	gerrors "github.com/tochemey/snapkeep/errors"
)

// Storage is the key-value engine a persister reads from and writes to.
//
// Get returns (nil, nil) when the key has no value. Values are either text
// (string or []byte) or, for engines that support it, structured values that
// are stored as given. Implementations must be safe for concurrent use:
// persisters may issue overlapping writes for the same key, and the last
// completed write wins.
type Storage interface {
	// Get returns the value stored under key, or nil when there is none.
	Get(ctx context.Context, key string) (any, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value any) error
}

// Bytes returns the byte form of a text value.
// It returns ErrUnsupportedValue for anything other than string or []byte.
func Bytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, gerrors.NewErrUnsupportedValue(value)
	}
}

// ContextErr returns the context error, if any, before a storage call proceeds.
func ContextErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}

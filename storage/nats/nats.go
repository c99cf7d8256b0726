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

// Package nats stores snapshots in a NATS JetStream KeyValue bucket.
package nats

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/nats-io/nats.go"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/snapkeep/errors"
	"github.com/tochemey/snapkeep/storage"
)

var (
	bucketPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	keyPattern    = regexp.MustCompile(`^[-/_=.a-zA-Z0-9]+$`)
)

// Storage is a JetStream KeyValue backed storage.Storage. Values must be text.
type Storage struct {
	conn   *nats.Conn
	kv     nats.KeyValue
	closed *atomic.Bool
}

var _ storage.Storage = (*Storage)(nil)

// Open connects to the server and binds to the bucket, creating it when missing.
func Open(config *Config) (*Storage, error) {
	if config == nil {
		return nil, errors.New("storage/nats: config is nil")
	}

	config.Sanitize()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	conn, err := nats.Connect(config.URL, nats.Timeout(config.ConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("storage/nats: connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage/nats: jetstream: %w", err)
	}

	kv, err := js.KeyValue(config.Bucket)
	if err != nil {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:  config.Bucket,
			History: config.History,
			TTL:     config.TTL,
		})
		if err != nil {
			// another process may have created the bucket meanwhile
			if errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
				kv, err = js.KeyValue(config.Bucket)
			}
			if err != nil {
				conn.Close()
				return nil, fmt.Errorf("storage/nats: create bucket: %w", err)
			}
		}
	}

	return &Storage{conn: conn, kv: kv, closed: atomic.NewBool(false)}, nil
}

// Get implements storage.Storage.
func (s *Storage) Get(ctx context.Context, key string) (any, error) {
	if err := s.check(ctx, key); err != nil {
		return nil, err
	}
	entry, err := s.kv.Get(key)
	if err != nil {
		if errors.Is(err, nats.ErrKeyNotFound) || errors.Is(err, nats.ErrKeyDeleted) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage/nats: get: %w", err)
	}
	return entry.Value(), nil
}

// Set implements storage.Storage.
func (s *Storage) Set(ctx context.Context, key string, value any) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}
	bytea, err := storage.Bytes(value)
	if err != nil {
		return err
	}
	if _, err := s.kv.Put(key, bytea); err != nil {
		return fmt.Errorf("storage/nats: put: %w", err)
	}
	return nil
}

// Delete removes the value stored under key.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}
	return s.kv.Delete(key)
}

// Close releases the NATS connection. Close is idempotent.
func (s *Storage) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.conn.Close()
	return nil
}

func (s *Storage) check(ctx context.Context, key string) error {
	if s.closed.Load() {
		return gerrors.ErrStorageClosed
	}
	if !keyPattern.MatchString(key) {
		return gerrors.NewErrInvalidKey(key)
	}
	return storage.ContextErr(ctx)
}

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

// Package boltdb stores snapshots in a go.etcd.io/bbolt database file.
package boltdb

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	bbolt "go.etcd.io/bbolt"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/snapkeep/errors"
	"github.com/tochemey/snapkeep/internal/validation"
	"github.com/tochemey/snapkeep/storage"
)

const (
	fileMode      os.FileMode = 0o600
	defaultBucket             = "snapkeep"
)

// Config holds the bolt database settings.
type Config struct {
	// Path is the database file. It is created when missing.
	Path string
	// Bucket holds the snapshots. Defaults to snapkeep.
	Bucket string
	// Timeout bounds waiting for the file lock. Defaults to 5s.
	Timeout time.Duration
	// NoSync skips fsync after every commit.
	NoSync bool
}

var _ validation.Validator = (*Config)(nil)

// Sanitize sets defaults for empty fields.
func (c *Config) Sanitize() {
	if strings.TrimSpace(c.Bucket) == "" {
		c.Bucket = defaultBucket
	}
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Second
	}
}

// Validate implements validation.Validator.
func (c *Config) Validate() error {
	return validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("Path", c.Path)).
		AddAssertion(c.Timeout > 0, "Timeout must be greater than 0").
		Validate()
}

// Storage is a bolt backed storage.Storage. Values must be text.
type Storage struct {
	db     *bbolt.DB
	bucket []byte
	closed *atomic.Bool
}

var _ storage.Storage = (*Storage)(nil)

// Open opens, or creates, the database described by config.
func Open(config *Config) (*Storage, error) {
	if config == nil {
		return nil, fmt.Errorf("storage/boltdb: config is nil")
	}

	config.Sanitize()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(config.Path, fileMode, &bbolt.Options{
		Timeout:    config.Timeout,
		NoGrowSync: true,
		NoSync:     config.NoSync,
	})
	if err != nil {
		return nil, fmt.Errorf("storage/boltdb: opening %s: %w", config.Path, err)
	}

	bucket := []byte(config.Bucket)
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(bucket)
		return e
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage/boltdb: initializing bucket: %w", err)
	}

	return &Storage{db: db, bucket: bucket, closed: atomic.NewBool(false)}, nil
}

// Get implements storage.Storage. The returned bytes are a copy.
func (s *Storage) Get(ctx context.Context, key string) (any, error) {
	if err := s.check(ctx, key); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(s.bucket)
		if bucket == nil {
			return fmt.Errorf("storage/boltdb: bucket %q missing", s.bucket)
		}
		if raw := bucket.Get([]byte(key)); raw != nil {
			value = append([]byte(nil), raw...)
		}
		return nil
	})
	if err != nil || value == nil {
		return nil, err
	}
	return value, nil
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

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(s.bucket)
		if bucket == nil {
			return fmt.Errorf("storage/boltdb: bucket %q missing", s.bucket)
		}
		return bucket.Put([]byte(key), bytea)
	})
}

// Delete removes the value stored under key.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(s.bucket)
		if bucket == nil {
			return fmt.Errorf("storage/boltdb: bucket %q missing", s.bucket)
		}
		return bucket.Delete([]byte(key))
	})
}

// Close releases the database file. Close is idempotent.
func (s *Storage) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) check(ctx context.Context, key string) error {
	if s.closed.Load() {
		return gerrors.ErrStorageClosed
	}
	if key == "" {
		return gerrors.NewErrInvalidKey(key)
	}
	return storage.ContextErr(ctx)
}

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

// Package etcd stores snapshots in an etcd cluster.
package etcd

import (
	"context"
	"errors"
	"fmt"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/namespace"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/snapkeep/errors"
	"github.com/tochemey/snapkeep/storage"
)

// Storage is an etcd backed storage.Storage. Values must be text.
type Storage struct {
	config *Config
	client *clientv3.Client
	kv     clientv3.KV
	closed *atomic.Bool
}

var _ storage.Storage = (*Storage)(nil)

// Open connects to the cluster and checks the first endpoint is reachable.
func Open(config *Config) (*Storage, error) {
	if config == nil {
		return nil, errors.New("storage/etcd: config is nil")
	}

	config.Sanitize()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   config.Endpoints,
		DialTimeout: config.DialTimeout,
		TLS:         config.TLS,
		Username:    config.Username,
		Password:    config.Password,
		Context:     config.Context,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(config.Context, config.DialTimeout)
	defer cancel()

	if _, err = client.Status(ctx, config.Endpoints[0]); err != nil {
		if cerr := client.Close(); cerr != nil {
			return nil, errors.Join(err, fmt.Errorf("failed to close etcd client: %w", cerr))
		}
		return nil, fmt.Errorf("storage/etcd: failed to connect to etcd: %w", err)
	}

	return &Storage{
		config: config,
		client: client,
		kv:     namespace.NewKV(client.KV, config.Namespace),
		closed: atomic.NewBool(false),
	}, nil
}

// Get implements storage.Storage.
func (s *Storage) Get(ctx context.Context, key string) (any, error) {
	if err := s.check(key); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	resp, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("storage/etcd: get: %w", err)
	}
	if len(resp.Kvs) == 0 {
		return nil, nil
	}
	return resp.Kvs[0].Value, nil
}

// Set implements storage.Storage.
func (s *Storage) Set(ctx context.Context, key string, value any) error {
	if err := s.check(key); err != nil {
		return err
	}

	bytea, err := storage.Bytes(value)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	if _, err := s.kv.Put(ctx, key, string(bytea)); err != nil {
		return fmt.Errorf("storage/etcd: put: %w", err)
	}
	return nil
}

// Delete removes the value stored under key.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.check(key); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()
	_, err := s.kv.Delete(ctx, key)
	return err
}

// Close releases the etcd client. Close is idempotent.
func (s *Storage) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.client.Close()
}

func (s *Storage) check(key string) error {
	if s.closed.Load() {
		return gerrors.ErrStorageClosed
	}
	if key == "" {
		return gerrors.NewErrInvalidKey(key)
	}
	return nil
}

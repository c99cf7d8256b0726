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

// Package redis stores snapshots as Redis string values.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	gerrors "github.com/tochemey/snapkeep/errors"
	"github.com/tochemey/snapkeep/internal/validation"
	"github.com/tochemey/snapkeep/storage"
)

const defaultPrefix = "snapkeep:"

// Config holds the Redis connection settings.
type Config struct {
	// Addr is the host:port of the Redis server.
	Addr string
	// Username and Password authenticate the connection when set.
	Username string
	Password string
	// DB selects the database.
	DB int
	// Prefix is prepended to every key. Defaults to snapkeep:.
	Prefix string
	// TTL expires the stored values. Zero keeps them forever.
	TTL time.Duration
	// DialTimeout bounds establishing the connection. Defaults to 5s.
	DialTimeout time.Duration
}

var _ validation.Validator = (*Config)(nil)

// Sanitize sets defaults for empty fields.
func (c *Config) Sanitize() {
	if strings.TrimSpace(c.Prefix) == "" {
		c.Prefix = defaultPrefix
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
}

// Validate implements validation.Validator.
func (c *Config) Validate() error {
	return validation.New(validation.FailFast()).
		AddAssertion(strings.TrimSpace(c.Addr) != "", "Addr must not be empty").
		AddAssertion(c.DB >= 0, "DB must not be negative").
		AddAssertion(c.TTL >= 0, "TTL must not be negative").
		AddAssertion(c.DialTimeout > 0, "DialTimeout must be greater than 0").
		Validate()
}

// Storage is a Redis backed storage.Storage. Values must be text.
type Storage struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
	owned  bool
}

var _ storage.Storage = (*Storage)(nil)

// Open connects to the server described by config and pings it.
func Open(ctx context.Context, config *Config) (*Storage, error) {
	if config == nil {
		return nil, fmt.Errorf("storage/redis: config is nil")
	}

	config.Sanitize()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:        config.Addr,
		Username:    config.Username,
		Password:    config.Password,
		DB:          config.DB,
		DialTimeout: config.DialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("storage/redis: ping %s: %w", config.Addr, err)
	}

	return &Storage{client: client, prefix: config.Prefix, ttl: config.TTL, owned: true}, nil
}

// NewWithClient wraps an existing client. Close leaves the client open.
func NewWithClient(client goredis.UniversalClient, prefix string, ttl time.Duration) *Storage {
	return &Storage{client: client, prefix: prefix, ttl: ttl}
}

// Get implements storage.Storage.
func (s *Storage) Get(ctx context.Context, key string) (any, error) {
	if key == "" {
		return nil, gerrors.NewErrInvalidKey(key)
	}
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage/redis: get: %w", err)
	}
	return value, nil
}

// Set implements storage.Storage.
func (s *Storage) Set(ctx context.Context, key string, value any) error {
	if key == "" {
		return gerrors.NewErrInvalidKey(key)
	}
	bytea, err := storage.Bytes(value)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+key, bytea, s.ttl).Err(); err != nil {
		return fmt.Errorf("storage/redis: set: %w", err)
	}
	return nil
}

// Delete removes the value stored under key.
func (s *Storage) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Close closes the connection opened by Open.
func (s *Storage) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

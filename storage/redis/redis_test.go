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

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	gerrors "github.com/tochemey/snapkeep/errors"
)

func startRedis(t *testing.T) string {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return endpoint
}

func TestStorage(t *testing.T) {
	addr := startRedis(t)
	ctx := context.Background()

	engine, err := Open(ctx, &Config{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })

	t.Run("With missing key", func(t *testing.T) {
		value, err := engine.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, value)
	})
	t.Run("With set and get", func(t *testing.T) {
		require.NoError(t, engine.Set(ctx, "settings", `{"version":1}`))
		value, err := engine.Get(ctx, "settings")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"version":1}`), value)

		require.NoError(t, engine.Delete(ctx, "settings"))
		value, err = engine.Get(ctx, "settings")
		require.NoError(t, err)
		assert.Nil(t, value)
	})
	t.Run("With prefixed keys", func(t *testing.T) {
		require.NoError(t, engine.Set(ctx, "prefixed", "x"))
		raw, err := engine.client.Get(ctx, defaultPrefix+"prefixed").Result()
		require.NoError(t, err)
		assert.Equal(t, "x", raw)
	})
	t.Run("With ttl", func(t *testing.T) {
		expiring := NewWithClient(engine.client, "ttl:", time.Minute)
		require.NoError(t, expiring.Set(ctx, "settings", "x"))
		ttl, err := engine.client.TTL(ctx, "ttl:settings").Result()
		require.NoError(t, err)
		assert.Positive(t, ttl)
		require.NoError(t, expiring.Close())
	})
	t.Run("With unsupported values", func(t *testing.T) {
		assert.ErrorIs(t, engine.Set(ctx, "settings", struct{}{}), gerrors.ErrUnsupportedValue)
		assert.ErrorIs(t, engine.Set(ctx, "", "x"), gerrors.ErrInvalidKey)
	})
}

func TestConfig(t *testing.T) {
	t.Run("With defaults", func(t *testing.T) {
		config := &Config{Addr: "127.0.0.1:6379"}
		config.Sanitize()
		require.NoError(t, config.Validate())
		assert.Equal(t, defaultPrefix, config.Prefix)
	})
	t.Run("With invalid config", func(t *testing.T) {
		_, err := Open(context.Background(), &Config{})
		require.Error(t, err)
		_, err = Open(context.Background(), nil)
		require.Error(t, err)
		_, err = Open(context.Background(), &Config{Addr: "127.0.0.1:6379", DB: -1})
		require.Error(t, err)
	})
}

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

package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/snapkeep/errors"
)

func TestStorage(t *testing.T) {
	t.Run("With missing key", func(t *testing.T) {
		engine, err := New(t.TempDir())
		require.NoError(t, err)

		value, err := engine.Get(context.Background(), "settings")
		require.NoError(t, err)
		assert.Nil(t, value)
	})
	t.Run("With set, get and delete", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "snapshots")
		engine, err := New(dir)
		require.NoError(t, err)
		ctx := context.Background()

		require.NoError(t, engine.Set(ctx, "settings", `{"version":1}`))
		value, err := engine.Get(ctx, "settings")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"version":1}`), value)

		info, err := os.Stat(filepath.Join(dir, "settings.snapshot"))
		require.NoError(t, err)
		assert.Equal(t, fileMode, info.Mode().Perm())

		keys, err := engine.Keys()
		require.NoError(t, err)
		assert.Equal(t, []string{"settings"}, keys)

		require.NoError(t, engine.Delete(ctx, "settings"))
		require.NoError(t, engine.Delete(ctx, "settings"))
		value, err = engine.Get(ctx, "settings")
		require.NoError(t, err)
		assert.Nil(t, value)
	})
	t.Run("With concurrent writers", func(t *testing.T) {
		engine, err := New(t.TempDir())
		require.NoError(t, err)

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, engine.Set(context.Background(), "settings", "same"))
			}()
		}
		wg.Wait()

		value, err := engine.Get(context.Background(), "settings")
		require.NoError(t, err)
		assert.Equal(t, []byte("same"), value)

		entries, err := os.ReadDir(engine.Dir())
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
	t.Run("With invalid keys", func(t *testing.T) {
		engine, err := New(t.TempDir())
		require.NoError(t, err)
		for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
			err := engine.Set(context.Background(), key, "x")
			assert.ErrorIs(t, err, gerrors.ErrInvalidKey, key)
		}
	})
	t.Run("With structured value", func(t *testing.T) {
		engine, err := New(t.TempDir())
		require.NoError(t, err)
		err = engine.Set(context.Background(), "settings", 42)
		assert.ErrorIs(t, err, gerrors.ErrUnsupportedValue)
	})
	t.Run("With empty dir", func(t *testing.T) {
		_, err := New("")
		assert.Error(t, err)
	})
}

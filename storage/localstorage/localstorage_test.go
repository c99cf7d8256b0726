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

package localstorage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/snapkeep/errors"
)

type fakeLocalStorage struct {
	items  map[string]string
	setErr error
}

func (f *fakeLocalStorage) GetItem(key string) (string, bool) {
	v, ok := f.items[key]
	return v, ok
}

func (f *fakeLocalStorage) SetItem(key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.items[key] = value
	return nil
}

func TestAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("With round trip", func(t *testing.T) {
		local := &fakeLocalStorage{items: map[string]string{}}
		adapter := NewAdapter(local)

		value, err := adapter.Get(ctx, "counter")
		require.NoError(t, err)
		assert.Nil(t, value)

		require.NoError(t, adapter.Set(ctx, "counter", `{"version":1}`))
		require.NoError(t, adapter.Set(ctx, "bytes", []byte("raw")))

		value, err = adapter.Get(ctx, "counter")
		require.NoError(t, err)
		assert.Equal(t, `{"version":1}`, value)
		assert.Equal(t, "raw", local.items["bytes"])
		assert.Same(t, local, adapter.Underlying())
	})
	t.Run("With structured value rejected", func(t *testing.T) {
		adapter := NewAdapter(&fakeLocalStorage{items: map[string]string{}})
		err := adapter.Set(ctx, "counter", map[string]any{"a": 1})
		assert.ErrorIs(t, err, gerrors.ErrUnsupportedValue)
	})
	t.Run("With underlying failure propagated", func(t *testing.T) {
		quota := errors.New("quota exceeded")
		adapter := NewAdapter(&fakeLocalStorage{items: map[string]string{}, setErr: quota})
		assert.ErrorIs(t, adapter.Set(ctx, "counter", "x"), quota)
	})
	t.Run("With canceled context", func(t *testing.T) {
		adapter := NewAdapter(&fakeLocalStorage{items: map[string]string{"k": "v"}})
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := adapter.Get(canceled, "k")
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, adapter.Set(canceled, "k", "v"), context.Canceled)
	})
}

func TestEnvironment(t *testing.T) {
	_, ok := EmptyEnvironment.LocalStorage()
	assert.False(t, ok)

	_, ok = NewEnvironment(nil).LocalStorage()
	assert.False(t, ok)

	local := &fakeLocalStorage{items: map[string]string{}}
	got, ok := NewEnvironment(local).LocalStorage()
	require.True(t, ok)
	assert.Same(t, local, got)
}

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

package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	t.Run("With Clone", func(t *testing.T) {
		original := Snapshot{ModelTypeKey: "app/Counter", "count": 1.0}
		clone := original.Clone()
		delete(clone, "count")
		assert.True(t, original.Has("count"))
		assert.False(t, clone.Has("count"))
		assert.Equal(t, Snapshot{}, Snapshot(nil).Clone())
	})
	t.Run("With Keys sorted", func(t *testing.T) {
		s := Snapshot{"b": 1, "a": 2, ModelIDKey: "id"}
		assert.Equal(t, []string{"$modelId", "a", "b"}, s.Keys())
	})
	t.Run("With identity accessors", func(t *testing.T) {
		s := Snapshot{ModelTypeKey: "app/Counter", ModelIDKey: "abc"}
		assert.Equal(t, "app/Counter", s.ModelType())
		assert.Equal(t, "abc", s.ModelID())
		assert.Empty(t, Snapshot{ModelIDKey: 12}.ModelID())
	})
	t.Run("With Merge", func(t *testing.T) {
		defaults := Snapshot{"a": 1, "b": 2}
		merged := defaults.Merge(Snapshot{"b": 3, "c": 4})
		assert.Equal(t, Snapshot{"a": 1, "b": 3, "c": 4}, merged)
		assert.Equal(t, Snapshot{"a": 1, "b": 2}, defaults)
	})
	t.Run("With reserved keys", func(t *testing.T) {
		assert.True(t, IsReserved(ModelTypeKey))
		assert.True(t, IsReserved(ModelIDKey))
		assert.False(t, IsReserved("version"))
	})
	t.Run("With FromMap", func(t *testing.T) {
		s, ok := FromMap(map[string]any{"a": 1})
		require.True(t, ok)
		assert.Equal(t, Snapshot{"a": 1}, s)

		s, ok = FromMap(Snapshot{"a": 2})
		require.True(t, ok)
		assert.Equal(t, Snapshot{"a": 2}, s)

		_, ok = FromMap([]any{1})
		assert.False(t, ok)
		_, ok = FromMap(nil)
		assert.False(t, ok)
	})
}

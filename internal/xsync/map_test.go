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

package xsync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	m := NewMap[string, int]()
	m.Set("b", 2)
	m.Set("a", 1)

	val, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, val)

	_, ok = m.Get("c")
	assert.False(t, ok)

	assert.Equal(t, 3, m.GetOrSet("c", func() int { return 3 }))
	assert.Equal(t, 3, m.GetOrSet("c", func() int { return 30 }))
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(m))
	assert.ElementsMatch(t, []int{1, 2, 3}, m.Values())

	sum := 0
	m.Range(func(_ string, v int) { sum += v })
	assert.Equal(t, 6, sum)

	m.Delete("a")
	assert.Equal(t, 2, m.Len())

	m.Reset()
	assert.Zero(t, m.Len())
}

func TestMapConcurrentAccess(t *testing.T) {
	m := NewMap[int, int]()
	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Set(i, i)
			_, _ = m.Get(i)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 100, m.Len())
}

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

package persist

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/snapkeep/snapshot"
)

// filter drops snapshot keys before they are written.
// A nil set means the list was not configured.
type filter struct {
	whitelist mapset.Set[string]
	blacklist mapset.Set[string]
}

// allows reports whether key survives the filter.
func (f *filter) allows(key string) bool {
	if snapshot.IsReserved(key) {
		return true
	}
	if f.whitelist != nil && !f.whitelist.Contains(key) {
		return false
	}
	if f.blacklist != nil && f.blacklist.Contains(key) {
		return false
	}
	return true
}

// apply returns a filtered copy of s. s itself is left untouched.
func (f *filter) apply(s snapshot.Snapshot) snapshot.Snapshot {
	out := s.Clone()
	if f.whitelist == nil && f.blacklist == nil {
		return out
	}
	for key := range out {
		if !f.allows(key) {
			delete(out, key)
		}
	}
	return out
}

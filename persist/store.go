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
	"github.com/tochemey/snapkeep/snapshot"
)

// Store is the observable store a Persister saves and restores.
//
// The model package provides an implementation; any store exposing these
// operations can be persisted.
type Store interface {
	// Snapshot returns the current state. The returned snapshot must not be
	// modified by the store afterwards.
	Snapshot() snapshot.Snapshot
	// Subscribe registers fn to be called with the new snapshot after every
	// committed mutation, one call at a time and in commit order.
	Subscribe(fn func(snapshot.Snapshot)) (unsubscribe func())
	// ApplySnapshot replaces the whole state, validating it first.
	ApplySnapshot(snapshot.Snapshot) error
	// ModelID returns the stable identifier of the store instance.
	ModelID() string
}

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

// Package snapshot defines the point-in-time state exchanged between an
// observable store and a persister.
package snapshot

import (
	"sort"
)

const (
	// ModelTypeKey is the reserved key holding the model discriminator.
	ModelTypeKey = "$modelType"
	// ModelIDKey is the reserved key holding the store instance identifier.
	ModelIDKey = "$modelId"
)

// Snapshot is the serializable state of a store at one instant, keyed by field name.
// ModelTypeKey and ModelIDKey are identity metadata, not user state.
type Snapshot map[string]any

// IsReserved reports whether key is one of the identity keys.
func IsReserved(key string) bool {
	return key == ModelTypeKey || key == ModelIDKey
}

// Clone returns a shallow copy of the snapshot.
// Keys can be deleted from the copy without touching the original.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	clone := make(Snapshot, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// Has reports whether key is present.
func (s Snapshot) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the keys in ascending order.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ModelType returns the model discriminator, if any.
func (s Snapshot) ModelType() string {
	v, _ := s[ModelTypeKey].(string)
	return v
}

// ModelID returns the store instance identifier, if any.
func (s Snapshot) ModelID() string {
	v, _ := s[ModelIDKey].(string)
	return v
}

// Merge returns a new snapshot holding s overlaid with over.
// Values from over win per key.
func (s Snapshot) Merge(over Snapshot) Snapshot {
	merged := s.Clone()
	for k, v := range over {
		merged[k] = v
	}
	return merged
}

// FromMap converts a decoded structure into a Snapshot.
// It returns false when value is not a string keyed map.
func FromMap(value any) (Snapshot, bool) {
	switch v := value.(type) {
	case Snapshot:
		return v, true
	case map[string]any:
		return Snapshot(v), true
	default:
		return nil, false
	}
}

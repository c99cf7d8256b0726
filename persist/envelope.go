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
	"encoding/json"
	"fmt"
	"math"

	gerrors "github.com/tochemey/snapkeep/errors"
	"github.com/tochemey/snapkeep/snapshot"
)

// Version tags a persisted envelope. The persister never interprets it beyond
// handing it to the Migrator.
type Version int

// DefaultVersion is the version of state persisted without an explicit version,
// including every legacy snapshot.
const DefaultVersion Version = -1

const (
	versionField  = "version"
	snapshotField = "snapshot"
)

// Envelope is the persisted form of a snapshot.
type Envelope struct {
	Version  Version           `json:"version"`
	Snapshot snapshot.Snapshot `json:"snapshot"`
}

// IsEmpty reports whether the envelope carries nothing to restore.
func (e Envelope) IsEmpty() bool {
	return len(e.Snapshot) == 0
}

// envelopeFromMap reads an envelope out of a decoded structure.
func envelopeFromMap(value map[string]any) (Envelope, error) {
	version, err := toVersion(value[versionField])
	if err != nil {
		return Envelope{}, err
	}

	raw, ok := value[snapshotField]
	if !ok || raw == nil {
		return Envelope{Version: version}, nil
	}

	snap, ok := snapshot.FromMap(raw)
	if !ok {
		return Envelope{}, gerrors.NewErrInvalidPayload(fmt.Errorf("snapshot field is a %T, not an object", raw))
	}
	return Envelope{Version: version, Snapshot: snap}, nil
}

// toVersion converts the decoded version field. A missing version is DefaultVersion.
func toVersion(value any) (Version, error) {
	switch v := value.(type) {
	case nil:
		return DefaultVersion, nil
	case Version:
		return v, nil
	case int:
		return Version(v), nil
	case int32:
		return Version(v), nil
	case int64:
		return Version(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, gerrors.NewErrInvalidPayload(fmt.Errorf("version %v is not an integer", v))
		}
		return Version(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, gerrors.NewErrInvalidPayload(err)
		}
		return Version(n), nil
	default:
		return 0, gerrors.NewErrInvalidPayload(fmt.Errorf("version is a %T, not a number", value))
	}
}

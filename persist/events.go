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
	"time"
)

const topicPrefix = "snapkeep."

// Topic returns the event stream topic the persister of name publishes to.
func Topic(name string) string {
	return topicPrefix + name
}

// WriteCompleted is published after the storage accepted a write.
type WriteCompleted struct {
	Name    string
	Version Version
	At      time.Time
}

// WriteFailed is published when encoding or storing a snapshot failed.
type WriteFailed struct {
	Name    string
	Version Version
	Err     error
	At      time.Time
}

// KeyPruned is published for every persisted key dropped on load because the
// store no longer declares it.
type KeyPruned struct {
	Name string
	Key  string
	At   time.Time
}

// Restored is published after a load applied persisted state to the store.
type Restored struct {
	Name    string
	Version Version
	// Legacy is true when the payload was a bare snapshot
	Legacy bool
	// Pruned lists the keys dropped during the load
	Pruned []string
	At     time.Time
}

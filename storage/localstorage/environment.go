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

// Environment describes the capabilities of the host a persister runs in.
// Persisters probe it for a local storage when no storage engine was configured.
type Environment interface {
	// LocalStorage returns the host local storage, if the host has one.
	LocalStorage() (SyncStorage, bool)
}

type emptyEnvironment struct{}

// EmptyEnvironment is a host without local storage. It is the default.
var EmptyEnvironment Environment = emptyEnvironment{}

func (emptyEnvironment) LocalStorage() (SyncStorage, bool) {
	return nil, false
}

type environment struct {
	local SyncStorage
}

// NewEnvironment returns an Environment exposing the given local storage.
// A nil local storage yields an environment without one.
func NewEnvironment(local SyncStorage) Environment {
	if local == nil {
		return EmptyEnvironment
	}
	return environment{local: local}
}

func (e environment) LocalStorage() (SyncStorage, bool) {
	return e.local, true
}

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

// Package model provides an observable, schema driven store that satisfies
// the persist.Store contract. It is a reference collaborator: applications
// with their own store only need to expose the same four operations.
package model

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	gerrors "github.com/tochemey/snapkeep/errors"
	"github.com/tochemey/snapkeep/internal/validation"
	"github.com/tochemey/snapkeep/snapshot"
)

// Field declares one field of a model and its default value.
type Field struct {
	// Name is the snapshot key of the field
	Name string
	// Default is the initial value of the field.
	// Snapshots restored through persist.JSONCodec or persist.ProtoCodec carry
	// numbers as float64, so numeric defaults and Validate functions should
	// use or accept float64.
	Default any
	// Validate, when set, rejects invalid values on Set and ApplySnapshot
	Validate func(value any) error
}

// Schema declares the shape of a model.
type Schema struct {
	// Type is the model discriminator stored under snapshot.ModelTypeKey
	Type string
	// Fields are the user fields of the model
	Fields []Field
}

// Validate implements validation.Validator
func (s Schema) Validate() error {
	chain := validation.New(validation.AllErrors()).
		AddValidator(validation.NewEmptyStringValidator("Type", s.Type))
	seen := make(map[string]struct{}, len(s.Fields))
	for _, field := range s.Fields {
		_, duplicate := seen[field.Name]
		seen[field.Name] = struct{}{}
		chain.AddValidator(validation.NewEmptyStringValidator("Field.Name", field.Name)).
			AddAssertion(!snapshot.IsReserved(field.Name), fmt.Sprintf("field %q uses a reserved key", field.Name)).
			AddAssertion(!duplicate, fmt.Sprintf("field %q is declared twice", field.Name))
	}
	return chain.Validate()
}

// Model is an observable store of a flat set of fields.
//
// Every committed mutation produces a new snapshot which is delivered to the
// subscribers synchronously, one notification at a time and in commit order.
// Model is safe for concurrent use. Listeners must not mutate the model from
// within the notification.
type Model struct {
	schema Schema
	fields map[string]Field
	id     string

	mu    sync.RWMutex
	state snapshot.Snapshot

	// notifyMu serializes listener dispatch so that notifications are
	// delivered in commit order
	notifyMu sync.Mutex

	listenersMu sync.Mutex
	listeners   []*listener
	nextID      uint64
}

type listener struct {
	id uint64
	fn func(snapshot.Snapshot)
}

// New creates a Model for the given schema with every field at its default.
func New(schema Schema, opts ...Option) (*Model, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	m := &Model{
		schema: schema,
		fields: make(map[string]Field, len(schema.Fields)),
		id:     uuid.NewString(),
	}

	for _, opt := range opts {
		opt.Apply(m)
	}

	state := make(snapshot.Snapshot, len(schema.Fields)+2)
	for _, field := range schema.Fields {
		m.fields[field.Name] = field
		state[field.Name] = field.Default
	}
	state[snapshot.ModelTypeKey] = schema.Type
	state[snapshot.ModelIDKey] = m.id
	m.state = state
	return m, nil
}

// ModelID returns the stable identifier of the model instance.
func (m *Model) ModelID() string {
	return m.id
}

// ModelType returns the model discriminator.
func (m *Model) ModelType() string {
	return m.schema.Type
}

// Snapshot returns a copy of the current state, identity keys included.
func (m *Model) Snapshot() snapshot.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// Get returns the current value of a field.
func (m *Model) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.state[key]
	return value, ok
}

// Set changes one field and notifies the subscribers.
func (m *Model) Set(key string, value any) error {
	return m.Update(func(draft snapshot.Snapshot) error {
		draft[key] = value
		return nil
	})
}

// Update applies fn to a draft of the state and commits the draft as a single
// mutation. Nothing is committed when fn or validation fails.
func (m *Model) Update(fn func(draft snapshot.Snapshot) error) error {
	m.mu.Lock()
	draft := m.state.Clone()
	if err := fn(draft); err != nil {
		m.mu.Unlock()
		return err
	}
	// identity is not user state
	draft[snapshot.ModelTypeKey] = m.schema.Type
	draft[snapshot.ModelIDKey] = m.id
	if err := m.check(draft); err != nil {
		m.mu.Unlock()
		return err
	}
	m.commit(draft)
	return nil
}

// ApplySnapshot replaces the full state with s.
//
// s must carry this model's type and identifier when it carries identity keys
// at all, and may only hold declared fields. Fields missing from s are reset
// to their defaults.
func (m *Model) ApplySnapshot(s snapshot.Snapshot) error {
	if s == nil {
		return gerrors.NewErrInvalidModel("snapshot is nil")
	}
	if modelType, ok := s[snapshot.ModelTypeKey]; ok && modelType != m.schema.Type {
		return gerrors.NewErrInvalidModel(fmt.Sprintf("model type %v does not match %s", modelType, m.schema.Type))
	}
	if id, ok := s[snapshot.ModelIDKey]; ok && id != m.id {
		return gerrors.NewErrInvalidModel(fmt.Sprintf("model id %v does not match %s", id, m.id))
	}

	next := make(snapshot.Snapshot, len(m.fields)+2)
	for name, field := range m.fields {
		next[name] = field.Default
	}
	for k, v := range s {
		next[k] = v
	}
	next[snapshot.ModelTypeKey] = m.schema.Type
	next[snapshot.ModelIDKey] = m.id

	m.mu.Lock()
	if err := m.check(next); err != nil {
		m.mu.Unlock()
		return err
	}
	m.commit(next)
	return nil
}

// Subscribe registers fn to receive the snapshot produced by every committed
// mutation. The returned function removes the registration and is idempotent.
func (m *Model) Subscribe(fn func(snapshot.Snapshot)) (unsubscribe func()) {
	m.listenersMu.Lock()
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, &listener{id: id, fn: fn})
	m.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.listenersMu.Lock()
			defer m.listenersMu.Unlock()
			for i, l := range m.listeners {
				if l.id == id {
					m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// check validates a candidate state. The caller holds mu.
func (m *Model) check(candidate snapshot.Snapshot) error {
	for key, value := range candidate {
		if snapshot.IsReserved(key) {
			continue
		}
		field, ok := m.fields[key]
		if !ok {
			return gerrors.NewErrInvalidModel(fmt.Sprintf("unknown key %q", key))
		}
		if field.Validate != nil {
			if err := field.Validate(value); err != nil {
				return gerrors.NewErrInvalidModel(fmt.Sprintf("field %q: %v", key, err))
			}
		}
	}
	return nil
}

// commit swaps the state and dispatches the notification.
// The caller holds mu, which commit releases.
func (m *Model) commit(next snapshot.Snapshot) {
	m.state = next
	emitted := next.Clone()
	// acquiring notifyMu before releasing mu keeps dispatch in commit order
	m.notifyMu.Lock()
	m.mu.Unlock()
	defer m.notifyMu.Unlock()

	m.listenersMu.Lock()
	listeners := append([]*listener(nil), m.listeners...)
	m.listenersMu.Unlock()
	for _, l := range listeners {
		l.fn(emitted.Clone())
	}
}

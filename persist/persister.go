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

// Package persist saves the snapshots of an observable store to a key-value
// storage and restores them on start.
//
// Every committed mutation of the store is filtered, wrapped in a versioned
// Envelope and written under a single key, without waiting for the write.
// Loading reads that key back, upgrades legacy snapshots and older envelopes,
// drops keys the store no longer declares and applies the result on top of the
// store's current state.
package persist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"golang.org/x/sync/singleflight"

	gerrors "github.com/tochemey/snapkeep/errors"
	"github.com/tochemey/snapkeep/eventstream"
	"github.com/tochemey/snapkeep/internal/metric"
	"github.com/tochemey/snapkeep/log"
	"github.com/tochemey/snapkeep/snapshot"
	"github.com/tochemey/snapkeep/storage"
	"github.com/tochemey/snapkeep/storage/localstorage"
)

// Migrator upgrades a persisted envelope to the target version.
// The persister calls it once per load and applies whatever it returns.
type Migrator func(ctx context.Context, envelope Envelope, target Version) (Envelope, error)

// Persister binds one store to one storage key.
type Persister struct {
	name  string
	store Store

	storage      storage.Storage
	localStorage localstorage.SyncStorage
	environment  localstorage.Environment

	jsonify  bool
	codec    Codec
	filter   *filter
	version  Version
	migrate  Migrator
	format   Format
	detector Detector

	logger log.Logger
	events eventstream.Stream

	onWriteCompleted func(WriteCompleted)
	onWriteFailed    func(WriteFailed)
	onKeyPruned      func(KeyPruned)

	orderedWrites bool
	skipUnchanged bool
	writeTimeout  time.Duration

	metricsEnabled bool
	meterProvider  otelmetric.MeterProvider
	metrics        *metric.PersistMetric

	lastDigest *atomic.Uint64
	hasDigest  *atomic.Bool

	mu          sync.Mutex
	unsubscribe func()
	writer      *atomic.Pointer[orderedWriter]
	// gate orders inflight.Add in save against Detach
	gate     sync.RWMutex
	attached *atomic.Bool
	inflight sync.WaitGroup
	loads       singleflight.Group
}

// New creates a Persister for store under the storage key name.
//
// It resolves the storage engine and returns ErrStorageUnavailable when there
// is none. New neither subscribes to the store nor reads the storage.
func New(name string, store Store, opts ...Option) (*Persister, error) {
	persister := &Persister{
		name:        name,
		store:       store,
		environment: localstorage.EmptyEnvironment,
		jsonify:     true,
		codec:       JSONCodec{},
		filter:      new(filter),
		version:     DefaultVersion,
		format:      FormatAuto,
		detector:    StructuralDetector,
		logger:      log.DefaultLogger,
		lastDigest:  atomic.NewUint64(0),
		hasDigest:   atomic.NewBool(false),
		writer:      atomic.NewPointer[orderedWriter](nil),
		attached:    atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt.Apply(persister)
	}

	if name == "" {
		return nil, gerrors.ErrNameRequired
	}

	if store == nil {
		return nil, gerrors.ErrStoreRequired
	}

	if err := persister.resolveStorage(); err != nil {
		return nil, err
	}

	if persister.metricsEnabled {
		var providerOpts []metric.ProviderOption
		if persister.meterProvider != nil {
			providerOpts = append(providerOpts, metric.WithMeterProvider(persister.meterProvider))
		}
		metrics, err := metric.NewPersistMetric(metric.New(providerOpts...).Meter())
		if err != nil {
			return nil, err
		}
		persister.metrics = metrics
	}

	persister.logger = persister.logger.With("persist", name)
	return persister, nil
}

// Attach creates a Persister and subscribes it to store. It does not load.
func Attach(name string, store Store, opts ...Option) (*Persister, error) {
	persister, err := New(name, store, opts...)
	if err != nil {
		return nil, err
	}
	persister.Attach()
	return persister, nil
}

// Persist creates a Persister, subscribes it to store and restores the
// persisted state.
//
// On a configuration error it returns a nil Persister and leaves the store
// untouched. When only the load fails, the Persister is returned along with
// the error and stays subscribed.
func Persist(ctx context.Context, name string, store Store, opts ...Option) (*Persister, error) {
	persister, err := Attach(name, store, opts...)
	if err != nil {
		return nil, err
	}
	return persister, persister.Load(ctx)
}

// Name returns the storage key.
func (p *Persister) Name() string {
	return p.name
}

// Storage returns the resolved storage engine.
func (p *Persister) Storage() storage.Storage {
	return p.storage
}

// Attach subscribes the persister to the store. Every notification from then
// on is written to the storage. Calling Attach again is a no-op.
func (p *Persister) Attach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unsubscribe != nil {
		return
	}
	if p.orderedWrites {
		p.writer.Store(newOrderedWriter(p.write))
	}
	p.attached.Store(true)
	p.unsubscribe = p.store.Subscribe(p.save)
	p.logger.Debugf("persister attached to storage key=(%s)", p.name)
}

// Detach unsubscribes from the store and waits for the writes in flight.
func (p *Persister) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unsubscribe == nil {
		return
	}
	// notifications already dispatched by the store are dropped from here on
	p.gate.Lock()
	p.attached.Store(false)
	p.gate.Unlock()

	p.unsubscribe()
	p.unsubscribe = nil
	p.inflight.Wait()
	if writer := p.writer.Swap(nil); writer != nil {
		for range writer.stop() {
			p.inflight.Done()
		}
	}
	p.logger.Debugf("persister detached from storage key=(%s)", p.name)
}

// Wait blocks until every write handed to the storage so far has completed.
func (p *Persister) Wait() {
	p.inflight.Wait()
}

// Load restores the persisted state into the store.
//
// Nothing happens when the storage holds no value, a falsy value or an
// envelope with an empty snapshot. Concurrent calls share one load.
func (p *Persister) Load(ctx context.Context) error {
	_, err, _ := p.loads.Do(p.name, func() (any, error) {
		return nil, p.load(ctx)
	})
	return err
}

func (p *Persister) load(ctx context.Context) error {
	raw, err := p.storage.Get(ctx, p.name)
	if err != nil {
		return fmt.Errorf("failed to read storage key=(%s): %w", p.name, err)
	}

	value, err := p.decode(raw)
	if err != nil {
		return err
	}

	if isFalsy(value) {
		p.logger.Debugf("nothing persisted under key=(%s)", p.name)
		return nil
	}

	envelope, legacy, err := p.normalize(value)
	if err != nil {
		return err
	}

	if envelope.IsEmpty() {
		p.logger.Debugf("persisted snapshot under key=(%s) is empty", p.name)
		return nil
	}

	if p.migrate != nil {
		from := envelope.Version
		envelope, err = p.migrate(ctx, envelope, p.version)
		if err != nil {
			return gerrors.NewErrMigration(err)
		}
		p.logger.Debugf("migrated key=(%s) from version=(%d) to version=(%d)", p.name, from, envelope.Version)
	}

	defaults := p.store.Snapshot()
	persisted := envelope.Snapshot.Clone()
	pruned := p.prune(ctx, defaults, persisted)

	merged := defaults.Merge(persisted)
	merged[snapshot.ModelIDKey] = p.store.ModelID()
	if err := p.store.ApplySnapshot(merged); err != nil {
		return gerrors.NewErrApplySnapshot(err)
	}

	if p.metrics != nil {
		p.metrics.LoadCompleted(ctx, p.name)
	}
	p.publish(&Restored{
		Name:    p.name,
		Version: envelope.Version,
		Legacy:  legacy,
		Pruned:  pruned,
		At:      time.Now(),
	})
	p.logger.Debugf("restored key=(%s) at version=(%d)", p.name, envelope.Version)
	return nil
}

// decode turns a raw storage value into a generic structure.
func (p *Persister) decode(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		return p.codec.Decode([]byte(v))
	case []byte:
		if len(v) == 0 {
			return nil, nil
		}
		return p.codec.Decode(v)
	default:
		return raw, nil
	}
}

// normalize returns the envelope held by value and whether value was a legacy snapshot.
func (p *Persister) normalize(value any) (Envelope, bool, error) {
	switch v := value.(type) {
	case Envelope:
		return v, false, nil
	case *Envelope:
		return *v, false, nil
	}

	payload, ok := snapshot.FromMap(value)
	if !ok {
		return Envelope{}, false, gerrors.NewErrInvalidPayload(fmt.Errorf("payload is a %T, not an object", value))
	}

	legacy, err := p.isLegacy(payload)
	if err != nil {
		return Envelope{}, false, gerrors.NewErrInvalidPayload(err)
	}

	if legacy {
		return Envelope{Version: DefaultVersion, Snapshot: payload}, true, nil
	}

	envelope, err := envelopeFromMap(payload)
	return envelope, false, err
}

func (p *Persister) isLegacy(payload snapshot.Snapshot) (bool, error) {
	switch p.format {
	case FormatLegacy:
		return true, nil
	case FormatEnvelope:
		return false, nil
	default:
		return p.detector.IsLegacy(payload)
	}
}

// prune drops from persisted every key the defaults do not have and returns
// the dropped keys in order.
func (p *Persister) prune(ctx context.Context, defaults, persisted snapshot.Snapshot) []string {
	var pruned []string
	for _, key := range persisted.Keys() {
		if defaults.Has(key) {
			continue
		}
		delete(persisted, key)
		pruned = append(pruned, key)
		p.logger.Warnf("persisted store contained non-existent key=(%s) under storage key=(%s)", key, p.name)
		event := KeyPruned{Name: p.name, Key: key, At: time.Now()}
		if p.onKeyPruned != nil {
			p.onKeyPruned(event)
		}
		p.publish(&event)
	}
	if p.metrics != nil {
		p.metrics.KeysPruned(ctx, p.name, len(pruned))
	}
	return pruned
}

// save is the store listener.
func (p *Persister) save(s snapshot.Snapshot) {
	if !p.attached.Load() {
		return
	}

	envelope := Envelope{
		Version:  p.version,
		Snapshot: p.filter.apply(s),
	}

	value := any(envelope)
	if p.jsonify {
		encoded, err := p.codec.Encode(envelope)
		if err != nil {
			p.failed(context.Background(), envelope, err)
			return
		}
		value = encoded
	}

	if p.skipUnchanged && p.unchanged(envelope, value) {
		p.logger.Debugf("skipped unchanged write to key=(%s)", p.name)
		return
	}

	if !p.dispatch(write{value: value, envelope: envelope}) {
		p.failed(context.Background(), envelope, gerrors.ErrStorageClosed)
	}
}

// dispatch hands the write to the ordered writer or to its own goroutine.
// It returns false when the ordered writer refused the item. Writes arriving
// after Detach are dropped.
func (p *Persister) dispatch(item write) bool {
	p.gate.RLock()
	defer p.gate.RUnlock()
	if !p.attached.Load() {
		return true
	}

	p.inflight.Add(1)
	if writer := p.writer.Load(); writer != nil {
		if !writer.enqueue(item) {
			p.inflight.Done()
			return false
		}
		return true
	}
	go p.write(item)
	return true
}

// unchanged reports whether value hashes like the previous write and records its hash.
func (p *Persister) unchanged(envelope Envelope, value any) bool {
	bytea, err := storage.Bytes(value)
	if err != nil {
		// structured values are hashed through the json codec
		encoded, err := JSONCodec{}.Encode(envelope)
		if err != nil {
			return false
		}
		bytea = []byte(encoded.(string))
	}
	digest := xxh3.Hash(bytea)
	previous := p.lastDigest.Swap(digest)
	return p.hasDigest.Swap(true) && previous == digest
}

func (p *Persister) write(item write) {
	defer p.inflight.Done()

	ctx := context.Background()
	if p.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.writeTimeout)
		defer cancel()
	}

	if err := p.storage.Set(ctx, p.name, item.value); err != nil {
		p.failed(ctx, item.envelope, err)
		return
	}

	if p.metrics != nil {
		p.metrics.WriteCompleted(ctx, p.name)
	}
	event := WriteCompleted{Name: p.name, Version: item.envelope.Version, At: time.Now()}
	if p.onWriteCompleted != nil {
		p.onWriteCompleted(event)
	}
	p.publish(&event)
}

func (p *Persister) failed(ctx context.Context, envelope Envelope, err error) {
	p.logger.Errorf("failed to persist snapshot to key=(%s): %v", p.name, err)
	if p.metrics != nil {
		p.metrics.WriteFailed(ctx, p.name)
	}
	event := WriteFailed{Name: p.name, Version: envelope.Version, Err: err, At: time.Now()}
	if p.onWriteFailed != nil {
		p.onWriteFailed(event)
	}
	p.publish(&event)
}

func (p *Persister) publish(event any) {
	if p.events != nil {
		p.events.Publish(Topic(p.name), event)
	}
}

// resolveStorage picks the storage engine: the explicit one, then the given
// local storage, then the one found in the environment.
func (p *Persister) resolveStorage() error {
	if p.storage != nil {
		return nil
	}
	if p.localStorage != nil {
		p.storage = localstorage.NewAdapter(p.localStorage)
		return nil
	}
	if local, ok := p.environment.LocalStorage(); ok && local != nil {
		p.storage = localstorage.NewAdapter(local)
		return nil
	}
	return gerrors.ErrStorageUnavailable
}

// isFalsy reports whether a decoded value means there is nothing to restore.
func isFalsy(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case bool:
		return !v
	case float64:
		return v == 0
	case int:
		return v == 0
	case string:
		return v == ""
	case *Envelope:
		return v == nil
	case map[string]any:
		return v == nil
	case snapshot.Snapshot:
		return v == nil
	default:
		return false
	}
}

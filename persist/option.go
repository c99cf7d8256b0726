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

	mapset "github.com/deckarep/golang-set/v2"
	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/snapkeep/eventstream"
	"github.com/tochemey/snapkeep/log"
	"github.com/tochemey/snapkeep/storage"
	"github.com/tochemey/snapkeep/storage/localstorage"
)

// Option is the interface that applies a Persister option.
type Option interface {
	// Apply sets the Option value of a Persister.
	Apply(persister *Persister)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(persister *Persister)

// Apply applies the Persister's option
func (f OptionFunc) Apply(persister *Persister) {
	f(persister)
}

// WithStorage sets the storage engine. It takes precedence over any local storage.
func WithStorage(engine storage.Storage) Option {
	return OptionFunc(func(persister *Persister) {
		persister.storage = engine
	})
}

// WithLocalStorage uses a synchronous local storage through the default adapter
// when no storage engine is set.
func WithLocalStorage(local localstorage.SyncStorage) Option {
	return OptionFunc(func(persister *Persister) {
		persister.localStorage = local
	})
}

// WithEnvironment sets the environment probed for a local storage when neither
// WithStorage nor WithLocalStorage is given. The default environment has none.
func WithEnvironment(env localstorage.Environment) Option {
	return OptionFunc(func(persister *Persister) {
		if env != nil {
			persister.environment = env
		}
	})
}

// WithJSONify sets whether envelopes are encoded with the codec before being
// written. When false, the Envelope value itself is handed to the storage,
// which must then accept structured values. Defaults to true.
func WithJSONify(jsonify bool) Option {
	return OptionFunc(func(persister *Persister) {
		persister.jsonify = jsonify
	})
}

// WithCodec sets the codec used when jsonify is on. Defaults to JSONCodec.
func WithCodec(codec Codec) Option {
	return OptionFunc(func(persister *Persister) {
		if codec != nil {
			persister.codec = codec
		}
	})
}

// WithWhitelist persists only the given keys. The identity keys are always kept.
func WithWhitelist(keys ...string) Option {
	return OptionFunc(func(persister *Persister) {
		persister.filter.whitelist = mapset.NewSet(keys...)
	})
}

// WithBlacklist never persists the given keys. It wins over WithWhitelist.
func WithBlacklist(keys ...string) Option {
	return OptionFunc(func(persister *Persister) {
		persister.filter.blacklist = mapset.NewSet(keys...)
	})
}

// WithVersion sets the version written with every envelope and the target
// version handed to the Migrator. Defaults to DefaultVersion.
func WithVersion(version Version) Option {
	return OptionFunc(func(persister *Persister) {
		persister.version = version
	})
}

// WithMigrator sets the function upgrading persisted envelopes on load.
func WithMigrator(migrate Migrator) Option {
	return OptionFunc(func(persister *Persister) {
		persister.migrate = migrate
	})
}

// WithFormat sets how loaded payloads are read. Defaults to FormatAuto.
func WithFormat(format Format) Option {
	return OptionFunc(func(persister *Persister) {
		persister.format = format
	})
}

// WithDetector sets the Detector used by FormatAuto. Defaults to StructuralDetector.
func WithDetector(detector Detector) Option {
	return OptionFunc(func(persister *Persister) {
		if detector != nil {
			persister.detector = detector
		}
	})
}

// WithLogger sets the logger. Defaults to log.DefaultLogger.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(persister *Persister) {
		if logger != nil {
			persister.logger = logger
		}
	})
}

// WithEventStream publishes persistence events to stream under Topic(name).
func WithEventStream(stream eventstream.Stream) Option {
	return OptionFunc(func(persister *Persister) {
		persister.events = stream
	})
}

// WithWriteCompletedHook sets a function called after every successful write.
// It runs on the writing goroutine.
func WithWriteCompletedHook(hook func(WriteCompleted)) Option {
	return OptionFunc(func(persister *Persister) {
		persister.onWriteCompleted = hook
	})
}

// WithWriteFailedHook sets a function called after every failed write.
// It runs on the writing goroutine.
func WithWriteFailedHook(hook func(WriteFailed)) Option {
	return OptionFunc(func(persister *Persister) {
		persister.onWriteFailed = hook
	})
}

// WithKeyPrunedHook sets a function called for every key dropped on load.
func WithKeyPrunedHook(hook func(KeyPruned)) Option {
	return OptionFunc(func(persister *Persister) {
		persister.onKeyPruned = hook
	})
}

// WithOrderedWrites makes writes reach the storage one at a time, in
// notification order. By default every notification is written concurrently.
func WithOrderedWrites() Option {
	return OptionFunc(func(persister *Persister) {
		persister.orderedWrites = true
	})
}

// WithSkipUnchanged skips a write whose encoded value equals the previous one.
func WithSkipUnchanged() Option {
	return OptionFunc(func(persister *Persister) {
		persister.skipUnchanged = true
	})
}

// WithWriteTimeout bounds every storage write. Zero, the default, means no bound.
func WithWriteTimeout(timeout time.Duration) Option {
	return OptionFunc(func(persister *Persister) {
		persister.writeTimeout = timeout
	})
}

// WithMetrics records OpenTelemetry metrics through the global meter provider.
func WithMetrics() Option {
	return OptionFunc(func(persister *Persister) {
		persister.metricsEnabled = true
	})
}

// WithMeterProvider records OpenTelemetry metrics through provider.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return OptionFunc(func(persister *Persister) {
		persister.metricsEnabled = true
		persister.meterProvider = provider
	})
}

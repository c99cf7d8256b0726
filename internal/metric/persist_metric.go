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

package metric

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PersistMetric defines the persister instrumentation
type PersistMetric struct {
	// Specifies the total number of writes handed to the storage
	writesCount metric.Int64Counter
	// Specifies the total number of failed writes
	writesFailures metric.Int64Counter
	// Specifies the total number of completed loads
	loadsCount metric.Int64Counter
	// Specifies the total number of persisted keys dropped on load
	keysPruned metric.Int64Counter
}

// NewPersistMetric creates an instance of PersistMetric
func NewPersistMetric(meter metric.Meter) (*PersistMetric, error) {
	persistMetric := new(PersistMetric)
	var err error
	if persistMetric.writesCount, err = meter.Int64Counter(
		"snapkeep.writes.count",
		metric.WithDescription("Total number of snapshot writes"),
	); err != nil {
		return nil, fmt.Errorf("failed to create writesCount instrument, %w", err)
	}

	if persistMetric.writesFailures, err = meter.Int64Counter(
		"snapkeep.writes.failures",
		metric.WithDescription("Total number of failed snapshot writes"),
	); err != nil {
		return nil, fmt.Errorf("failed to create writesFailures instrument, %w", err)
	}

	if persistMetric.loadsCount, err = meter.Int64Counter(
		"snapkeep.loads.count",
		metric.WithDescription("Total number of snapshot loads"),
	); err != nil {
		return nil, fmt.Errorf("failed to create loadsCount instrument, %w", err)
	}

	if persistMetric.keysPruned, err = meter.Int64Counter(
		"snapkeep.keys.pruned",
		metric.WithDescription("Total number of persisted keys dropped because the store does not declare them"),
	); err != nil {
		return nil, fmt.Errorf("failed to create keysPruned instrument, %w", err)
	}

	return persistMetric, nil
}

// WriteCompleted records one successful write for the given name
func (x *PersistMetric) WriteCompleted(ctx context.Context, name string) {
	x.writesCount.Add(ctx, 1, nameAttr(name))
}

// WriteFailed records one failed write for the given name
func (x *PersistMetric) WriteFailed(ctx context.Context, name string) {
	x.writesCount.Add(ctx, 1, nameAttr(name))
	x.writesFailures.Add(ctx, 1, nameAttr(name))
}

// LoadCompleted records one load for the given name
func (x *PersistMetric) LoadCompleted(ctx context.Context, name string) {
	x.loadsCount.Add(ctx, 1, nameAttr(name))
}

// KeysPruned records the number of keys dropped during a load
func (x *PersistMetric) KeysPruned(ctx context.Context, name string, count int) {
	if count > 0 {
		x.keysPruned.Add(ctx, int64(count), nameAttr(name))
	}
}

func nameAttr(name string) metric.AddOption {
	return metric.WithAttributes(attribute.String("snapkeep.name", name))
}

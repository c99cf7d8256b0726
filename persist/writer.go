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
	"sync"

	gods "github.com/Workiva/go-datastructures/queue"
)

// write is one pending storage write.
type write struct {
	value    any
	envelope Envelope
}

// orderedWriter hands writes to a single goroutine in the order they were queued.
type orderedWriter struct {
	queue *gods.Queue
	do    func(write)
	done  sync.WaitGroup
}

func newOrderedWriter(do func(write)) *orderedWriter {
	w := &orderedWriter{
		queue: gods.New(16),
		do:    do,
	}
	w.done.Add(1)
	go w.run()
	return w
}

// enqueue queues a write. It returns false once the writer is stopped.
func (w *orderedWriter) enqueue(item write) bool {
	return w.queue.Put(item) == nil
}

func (w *orderedWriter) run() {
	defer w.done.Done()
	for {
		items, err := w.queue.Get(1)
		if err != nil {
			// disposed
			return
		}
		for _, item := range items {
			w.do(item.(write))
		}
	}
}

// stop disposes the queue and waits for the goroutine to exit.
// The caller drains pending writes first; anything left is dropped.
func (w *orderedWriter) stop() int {
	dropped := len(w.queue.Dispose())
	w.done.Wait()
	return dropped
}

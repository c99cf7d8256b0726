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

package compress

// Option is the interface that applies a compression Storage option.
type Option interface {
	// Apply sets the Option value of a Storage.
	Apply(storage *Storage)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(storage *Storage)

// Apply applies the Storage's option
func (f OptionFunc) Apply(storage *Storage) {
	f(storage)
}

// WithAlgorithm sets the compression algorithm used for new values.
func WithAlgorithm(algorithm Algorithm) Option {
	return OptionFunc(func(storage *Storage) {
		storage.algorithm = algorithm
	})
}

// WithBrotliLevel sets the brotli quality, from 0 to 11.
func WithBrotliLevel(level int) Option {
	return OptionFunc(func(storage *Storage) {
		if level >= 0 && level <= 11 {
			storage.level = level
		}
	})
}

// WithMinSize stores values shorter than size uncompressed.
func WithMinSize(size int) Option {
	return OptionFunc(func(storage *Storage) {
		if size >= 0 {
			storage.minSize = size
		}
	})
}

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

// Package compress decorates a storage.Storage so that values are compressed
// with zstd or brotli before reaching it.
package compress

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"

	gerrors "github.com/tochemey/snapkeep/errors"
	"github.com/tochemey/snapkeep/storage"
)

// Algorithm identifies a compression algorithm.
type Algorithm byte

// Stored values start with one tag byte naming how the rest is encoded.
// Values without a known tag are returned as they are.
const (
	// Raw stores the value uncompressed.
	Raw Algorithm = iota
	// Zstd compresses with Zstandard. It is the default.
	Zstd
	// Brotli compresses with brotli.
	Brotli
)

// String returns the algorithm name
func (a Algorithm) String() string {
	switch a {
	case Raw:
		return "raw"
	case Zstd:
		return "zstd"
	case Brotli:
		return "brotli"
	default:
		return fmt.Sprintf("Algorithm(%d)", byte(a))
	}
}

const defaultMinSize = 64

// Storage compresses the values of an underlying storage.
type Storage struct {
	underlying storage.Storage
	algorithm  Algorithm
	level      int
	minSize    int

	encoder *zstd.Encoder
	decoder *zstd.Decoder
	writers *sync.Pool
}

var _ storage.Storage = (*Storage)(nil)

// New wraps underlying. Values shorter than the minimum size are stored raw.
func New(underlying storage.Storage, opts ...Option) (*Storage, error) {
	if underlying == nil {
		return nil, fmt.Errorf("storage/compress: underlying storage is nil")
	}

	s := &Storage{
		underlying: underlying,
		algorithm:  Zstd,
		level:      brotli.DefaultCompression,
		minSize:    defaultMinSize,
	}
	for _, opt := range opts {
		opt.Apply(s)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("storage/compress: zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("storage/compress: zstd decoder: %w", err)
	}
	s.encoder = encoder
	s.decoder = decoder

	level := s.level
	s.writers = &sync.Pool{
		New: func() any {
			return brotli.NewWriterLevel(nil, level)
		},
	}
	return s, nil
}

// Get implements storage.Storage.
func (s *Storage) Get(ctx context.Context, key string) (any, error) {
	value, err := s.underlying.Get(ctx, key)
	if err != nil || value == nil {
		return value, err
	}

	bytea, err := storage.Bytes(value)
	if err != nil {
		return nil, err
	}
	if len(bytea) == 0 {
		return bytea, nil
	}

	payload := bytea[1:]
	switch Algorithm(bytea[0]) {
	case Raw:
		return append([]byte(nil), payload...), nil
	case Zstd:
		out, err := s.decoder.DecodeAll(payload, nil)
		if err != nil {
			return nil, gerrors.NewErrInvalidPayload(fmt.Errorf("zstd: %w", err))
		}
		return out, nil
	case Brotli:
		out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(payload)))
		if err != nil {
			return nil, gerrors.NewErrInvalidPayload(fmt.Errorf("brotli: %w", err))
		}
		return out, nil
	default:
		// written before compression was enabled
		return bytea, nil
	}
}

// Set implements storage.Storage.
func (s *Storage) Set(ctx context.Context, key string, value any) error {
	bytea, err := storage.Bytes(value)
	if err != nil {
		return err
	}

	algorithm := s.algorithm
	if len(bytea) < s.minSize {
		algorithm = Raw
	}

	out, err := s.compress(algorithm, bytea)
	if err != nil {
		return err
	}
	return s.underlying.Set(ctx, key, out)
}

// Close releases the zstd decoder.
func (s *Storage) Close() error {
	s.decoder.Close()
	return s.encoder.Close()
}

func (s *Storage) compress(algorithm Algorithm, bytea []byte) ([]byte, error) {
	out := make([]byte, 1, len(bytea)/2+1)
	out[0] = byte(algorithm)
	switch algorithm {
	case Zstd:
		return s.encoder.EncodeAll(bytea, out), nil
	case Brotli:
		buffer := bytes.NewBuffer(out)
		writer := s.writers.Get().(*brotli.Writer)
		writer.Reset(buffer)
		if _, err := writer.Write(bytea); err != nil {
			return nil, fmt.Errorf("storage/compress: brotli: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("storage/compress: brotli: %w", err)
		}
		writer.Reset(nil)
		s.writers.Put(writer)
		return buffer.Bytes(), nil
	default:
		return append(out, bytea...), nil
	}
}

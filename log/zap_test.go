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

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZap(t *testing.T) {
	t.Run("With debug level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(DebugLevel, buffer)
		require.Equal(t, DebugLevel, logger.LogLevel())

		logger.Debugf("loaded %s", "counter")
		require.NoError(t, logger.Flush())

		msg, err := extractField(buffer.Bytes(), "msg")
		require.NoError(t, err)
		assert.Equal(t, "loaded counter", msg)

		lvl, err := extractField(buffer.Bytes(), "level")
		require.NoError(t, err)
		assert.Equal(t, DebugLevel.String(), lvl)
	})
	t.Run("With info level drops debug records", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.Debug("hidden")
		require.NoError(t, logger.Flush())
		assert.Empty(t, buffer.String())
		assert.False(t, logger.Enabled(DebugLevel))
		assert.True(t, logger.Enabled(ErrorLevel))
	})
	t.Run("With warn level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(WarningLevel, buffer)
		require.Equal(t, WarningLevel, logger.LogLevel())
		logger.Info("hidden")
		logger.Warnf("stale key: %s", "legacy")
		require.NoError(t, logger.Flush())

		msg, err := extractField(buffer.Bytes(), "msg")
		require.NoError(t, err)
		assert.Equal(t, "stale key: legacy", msg)
		lvl, err := extractField(buffer.Bytes(), "level")
		require.NoError(t, err)
		assert.Equal(t, WarningLevel.String(), lvl)
	})
	t.Run("With error level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(ErrorLevel, buffer)
		require.Equal(t, ErrorLevel, logger.LogLevel())
		logger.Error("write failed")
		msg, err := extractField(buffer.Bytes(), "msg")
		require.NoError(t, err)
		assert.Equal(t, "write failed", msg)
	})
	t.Run("With structured fields", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("name", "counter", "attempt", 1, "cause", errors.New("boom"), "orphan").Info("saved")
		require.NoError(t, logger.Flush())

		var record map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &record))
		assert.Contains(t, record, "name")
		assert.Contains(t, record, "attempt")
		assert.Contains(t, record, "cause")
		assert.Contains(t, record, "_")
	})
	t.Run("With no usable fields returns the same logger", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Equal(t, logger, logger.With())
		assert.Equal(t, logger, logger.With(1, 2))
	})
	t.Run("With file output buffers low priority records until flush", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snapkeep.log")
		file, err := os.Create(path)
		require.NoError(t, err)
		t.Cleanup(func() { _ = file.Close() })

		logger := NewZap(InfoLevel, file)
		logger.Info("buffered")
		require.NoError(t, logger.Flush())

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		msg, err := extractField(content, "msg")
		require.NoError(t, err)
		assert.Equal(t, "buffered", msg)
		assert.Len(t, logger.LogOutput(), 1)
	})
}

func TestDiscardLogger(t *testing.T) {
	DiscardLogger.Info("nothing")
	DiscardLogger.Warnf("nothing %d", 1)
	assert.Equal(t, DiscardLogger, DiscardLogger.With("k", "v"))
	assert.False(t, DiscardLogger.Enabled(ErrorLevel))
	assert.Equal(t, InfoLevel, DiscardLogger.LogLevel())
	assert.NoError(t, DiscardLogger.Flush())
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "info", InfoLevel.String())
	assert.Equal(t, "warn", WarningLevel.String())
	assert.Equal(t, "error", ErrorLevel.String())
	assert.Equal(t, "debug", DebugLevel.String())
	assert.Equal(t, "invalid", InvalidLevel.String())
}

func extractField(bytea []byte, field string) (string, error) {
	c := make(map[string]json.RawMessage)
	if err := json.Unmarshal(bytes.TrimSpace(bytea), &c); err != nil {
		return "", err
	}
	if v, ok := c[field]; ok {
		return strconv.Unquote(string(v))
	}
	return "", nil
}

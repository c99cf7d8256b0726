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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageUnavailable is returned when no storage engine is configured and the
	// environment does not provide a local storage to fall back on.
	ErrStorageUnavailable = errors.New("local storage (the default storage engine) is not supported in this environment, configure a different storage engine with WithStorage")

	// ErrNameRequired is returned when the storage key name is empty.
	ErrNameRequired = errors.New("storage key name is required")

	// ErrStoreRequired is returned when no store is given to a persister.
	ErrStoreRequired = errors.New("store is required")

	// ErrInvalidPayload indicates a persisted payload that cannot be decoded into a snapshot.
	ErrInvalidPayload = errors.New("invalid persisted payload")

	// ErrApplySnapshot indicates the store rejected the restored snapshot.
	ErrApplySnapshot = errors.New("failed to apply snapshot to store")

	// ErrMigration indicates the caller supplied migrator failed.
	ErrMigration = errors.New("migration failed")

	// ErrUnsupportedValue is returned by storage engines that cannot store the kind of value given.
	// Byte oriented engines only accept string and []byte values.
	ErrUnsupportedValue = errors.New("storage engine does not support this value type")

	// ErrStorageClosed is returned when using a storage engine after Close.
	ErrStorageClosed = errors.New("storage engine is closed")

	// ErrInvalidKey is returned when a storage engine rejects a key.
	ErrInvalidKey = errors.New("invalid storage key")

	// ErrInvalidModel is returned by the model store when a snapshot does not match its schema.
	ErrInvalidModel = errors.New("snapshot does not match the model schema")
)

// NewErrInvalidPayload wraps a decoding failure with ErrInvalidPayload.
func NewErrInvalidPayload(err error) error {
	return errors.Join(ErrInvalidPayload, err)
}

// NewErrApplySnapshot wraps a store failure with ErrApplySnapshot.
func NewErrApplySnapshot(err error) error {
	return errors.Join(ErrApplySnapshot, err)
}

// NewErrMigration wraps a migrator failure with ErrMigration.
func NewErrMigration(err error) error {
	return errors.Join(ErrMigration, err)
}

// NewErrUnsupportedValue formats an ErrUnsupportedValue with the given value type.
func NewErrUnsupportedValue(value any) error {
	return fmt.Errorf("value=(%T) %w", value, ErrUnsupportedValue)
}

// NewErrInvalidKey formats an ErrInvalidKey with the given key.
func NewErrInvalidKey(key string) error {
	return fmt.Errorf("key=(%s) %w", key, ErrInvalidKey)
}

// NewErrInvalidModel formats an ErrInvalidModel with the given reason.
func NewErrInvalidModel(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrInvalidModel)
}

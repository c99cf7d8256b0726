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
	"encoding/json"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	gerrors "github.com/tochemey/snapkeep/errors"
)

// Codec turns envelopes into storage values and back.
//
// Encode returns the value handed to the storage, a string or a []byte.
// Decode returns the generic structure read back, which may be a legacy
// snapshot rather than an envelope.
type Codec interface {
	Encode(envelope Envelope) (any, error)
	Decode(data []byte) (any, error)
}

// JSONCodec stores envelopes as JSON text. It is the default codec.
// Decoded numbers are float64 whatever their type when encoded, so an int
// field reloads as a float64 of the same value.
type JSONCodec struct{}

var _ Codec = JSONCodec{}

// Encode implements Codec
func (JSONCodec) Encode(envelope Envelope) (any, error) {
	bytea, err := json.Marshal(envelope)
	if err != nil {
		return nil, gerrors.NewErrInvalidPayload(err)
	}
	return string(bytea), nil
}

// Decode implements Codec
func (JSONCodec) Decode(data []byte) (any, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, gerrors.NewErrInvalidPayload(err)
	}
	return value, nil
}

// ProtoCodec stores envelopes as a binary google.protobuf.Struct.
// Snapshot values must be representable by structpb.NewValue.
// Numbers come back as float64.
type ProtoCodec struct{}

var _ Codec = ProtoCodec{}

// Encode implements Codec
func (ProtoCodec) Encode(envelope Envelope) (any, error) {
	fields := map[string]any{
		versionField:  int64(envelope.Version),
		snapshotField: map[string]any(envelope.Snapshot),
	}
	if envelope.Snapshot == nil {
		fields[snapshotField] = map[string]any{}
	}

	message, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, gerrors.NewErrInvalidPayload(err)
	}

	bytea, err := proto.Marshal(message)
	if err != nil {
		return nil, gerrors.NewErrInvalidPayload(err)
	}
	return bytea, nil
}

// Decode implements Codec
func (ProtoCodec) Decode(data []byte) (any, error) {
	message := new(structpb.Struct)
	if err := proto.Unmarshal(data, message); err != nil {
		return nil, gerrors.NewErrInvalidPayload(err)
	}
	return message.AsMap(), nil
}

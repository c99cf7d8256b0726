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
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/tochemey/snapkeep/snapshot"
)

// Format tells the load path how to read a decoded payload.
type Format int

const (
	// FormatAuto asks the Detector whether the payload is a legacy snapshot.
	FormatAuto Format = iota
	// FormatEnvelope reads every payload as an envelope.
	FormatEnvelope
	// FormatLegacy reads every payload as a bare snapshot.
	FormatLegacy
)

// String returns the format name
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatEnvelope:
		return "envelope"
	case FormatLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Detector decides whether a decoded payload is a legacy snapshot, written
// before envelopes existed, or an envelope.
type Detector interface {
	IsLegacy(payload map[string]any) (bool, error)
}

// DetectorFunc implements Detector
type DetectorFunc func(payload map[string]any) (bool, error)

// IsLegacy implements Detector
func (f DetectorFunc) IsLegacy(payload map[string]any) (bool, error) {
	return f(payload)
}

// StructuralDetector is the default Detector.
//
// A payload carrying identity keys at the top level is a snapshot. Otherwise
// it is an envelope only when it has a version field and an object or null
// snapshot field. A store whose own fields are named version and snapshot and that
// does not record its identity keys is read as an envelope; use FormatLegacy
// or a custom Detector for such stores.
var StructuralDetector Detector = DetectorFunc(func(payload map[string]any) (bool, error) {
	if _, ok := payload[snapshot.ModelTypeKey]; ok {
		return true, nil
	}
	if _, ok := payload[snapshot.ModelIDKey]; ok {
		return true, nil
	}
	if _, ok := payload[versionField]; !ok {
		return true, nil
	}
	raw, has := payload[snapshotField]
	if has && raw == nil {
		// versioned envelope holding no data
		return false, nil
	}
	_, isObject := snapshot.FromMap(raw)
	return !isObject, nil
})

// exprDetector evaluates a boolean expr-lang rule against the payload.
type exprDetector struct {
	rule    string
	program *vm.Program
}

// NewExprDetector compiles an expr-lang rule into a Detector.
//
// The payload is bound to the variable payload, and the rule must evaluate to
// true for legacy snapshots, e.g.
//
//	not ("version" in payload && "snapshot" in payload)
func NewExprDetector(rule string) (Detector, error) {
	if rule == "" {
		return nil, fmt.Errorf("detector rule must not be empty")
	}
	program, err := expr.Compile(rule,
		expr.Env(map[string]any{"payload": map[string]any{}}),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile detector rule %q: %w", rule, err)
	}
	return &exprDetector{rule: rule, program: program}, nil
}

// IsLegacy implements Detector
func (d *exprDetector) IsLegacy(payload map[string]any) (bool, error) {
	result, err := expr.Run(d.program, map[string]any{"payload": payload})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate detector rule %q: %w", d.rule, err)
	}
	legacy, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("detector rule %q returned %T", d.rule, result)
	}
	return legacy, nil
}

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

package validation

import (
	"fmt"
	"regexp"
)

type patternValidator struct {
	fieldName string
	pattern   *regexp.Regexp
	value     string
	customErr error
}

var _ Validator = (*patternValidator)(nil)

// NewPatternValidator creates a validator that fails when value does not match pattern.
// customErr is returned on mismatch when set.
func NewPatternValidator(fieldName string, pattern *regexp.Regexp, value string, customErr error) Validator {
	return &patternValidator{
		fieldName: fieldName,
		pattern:   pattern,
		value:     value,
		customErr: customErr,
	}
}

// Validate executes the validation
func (x *patternValidator) Validate() error {
	if x.pattern.MatchString(x.value) {
		return nil
	}
	if x.customErr != nil {
		return x.customErr
	}
	return fmt.Errorf("the [%s] value %q does not match %s", x.fieldName, x.value, x.pattern.String())
}

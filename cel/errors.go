// Copyright 2020 CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cel

import (
	"fmt"

	"github.com/kestrelcel/cel/internal/value"
)

// CelErrorKind mirrors value.ErrorKind at the boundary (§6.3, §7): every
// internal error variant collapses to one Go error type here, tagged by
// kind, so a caller that wants to branch on the failure category doesn't
// need to reach into internal/value.
type CelErrorKind int

const (
	ErrorParse CelErrorKind = iota
	ErrorTypeMismatch
	ErrorOverflow
	ErrorDivByZero
	ErrorIndexRange
	ErrorNoSuchField
	ErrorNoSuchIdent
	ErrorDomain
)

var errorKindNames = [...]string{
	ErrorParse:        "parse error",
	ErrorTypeMismatch: "type mismatch",
	ErrorOverflow:     "overflow",
	ErrorDivByZero:    "division by zero",
	ErrorIndexRange:   "index out of range",
	ErrorNoSuchField:  "no such field",
	ErrorNoSuchIdent:  "no such identifier",
	ErrorDomain:       "value out of domain",
}

func (k CelErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "error"
}

// CelError is the one error type Evaluate ever returns for a recoverable
// CEL failure (§6.3). It implements Go's error interface, so callers that
// don't care about the kind can treat it like any other error.
type CelError struct {
	Kind CelErrorKind
	Msg  string
}

func (e *CelError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

var internalToCelKind = map[value.ErrorKind]CelErrorKind{
	value.ErrTypeMismatch: ErrorTypeMismatch,
	value.ErrOverflow:     ErrorOverflow,
	value.ErrDivByZero:    ErrorDivByZero,
	value.ErrIndexRange:   ErrorIndexRange,
	value.ErrNoSuchField:  ErrorNoSuchField,
	value.ErrNoSuchIdent:  ErrorNoSuchIdent,
	value.ErrDomain:       ErrorDomain,
}

// toCelError converts the error sentinel surviving to the top of an
// evaluation into the one boundary error type. v must satisfy
// value.IsError.
func toCelError(v value.Value) *CelError {
	err, ok := value.AsError(v)
	if !ok {
		return &CelError{Kind: ErrorTypeMismatch, Msg: "unrecognized internal error value"}
	}
	kind, ok := internalToCelKind[err.ErrKind]
	if !ok {
		kind = ErrorTypeMismatch
	}
	return &CelError{Kind: kind, Msg: err.Error()}
}

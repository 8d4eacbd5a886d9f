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

package value

import "bytes"

// RelOp is one of <, <=, > or >=.
type RelOp int

const (
	OpLss RelOp = iota
	OpLeq
	OpGtr
	OpGeq
)

// Compare implements CEL's relational operators (§4.2): same-type numerics
// (with cross-numeric support), strings, bytes, booleans, timestamps and
// durations. Any other combination is the error sentinel; NaN comparisons
// yield false, never true, never error.
func Compare(op RelOp, a, b Value) Value {
	a, b = Unwrap(a), Unwrap(b)
	if IsError(a) || IsError(b) {
		return NewError(ErrTypeMismatch, "cannot compare error value")
	}
	if a.Kind().IsNumeric() && b.Kind().IsNumeric() {
		c, ok := numericCompare(a, b)
		if !ok {
			return Bool(false) // NaN
		}
		return Bool(applyOp(op, c))
	}
	if a.Kind() != b.Kind() {
		return NewError(ErrTypeMismatch, "cannot compare "+a.Kind().String()+" and "+b.Kind().String())
	}
	switch av := a.(type) {
	case String:
		return Bool(applyOp(op, cmpString(string(av), string(b.(String)))))
	case Bytes:
		return Bool(applyOp(op, bytes.Compare(av, b.(Bytes))))
	case Bool:
		return Bool(applyOp(op, cmpBool(bool(av), bool(b.(Bool)))))
	case Timestamp:
		bv := b.(Timestamp)
		return Bool(applyOp(op, cmpTimestamp(av, bv)))
	case Duration:
		bv := b.(Duration)
		return Bool(applyOp(op, cmpDuration(av, bv)))
	}
	return NewError(ErrTypeMismatch, "type "+a.Kind().String()+" does not support relational operators")
}

func applyOp(op RelOp, c int) bool {
	switch op {
	case OpLss:
		return c < 0
	case OpLeq:
		return c <= 0
	case OpGtr:
		return c > 0
	case OpGeq:
		return c >= 0
	}
	return false
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b { // false < true
		return -1
	}
	return 1
}

func cmpTimestamp(a, b Timestamp) int {
	if a.Seconds != b.Seconds {
		if a.Seconds < b.Seconds {
			return -1
		}
		return 1
	}
	if a.Nanos != b.Nanos {
		if a.Nanos < b.Nanos {
			return -1
		}
		return 1
	}
	return 0
}

func cmpDuration(a, b Duration) int {
	// Duration is normalized (§3.4); compare as total nanoseconds would
	// overflow for extreme values, so compare seconds first like Timestamp.
	if a.Seconds != b.Seconds {
		if a.Seconds < b.Seconds {
			return -1
		}
		return 1
	}
	if a.Nanos != b.Nanos {
		if a.Nanos < b.Nanos {
			return -1
		}
		return 1
	}
	return 0
}

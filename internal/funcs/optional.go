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

package funcs

import "github.com/kestrelcel/cel/internal/value"

func init() {
	register(&Func{Name: "optional.none", Func: optionalNone})
	register(&Func{Name: "optional.of", Func: optionalOf})
	register(&Func{Name: "optional.ofNonZeroValue", Func: optionalOfNonZeroValue})
	register(&Func{Name: "hasValue", Func: optionalHasValue})
	register(&Func{Name: "value", Func: optionalValue})
	register(&Func{Name: "or", Func: optionalOr})
	register(&Func{Name: "orValue", Func: optionalOrValue})
	register(&Func{Name: "optMap", Func: optionalMap})
	register(&Func{Name: "optFlatMap", Func: optionalFlatMap})
}

func optionalNone(args []value.Value) value.Value {
	if len(args) != 0 {
		return errArgs("optional.none")
	}
	return value.None
}

func optionalOf(args []value.Value) value.Value {
	if len(args) != 1 {
		return errArgs("optional.of")
	}
	if value.IsError(args[0]) {
		return args[0]
	}
	return value.Some(args[0])
}

// isZero reports whether v is the zero value of its kind, the predicate
// optional.ofNonZeroValue needs to decide whether to produce none or
// some(v) (§4.10).
func isZero(v value.Value) bool {
	switch x := value.Unwrap(v).(type) {
	case value.Int:
		return x == 0
	case value.Uint:
		return x == 0
	case value.Double:
		return x == 0
	case value.String:
		return x == ""
	case value.Bytes:
		return len(x) == 0
	case value.Bool:
		return !bool(x)
	case *value.List:
		return len(x.Elems) == 0
	case *value.Map:
		return len(x.Entries) == 0
	case value.Null:
		return true
	}
	return false
}

func optionalOfNonZeroValue(args []value.Value) value.Value {
	if len(args) != 1 {
		return errArgs("optional.ofNonZeroValue")
	}
	if value.IsError(args[0]) {
		return args[0]
	}
	if isZero(args[0]) {
		return value.None
	}
	return value.Some(args[0])
}

func asOptional(v value.Value) (value.Optional, bool) {
	o, ok := value.Unwrap(v).(value.Optional)
	return o, ok
}

func optionalHasValue(args []value.Value) value.Value {
	if len(args) != 1 {
		return errArgs("hasValue")
	}
	o, ok := asOptional(args[0])
	if !ok {
		return errArgs("hasValue")
	}
	return value.Bool(o.Has)
}

func optionalValue(args []value.Value) value.Value {
	if len(args) != 1 {
		return errArgs("value")
	}
	o, ok := asOptional(args[0])
	if !ok {
		return errArgs("value")
	}
	if !o.Has {
		return value.NewError(value.ErrNoSuchField, "value: optional is none")
	}
	return o.Val
}

// optionalOr implements `or`: the first present optional of the pair, or
// none if both are none.
func optionalOr(args []value.Value) value.Value {
	if len(args) != 2 {
		return errArgs("or")
	}
	a, ok := asOptional(args[0])
	if !ok {
		return errArgs("or")
	}
	if a.Has {
		return a
	}
	b, ok := asOptional(args[1])
	if !ok {
		return errArgs("or")
	}
	return b
}

// optionalOrValue implements `orValue`: the optional's wrapped value, or a
// plain fallback value if it is none.
func optionalOrValue(args []value.Value) value.Value {
	if len(args) != 2 {
		return errArgs("orValue")
	}
	a, ok := asOptional(args[0])
	if !ok {
		return errArgs("orValue")
	}
	if a.Has {
		return a.Val
	}
	return args[1]
}

// optionalMap is the registry entry for `optMap`. It always returns a
// type-mismatch error: the parser expands `x.optMap(v, e)` and
// `x.optFlatMap(v, e)` into a ternary over a one-element comprehension
// (see expandOptionalMacro in internal/parser), and a bare Func here
// cannot carry a bound lambda. optionalFlatMap below does the same.
func optionalMap(args []value.Value) value.Value {
	return value.NewError(value.ErrTypeMismatch, "optMap must be lowered by the emitter, not called as a plain function")
}

func optionalFlatMap(args []value.Value) value.Value {
	return value.NewError(value.ErrTypeMismatch, "optFlatMap must be lowered by the emitter, not called as a plain function")
}

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

package eval

import "github.com/kestrelcel/cel/internal/value"

// coreFuncs are the predeclared conversions and size() (§4.9, §4.4): these
// live in internal/value itself rather than internal/funcs, since they are
// part of the base language rather than an opt-in extension namespace, but
// they are invoked through the same Call dispatch as everything else.
var coreFuncs = map[string]func([]value.Value) value.Value{
	"int":       wrap1("int", value.ToInt),
	"uint":      wrap1("uint", value.ToUint),
	"double":    wrap1("double", value.ToDouble),
	"bool":      wrap1("bool", value.ToBool),
	"bytes":     wrap1("bytes", value.ToBytes),
	"string":    wrap1("string", value.ToString),
	"type":      wrap1("type", value.ToType),
	"dyn":       wrap1("dyn", value.Dyn),
	"size":      wrap1("size", value.Size),
	"timestamp": coreTimestamp,
	"duration":  wrap1("duration", coreDuration),
}

func coreDuration(v value.Value) value.Value {
	s, ok := value.Unwrap(v).(value.String)
	if !ok {
		return value.NewError(value.ErrTypeMismatch, "duration() requires a string argument")
	}
	return value.NewDuration(string(s))
}

// coreTimestamp implements the single-argument RFC3339 form and the
// supplemented two-argument `timestamp(s, format)` form (SPEC_FULL.md §12),
// where format is a Go reference-time layout (e.g. "2006-01-02") rather
// than a strftime pattern.
func coreTimestamp(args []value.Value) value.Value {
	switch len(args) {
	case 1:
		s, ok := value.Unwrap(args[0]).(value.String)
		if !ok {
			return value.NewError(value.ErrTypeMismatch, "timestamp() requires a string argument")
		}
		return value.NewTimestamp(string(s))
	case 2:
		s, ok := value.Unwrap(args[0]).(value.String)
		format, ok2 := value.Unwrap(args[1]).(value.String)
		if !ok || !ok2 {
			return value.NewError(value.ErrTypeMismatch, "timestamp() requires two string arguments")
		}
		return value.NewTimestampWithLayout(string(format), string(s))
	}
	return value.NewError(value.ErrTypeMismatch, "timestamp() takes one or two arguments")
}

func wrap1(name string, fn func(value.Value) value.Value) func([]value.Value) value.Value {
	return func(args []value.Value) value.Value {
		if len(args) != 1 {
			return value.NewError(value.ErrTypeMismatch, name+"() takes exactly one argument")
		}
		return fn(args[0])
	}
}

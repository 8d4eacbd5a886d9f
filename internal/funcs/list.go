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

// This file holds the list helpers supplemented beyond the distilled
// surface (SPEC_FULL.md §12): distinct, flatten and slice, following the
// same method-call-on-list shape as strings.* and math.*.
package funcs

import "github.com/kestrelcel/cel/internal/value"

func init() {
	register(&Func{Name: "list.distinct", Func: listDistinct})
	register(&Func{Name: "list.flatten", Func: listFlatten})
	register(&Func{Name: "list.slice", Func: listSlice})
}

func listDistinct(args []value.Value) value.Value {
	if len(args) != 1 {
		return errArgs("list.distinct")
	}
	l, ok := value.Unwrap(args[0]).(*value.List)
	if !ok {
		return errArgs("list.distinct")
	}
	var out []value.Value
	for _, e := range l.Elems {
		dup := false
		for _, seen := range out {
			r := value.Equal(e, seen)
			if !value.IsError(r) && bool(r.(value.Bool)) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return value.NewList(out...)
}

// listFlatten flattens one level of list-of-lists nesting, or to a
// caller-given depth when a second integer argument is present.
func listFlatten(args []value.Value) value.Value {
	if len(args) < 1 || len(args) > 2 {
		return errArgs("list.flatten")
	}
	l, ok := value.Unwrap(args[0]).(*value.List)
	if !ok {
		return errArgs("list.flatten")
	}
	depth := int64(1)
	if len(args) == 2 {
		d, ok := value.Unwrap(args[1]).(value.Int)
		if !ok {
			return errArgs("list.flatten")
		}
		depth = int64(d)
	}
	return flattenTo(l, depth)
}

func flattenTo(l *value.List, depth int64) value.Value {
	if depth <= 0 {
		return l
	}
	var out []value.Value
	for _, e := range l.Elems {
		if sub, ok := value.Unwrap(e).(*value.List); ok {
			flat := flattenTo(sub, depth-1)
			if value.IsError(flat) {
				return flat
			}
			out = append(out, flat.(*value.List).Elems...)
			continue
		}
		out = append(out, e)
	}
	return value.NewList(out...)
}

func listSlice(args []value.Value) value.Value {
	if len(args) != 3 {
		return errArgs("list.slice")
	}
	l, ok := value.Unwrap(args[0]).(*value.List)
	start, ok2 := value.Unwrap(args[1]).(value.Int)
	end, ok3 := value.Unwrap(args[2]).(value.Int)
	if !ok || !ok2 || !ok3 {
		return errArgs("list.slice")
	}
	if start < 0 || end > value.Int(len(l.Elems)) || start > end {
		return value.NewError(value.ErrIndexRange, "list.slice: out of range")
	}
	return value.NewList(l.Elems[start:end]...)
}

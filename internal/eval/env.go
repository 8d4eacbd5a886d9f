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

import (
	"strings"

	"github.com/kestrelcel/cel/internal/token"
	"github.com/kestrelcel/cel/internal/value"
)

// env is one binding frame, chained to its parent the way nested CUE scopes
// chain in internal/core/adt's environment — each comprehension step and
// result gets its own child frame for the iteration variables and
// accumulator rather than mutating the caller's bindings.
type env struct {
	parent *env
	vars   map[string]value.Value
}

func newRootEnv(bindings map[string]value.Value) *env {
	return &env{vars: bindings}
}

func (e *env) child() *env {
	return &env{parent: e, vars: make(map[string]value.Value, 2)}
}

func (e *env) lookup(name string) (value.Value, bool) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// lookupWithContainer tries name qualified by the compile-time container
// namespace first, then by each shorter dotted prefix of the container
// (container "x.y" tries "x.y.name", then "x.name"), then unqualified,
// matching the container-prefix search order of §4.5.
func lookupWithContainer(e *env, container, name string) (value.Value, bool) {
	for prefix := container; prefix != ""; {
		if v, ok := e.lookup(prefix + "." + name); ok {
			return v, true
		}
		i := strings.LastIndex(prefix, ".")
		if i < 0 {
			break
		}
		prefix = prefix[:i]
	}
	return e.lookup(name)
}

// resolveQualIdent implements the longest-prefix-wins binding search of
// §4.5: try the whole dotted path as a single binding name, then each
// shorter prefix in turn, and once a prefix resolves, apply the remaining
// path components as ordinary field selects on the bound value.
func resolveQualIdent(e *env, container string, parts []string, pos token.Position) value.Value {
	for i := len(parts); i >= 1; i-- {
		name := strings.Join(parts[:i], ".")
		v, ok := lookupWithContainer(e, container, name)
		if !ok {
			continue
		}
		result := v
		for _, field := range parts[i:] {
			result = selectField(result, field)
			if value.IsError(result) {
				return result
			}
		}
		return result
	}
	return value.NewError(value.ErrNoSuchIdent, "undeclared reference to '"+strings.Join(parts, ".")+"'").WithPos(pos)
}

// selectField is the field-access rule shared by plain selects and the
// tail of a fused qualified identifier (§4.4): structs use the §4.8
// convention-default fallback, maps index by string key, everything else
// is a type error.
func selectField(v value.Value, field string) value.Value {
	v = value.Unwrap(v)
	switch x := v.(type) {
	case *value.Struct:
		return value.FieldOrDefault(x, field)
	case *value.Map:
		return value.Index(x, value.String(field))
	}
	return value.NewError(value.ErrTypeMismatch, "field selection on non-struct/map value of type "+v.Kind().String())
}

// testField is the has()/TestOnly rule (§4.8): true/false for structs and
// maps, error for anything else.
func testField(v value.Value, field string) value.Value {
	v = value.Unwrap(v)
	switch x := v.(type) {
	case *value.Struct:
		return value.Has(x, field)
	case *value.Map:
		return value.In(value.String(field), x)
	}
	return value.NewError(value.ErrTypeMismatch, "has() on non-struct/map value of type "+v.Kind().String())
}

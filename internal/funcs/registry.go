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

// Package funcs holds the predeclared extension functions the runtime
// exposes under dotted namespaces (§4.10): math, strings, base64, network,
// optional and the timestamp/duration accessors, plus a handful of
// supplemented collection helpers (§12). Each one is registered the way the
// core compiler registers predeclared builtins, as a plain name/Func
// table rather than a reflective method set — see internal/core/compile's
// builtin table, which this package's shape is grounded on.
package funcs

import "github.com/kestrelcel/cel/internal/value"

// Func is one predeclared extension function: a name under which the
// emitter looks it up on a Call node, and the Go closure implementing it.
// Funcs never panic; an unsupported argument shape returns the error
// sentinel like every other value-runtime operation.
type Func struct {
	Name string
	Func func(args []value.Value) value.Value
}

var registry = map[string]*Func{}

func register(f *Func) {
	registry[f.Name] = f
}

// Lookup returns the extension function registered under name, if any.
func Lookup(name string) (*Func, bool) {
	f, ok := registry[name]
	return f, ok
}

// Names returns every registered extension function name, primarily for
// diagnostics and tests.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}

func errArgs(name string) value.Value {
	return value.NewError(value.ErrTypeMismatch, name+": wrong number or type of arguments")
}

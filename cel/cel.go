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

// Package cel is the module's public boundary (§6): Compile parses and
// lowers a CEL source string to a CompileResult, whose Evaluate method
// runs it against a caller-supplied BindingMap and returns a host-native
// CelValue or, if the internal error sentinel reaches the top of the
// expression tree, a *CelError. Nothing below this package ever returns a
// Go error for a recoverable CEL failure (§7, §9's "tagged result" note);
// this is the one place that boundary gets crossed.
package cel

import (
	"time"

	"go.uber.org/zap"

	"github.com/kestrelcel/cel/internal/celog"
	"github.com/kestrelcel/cel/internal/eval"
	"github.com/kestrelcel/cel/internal/ir"
	"github.com/kestrelcel/cel/internal/parser"
	"github.com/kestrelcel/cel/internal/transform"
	"github.com/kestrelcel/cel/internal/value"
)

// CompileOptions configures one Compile call (§6.1).
type CompileOptions struct {
	// DisableMacros rejects has/all/exists/exists_one/map/filter/optMap/
	// optFlatMap at parse time instead of expanding them, for embedders
	// that want a restricted predicate subset.
	DisableMacros bool
	// Container is the dotted namespace prefix unqualified identifiers
	// are resolved against before falling back to the bare name (§4.5).
	Container string
}

// CompileResult is a successfully compiled expression, ready to be
// evaluated against any number of binding sets (§6.1).
type CompileResult struct {
	root      ir.Node
	container string
	// Source is a diagnostic rendering of the emitted IR — not
	// executable, not parseable, just useful in a debugger or test
	// failure message.
	Source string
}

// WithLogger installs l as the package-wide diagnostic logger (§10.2):
// compile-stage timing and a warning whenever Evaluate surfaces the error
// sentinel to the boundary. The default is a no-op logger, so a caller
// that never calls WithLogger pays nothing for this.
func WithLogger(l *zap.Logger) {
	celog.Set(l)
}

// Compile parses source, expands its macros (unless disabled), lowers it
// to IR, and returns a CompileResult. A non-nil error here is always a
// parse-time problem (§7 error kind 1); it is a Go error, not a CelError,
// because it happens before there is any expression tree to evaluate.
func Compile(source string, options CompileOptions) (CompileResult, error) {
	start := time.Now()
	expr, err := parser.ParseExpr(source, options.DisableMacros)
	if err != nil {
		return CompileResult{}, err
	}
	root, err := transform.Transform(expr)
	if err != nil {
		return CompileResult{}, err
	}
	result := CompileResult{root: root, container: options.Container, Source: eval.Render(root)}
	celog.L().Debug("cel: compiled",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("source_len", len(source)),
	)
	return result, nil
}

// BindingMap is a name-to-value mapping a caller supplies to Evaluate
// (§6.1, GLOSSARY "Binding"). Keys may be simple identifiers or
// already-qualified dotted paths; values are host-native Go shapes per
// §6.2, converted to the internal value model at the Evaluate boundary.
type BindingMap map[string]interface{}

// CelValue is a host-native result per §6.2: Go's own int64/float64/
// string/[]byte/bool for scalars, []interface{} for lists,
// map[interface{}]interface{} for maps, and the typed wrapper structs
// of convert.go (Uint, Timestamp, Duration, TypeName, Optional, Struct,
// IP, CIDR) for everything that doesn't have a bare Go equivalent.
type CelValue = interface{}

// Evaluate runs the compiled expression against bindings and converts the
// result to a host-native CelValue. If the internal error sentinel
// reaches the top of the expression, Evaluate returns a *CelError (§6.3).
// A binding or result with no boundary conversion is reported as a plain
// Go error instead.
func (r CompileResult) Evaluate(bindings BindingMap) (CelValue, error) {
	internalBindings, err := toInternalBindings(bindings)
	if err != nil {
		return nil, err
	}
	result := eval.Eval(r.root, internalBindings, r.container)
	if value.IsError(result) {
		celErr := toCelError(result)
		celog.L().Warn("cel: evaluate returned the error sentinel", zap.String("error", celErr.Error()))
		return nil, celErr
	}
	return toHost(result)
}

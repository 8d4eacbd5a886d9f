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
	"errors"
	"testing"

	qt "github.com/go-quicktest/qt"
	"go.uber.org/zap"
)

func mustCompile(t *testing.T, source string, opts CompileOptions) CompileResult {
	t.Helper()
	r, err := Compile(source, opts)
	qt.Assert(t, qt.IsNil(err))
	return r
}

func TestCompileAndEvaluateArithmetic(t *testing.T) {
	r := mustCompile(t, "1 + 2 * 3", CompileOptions{})
	got, err := r.Evaluate(BindingMap{})
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals[any](got, int64(7)))
}

func TestEvaluateUsesBindings(t *testing.T) {
	r := mustCompile(t, "x + y", CompileOptions{})
	got, err := r.Evaluate(BindingMap{"x": int64(40), "y": int64(2)})
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals[any](got, int64(42)))
}

func TestEvaluateReturnsCelErrorOnDivByZero(t *testing.T) {
	r := mustCompile(t, "1 / 0", CompileOptions{})
	_, err := r.Evaluate(BindingMap{})
	qt.Assert(t, qt.IsNotNil(err))
	var celErr *CelError
	qt.Assert(t, qt.IsTrue(errors.As(err, &celErr)))
	qt.Check(t, qt.Equals(celErr.Kind, ErrorDivByZero))
	qt.Check(t, qt.Equals(celErr.Kind.String(), "division by zero"))
}

func TestEvaluateReturnsCelErrorOnIndexOutOfRange(t *testing.T) {
	r := mustCompile(t, "[1, 2][5]", CompileOptions{})
	_, err := r.Evaluate(BindingMap{})
	qt.Assert(t, qt.IsNotNil(err))
	celErr, ok := err.(*CelError)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(celErr.Kind, ErrorIndexRange))
}

func TestEvaluateReturnsCelErrorOnNoSuchField(t *testing.T) {
	r := mustCompile(t, "a.b", CompileOptions{})
	_, err := r.Evaluate(BindingMap{"a": Struct{TypeName: "pkg.T", Fields: map[string]interface{}{"c": int64(1)}}})
	qt.Assert(t, qt.IsNotNil(err))
	celErr, ok := err.(*CelError)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(celErr.Kind, ErrorNoSuchField))
}

func TestCompileRejectsMacrosWhenDisabled(t *testing.T) {
	_, err := Compile("[1,2].all(x, x > 0)", CompileOptions{DisableMacros: true})
	qt.Assert(t, qt.IsNotNil(err))
}

func TestCompileParseErrorIsPlainGoError(t *testing.T) {
	_, err := Compile("1 +", CompileOptions{})
	qt.Assert(t, qt.IsNotNil(err))
	var celErr *CelError
	qt.Check(t, qt.IsTrue(!errors.As(err, &celErr)))
}

func TestContainerResolvesUnqualifiedIdent(t *testing.T) {
	r := mustCompile(t, "greeting", CompileOptions{Container: "pkg"})
	got, err := r.Evaluate(BindingMap{"pkg.greeting": "hi"})
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(got, "hi"))
}

func TestContainerFallsBackToUnqualifiedBinding(t *testing.T) {
	r := mustCompile(t, "greeting", CompileOptions{Container: "pkg"})
	got, err := r.Evaluate(BindingMap{"greeting": "hi"})
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(got, "hi"))
}

func TestEvaluateRoundTripsListAndMap(t *testing.T) {
	r := mustCompile(t, "{\"a\": [1, 2, 3]}", CompileOptions{})
	got, err := r.Evaluate(BindingMap{})
	qt.Assert(t, qt.IsNil(err))
	m, ok := got.(map[interface{}]interface{})
	qt.Assert(t, qt.IsTrue(ok))
	list, ok := m["a"].([]interface{})
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.DeepEquals(list, []interface{}{int64(1), int64(2), int64(3)}))
}

func TestEvaluateRoundTripsUintBinding(t *testing.T) {
	r := mustCompile(t, "x", CompileOptions{})
	got, err := r.Evaluate(BindingMap{"x": Uint(42)})
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals[any](got, Uint(42)))
}

func TestEvaluateRoundTripsOptionalNone(t *testing.T) {
	r := mustCompile(t, "x", CompileOptions{})
	got, err := r.Evaluate(BindingMap{"x": Optional{Has: false}})
	qt.Assert(t, qt.IsNil(err))
	opt, ok := got.(Optional)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.IsFalse(opt.Has))
}

func TestEvaluateRoundTripsOptionalSome(t *testing.T) {
	r := mustCompile(t, "x", CompileOptions{})
	got, err := r.Evaluate(BindingMap{"x": Optional{Has: true, Value: int64(7)}})
	qt.Assert(t, qt.IsNil(err))
	opt, ok := got.(Optional)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.IsTrue(opt.Has))
	qt.Check(t, qt.Equals[any](opt.Value, int64(7)))
}

func TestEvaluateRejectsUnconvertibleBinding(t *testing.T) {
	r := mustCompile(t, "x", CompileOptions{})
	type notConvertible struct{}
	_, err := r.Evaluate(BindingMap{"x": notConvertible{}})
	qt.Assert(t, qt.IsNotNil(err))
	var celErr *CelError
	qt.Check(t, qt.IsTrue(!errors.As(err, &celErr)))
}

func TestEvaluateRoundTripsStructBinding(t *testing.T) {
	r := mustCompile(t, "has(a.b) ? a.b : -1", CompileOptions{})
	got, err := r.Evaluate(BindingMap{"a": Struct{TypeName: "pkg.T", Fields: map[string]interface{}{"b": int64(9)}}})
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals[any](got, int64(9)))
}

func TestCelErrorKindStringUnknownFallsBackToGenericLabel(t *testing.T) {
	var k CelErrorKind = 99
	qt.Check(t, qt.Equals(k.String(), "error"))
}

func TestCelErrorErrorFormatsKindThenMessage(t *testing.T) {
	e := &CelError{Kind: ErrorDomain, Msg: "shift exceeds width"}
	qt.Check(t, qt.Equals(e.Error(), "value out of domain: shift exceeds width"))
}

func TestWithLoggerInstallsAndResetsLogger(t *testing.T) {
	WithLogger(zap.NewExample())
	defer WithLogger(nil)
	r := mustCompile(t, "1 + 1", CompileOptions{})
	got, err := r.Evaluate(BindingMap{})
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals[any](got, int64(2)))
}

func TestSourceFieldIsDiagnosticRendering(t *testing.T) {
	r := mustCompile(t, "1 + 1", CompileOptions{})
	qt.Check(t, qt.IsTrue(len(r.Source) > 0))
}

// Copyright 2018 The CUE Authors
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

package parser

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/kestrelcel/cel/internal/ast"
)

func TestParseArithmeticPrecedence(t *testing.T) {
	// 1 + 2 * 3 must parse as 1 + (2 * 3), §8 scenario 1.
	e, err := ParseExpr("1 + 2 * 3", false)
	qt.Assert(t, qt.IsNil(err))
	call, ok := e.(*ast.Call)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(call.Fn, ast.OpAdd))
	rhs, ok := call.Args[1].(*ast.Call)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(rhs.Fn, ast.OpMul))
}

func TestParseIntLiteral(t *testing.T) {
	e, err := ParseExpr("42", false)
	qt.Assert(t, qt.IsNil(err))
	lit, ok := e.(*ast.IntLit)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(lit.Value, int64(42)))
}

func TestParseHexIntLiteral(t *testing.T) {
	e, err := ParseExpr("0xff", false)
	qt.Assert(t, qt.IsNil(err))
	lit, ok := e.(*ast.IntLit)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(lit.Value, int64(255)))
}

func TestParseLeadingZeroDecimalIsNotOctal(t *testing.T) {
	// "018" has no valid octal digit 8; it must still parse as decimal 18.
	e, err := ParseExpr("018", false)
	qt.Assert(t, qt.IsNil(err))
	lit, ok := e.(*ast.IntLit)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(lit.Value, int64(18)))
}

func TestParseOutOfRangeIntLiteralIsParseError(t *testing.T) {
	// One past math.MaxInt64: must be a parse error, not a silent wraparound.
	_, err := ParseExpr("9223372036854775808", false)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestParseMaxUintLiteral(t *testing.T) {
	e, err := ParseExpr("18446744073709551615u", false)
	qt.Assert(t, qt.IsNil(err))
	lit, ok := e.(*ast.UintLit)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(lit.Value, uint64(18446744073709551615)))
}

func TestParseOutOfRangeHexUintLiteralIsParseError(t *testing.T) {
	// One hex digit past the 64-bit uint range.
	_, err := ParseExpr("0x1ffffffffffffffffu", false)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestParseHasExpandsToTestOnlySelect(t *testing.T) {
	e, err := ParseExpr("has(a.b)", false)
	qt.Assert(t, qt.IsNil(err))
	sel, ok := e.(*ast.Select)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.IsTrue(sel.TestOnly))
	qt.Check(t, qt.Equals(sel.Field, "b"))
}

func TestParseHasRejectsNonSelectArgument(t *testing.T) {
	_, err := ParseExpr("has(1)", false)
	qt.Assert(t, qt.Not(qt.IsNil(err)))
}

func TestDisableMacrosRejectsHas(t *testing.T) {
	_, err := ParseExpr("has(a.b)", true)
	qt.Assert(t, qt.Not(qt.IsNil(err)))
}

func TestParseAllExpandsToComprehension(t *testing.T) {
	e, err := ParseExpr("xs.all(x, x > 0)", false)
	qt.Assert(t, qt.IsNil(err))
	comp, ok := e.(*ast.Comprehension)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(comp.IterVar, "x"))
	qt.Check(t, qt.Equals(comp.AccuVar, ast.AccumulatorName))
}

func TestParseTernaryRightAssociative(t *testing.T) {
	e, err := ParseExpr("a ? b : c ? d : e", false)
	qt.Assert(t, qt.IsNil(err))
	call, ok := e.(*ast.Call)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(call.Fn, ast.OpTernary))
	_, elseIsTernary := call.Args[2].(*ast.Call)
	qt.Check(t, qt.IsTrue(elseIsTernary))
}

func TestParseOptMapExpandsToTernary(t *testing.T) {
	e, err := ParseExpr("x.optMap(v, v + 1)", false)
	qt.Assert(t, qt.IsNil(err))
	call, ok := e.(*ast.Call)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(call.Fn, ast.OpTernary))
}

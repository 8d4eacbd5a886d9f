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

package transform

import (
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/google/go-cmp/cmp"

	"github.com/kestrelcel/cel/internal/ir"
	"github.com/kestrelcel/cel/internal/parser"
)

func lower(t *testing.T, source string) ir.Node {
	t.Helper()
	e, err := parser.ParseExpr(source, false)
	qt.Assert(t, qt.IsNil(err))
	n, err := Transform(e)
	qt.Assert(t, qt.IsNil(err))
	return n
}

func TestSelectChainFusesToQualIdent(t *testing.T) {
	n := lower(t, "a.b.c")
	q, ok := n.(*ir.QualIdent)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.DeepEquals(q.Parts, []string{"a", "b", "c"}))
}

func TestOptionalSelectNeverFuses(t *testing.T) {
	n := lower(t, "a.b?.c")
	sel, ok := n.(*ir.OptSelect)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(sel.Field, "c"))
	// The fused prefix up to the optional hop still collapses.
	q, ok := sel.Operand.(*ir.QualIdent)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.DeepEquals(q.Parts, []string{"a", "b"}))
}

func TestTestOnlySelectNeverFuses(t *testing.T) {
	n := lower(t, "has(a.b.c)")
	sel, ok := n.(*ir.Select)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.IsTrue(sel.TestOnly))
	qt.Check(t, qt.Equals(sel.Field, "c"))
	q, ok := sel.Operand.(*ir.QualIdent)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.DeepEquals(q.Parts, []string{"a", "b"}))
}

func TestSelectChainBreaksOnCallResult(t *testing.T) {
	// The chain root is a call, not an identifier, so fusion stops there
	// and only the trailing field becomes a plain Select.
	n := lower(t, "f(x).b")
	sel, ok := n.(*ir.Select)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(sel.Field, "b"))
	_, isCall := sel.Operand.(*ir.Call)
	qt.Check(t, qt.IsTrue(isCall))
}

func TestLogicalAndAllocatesDistinctTempNames(t *testing.T) {
	n := lower(t, "a && b")
	land, ok := n.(*ir.LogicalAnd)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Not(qt.Equals(land.TempL, land.TempR)))
	qt.Check(t, qt.Not(qt.Equals(land.TempL, "")))
}

func TestNestedLogicalOpsAllocateUniqueTempsAcrossTheTree(t *testing.T) {
	n := lower(t, "(a && b) || (c && d)")
	lor, ok := n.(*ir.LogicalOr)
	qt.Assert(t, qt.IsTrue(ok))
	left, ok := lor.Left.(*ir.LogicalAnd)
	qt.Assert(t, qt.IsTrue(ok))
	right, ok := lor.Right.(*ir.LogicalAnd)
	qt.Assert(t, qt.IsTrue(ok))
	names := map[string]bool{
		lor.TempL: true, lor.TempR: true,
		left.TempL: true, left.TempR: true,
		right.TempL: true, right.TempR: true,
	}
	qt.Check(t, qt.Equals(len(names), 6))
}

func TestTernaryLowersConditionThenElse(t *testing.T) {
	n := lower(t, "a ? b : c")
	tern, ok := n.(*ir.Ternary)
	qt.Assert(t, qt.IsTrue(ok))
	_, ok = tern.Cond.(*ir.QualIdent)
	qt.Check(t, qt.IsTrue(ok))
}

func TestComprehensionCarriesLoopProtocolFields(t *testing.T) {
	n := lower(t, "xs.all(x, x > 0)")
	comp, ok := n.(*ir.Comprehension)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(comp.IterVar, "x"))
	qt.Check(t, qt.Not(qt.Equals(comp.AccuVar, "")))
	qt.Check(t, qt.Not(qt.IsNil(comp.Range)))
	qt.Check(t, qt.Not(qt.IsNil(comp.Cond)))
	qt.Check(t, qt.Not(qt.IsNil(comp.Step)))
	qt.Check(t, qt.Not(qt.IsNil(comp.Result)))
}

func TestLoweringIsDeterministicAcrossIndependentRuns(t *testing.T) {
	const source = "(a && b) || xs.filter(x, x > 0).map(x, x * 2)"
	first := lower(t, source)
	second := lower(t, source)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("lowering %q twice produced different IR:\n%s", source, diff)
	}
}

func TestCreateListPreservesOptionalMarker(t *testing.T) {
	n := lower(t, "[1, ?x]")
	cl, ok := n.(*ir.CreateList)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(len(cl.Elements), 2))
	qt.Check(t, qt.IsFalse(cl.Elements[0].Optional))
	qt.Check(t, qt.IsTrue(cl.Elements[1].Optional))
}

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

// Package transform lowers the macro-expanded CEL-AST into the IR the
// emitter consumes. It performs exactly two structural rewrites beyond a
// one-to-one node translation: fusing chained field-select expressions into
// a single qualified-identifier candidate for §4.5's longest-prefix
// resolution, and allocating the two named temporaries §4.6's commutative
// `&&`/`||` evaluation needs. Everything else — operator dispatch, literal
// folding, comprehension shape — carries straight over.
//
// Grounded on internal/core/compile's AST-to-ADT walk (the teacher's own
// "compile" stage), generalized from CUE's unification expressions to
// CEL's call/select/comprehension shapes.
package transform

import (
	"fmt"

	"github.com/kestrelcel/cel/internal/ast"
	"github.com/kestrelcel/cel/internal/errors"
	"github.com/kestrelcel/cel/internal/ir"
	"github.com/kestrelcel/cel/internal/value"
)

// Transformer carries the state threaded through one compilation: the
// temp-name counter for logical-operator lowering and the error list
// accumulated along the way (grounded on internal/core/compile.compiler).
type Transformer struct {
	tmp  int
	errs errors.List
}

// New returns a fresh Transformer.
func New() *Transformer { return &Transformer{} }

// Transform lowers a CEL-AST expression into IR. A non-nil error means the
// AST itself was malformed (arity, missing components) — not a runtime
// evaluation failure, which is always represented by the value error
// sentinel instead.
func Transform(root ast.Expr) (ir.Node, error) {
	t := New()
	n := t.expr(root)
	if err := t.errs.Err(); err != nil {
		return nil, err
	}
	return n, nil
}

func (t *Transformer) newTemp(prefix string) string {
	t.tmp++
	return fmt.Sprintf("__%s%d__", prefix, t.tmp)
}

func (t *Transformer) expr(n ast.Expr) ir.Node {
	switch x := n.(type) {
	case *ast.IntLit:
		return &ir.Lit{Base: ir.NewBase(x.Pos()), Value: value.Int(x.Value)}
	case *ast.UintLit:
		return &ir.Lit{Base: ir.NewBase(x.Pos()), Value: value.Uint(x.Value)}
	case *ast.DoubleLit:
		return &ir.Lit{Base: ir.NewBase(x.Pos()), Value: value.Double(x.Value)}
	case *ast.StringLit:
		return &ir.Lit{Base: ir.NewBase(x.Pos()), Value: value.String(x.Value)}
	case *ast.BytesLit:
		return &ir.Lit{Base: ir.NewBase(x.Pos()), Value: value.Bytes(x.Value)}
	case *ast.BoolLit:
		return &ir.Lit{Base: ir.NewBase(x.Pos()), Value: value.Bool(x.Value)}
	case *ast.NullLit:
		return &ir.Lit{Base: ir.NewBase(x.Pos()), Value: value.Null{}}
	case *ast.Ident:
		return &ir.QualIdent{Base: ir.NewBase(x.Pos()), Parts: []string{x.Name}}
	case *ast.Select:
		return t.selectExpr(x)
	case *ast.Call:
		return t.call(x)
	case *ast.CreateList:
		return t.createList(x)
	case *ast.CreateMap:
		return t.createMap(x)
	case *ast.CreateStruct:
		return t.createStruct(x)
	case *ast.Comprehension:
		return t.comprehension(x)
	}
	t.errs.Addf(n.Pos(), "unsupported AST node %T", n)
	return &ir.Lit{Value: value.NewError(value.ErrTypeMismatch, "unsupported expression")}
}

// selectExpr implements the §4.5 chain-fusion: a run of non-optional,
// non-test-only Select nodes rooted at an Ident collapses into one
// ir.QualIdent candidate path; any optional selection, test-only `has()`
// selection, or a non-Ident root short-circuits the fusion at that point.
func (t *Transformer) selectExpr(s *ast.Select) ir.Node {
	if s.Optional {
		return &ir.OptSelect{Base: ir.NewBase(s.Pos()), Operand: t.expr(s.Operand), Field: s.Field}
	}
	parts, ok := fuseSelectChain(s)
	if ok {
		return &ir.QualIdent{Base: ir.NewBase(s.Pos()), Parts: parts}
	}
	return &ir.Select{Base: ir.NewBase(s.Pos()), Operand: t.expr(s.Operand), Field: s.Field, TestOnly: s.TestOnly}
}

func fuseSelectChain(s *ast.Select) ([]string, bool) {
	if s.Optional || s.TestOnly {
		return nil, false
	}
	switch op := s.Operand.(type) {
	case *ast.Ident:
		return []string{op.Name, s.Field}, true
	case *ast.Select:
		parts, ok := fuseSelectChain(op)
		if !ok {
			return nil, false
		}
		return append(parts, s.Field), true
	}
	return nil, false
}

func (t *Transformer) call(c *ast.Call) ir.Node {
	switch c.Fn {
	case ast.OpAnd:
		return t.logical(c, true)
	case ast.OpOr:
		return t.logical(c, false)
	case ast.OpTernary:
		return &ir.Ternary{
			Base: ir.NewBase(c.Pos()),
			Cond: t.expr(c.Args[0]),
			Then: t.expr(c.Args[1]),
			Else: t.expr(c.Args[2]),
		}
	case ast.OpIndex:
		return &ir.Index{Base: ir.NewBase(c.Pos()), Operand: t.expr(c.Args[0]), Key: t.expr(c.Args[1])}
	case ast.OpOptIndex:
		return &ir.OptIndex{Base: ir.NewBase(c.Pos()), Operand: t.expr(c.Args[0]), Key: t.expr(c.Args[1])}
	case ast.OpNeg, ast.OpNot:
		return &ir.Unary{Base: ir.NewBase(c.Pos()), Op: c.Fn, Operand: t.expr(c.Args[0])}
	}
	var target ir.Node
	if c.Target != nil {
		target = t.expr(c.Target)
	}
	args := make([]ir.Node, len(c.Args))
	for i, a := range c.Args {
		args[i] = t.expr(a)
	}
	return &ir.Call{Base: ir.NewBase(c.Pos()), Fn: c.Fn, Target: target, Args: args}
}

// logical lowers `&&`/`||` into the two-temporary form §4.6 specifies:
// each node carries a unique temp name per operand. The emitter evaluates
// both sides once, never short-circuited; the names appear only in
// Render's pseudo-source.
func (t *Transformer) logical(c *ast.Call, and bool) ir.Node {
	left := t.expr(c.Args[0])
	right := t.expr(c.Args[1])
	prefix := "or"
	if and {
		prefix = "and"
	}
	tl, tr := t.newTemp(prefix+"_l"), t.newTemp(prefix+"_r")
	if and {
		return &ir.LogicalAnd{Base: ir.NewBase(c.Pos()), Left: left, Right: right, TempL: tl, TempR: tr}
	}
	return &ir.LogicalOr{Base: ir.NewBase(c.Pos()), Left: left, Right: right, TempL: tl, TempR: tr}
}

func (t *Transformer) createList(c *ast.CreateList) ir.Node {
	elems := make([]ir.ListElem, len(c.Elements))
	for i, e := range c.Elements {
		elems[i] = ir.ListElem{Value: t.expr(e.Value), Optional: e.Optional}
	}
	return &ir.CreateList{Base: ir.NewBase(c.Pos()), Elements: elems}
}

func (t *Transformer) createMap(c *ast.CreateMap) ir.Node {
	entries := make([]ir.MapEntry, len(c.Entries))
	for i, e := range c.Entries {
		entries[i] = ir.MapEntry{Key: t.expr(e.Key), Value: t.expr(e.Value), Optional: e.Optional}
	}
	return &ir.CreateMap{Base: ir.NewBase(c.Pos()), Entries: entries}
}

func (t *Transformer) createStruct(c *ast.CreateStruct) ir.Node {
	entries := make([]ir.StructEntry, len(c.Entries))
	for i, e := range c.Entries {
		entries[i] = ir.StructEntry{Field: e.Field, Value: t.expr(e.Value), Optional: e.Optional}
	}
	return &ir.CreateStruct{Base: ir.NewBase(c.Pos()), MessageName: c.MessageName, Entries: entries}
}

func (t *Transformer) comprehension(c *ast.Comprehension) ir.Node {
	return &ir.Comprehension{
		Base:     ir.NewBase(c.Pos()),
		IterVar:  c.IterVar,
		IterVar2: c.IterVar2,
		Range:    t.expr(c.IterRange),
		AccuVar:  c.AccuVar,
		AccuInit: t.expr(c.AccuInit),
		Cond:     t.expr(c.LoopCondition),
		Step:     t.expr(c.LoopStep),
		Result:   t.expr(c.Result),
	}
}

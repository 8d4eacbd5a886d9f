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

// Package eval is the emitter: it walks IR and produces a value, the way
// internal/core/eval walks a CUE adt.Expr to produce an adt.Value. There is
// no separate "compile to closures" pass — CEL programs are small enough
// that a direct tree-walking evaluator, re-entered once per Evaluate call,
// is the idiomatic choice (and is what every reference CEL runtime in the
// example pack's domain does too).
package eval

import (
	"github.com/kestrelcel/cel/internal/ast"
	"github.com/kestrelcel/cel/internal/funcs"
	"github.com/kestrelcel/cel/internal/ir"
	"github.com/kestrelcel/cel/internal/value"
)

// Eval runs root against bindings under the given container namespace
// (§4.5, §10.3), returning the result or the error sentinel. bindings is
// read, never mutated.
func Eval(root ir.Node, bindings map[string]value.Value, container string) value.Value {
	return evalNode(newRootEnv(bindings), container, root)
}

func evalNode(e *env, container string, n ir.Node) value.Value {
	switch x := n.(type) {
	case *ir.Lit:
		return x.Value
	case *ir.QualIdent:
		return resolveQualIdent(e, container, x.Parts, x.Pos())
	case *ir.Select:
		return evalSelect(e, container, x)
	case *ir.OptSelect:
		return evalOptSelect(e, container, x)
	case *ir.Index:
		return evalIndex(e, container, x)
	case *ir.OptIndex:
		return evalOptIndex(e, container, x)
	case *ir.Unary:
		return evalUnary(e, container, x)
	case *ir.LogicalAnd:
		return evalLogicalAnd(e, container, x)
	case *ir.LogicalOr:
		return evalLogicalOr(e, container, x)
	case *ir.Ternary:
		return evalTernary(e, container, x)
	case *ir.CreateList:
		return evalCreateList(e, container, x)
	case *ir.CreateMap:
		return evalCreateMap(e, container, x)
	case *ir.CreateStruct:
		return evalCreateStruct(e, container, x)
	case *ir.Comprehension:
		return evalComprehension(e, container, x)
	case *ir.Call:
		return evalCall(e, container, x)
	}
	return value.NewError(value.ErrTypeMismatch, "unsupported IR node").WithPos(n.Pos())
}

func evalArgs(e *env, container string, nodes []ir.Node) []value.Value {
	args := make([]value.Value, len(nodes))
	for i, n := range nodes {
		args[i] = evalNode(e, container, n)
	}
	return args
}

func evalSelect(e *env, container string, x *ir.Select) value.Value {
	operand := evalNode(e, container, x.Operand)
	if value.IsError(operand) {
		// has(a.b.c) must never error just because some prefix of the
		// chain is absent (§4.8, §8 scenario 3) — only a genuine type
		// error (selecting a field off a non-struct/map) propagates.
		if x.TestOnly && isAbsenceError(operand) {
			return value.Bool(false)
		}
		return operand
	}
	if x.TestOnly {
		return testField(operand, x.Field)
	}
	return selectField(operand, x.Field)
}

// isAbsenceError reports whether err represents "the thing being looked up
// isn't there" rather than a type contract violation — the distinction
// has() needs to decide between absorbing (§4.8) and propagating (§7).
func isAbsenceError(v value.Value) bool {
	err, ok := value.AsError(v)
	if !ok {
		return false
	}
	switch err.ErrKind {
	case value.ErrIndexRange, value.ErrNoSuchField, value.ErrNoSuchIdent:
		return true
	}
	return false
}

// evalOptSelect implements `a?.b` (§4.10): a missing field yields `none`
// instead of the error sentinel; any other failure still propagates.
func evalOptSelect(e *env, container string, x *ir.OptSelect) value.Value {
	operand := evalNode(e, container, x.Operand)
	if value.IsError(operand) {
		return operand
	}
	if opt, ok := operand.(value.Optional); ok {
		if !opt.Has {
			return value.None
		}
		operand = opt.Val
	}
	switch v := operand.(type) {
	case *value.Struct:
		h := value.Has(v, x.Field)
		if value.IsError(h) {
			return h
		}
		if !bool(h.(value.Bool)) {
			return value.None
		}
		return value.Some(value.FieldOrDefault(v, x.Field))
	case *value.Map:
		return wrapOptional(value.Index(v, value.String(x.Field)))
	}
	return value.NewError(value.ErrTypeMismatch, "field selection on non-struct/map value of type "+operand.Kind().String())
}

func evalIndex(e *env, container string, x *ir.Index) value.Value {
	operand := evalNode(e, container, x.Operand)
	key := evalNode(e, container, x.Key)
	return value.Index(operand, key)
}

// evalOptIndex implements `a?[k]`: an out-of-range or missing key is
// `none`, everything else propagates (§4.10).
func evalOptIndex(e *env, container string, x *ir.OptIndex) value.Value {
	operand := evalNode(e, container, x.Operand)
	key := evalNode(e, container, x.Key)
	return wrapOptional(value.Index(operand, key))
}

func wrapOptional(result value.Value) value.Value {
	if value.IsError(result) {
		if err, ok := value.AsError(result); ok && err.ErrKind == value.ErrIndexRange {
			return value.None
		}
		return result
	}
	return value.Some(result)
}

func evalUnary(e *env, container string, x *ir.Unary) value.Value {
	operand := evalNode(e, container, x.Operand)
	switch x.Op {
	case ast.OpNeg:
		return value.Neg(operand)
	case ast.OpNot:
		return value.Not(operand)
	}
	return value.NewError(value.ErrTypeMismatch, "unknown unary operator "+x.Op).WithPos(x.Pos())
}

// evalLogicalAnd/evalLogicalOr implement the commutative absorption table
// of §4.6: a `false` on either side of `&&` (a `true` on either side of
// `||`) wins outright, even if the other side is an error or the wrong
// type — both operands are always evaluated exactly once, never
// short-circuited, and held in locals while the absorption rule is
// applied. The IR's temp names are not bound in the environment; only
// Render prints them.
func evalLogicalAnd(e *env, container string, x *ir.LogicalAnd) value.Value {
	l := evalNode(e, container, x.Left)
	r := evalNode(e, container, x.Right)
	if isFalse(l) || isFalse(r) {
		return value.Bool(false)
	}
	if value.IsError(l) {
		return l
	}
	if value.IsError(r) {
		return r
	}
	if isTrue(l) && isTrue(r) {
		return value.Bool(true)
	}
	return value.NewError(value.ErrTypeMismatch, "&& requires bool operands")
}

func evalLogicalOr(e *env, container string, x *ir.LogicalOr) value.Value {
	l := evalNode(e, container, x.Left)
	r := evalNode(e, container, x.Right)
	if isTrue(l) || isTrue(r) {
		return value.Bool(true)
	}
	if value.IsError(l) {
		return l
	}
	if value.IsError(r) {
		return r
	}
	if isFalse(l) && isFalse(r) {
		return value.Bool(false)
	}
	return value.NewError(value.ErrTypeMismatch, "|| requires bool operands")
}

func isTrue(v value.Value) bool  { b, ok := v.(value.Bool); return ok && bool(b) }
func isFalse(v value.Value) bool { b, ok := v.(value.Bool); return ok && !bool(b) }

// evalTernary evaluates only the taken branch (§3.3): the condition must
// be bool, otherwise the result is the error sentinel and neither branch
// runs.
func evalTernary(e *env, container string, x *ir.Ternary) value.Value {
	cond := evalNode(e, container, x.Cond)
	if value.IsError(cond) {
		return cond
	}
	b, ok := cond.(value.Bool)
	if !ok {
		return value.NewError(value.ErrTypeMismatch, "ternary condition must be bool, got "+cond.Kind().String())
	}
	if bool(b) {
		return evalNode(e, container, x.Then)
	}
	return evalNode(e, container, x.Else)
}

func evalCreateList(e *env, container string, x *ir.CreateList) value.Value {
	var out []value.Value
	for _, elem := range x.Elements {
		v := evalNode(e, container, elem.Value)
		if value.IsError(v) {
			return v
		}
		if elem.Optional {
			opt, ok := v.(value.Optional)
			if !ok {
				return value.NewError(value.ErrTypeMismatch, "optional list element must be an optional value")
			}
			if !opt.Has {
				continue
			}
			v = opt.Val
		}
		out = append(out, v)
	}
	return value.NewList(out...)
}

func evalCreateMap(e *env, container string, x *ir.CreateMap) value.Value {
	entries := make([]value.MapEntry, 0, len(x.Entries))
	for _, entry := range x.Entries {
		k := evalNode(e, container, entry.Key)
		if value.IsError(k) {
			return k
		}
		v := evalNode(e, container, entry.Value)
		if value.IsError(v) {
			return v
		}
		if entry.Optional {
			opt, ok := v.(value.Optional)
			if !ok {
				return value.NewError(value.ErrTypeMismatch, "optional map entry must be an optional value")
			}
			if !opt.Has {
				continue
			}
			v = opt.Val
		}
		entries = append(entries, value.MapEntry{Key: k, Value: v})
	}
	return value.NewMap(entries)
}

func evalCreateStruct(e *env, container string, x *ir.CreateStruct) value.Value {
	fields := make(map[string]value.Value, len(x.Entries))
	order := make([]string, 0, len(x.Entries))
	for _, entry := range x.Entries {
		v := evalNode(e, container, entry.Value)
		if value.IsError(v) {
			return v
		}
		if entry.Optional {
			opt, ok := v.(value.Optional)
			if !ok {
				return value.NewError(value.ErrTypeMismatch, "optional struct field must be an optional value")
			}
			if !opt.Has {
				continue
			}
			v = opt.Val
		}
		fields[entry.Field] = v
		order = append(order, entry.Field)
	}
	return value.NewStruct(x.MessageName, fields, order)
}

// evalComprehension runs the single iteration primitive of §4.7: thread an
// accumulator through Range, stopping as soon as Cond evaluates to
// non-true, then evaluate Result with the final accumulator bound. Every
// iteration macro in §4.1 (all/exists/exists_one/map/filter and the optMap/
// optFlatMap optional-chaining forms) lowers to this one shape, so it
// needs no macro-specific cases here; has() becomes a test-only Select
// instead.
func evalComprehension(e *env, container string, c *ir.Comprehension) value.Value {
	rangeVal := evalNode(e, container, c.Range)
	if value.IsError(rangeVal) {
		return rangeVal
	}
	accu := evalNode(e, container, c.AccuInit)
	if value.IsError(accu) {
		return accu
	}

	step := func(iterVal, iterVal2 value.Value, hasVal2 bool) bool {
		child := e.child()
		child.vars[c.AccuVar] = accu
		child.vars[c.IterVar] = iterVal
		if hasVal2 && c.IterVar2 != "" {
			child.vars[c.IterVar2] = iterVal2
		}
		cond := evalNode(child, container, c.Cond)
		if value.IsError(cond) {
			accu = cond
			return false
		}
		b, ok := cond.(value.Bool)
		if !ok {
			accu = value.NewError(value.ErrTypeMismatch, "comprehension condition must be bool")
			return false
		}
		if !bool(b) {
			return false
		}
		accu = evalNode(child, container, c.Step)
		return true
	}

	switch coll := value.Unwrap(rangeVal).(type) {
	case *value.List:
		for i, elem := range coll.Elems {
			if !step(indexOrElem(c.IterVar2, i, elem), elem, true) {
				break
			}
		}
	case *value.Map:
		for _, entry := range coll.Entries {
			if !step(entry.Key, entry.Value, true) {
				break
			}
		}
	default:
		return value.NewError(value.ErrTypeMismatch, "comprehension range must be a list or map, got "+rangeVal.Kind().String())
	}

	resultEnv := e.child()
	resultEnv.vars[c.AccuVar] = accu
	return evalNode(resultEnv, container, c.Result)
}

// indexOrElem returns the value bound to IterVar: the numeric index when a
// two-variable form is in play (so IterVar2 gets the element), else the
// element itself.
func indexOrElem(iterVar2 string, i int, elem value.Value) value.Value {
	if iterVar2 != "" {
		return value.Int(i)
	}
	return elem
}

// notStrictlyFalseFn/notStrictlyTrueFn mirror the constants the parser
// uses when expanding all()/exists() (§4.1): probes that read an
// accumulator's raw value, including an in-flight error, without ever
// themselves erroring.
const (
	notStrictlyFalseFn = "@not_strictly_false"
	notStrictlyTrueFn  = "@not_strictly_true"
)

func notStrictlyFalse(v value.Value) value.Value {
	if b, ok := v.(value.Bool); ok && !bool(b) {
		return value.Bool(false)
	}
	return value.Bool(true)
}

func notStrictlyTrue(v value.Value) value.Value {
	if b, ok := v.(value.Bool); ok && bool(b) {
		return value.Bool(false)
	}
	return value.Bool(true)
}

func evalCall(e *env, container string, c *ir.Call) value.Value {
	switch c.Fn {
	case ast.OpAdd:
		return value.Add(evalNode(e, container, c.Args[0]), evalNode(e, container, c.Args[1]))
	case ast.OpSub:
		return value.Sub(evalNode(e, container, c.Args[0]), evalNode(e, container, c.Args[1]))
	case ast.OpMul:
		return value.Mul(evalNode(e, container, c.Args[0]), evalNode(e, container, c.Args[1]))
	case ast.OpDiv:
		return value.Div(evalNode(e, container, c.Args[0]), evalNode(e, container, c.Args[1]))
	case ast.OpMod:
		return value.Mod(evalNode(e, container, c.Args[0]), evalNode(e, container, c.Args[1]))
	case ast.OpEq:
		return value.Equal(evalNode(e, container, c.Args[0]), evalNode(e, container, c.Args[1]))
	case ast.OpNeq:
		return value.NotEqual(evalNode(e, container, c.Args[0]), evalNode(e, container, c.Args[1]))
	case ast.OpLss:
		return value.Compare(value.OpLss, evalNode(e, container, c.Args[0]), evalNode(e, container, c.Args[1]))
	case ast.OpLeq:
		return value.Compare(value.OpLeq, evalNode(e, container, c.Args[0]), evalNode(e, container, c.Args[1]))
	case ast.OpGtr:
		return value.Compare(value.OpGtr, evalNode(e, container, c.Args[0]), evalNode(e, container, c.Args[1]))
	case ast.OpGeq:
		return value.Compare(value.OpGeq, evalNode(e, container, c.Args[0]), evalNode(e, container, c.Args[1]))
	case ast.OpIn:
		return value.In(evalNode(e, container, c.Args[0]), evalNode(e, container, c.Args[1]))
	case notStrictlyFalseFn:
		return notStrictlyFalse(evalNode(e, container, c.Args[0]))
	case notStrictlyTrueFn:
		return notStrictlyTrue(evalNode(e, container, c.Args[0]))
	}

	// `namespace.fn(args)` extension calls (math.greatest, base64.encode,
	// optional.of, ...) parse as a member call whose Target is the bare
	// namespace identifier; recognize that shape before evaluating Target
	// as a variable reference, since the namespace is never actually bound.
	if qi, ok := c.Target.(*ir.QualIdent); ok && len(qi.Parts) == 1 {
		if _, bound := e.lookup(qi.Parts[0]); !bound {
			if f, ok := funcs.Lookup(qi.Parts[0] + "." + c.Fn); ok {
				return callFunc(f, evalArgs(e, container, c.Args))
			}
		}
	}

	args := evalArgs(e, container, c.Args)
	if c.Target != nil {
		t := evalNode(e, container, c.Target)
		args = append([]value.Value{t}, args...)
	}
	if f, ok := coreFuncs[c.Fn]; ok {
		return f(args)
	}
	if f, ok := funcs.Lookup(c.Fn); ok {
		return callFunc(f, args)
	}
	if len(args) > 0 {
		if ns, ok := memberNamespace(value.Unwrap(args[0]).Kind()); ok {
			if f, ok := funcs.Lookup(ns + "." + c.Fn); ok {
				return callFunc(f, args)
			}
		}
	}
	return value.NewError(value.ErrNoSuchIdent, "no matching overload for "+c.Fn).WithPos(c.Pos())
}

func callFunc(f *funcs.Func, args []value.Value) value.Value {
	return f.Func(args)
}

// memberNamespace maps a receiver's runtime kind to the dotted namespace
// its extension functions are registered under (internal/funcs), so a
// member call like `myList.distinct()` finds `list.distinct` without the
// caller having to spell the namespace out.
func memberNamespace(k value.Kind) (string, bool) {
	switch k {
	case value.KindString:
		return "strings", true
	case value.KindList:
		return "list", true
	case value.KindIP:
		return "ip", true
	case value.KindCIDR:
		return "cidr", true
	}
	return "", false
}

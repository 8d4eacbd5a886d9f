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

// Package ir is the emission-ready intermediate representation the
// transformer (internal/transform) produces and the emitter
// (internal/eval) consumes (§3.3). It is never serialized; it exists only
// in memory for the duration of one compile.
package ir

import (
	"github.com/kestrelcel/cel/internal/token"
	"github.com/kestrelcel/cel/internal/value"
)

// Node is any IR node.
type Node interface {
	Pos() token.Position
	irNode()
}

// Base carries the source position shared by every IR node.
type Base struct {
	Position token.Position
}

func (b Base) Pos() token.Position { return b.Position }

func (*Lit) irNode()           {}
func (*QualIdent) irNode()     {}
func (*Select) irNode()        {}
func (*OptSelect) irNode()     {}
func (*Index) irNode()         {}
func (*OptIndex) irNode()      {}
func (*Call) irNode()          {}
func (*Unary) irNode()         {}
func (*LogicalAnd) irNode()    {}
func (*LogicalOr) irNode()     {}
func (*Ternary) irNode()       {}
func (*CreateList) irNode()    {}
func (*CreateMap) irNode()     {}
func (*CreateStruct) irNode()  {}
func (*Comprehension) irNode() {}

// Lit is a literal value, folded once at transform time from an AST
// literal node (§3.2's literal tags) into its runtime representation; this
// is the one place the transformer "evaluates" anything ahead of time, and
// it is not constant folding in the sense excluded by §1's non-goals since
// it never touches a non-literal subexpression.
type Lit struct {
	Base
	Value value.Value
}

// QualIdent is the fused form of a chain of plain (non-test-only) selects
// rooted at an identifier — `Select(Select(Ident(a),b),c)` becomes one
// QualIdent{Parts: ["a","b","c"]} — so the emitter can lower it directly
// into the §4.5 longest-prefix-wins binding cascade instead of re-deriving
// the chain at every evaluate call.
type QualIdent struct {
	Base
	Parts []string
}

// Select is `Operand.Field` where Operand is not part of a qualified
// identifier chain (e.g. the result of a call or index). TestOnly marks
// the `has(...)` expansion.
type Select struct {
	Base
	Operand  Node
	Field    string
	TestOnly bool
}

// OptSelect is the optional-chaining form `Operand?.Field`, propagating
// `none` through the access instead of erroring (§4.10 optional extension).
type OptSelect struct {
	Base
	Operand Node
	Field   string
}

// Index is `Operand[Key]`.
type Index struct {
	Base
	Operand Node
	Key     Node
}

// OptIndex is `Operand?[Key]`.
type OptIndex struct {
	Base
	Operand Node
	Key     Node
}

// Call is a function or operator application. Target is nil for free
// functions. Fn uses the same operator-token spellings as ast.Call for
// everything except `&&`, `||` and `? :`, which get their own IR nodes
// because they require special evaluation order (§4.6).
type Call struct {
	Base
	Fn     string
	Target Node
	Args   []Node
}

// Unary is `!x` or `-x`.
type Unary struct {
	Base
	Op      string // ast.OpNot or ast.OpNeg
	Operand Node
}

// LogicalAnd/LogicalOr carry two freshly allocated temporary names (§3.3)
// for the two operands. The emitter evaluates each operand exactly once
// and keeps the results in locals while the absorption table (§4.6)
// inspects them; the names are used only by Render.
type LogicalAnd struct {
	Base
	Left, Right   Node
	TempL, TempR  string
}

type LogicalOr struct {
	Base
	Left, Right  Node
	TempL, TempR string
}

// Ternary is `cond ? then : els`, with the explicit error-propagation form
// described in §3.3: a non-bool condition yields the error sentinel and
// neither branch is evaluated.
type Ternary struct {
	Base
	Cond, Then, Else Node
}

// ListElem mirrors ast.ListElem at the IR level.
type ListElem struct {
	Value    Node
	Optional bool
}

// CreateList builds a list value.
type CreateList struct {
	Base
	Elements []ListElem
}

// MapEntry mirrors ast.MapEntry at the IR level.
type MapEntry struct {
	Key, Value Node
	Optional   bool
}

// CreateMap builds a map value.
type CreateMap struct {
	Base
	Entries []MapEntry
}

// StructEntry mirrors ast.StructEntry at the IR level.
type StructEntry struct {
	Field    string
	Value    Node
	Optional bool
}

// CreateStruct builds a struct value.
type CreateStruct struct {
	Base
	MessageName string
	Entries     []StructEntry
}

// Comprehension carries exactly the lambda parameter lists the emitter
// needs to run the §4.7 execution protocol: iterate Range, threading Accu
// through Cond/Step until Cond is false or the range is exhausted, then
// evaluate Result.
type Comprehension struct {
	Base
	IterVar, IterVar2 string
	Range             Node
	AccuVar           string
	AccuInit          Node
	Cond              Node
	Step              Node
	Result            Node
}

// NewBase builds a Base from a position, for transform package use.
func NewBase(pos token.Position) Base { return Base{Position: pos} }

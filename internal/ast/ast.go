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

// Package ast declares the CEL abstract syntax tree (§3.2). The node set
// and the Node/Expr interface split follow cuelang.org/go/cue/ast, adapted
// from CUE's declaration-heavy grammar to CEL's single-expression grammar.
package ast

import "github.com/kestrelcel/cel/internal/token"

// A Node is any node in the CEL-AST.
type Node interface {
	Pos() token.Position
}

// An Expr is implemented by every expression node. CEL has no declarations
// or statements; the whole program is one Expr.
type Expr interface {
	Node
	exprNode()
}

func (*IntLit) exprNode()          {}
func (*UintLit) exprNode()         {}
func (*DoubleLit) exprNode()       {}
func (*StringLit) exprNode()       {}
func (*BytesLit) exprNode()        {}
func (*BoolLit) exprNode()         {}
func (*NullLit) exprNode()         {}
func (*Ident) exprNode()           {}
func (*Select) exprNode()          {}
func (*Call) exprNode()            {}
func (*CreateList) exprNode()      {}
func (*CreateMap) exprNode()       {}
func (*CreateStruct) exprNode()    {}
func (*Comprehension) exprNode()   {}

// Base carries the source position shared by every AST node.
type Base struct {
	Position token.Position
}

func (b Base) Pos() token.Position { return b.Position }

// IntLit is a decimal or hex integer literal.
type IntLit struct {
	Base
	Value int64
}

// UintLit is an integer literal with a trailing u/U suffix.
type UintLit struct {
	Base
	Value uint64
}

// DoubleLit is a floating point literal.
type DoubleLit struct {
	Base
	Value float64
}

// StringLit is a (already escape-processed) string literal.
type StringLit struct {
	Base
	Value string
}

// BytesLit is a (already escape-processed) bytes literal.
type BytesLit struct {
	Base
	Value []byte
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Base
	Value bool
}

// NullLit is the `null` literal.
type NullLit struct {
	Base
}

// Ident is a bare identifier reference.
type Ident struct {
	Base
	Name string
}

// Select is `Operand.Field`, or, when TestOnly is set, the expansion of
// `has(Operand.Field)` (§4.1). Optional marks the `Operand?.Field` form,
// which propagates `none` through the access instead of erroring.
type Select struct {
	Base
	Operand  Expr
	Field    string
	TestOnly bool
	Optional bool
}

// Call is either a free function call (Target == nil) or a member call
// (Target != nil). Fn is either an identifier or one of the reserved
// operator tokens listed in §3.2 (`_+_`, `_==_`, `_[_]`, `@in`, `_&&_`,
// `_||_`, `!_`, `-_`, `_?_:_`).
type Call struct {
	Base
	Fn     string
	Target Expr // nil for free functions
	Args   []Expr
}

// Operator token names used as Call.Fn for built-in operators.
const (
	OpAdd    = "_+_"
	OpSub    = "_-_"
	OpMul    = "_*_"
	OpDiv    = "_/_"
	OpMod    = "_%_"
	OpEq     = "_==_"
	OpNeq    = "_!=_"
	OpLss    = "_<_"
	OpLeq    = "_<=_"
	OpGtr    = "_>_"
	OpGeq    = "_>=_"
	OpIndex  = "_[_]"
	OpIn     = "@in"
	OpAnd    = "_&&_"
	OpOr     = "_||_"
	OpNot    = "!_"
	OpNeg    = "-_"
	OpTernary = "_?_:_"
	OpOptSelect = "_?._"
	OpOptIndex  = "_?[_]"
)

// ListElem is one element of a CreateList, optionally an optional-index
// element (`?e`), which is omitted from the resulting list if e is `none`.
type ListElem struct {
	Value    Expr
	Optional bool
}

// CreateList builds a list value: `[e1, e2, ...]`.
type CreateList struct {
	Base
	Elements []ListElem
}

// MapEntry is one key/value pair of a CreateMap.
type MapEntry struct {
	Key      Expr
	Value    Expr
	Optional bool
}

// CreateMap builds a map value: `{k1: v1, ...}`.
type CreateMap struct {
	Base
	Entries []MapEntry
}

// StructEntry is one field initializer of a CreateStruct.
type StructEntry struct {
	Field    string
	Value    Expr
	Optional bool
}

// CreateStruct builds a struct value: `T{f1: v1, ...}` (§4.8).
type CreateStruct struct {
	Base
	MessageName string
	Entries     []StructEntry
}

// Comprehension is CEL's single iteration primitive (§4.7); every
// iteration macro in §4.1 expands into one of these (has() expands into a
// test-only Select instead).
type Comprehension struct {
	Base
	IterVar       string
	IterVar2      string // "" unless this is a two-variable macro form
	IterRange     Expr
	AccuVar       string
	AccuInit      Expr
	LoopCondition Expr
	LoopStep      Expr
	Result        Expr
}

// AccumulatorName is the synthetic accumulator identifier macros bind;
// user identifiers may never equal it (§4.1).
const AccumulatorName = "__result__"

// NewBase builds a Base from a position, for use by the parser.
func NewBase(pos token.Position) Base { return Base{Position: pos} }

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

// Package value implements the CEL value model (§3.1): the tagged union of
// runtime variants, the error sentinel that every typed operation returns
// on a contract violation, and the operations of §4 (equality, comparison,
// arithmetic, collections, struct defaulting, conversions).
//
// The design follows the "tagged result, not exceptions" note of §9: every
// helper here returns a value.Value, and Error is itself a Value variant
// (mirroring how cuelang.org/go/internal/core/adt.Bottom is both an error
// description and a legal adt.Value), so callers pattern-match on Kind
// instead of using Go's (T, error) idiom or panicking. Only the top-level
// cel package's evaluate boundary ever turns a surviving Error into a Go
// error.
package value

import "github.com/kestrelcel/cel/internal/token"

// Kind discriminates the CEL value variants of §3.1, plus the internal
// error sentinel.
type Kind uint8

const (
	KindError Kind = iota
	KindNull
	KindBool
	KindInt
	KindUint
	KindDouble
	KindString
	KindBytes
	KindList
	KindMap
	KindType
	KindTimestamp
	KindDuration
	KindOptional
	KindIP
	KindCIDR
	KindStruct
)

var kindNames = [...]string{
	KindError:     "error",
	KindNull:      "null",
	KindBool:      "bool",
	KindInt:       "int",
	KindUint:      "uint",
	KindDouble:    "double",
	KindString:    "string",
	KindBytes:     "bytes",
	KindList:      "list",
	KindMap:       "map",
	KindType:      "type",
	KindTimestamp: "timestamp",
	KindDuration:  "duration",
	KindOptional:  "optional",
	KindIP:        "ip",
	KindCIDR:      "cidr",
	KindStruct:    "struct",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// IsNumeric reports whether k is int, uint or double.
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindUint || k == KindDouble
}

// Value is any CEL runtime value, including the error sentinel.
type Value interface {
	Kind() Kind
}

// IsError reports whether v is the error sentinel. A nil Value (which
// should never escape a well-formed evaluate call) is treated as an error
// too, so a programming mistake fails loudly instead of panicking deep in
// some later operation.
func IsError(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(*Error)
	return ok
}

// AsError returns v as *Error and true if it is the sentinel.
func AsError(v Value) (*Error, bool) {
	e, ok := v.(*Error)
	return e, ok
}

// Dynamic marks a value as having passed through `dyn()`, relaxing the
// strict cross-type numeric equality check in Equal (§4.9, §8 property 9).
// Every other operation treats a Dynamic exactly like its wrapped value —
// Unwrap peels it off before any type switch.
type Dynamic struct{ Inner Value }

func (d *Dynamic) Kind() Kind { return d.Inner.Kind() }

// Unwrap strips any Dynamic wrapping, returning the underlying value.
func Unwrap(v Value) Value {
	for {
		d, ok := v.(*Dynamic)
		if !ok {
			return v
		}
		v = d.Inner
	}
}

// Null is the CEL `null` value.
type Null struct{}

func (Null) Kind() Kind { return KindNull }

// Bool is a CEL bool value.
type Bool bool

func (Bool) Kind() Kind { return KindBool }

// Int is a CEL int value (semantically 64-bit two's complement, §3.1).
type Int int64

func (Int) Kind() Kind { return KindInt }

// Uint is a CEL uint value, tag-distinct from Int even at equal magnitude.
type Uint uint64

func (Uint) Kind() Kind { return KindUint }

// Double is a CEL double (IEEE-754 binary64).
type Double float64

func (Double) Kind() Kind { return KindDouble }

// String is a CEL string: a sequence of Unicode code points, stored as a Go
// string (a sequence of UTF-8 bytes decoding to the same code points).
type String string

func (String) Kind() Kind { return KindString }

// Bytes is a CEL bytes value: a sequence of octets.
type Bytes []byte

func (Bytes) Kind() Kind { return KindBytes }

// List is a CEL list value: ordered, heterogeneous at the runtime level
// (§3.1); homogeneity is a user-policy concern the core does not enforce.
type List struct {
	Elems []Value
}

func (*List) Kind() Kind { return KindList }

// NewList builds a list value.
func NewList(elems ...Value) *List { return &List{Elems: elems} }

// Type is a CEL type tag: two Type values are equal iff their Name is
// equal (§3.1).
type Type struct {
	Name string
}

func (*Type) Kind() Kind { return KindType }

// Timestamp is (seconds since epoch, nanos in [0, 1e9)), valid over
// 0001-01-01..9999-12-31 UTC (§3.1).
type Timestamp struct {
	Seconds int64
	Nanos   int32
}

func (Timestamp) Kind() Kind { return KindTimestamp }

// Duration is (seconds, nanos), normalized at construction so nanos shares
// seconds' sign (§3.1 invariant 3, §3.4).
type Duration struct {
	Seconds int64
	Nanos   int32
}

func (Duration) Kind() Kind { return KindDuration }

// Optional is CEL's none/some(v) value (§4.10).
type Optional struct {
	Has bool
	Val Value
}

func (Optional) Kind() Kind { return KindOptional }

// None is the canonical empty optional.
var None = Optional{Has: false}

// Some wraps v as a present optional.
func Some(v Value) Optional { return Optional{Has: true, Val: v} }

// ErrorKind distinguishes the diagnosable error categories of §7.
type ErrorKind int

const (
	ErrTypeMismatch ErrorKind = iota
	ErrOverflow
	ErrDivByZero
	ErrIndexRange
	ErrNoSuchField
	ErrNoSuchIdent
	ErrDomain
)

var errKindNames = [...]string{
	ErrTypeMismatch: "type mismatch",
	ErrOverflow:     "overflow",
	ErrDivByZero:    "division by zero",
	ErrIndexRange:   "index out of range",
	ErrNoSuchField:  "no such field",
	ErrNoSuchIdent:  "no such identifier",
	ErrDomain:       "value out of domain",
}

func (k ErrorKind) String() string {
	if int(k) < len(errKindNames) {
		return errKindNames[k]
	}
	return "error"
}

// Error is the internal error sentinel (§3.1, §7). It implements Value so
// it can flow through the same helpers as any other value, and Go's error
// interface so the top-level package can surface it directly.
type Error struct {
	ErrKind ErrorKind
	Msg     string
	Pos     token.Position
}

func (*Error) Kind() Kind { return KindError }

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + e.ErrKind.String() + ": " + e.Msg
	}
	return e.ErrKind.String() + ": " + e.Msg
}

// NewError builds an error sentinel with no position; positions are
// attached by the evaluator, which knows where in the IR the failure
// occurred.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{ErrKind: kind, Msg: msg}
}

// WithPos returns a copy of e with pos attached.
func (e *Error) WithPos(pos token.Position) *Error {
	cp := *e
	cp.Pos = pos
	return &cp
}

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

package value

import "strings"

// Struct represents a protobuf-like message without depending on a
// protobuf schema at runtime (§4.8): a qualified type name plus only the
// fields the construction call explicitly set. FieldOrDefault computes a
// type-appropriate default for anything not explicitly set, using the
// naming-convention fallback described in §4.8. There is no
// descriptor-driven alternative (see the Open Questions decision in
// DESIGN.md).
type Struct struct {
	TypeName string
	Fields   map[string]Value
	set      map[string]bool
	order    []string
}

func (*Struct) Kind() Kind { return KindStruct }

// NewStruct builds a struct value recording exactly the given fields as
// explicitly set.
func NewStruct(typeName string, fields map[string]Value, order []string) *Struct {
	set := make(map[string]bool, len(fields))
	for k := range fields {
		set[k] = true
	}
	return &Struct{TypeName: typeName, Fields: fields, set: set, order: order}
}

// IsSet reports whether field was explicitly set at construction.
func (s *Struct) IsSet(field string) bool { return s.set[field] }

// FieldNames returns explicitly-set field names in construction order.
func (s *Struct) FieldNames() []string { return s.order }

// fieldConvention classifies a field name by the proto naming conventions
// §4.8 describes as the schema-less fallback: repeated fields are plural
// or carry a List/s suffix, map fields carry a Map suffix, and so on. This
// is deliberately heuristic; DESIGN.md's Open Questions section records
// why it is the only resolver.
type fieldConvention int

const (
	convScalarString fieldConvention = iota
	convScalarBytes
	convScalarBool
	convScalarInt
	convScalarUint
	convScalarFloat
	convWrapper
	convRepeated
	convMap
	convMessage
)

// classifyField returns the naming-convention bucket for name and whether
// the name actually matched a recognized proto-style pattern. Has() uses
// the recognized flag to distinguish "definitely absent" from "don't know"
// (§4.8), and FieldOrDefault uses it to report an absent, unrecognized
// field as no-such-field.
func classifyField(name string) (fieldConvention, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, "_map"):
		return convMap, true
	case strings.HasSuffix(lower, "_list"):
		return convRepeated, true
	case strings.HasSuffix(lower, "_bytes") || lower == "bytes":
		return convScalarBytes, true
	case strings.HasSuffix(lower, "_bool") || strings.HasPrefix(lower, "is_") || strings.HasPrefix(lower, "has_"):
		return convScalarBool, true
	case strings.HasSuffix(lower, "_uint") || strings.HasSuffix(lower, "_u32") || strings.HasSuffix(lower, "_u64"):
		return convScalarUint, true
	case strings.HasSuffix(lower, "_float") || strings.HasSuffix(lower, "_double"):
		return convScalarFloat, true
	case strings.HasSuffix(lower, "_int") || strings.HasSuffix(lower, "_i32") || strings.HasSuffix(lower, "_i64") || strings.HasSuffix(lower, "_enum"):
		return convScalarInt, true
	case strings.HasSuffix(lower, "_value"):
		return convWrapper, true
	case strings.HasSuffix(lower, "_msg") || strings.HasSuffix(lower, "_message"):
		return convMessage, true
	case strings.HasSuffix(lower, "_str") || strings.HasSuffix(lower, "_string") || strings.HasSuffix(lower, "_name") || strings.HasSuffix(lower, "_id"):
		return convScalarString, true
	}
	return convScalarString, false
}

// DefaultForField computes the convention-driven default described in
// §4.8 for a field that is absent from a Struct.
func DefaultForField(name string) Value {
	conv, _ := classifyField(name)
	switch conv {
	case convRepeated:
		return &List{}
	case convMap:
		return &Map{}
	case convWrapper:
		return Null{}
	case convScalarUint:
		return Uint(0)
	case convScalarFloat:
		return Double(0)
	case convScalarBool:
		return Bool(false)
	case convScalarBytes:
		return Bytes{}
	case convScalarInt:
		return Int(0)
	case convMessage:
		return NewStruct(name, map[string]Value{}, nil)
	default:
		return String("")
	}
}

// FieldOrDefault implements field select on structs (§4.4, §4.8): the
// explicitly-set value if present, else the type-appropriate default. An
// absent field whose name matches no recognized convention is the
// no-such-field error sentinel.
func FieldOrDefault(s *Struct, field string) Value {
	if v, ok := s.Fields[field]; ok {
		return v
	}
	if _, recognized := classifyField(field); !recognized {
		return NewError(ErrNoSuchField, "no such field: "+field)
	}
	return DefaultForField(field)
}

// Has implements `has(s.f)` on structs (§4.8): true only if f was
// explicitly set and, for proto3-style messages (the only style this
// schema-less core can infer), the value is not the type default;
// repeated/map fields are "non-empty". A field name that matches no
// recognized proto naming convention is "don't know" rather than
// "definitely absent", and yields the error sentinel.
func Has(s *Struct, field string) Value {
	v, ok := s.Fields[field]
	if !ok {
		if _, recognized := classifyField(field); !recognized {
			return NewError(ErrNoSuchField, "unrecognized field name: "+field)
		}
		return Bool(false)
	}
	switch x := v.(type) {
	case *List:
		return Bool(len(x.Elems) > 0)
	case *Map:
		return Bool(len(x.Entries) > 0)
	}
	def := DefaultForField(field)
	r := Equal(v, def)
	if IsError(r) {
		return Bool(true)
	}
	return Bool(!bool(r.(Bool)))
}

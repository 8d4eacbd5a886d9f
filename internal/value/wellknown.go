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

import (
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// WrapperTypeName reports whether name is one of the well-known proto
// wrapper messages (BoolValue, Int32Value, ...) that unwrap to a CEL
// primitive at construction time (§4.8).
func WrapperTypeName(name string) bool {
	switch name {
	case "BoolValue", "Int32Value", "Int64Value", "UInt32Value", "UInt64Value",
		"FloatValue", "DoubleValue", "StringValue", "BytesValue":
		return true
	}
	return false
}

// NewWrapper builds the unwrapped primitive a proto wrapper message carries,
// truncating FloatValue to 32-bit precision the way the wire format would.
func NewWrapper(typeName string, inner Value) Value {
	if IsError(inner) {
		return inner
	}
	switch typeName {
	case "BoolValue":
		if v, ok := inner.(Bool); ok {
			return v
		}
	case "Int32Value", "Int64Value":
		if v, ok := inner.(Int); ok {
			return v
		}
	case "UInt32Value", "UInt64Value":
		if v, ok := inner.(Uint); ok {
			return v
		}
	case "FloatValue":
		if v, ok := inner.(Double); ok {
			return Double(float64(float32(v)))
		}
	case "DoubleValue":
		if v, ok := inner.(Double); ok {
			return v
		}
	case "StringValue":
		if v, ok := inner.(String); ok {
			return v
		}
	case "BytesValue":
		if v, ok := inner.(Bytes); ok {
			return v
		}
	}
	return NewError(ErrTypeMismatch, "wrapper "+typeName+" does not accept "+inner.Kind().String())
}

// ToJSON renders v as a JSON document, the wire shape google.protobuf.Value,
// Struct and ListValue share (§4.8). Structs serialize as JSON objects keyed
// by field name; lists as JSON arrays; numerics, strings, bools and null
// pass straight through. sjson builds the document incrementally since CEL
// values are an interface tree, not a Go struct gjson/sjson could reflect
// over directly.
func ToJSON(v Value) (string, error) {
	v = Unwrap(v)
	switch x := v.(type) {
	case Null:
		return "null", nil
	case Bool:
		return strconv.FormatBool(bool(x)), nil
	case Int:
		return strconv.FormatInt(int64(x), 10), nil
	case Uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case Double:
		return strconv.FormatFloat(float64(x), 'g', -1, 64), nil
	case String:
		return sjson.Set("", "-1", string(x))
	case *List:
		doc := "[]"
		var err error
		for i, e := range x.Elems {
			item, jerr := ToJSON(e)
			if jerr != nil {
				return "", jerr
			}
			doc, err = sjson.SetRaw(doc, strconv.Itoa(i), item)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case *Map:
		doc := "{}"
		var err error
		for _, e := range x.Entries {
			key, ok := e.Key.(String)
			if !ok {
				return "", NewError(ErrTypeMismatch, "JSON object keys must be strings")
			}
			item, jerr := ToJSON(e.Value)
			if jerr != nil {
				return "", jerr
			}
			doc, err = sjson.SetRaw(doc, string(key), item)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case *Struct:
		doc := "{}"
		var err error
		for _, name := range x.order {
			item, jerr := ToJSON(x.Fields[name])
			if jerr != nil {
				return "", jerr
			}
			doc, err = sjson.SetRaw(doc, name, item)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	}
	return "", NewError(ErrTypeMismatch, "cannot render "+v.Kind().String()+" as JSON")
}

// FromJSON implements the google.protobuf.Value/Struct/ListValue/Any
// conversions into CEL primitive shapes (§4.8), parsing with gjson so the
// well-known types can embed a generic document without a schema.
func FromJSON(doc string) Value {
	result := gjson.Parse(doc)
	return fromGJSON(result)
}

func fromGJSON(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null{}
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) {
			return Double(r.Num)
		}
		return Double(r.Num)
	case gjson.String:
		return String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			var elems []Value
			r.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, fromGJSON(v))
				return true
			})
			return &List{Elems: elems}
		}
		var entries []MapEntry
		r.ForEach(func(k, v gjson.Result) bool {
			entries = append(entries, MapEntry{Key: String(k.Str), Value: fromGJSON(v)})
			return true
		})
		return &Map{Entries: entries}
	}
	return Null{}
}

// AsAny implements the `Any` well-known type's type-URL-tagged envelope:
// the message is re-exposed as a struct whose TypeName is the Any's
// type_url field, with its packed fields merged in directly.
func AsAny(typeURL string, fields map[string]Value, order []string) Value {
	return NewStruct(typeURL, fields, order)
}

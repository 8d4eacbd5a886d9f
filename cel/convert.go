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
	"fmt"

	"github.com/kestrelcel/cel/internal/value"
)

// Uint wraps a CEL uint at the boundary (§6.2): Go has no unsigned literal
// type CEL's uint can round-trip through without a tag, since a bare Go
// uint64 is indistinguishable from a large positive int64 once it crosses
// into interface{}.
type Uint uint64

// TypeName wraps a CEL type value (§6.2): the result of the `type()`
// conversion function, identified by name alone per §3.1.
type TypeName string

// Timestamp is the boundary shape for a CEL timestamp (§6.2): seconds
// since the Unix epoch plus a nanosecond remainder, matching how
// internal/value.Timestamp is already stored rather than introducing a
// dependency on a Go time.Time that can't represent the full §3.1 range.
type Timestamp struct {
	Seconds int64
	Nanos   int32
}

// Duration is the boundary shape for a CEL duration (§6.2).
type Duration struct {
	Seconds int64
	Nanos   int32
}

// Optional is the boundary shape for a CEL optional value (§6.2, §4.10):
// Has is false for `optional.none()`, true with Value populated otherwise.
type Optional struct {
	Has   bool
	Value CelValue
}

// Struct is the boundary shape for a CEL struct value (§6.2, §4.8): a
// qualified type name plus the fields that were explicitly set at
// construction (defaulted fields are not materialized here — call
// FieldOrDefault-equivalent logic via a select expression if a defaulted
// value is needed).
type Struct struct {
	TypeName string
	Fields   map[string]CelValue
}

// IP is the boundary shape for a CEL ip value (§6.2, an extension beyond
// the original §6.2 table predating ip/cidr support): its canonical
// string form.
type IP string

// CIDR is the boundary shape for a CEL cidr value.
type CIDR string

// toInternalBindings converts a caller's BindingMap to the internal value
// model at the Evaluate boundary.
func toInternalBindings(bindings BindingMap) (map[string]value.Value, error) {
	out := make(map[string]value.Value, len(bindings))
	for name, v := range bindings {
		iv, err := fromHost(v)
		if err != nil {
			return nil, fmt.Errorf("cel: converting binding %q: %w", name, err)
		}
		out[name] = iv
	}
	return out, nil
}

// fromHost converts one host-native Go value to the internal value model,
// the inverse of toHost, per the §6.2 table.
func fromHost(v interface{}) (value.Value, error) {
	switch x := v.(type) {
	case nil:
		return value.Null{}, nil
	case value.Value:
		return x, nil
	case bool:
		return value.Bool(x), nil
	case int:
		return value.Int(x), nil
	case int32:
		return value.Int(x), nil
	case int64:
		return value.Int(x), nil
	case Uint:
		return value.Uint(x), nil
	case uint:
		return value.Uint(x), nil
	case uint32:
		return value.Uint(x), nil
	case uint64:
		return value.Uint(x), nil
	case float32:
		return value.Double(x), nil
	case float64:
		return value.Double(x), nil
	case string:
		return value.String(x), nil
	case []byte:
		return value.Bytes(x), nil
	case TypeName:
		return &value.Type{Name: string(x)}, nil
	case Timestamp:
		return value.Timestamp{Seconds: x.Seconds, Nanos: x.Nanos}, nil
	case Duration:
		return value.Duration{Seconds: x.Seconds, Nanos: x.Nanos}, nil
	case Optional:
		if !x.Has {
			return value.None, nil
		}
		inner, err := fromHost(x.Value)
		if err != nil {
			return nil, err
		}
		return value.Some(inner), nil
	case Struct:
		fields := make(map[string]value.Value, len(x.Fields))
		order := make([]string, 0, len(x.Fields))
		for k, fv := range x.Fields {
			iv, err := fromHost(fv)
			if err != nil {
				return nil, err
			}
			fields[k] = iv
			order = append(order, k)
		}
		return value.NewStruct(x.TypeName, fields, order), nil
	case IP:
		return value.NewIP(string(x)), nil
	case CIDR:
		return value.NewCIDR(string(x)), nil
	case []interface{}:
		elems := make([]value.Value, len(x))
		for i, e := range x {
			iv, err := fromHost(e)
			if err != nil {
				return nil, err
			}
			elems[i] = iv
		}
		return value.NewList(elems...), nil
	case map[string]interface{}:
		entries := make([]value.MapEntry, 0, len(x))
		for k, mv := range x {
			iv, err := fromHost(mv)
			if err != nil {
				return nil, err
			}
			entries = append(entries, value.MapEntry{Key: value.String(k), Value: iv})
		}
		return value.NewMap(entries), nil
	case map[interface{}]interface{}:
		entries := make([]value.MapEntry, 0, len(x))
		for k, mv := range x {
			ik, err := fromHost(k)
			if err != nil {
				return nil, err
			}
			iv, err := fromHost(mv)
			if err != nil {
				return nil, err
			}
			entries = append(entries, value.MapEntry{Key: ik, Value: iv})
		}
		return value.NewMap(entries), nil
	}
	return nil, fmt.Errorf("cel: no boundary conversion for %T", v)
}

// toHost converts an internal value model result to a host-native
// CelValue, the inverse of fromHost, per the §6.2 table. v must not be
// the error sentinel; Evaluate checks that before calling toHost.
func toHost(v value.Value) (CelValue, error) {
	switch x := value.Unwrap(v).(type) {
	case value.Null:
		return nil, nil
	case value.Bool:
		return bool(x), nil
	case value.Int:
		return int64(x), nil
	case value.Uint:
		return Uint(x), nil
	case value.Double:
		return float64(x), nil
	case value.String:
		return string(x), nil
	case value.Bytes:
		return []byte(x), nil
	case *value.Type:
		return TypeName(x.Name), nil
	case value.Timestamp:
		return Timestamp{Seconds: x.Seconds, Nanos: x.Nanos}, nil
	case value.Duration:
		return Duration{Seconds: x.Seconds, Nanos: x.Nanos}, nil
	case value.Optional:
		if !x.Has {
			return Optional{Has: false}, nil
		}
		inner, err := toHost(x.Val)
		if err != nil {
			return nil, err
		}
		return Optional{Has: true, Value: inner}, nil
	case *value.Struct:
		fields := make(map[string]CelValue, len(x.FieldNames()))
		for _, name := range x.FieldNames() {
			hv, err := toHost(x.Fields[name])
			if err != nil {
				return nil, err
			}
			fields[name] = hv
		}
		return Struct{TypeName: x.TypeName, Fields: fields}, nil
	case *value.IP:
		return IP(x.String()), nil
	case *value.CIDR:
		return CIDR(x.String()), nil
	case *value.List:
		out := make([]interface{}, len(x.Elems))
		for i, e := range x.Elems {
			hv, err := toHost(e)
			if err != nil {
				return nil, err
			}
			out[i] = hv
		}
		return out, nil
	case *value.Map:
		out := make(map[interface{}]interface{}, len(x.Entries))
		for _, entry := range x.Entries {
			hk, err := toHost(entry.Key)
			if err != nil {
				return nil, err
			}
			hv, err := toHost(entry.Value)
			if err != nil {
				return nil, err
			}
			out[hk] = hv
		}
		return out, nil
	}
	return nil, fmt.Errorf("cel: no boundary conversion for internal kind %v", v.Kind())
}

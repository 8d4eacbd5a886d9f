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
	"math"
	"strconv"
	"strings"
)

// ToInt implements the `int(v)` conversion (§4.9).
func ToInt(v Value) Value {
	v = Unwrap(v)
	switch x := v.(type) {
	case Int:
		return x
	case Uint:
		if x > math.MaxInt64 {
			return NewError(ErrOverflow, "uint value too large for int")
		}
		return Int(x)
	case Double:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return NewError(ErrOverflow, "cannot convert non-finite double to int")
		}
		if f >= 9223372036854775808.0 || f < -9223372036854775808.0 {
			return NewError(ErrOverflow, "double out of int range")
		}
		return Int(int64(f))
	case String:
		i, err := strconv.ParseInt(string(x), 10, 64)
		if err != nil {
			return NewError(ErrTypeMismatch, "cannot parse int from string: "+err.Error())
		}
		return Int(i)
	case Timestamp:
		return Int(x.Seconds)
	}
	return NewError(ErrTypeMismatch, "cannot convert "+v.Kind().String()+" to int")
}

// ToUint implements the `uint(v)` conversion.
func ToUint(v Value) Value {
	v = Unwrap(v)
	switch x := v.(type) {
	case Uint:
		return x
	case Int:
		if x < 0 {
			return NewError(ErrOverflow, "cannot convert negative int to uint")
		}
		return Uint(x)
	case Double:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return NewError(ErrOverflow, "cannot convert double to uint")
		}
		if f >= 18446744073709551616.0 {
			return NewError(ErrOverflow, "double out of uint range")
		}
		return Uint(uint64(f))
	case String:
		u, err := strconv.ParseUint(string(x), 10, 64)
		if err != nil {
			return NewError(ErrTypeMismatch, "cannot parse uint from string: "+err.Error())
		}
		return Uint(u)
	}
	return NewError(ErrTypeMismatch, "cannot convert "+v.Kind().String()+" to uint")
}

// ToDouble implements the `double(v)` conversion.
func ToDouble(v Value) Value {
	v = Unwrap(v)
	switch x := v.(type) {
	case Double:
		return x
	case Int:
		return Double(x)
	case Uint:
		return Double(x)
	case String:
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return NewError(ErrTypeMismatch, "cannot parse double from string: "+err.Error())
		}
		return Double(f)
	}
	return NewError(ErrTypeMismatch, "cannot convert "+v.Kind().String()+" to double")
}

// ToBool implements the `bool(v)` conversion: only accepts the exact CEL
// truthy/falsy string spellings (§4.9).
func ToBool(v Value) Value {
	v = Unwrap(v)
	switch x := v.(type) {
	case Bool:
		return x
	case String:
		switch string(x) {
		case "1", "t", "T", "true", "TRUE", "True":
			return Bool(true)
		case "0", "f", "F", "false", "FALSE", "False":
			return Bool(false)
		}
		return NewError(ErrTypeMismatch, "invalid bool string: "+string(x))
	}
	return NewError(ErrTypeMismatch, "cannot convert "+v.Kind().String()+" to bool")
}

// ToBytes implements the `bytes(v)` conversion.
func ToBytes(v Value) Value {
	v = Unwrap(v)
	switch x := v.(type) {
	case Bytes:
		return x
	case String:
		return Bytes(x)
	}
	return NewError(ErrTypeMismatch, "cannot convert "+v.Kind().String()+" to bytes")
}

// ToString implements the `string(v)` conversion: total for scalars,
// lists, maps, type, timestamp, duration.
func ToString(v Value) Value {
	v = Unwrap(v)
	switch x := v.(type) {
	case String:
		return x
	case Int:
		return String(strconv.FormatInt(int64(x), 10))
	case Uint:
		return String(strconv.FormatUint(uint64(x), 10))
	case Double:
		return String(formatDouble(float64(x)))
	case Bool:
		return String(strconv.FormatBool(bool(x)))
	case Bytes:
		return String(x)
	case Null:
		return String("null")
	case *Type:
		return String(x.Name)
	case Timestamp:
		return String(x.String())
	case Duration:
		return String(x.String())
	case *List:
		var b strings.Builder
		b.WriteByte('[')
		for i, e := range x.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			s := ToString(e)
			if IsError(s) {
				return s
			}
			b.WriteString(string(s.(String)))
		}
		b.WriteByte(']')
		return String(b.String())
	case *Map:
		var b strings.Builder
		b.WriteByte('{')
		for i, e := range x.Entries {
			if i > 0 {
				b.WriteString(", ")
			}
			ks := ToString(e.Key)
			vs := ToString(e.Value)
			if IsError(ks) {
				return ks
			}
			if IsError(vs) {
				return vs
			}
			b.WriteString(string(ks.(String)))
			b.WriteString(": ")
			b.WriteString(string(vs.(String)))
		}
		b.WriteByte('}')
		return String(b.String())
	}
	return NewError(ErrTypeMismatch, "cannot convert "+v.Kind().String()+" to string")
}

func formatDouble(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "+Inf"
	}
	if math.IsInf(f, -1) {
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ToType implements the `type(v)` conversion — also used internally to
// compute the reflective type() of any value.
func ToType(v Value) Value {
	v = Unwrap(v)
	if IsError(v) {
		return v
	}
	return &Type{Name: v.Kind().String()}
}

// Dyn implements `dyn(v)`: wraps v so that Equal treats it as exempt from
// the strict cross-type numeric equality check (§4.9, §8 property 9), while
// every other operation (Unwrap) sees straight through to the inner value.
// Errors pass through unwrapped since dyn(error) == error is what every
// other conversion does.
func Dyn(v Value) Value {
	if IsError(v) {
		return v
	}
	return &Dynamic{Inner: v}
}

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

import "bytes"

// Equal implements CEL `==` (§4.2). It never panics: any operand shape it
// doesn't recognize falls through to "not equal". The result is the error
// sentinel only for an error operand or for the strict cross-type numeric
// case below.
//
// Cross-type numeric equality is strict by default: `1 == 1.0` errors
// unless one side passed through `dyn()`, which relaxes the pair to
// mathematical-value comparison (§4.9, §8 property 9). Same-kind numerics
// (int==int, double==double, ...) are always compared directly regardless
// of dyn.
func Equal(a, b Value) Value {
	_, aDyn := a.(*Dynamic)
	_, bDyn := b.(*Dynamic)
	relaxed := aDyn || bDyn
	a, b = Unwrap(a), Unwrap(b)
	if IsError(a) || IsError(b) {
		return NewError(ErrTypeMismatch, "cannot compare error value")
	}
	if a.Kind().IsNumeric() && b.Kind().IsNumeric() {
		if !relaxed && a.Kind() != b.Kind() {
			return NewError(ErrTypeMismatch, "strict equality forbids comparing "+a.Kind().String()+" to "+b.Kind().String()+" without dyn()")
		}
		return Bool(numericEqual(a, b))
	}
	if a.Kind() != b.Kind() {
		return Bool(false)
	}
	return Bool(deepEqual(a, b))
}

// NotEqual implements CEL `!=`, defined as ¬Equal per §8's universal
// invariant `a == b ⇔ ¬(a != b)`.
func NotEqual(a, b Value) Value {
	r := Equal(a, b)
	if IsError(r) {
		return r
	}
	return Bool(!bool(r.(Bool)))
}

func deepEqual(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av == b.(Bool)
	case String:
		return av == b.(String)
	case Bytes:
		return bytes.Equal(av, b.(Bytes))
	case *List:
		bv := b.(*List)
		if len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			r := Equal(av.Elems[i], bv.Elems[i])
			if IsError(r) || !bool(r.(Bool)) {
				return false
			}
		}
		return true
	case *Map:
		bv := b.(*Map)
		if len(av.Entries) != len(bv.Entries) {
			return false
		}
		for _, e := range av.Entries {
			found := false
			for _, oe := range bv.Entries {
				kr := Equal(e.Key, oe.Key)
				if !IsError(kr) && bool(kr.(Bool)) {
					r := Equal(e.Value, oe.Value)
					if !IsError(r) && bool(r.(Bool)) {
						found = true
					}
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case *Type:
		return av.Name == b.(*Type).Name
	case Timestamp:
		bv := b.(Timestamp)
		return av.Seconds == bv.Seconds && av.Nanos == bv.Nanos
	case Duration:
		bv := b.(Duration)
		return av.Seconds == bv.Seconds && av.Nanos == bv.Nanos
	case Optional:
		bv := b.(Optional)
		if av.Has != bv.Has {
			return false
		}
		if !av.Has {
			return true
		}
		r := Equal(av.Val, bv.Val)
		return !IsError(r) && bool(r.(Bool))
	case *IP:
		bv := b.(*IP)
		return ipEqual(av, bv)
	case *CIDR:
		bv := b.(*CIDR)
		return av.Prefix == bv.Prefix && ipEqual(av.IP, bv.IP)
	case *Struct:
		return structEqual(av, b.(*Struct))
	}
	return false
}

func structEqual(a, b *Struct) bool {
	if a.TypeName != b.TypeName {
		return false
	}
	names := map[string]bool{}
	for k := range a.Fields {
		names[k] = true
	}
	for k := range b.Fields {
		names[k] = true
	}
	for name := range names {
		av := FieldOrDefault(a, name)
		bv := FieldOrDefault(b, name)
		if IsError(av) || IsError(bv) {
			return false
		}
		r := Equal(av, bv)
		if IsError(r) || !bool(r.(Bool)) {
			return false
		}
	}
	return true
}

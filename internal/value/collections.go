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
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/mpvl/unique"
)

// MapEntry is one key/value pair of a Map.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map is a CEL map value: an unordered collection of key-value pairs whose
// keys are int, uint, bool or string (§3.1). Entries preserve construction
// order only so error messages and iteration are deterministic within one
// process; CEL itself makes no ordering guarantee for map iteration.
type Map struct {
	Entries []MapEntry
	index   map[string]int // populated lazily, see lookupKey
}

func (*Map) Kind() Kind { return KindMap }

// keyRepr renders a map key to a string that is unique per CEL-equal key,
// used both for the duplicate-key check at construction (§3.1 invariant 4)
// and as the fast-path hash key of the two-phase lookup strategy (§4.4).
func keyRepr(k Value) (string, error) {
	switch v := k.(type) {
	case Int:
		return fmt.Sprintf("i:%d", int64(v)), nil
	case Uint:
		return fmt.Sprintf("i:%d", uint64(v)), nil // magnitude-equal int/uint key collide, same as == would
	case Bool:
		return fmt.Sprintf("b:%v", bool(v)), nil
	case String:
		return "s:" + string(v), nil
	default:
		return "", fmt.Errorf("invalid map key type %s", k.Kind())
	}
}

// keyReprs implements the mpvl/unique.Interface sort+truncate contract so
// that map construction can detect duplicate keys (by the deep-equality of
// §4.2, approximated for map keys by keyRepr since only int/uint/bool/
// string keys are legal) in the same style the teacher would use to dedup
// any sorted collection.
type keyReprs []string

func (k keyReprs) Len() int           { return len(k) }
func (k keyReprs) Less(i, j int) bool { return k[i] < k[j] }
func (k keyReprs) Swap(i, j int)      { k[i], k[j] = k[j], k[i] }
func (k *keyReprs) Truncate(n int)    { *k = (*k)[:n] }

// NewMap builds a map value, rejecting invalid key types, float/null keys,
// and duplicate keys (§3.1).
func NewMap(entries []MapEntry) Value {
	reprs := make(keyReprs, len(entries))
	for i, e := range entries {
		if IsError(e.Key) || IsError(e.Value) {
			return NewError(ErrTypeMismatch, "error value in map literal")
		}
		r, err := keyRepr(e.Key)
		if err != nil {
			return NewError(ErrTypeMismatch, err.Error())
		}
		reprs[i] = r
	}
	sorted := append(keyReprs(nil), reprs...)
	unique.Sort(&sorted)
	if len(sorted) != len(reprs) {
		return NewError(ErrTypeMismatch, "duplicate map key")
	}
	return &Map{Entries: entries}
}

// lookupKey implements §4.4's two-phase strategy: a direct hash-style
// lookup by keyRepr, falling back to a linear deep-equality scan to
// support keys that compare equal by CEL rules but differ in Go's native
// representation (there are none for the legal key kinds today, but the
// fallback keeps the contract honest for float-look-alike edge cases like
// comparing a Uint key against an Int lookup value).
func (m *Map) lookupKey(k Value) (Value, bool) {
	if m.index == nil {
		m.index = make(map[string]int, len(m.Entries))
		for i, e := range m.Entries {
			if r, err := keyRepr(e.Key); err == nil {
				m.index[r] = i
			}
		}
	}
	if r, err := keyRepr(k); err == nil {
		if i, ok := m.index[r]; ok {
			return m.Entries[i].Value, true
		}
	}
	for _, e := range m.Entries {
		r := Equal(e.Key, k)
		if !IsError(r) && bool(r.(Bool)) {
			return e.Value, true
		}
	}
	return nil, false
}

// Size implements `size()` (§4.4): element count for list/map/bytes, code
// point count for string, with an ASCII fast path.
func Size(v Value) Value {
	v = Unwrap(v)
	if IsError(v) {
		return v
	}
	switch x := v.(type) {
	case *List:
		return Int(len(x.Elems))
	case *Map:
		return Int(len(x.Entries))
	case Bytes:
		return Int(len(x))
	case String:
		return Int(runeCount(string(x)))
	}
	return NewError(ErrTypeMismatch, "size() not defined for "+v.Kind().String())
}

func runeCount(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return utf8.RuneCountInString(s)
		}
	}
	return len(s) // ASCII fast path
}

// Index implements `v[k]` (§4.4). List indices must be a non-negative
// integer in range; whole-number doubles are accepted, fractional doubles
// are rejected. Map lookup uses the §4.4 two-phase strategy.
func Index(v, k Value) Value {
	v, k = Unwrap(v), Unwrap(k)
	if IsError(v) || IsError(k) {
		return propagate(v, k)
	}
	switch c := v.(type) {
	case *List:
		i, ok := asListIndex(k)
		if !ok {
			return NewError(ErrTypeMismatch, "list index must be an integer")
		}
		if i < 0 || i >= int64(len(c.Elems)) {
			return NewError(ErrIndexRange, "index out of range")
		}
		return c.Elems[i]
	case *Map:
		if _, ok := k.(Double); ok {
			return NewError(ErrTypeMismatch, "map key must not be a double")
		}
		val, ok := c.lookupKey(k)
		if !ok {
			return NewError(ErrIndexRange, "no such key")
		}
		return val
	case *Struct:
		name, ok := k.(String)
		if !ok {
			return NewError(ErrTypeMismatch, "struct index must be a string")
		}
		return FieldOrDefault(c, string(name))
	}
	return NewError(ErrTypeMismatch, "type "+v.Kind().String()+" does not support indexing")
}

func asListIndex(k Value) (int64, bool) {
	switch x := k.(type) {
	case Int:
		return int64(x), true
	case Uint:
		return int64(x), true
	case Double:
		f := float64(x)
		if f != float64(int64(f)) {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

// In implements `k in c` (§4.4): true iff c contains k by deep-equality,
// false otherwise, error if c is not a list or map.
func In(k, c Value) Value {
	k, c = Unwrap(k), Unwrap(c)
	if IsError(k) || IsError(c) {
		return propagate(c, k)
	}
	switch coll := c.(type) {
	case *List:
		for _, e := range coll.Elems {
			r := Equal(e, k)
			if !IsError(r) && bool(r.(Bool)) {
				return Bool(true)
			}
		}
		return Bool(false)
	case *Map:
		_, ok := coll.lookupKey(k)
		return Bool(ok)
	}
	return NewError(ErrTypeMismatch, "'in' not defined for "+c.Kind().String())
}

// SortedKeyStrings returns the map's keys rendered as strings and sorted,
// used by string.format-style helpers that need deterministic map output.
func (m *Map) SortedKeyStrings() []string {
	out := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		out = append(out, fmt.Sprint(e.Key))
	}
	sort.Strings(out)
	return out
}

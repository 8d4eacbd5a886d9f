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

package funcs

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/kestrelcel/cel/internal/value"
)

func init() {
	register(&Func{Name: "strings.charAt", Func: stringsCharAt})
	register(&Func{Name: "strings.indexOf", Func: stringsIndexOf})
	register(&Func{Name: "strings.lastIndexOf", Func: stringsLastIndexOf})
	register(&Func{Name: "strings.substring", Func: stringsSubstring})
	register(&Func{Name: "strings.trim", Func: stringsTrim})
	register(&Func{Name: "strings.replace", Func: stringsReplace})
	register(&Func{Name: "strings.split", Func: stringsSplit})
	register(&Func{Name: "strings.join", Func: stringsJoin})
	register(&Func{Name: "strings.quote", Func: stringsQuote})
	register(&Func{Name: "strings.format", Func: stringsFormat})
}

// runes decodes s to its code points, the indexing unit every strings.*
// position-taking function here uses (§4.10: "code-point indexed").
func runes(s string) []rune { return []rune(s) }

func stringsCharAt(args []value.Value) value.Value {
	if len(args) != 2 {
		return errArgs("strings.charAt")
	}
	s, ok := value.Unwrap(args[0]).(value.String)
	idx, ok2 := value.Unwrap(args[1]).(value.Int)
	if !ok || !ok2 {
		return errArgs("strings.charAt")
	}
	rs := runes(string(s))
	if idx < 0 || int(idx) > len(rs) {
		return value.NewError(value.ErrIndexRange, "strings.charAt: index out of range")
	}
	if int(idx) == len(rs) {
		return value.String("")
	}
	return value.String(string(rs[idx]))
}

func stringsIndexOf(args []value.Value) value.Value {
	if len(args) < 2 || len(args) > 3 {
		return errArgs("strings.indexOf")
	}
	s, ok := value.Unwrap(args[0]).(value.String)
	sub, ok2 := value.Unwrap(args[1]).(value.String)
	if !ok || !ok2 {
		return errArgs("strings.indexOf")
	}
	rs, subRs := runes(string(s)), runes(string(sub))
	start := 0
	if len(args) == 3 {
		iv, ok := value.Unwrap(args[2]).(value.Int)
		if !ok {
			return errArgs("strings.indexOf")
		}
		start = int(iv)
	}
	if start < 0 || start > len(rs) {
		return value.NewError(value.ErrIndexRange, "strings.indexOf: start out of range")
	}
	idx := runeIndex(rs[start:], subRs)
	if idx < 0 {
		return value.Int(-1)
	}
	return value.Int(int64(start + idx))
}

func stringsLastIndexOf(args []value.Value) value.Value {
	if len(args) < 2 || len(args) > 3 {
		return errArgs("strings.lastIndexOf")
	}
	s, ok := value.Unwrap(args[0]).(value.String)
	sub, ok2 := value.Unwrap(args[1]).(value.String)
	if !ok || !ok2 {
		return errArgs("strings.lastIndexOf")
	}
	rs, subRs := runes(string(s)), runes(string(sub))
	end := len(rs)
	if len(args) == 3 {
		iv, ok := value.Unwrap(args[2]).(value.Int)
		if !ok {
			return errArgs("strings.lastIndexOf")
		}
		end = int(iv)
	}
	if end < 0 || end > len(rs) {
		return value.NewError(value.ErrIndexRange, "strings.lastIndexOf: end out of range")
	}
	best := -1
	for i := 0; i+len(subRs) <= end; i++ {
		if runeEqualAt(rs, i, subRs) {
			best = i
		}
	}
	return value.Int(int64(best))
}

func runeIndex(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if runeEqualAt(haystack, i, needle) {
			return i
		}
	}
	return -1
}

func runeEqualAt(haystack []rune, at int, needle []rune) bool {
	for j, r := range needle {
		if haystack[at+j] != r {
			return false
		}
	}
	return true
}

func stringsSubstring(args []value.Value) value.Value {
	if len(args) < 2 || len(args) > 3 {
		return errArgs("strings.substring")
	}
	s, ok := value.Unwrap(args[0]).(value.String)
	start, ok2 := value.Unwrap(args[1]).(value.Int)
	if !ok || !ok2 {
		return errArgs("strings.substring")
	}
	rs := runes(string(s))
	end := int64(len(rs))
	if len(args) == 3 {
		ev, ok := value.Unwrap(args[2]).(value.Int)
		if !ok {
			return errArgs("strings.substring")
		}
		end = int64(ev)
	}
	startIdx := int64(start)
	if startIdx < 0 || end > int64(len(rs)) || startIdx > end {
		return value.NewError(value.ErrIndexRange, "strings.substring: out of range")
	}
	return value.String(string(rs[startIdx:end]))
}

func stringsTrim(args []value.Value) value.Value {
	if len(args) != 1 {
		return errArgs("strings.trim")
	}
	s, ok := value.Unwrap(args[0]).(value.String)
	if !ok {
		return errArgs("strings.trim")
	}
	return value.String(strings.TrimFunc(string(s), unicode.IsSpace))
}

func stringsReplace(args []value.Value) value.Value {
	if len(args) < 3 || len(args) > 4 {
		return errArgs("strings.replace")
	}
	s, ok := value.Unwrap(args[0]).(value.String)
	old, ok2 := value.Unwrap(args[1]).(value.String)
	repl, ok3 := value.Unwrap(args[2]).(value.String)
	if !ok || !ok2 || !ok3 {
		return errArgs("strings.replace")
	}
	n := -1
	if len(args) == 4 {
		nv, ok := value.Unwrap(args[3]).(value.Int)
		if !ok {
			return errArgs("strings.replace")
		}
		if nv < 0 {
			n = -1 // negative count = unlimited (§4.10)
		} else {
			n = int(nv)
		}
	}
	return value.String(strings.Replace(string(s), string(old), string(repl), n))
}

func stringsSplit(args []value.Value) value.Value {
	if len(args) < 2 || len(args) > 3 {
		return errArgs("strings.split")
	}
	s, ok := value.Unwrap(args[0]).(value.String)
	sep, ok2 := value.Unwrap(args[1]).(value.String)
	if !ok || !ok2 {
		return errArgs("strings.split")
	}
	var parts []string
	if len(args) == 3 {
		lim, ok := value.Unwrap(args[2]).(value.Int)
		if !ok {
			return errArgs("strings.split")
		}
		parts = strings.SplitN(string(s), string(sep), int(lim))
	} else {
		parts = strings.Split(string(s), string(sep))
	}
	elems := make([]value.Value, len(parts))
	for i, p := range parts {
		elems[i] = value.String(p)
	}
	return value.NewList(elems...)
}

func stringsJoin(args []value.Value) value.Value {
	if len(args) < 1 || len(args) > 2 {
		return errArgs("strings.join")
	}
	l, ok := value.Unwrap(args[0]).(*value.List)
	if !ok {
		return errArgs("strings.join")
	}
	sep := ""
	if len(args) == 2 {
		s, ok := value.Unwrap(args[1]).(value.String)
		if !ok {
			return errArgs("strings.join")
		}
		sep = string(s)
	}
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		s, ok := value.Unwrap(e).(value.String)
		if !ok {
			return value.NewError(value.ErrTypeMismatch, "strings.join: element is not a string")
		}
		parts[i] = string(s)
	}
	return value.String(strings.Join(parts, sep))
}

func stringsQuote(args []value.Value) value.Value {
	if len(args) != 1 {
		return errArgs("strings.quote")
	}
	s, ok := value.Unwrap(args[0]).(value.String)
	if !ok {
		return errArgs("strings.quote")
	}
	return value.String(strconv.Quote(string(s)))
}

// stringsFormat implements `strings.format(fmt, args)`, a Go-compatible
// subset (%s %d %f %e %b %o %x %X, plus %% escape). Go's strconv already
// performs correctly-rounded (round-half-to-even, i.e. banker's rounding)
// decimal conversion for %f (§4.10), so this defers straight to fmt rather
// than hand-rolling rounding.
func stringsFormat(args []value.Value) value.Value {
	if len(args) != 2 {
		return errArgs("strings.format")
	}
	f, ok := value.Unwrap(args[0]).(value.String)
	l, ok2 := value.Unwrap(args[1]).(*value.List)
	if !ok || !ok2 {
		return errArgs("strings.format")
	}
	var b strings.Builder
	argi := 0
	s := string(f)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return value.NewError(value.ErrDomain, "strings.format: trailing %")
		}
		verb := s[i+1]
		i++
		if verb == '%' {
			b.WriteByte('%')
			continue
		}
		if argi >= len(l.Elems) {
			return value.NewError(value.ErrDomain, "strings.format: not enough arguments")
		}
		arg := value.Unwrap(l.Elems[argi])
		argi++
		piece, err := formatOne(verb, arg)
		if err != nil {
			return err
		}
		b.WriteString(piece)
	}
	if argi != len(l.Elems) {
		return value.NewError(value.ErrDomain, "strings.format: unused arguments")
	}
	return value.String(b.String())
}

func formatOne(verb byte, arg value.Value) (string, value.Value) {
	switch verb {
	case 's':
		sv := value.ToString(arg)
		if value.IsError(sv) {
			return "", sv
		}
		return string(sv.(value.String)), nil
	case 'd':
		switch x := arg.(type) {
		case value.Int:
			return fmt.Sprintf("%d", int64(x)), nil
		case value.Uint:
			return fmt.Sprintf("%d", uint64(x)), nil
		}
		return "", value.NewError(value.ErrTypeMismatch, "strings.format: %d needs an integer")
	case 'f', 'e':
		d, ok := arg.(value.Double)
		if !ok {
			return "", value.NewError(value.ErrTypeMismatch, "strings.format: %"+string(verb)+" needs a double")
		}
		return fmt.Sprintf("%"+string(verb), float64(d)), nil
	case 'b':
		switch x := arg.(type) {
		case value.Int:
			return strconv.FormatInt(int64(x), 2), nil
		case value.Uint:
			return strconv.FormatUint(uint64(x), 2), nil
		case value.Bool:
			return fmt.Sprintf("%v", bool(x)), nil
		}
		return "", value.NewError(value.ErrTypeMismatch, "strings.format: %b needs an integer or bool")
	case 'o':
		switch x := arg.(type) {
		case value.Int:
			return strconv.FormatInt(int64(x), 8), nil
		case value.Uint:
			return strconv.FormatUint(uint64(x), 8), nil
		}
		return "", value.NewError(value.ErrTypeMismatch, "strings.format: %o needs an integer")
	case 'x', 'X':
		var s string
		switch x := arg.(type) {
		case value.Int:
			s = strconv.FormatInt(int64(x), 16)
		case value.Uint:
			s = strconv.FormatUint(uint64(x), 16)
		case value.Bytes:
			s = fmt.Sprintf("%x", []byte(x))
		case value.String:
			s = fmt.Sprintf("%x", string(x))
		default:
			return "", value.NewError(value.ErrTypeMismatch, "strings.format: %x needs an integer, bytes or string")
		}
		if verb == 'X' {
			s = strings.ToUpper(s)
		}
		return s, nil
	}
	return "", value.NewError(value.ErrDomain, "strings.format: unsupported verb %"+string(verb))
}

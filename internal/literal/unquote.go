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

// Package literal decodes CEL string and bytes literal bodies (§4.1). The
// contract — which escapes are legal, how \U is bounded, that raw strings
// disable escape processing entirely — mirrors cuelang.org/go/cue/literal's
// unquote, adapted from CUE's literal grammar (which also supports raw
// strings and triple-quoting) to CEL's.
package literal

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Unquote decodes the body of a string or bytes literal. raw disables all
// escape processing (the r/R prefix). asBytes rejects \U, which is invalid
// inside a bytes literal per §4.1.
//
// quote is the quote rune used to delimit the literal (' or "); the
// decoder does not consult it, since every character other than a
// backslash is taken literally (the caller has already stripped the
// surrounding quotes, including doubled triple-quotes).
func Unquote(body string, quote rune, raw, asBytes bool) (string, error) {
	if raw {
		return body, nil
	}
	var buf strings.Builder
	buf.Grow(len(body))
	for len(body) > 0 {
		if body[0] != '\\' {
			r, size := utf8.DecodeRuneInString(body)
			if r == utf8.RuneError && size <= 1 {
				return "", fmt.Errorf("invalid UTF-8 in literal")
			}
			buf.WriteRune(r)
			body = body[size:]
			continue
		}
		r, n, err := decodeEscape(body, asBytes)
		if err != nil {
			return "", err
		}
		if r < 0 {
			// \xHH inside a bytes literal: raw octet, not necessarily valid
			// UTF-8 on its own; write the byte directly.
			buf.WriteByte(byte(-r - 1))
		} else {
			buf.WriteRune(r)
		}
		body = body[n:]
	}
	return buf.String(), nil
}

// decodeEscape decodes one escape sequence starting at body[0]=='\\'. It
// returns the decoded rune (or, for bytes-only \x, a sentinel negative
// value encoding the raw byte as -(b+1) so callers can special-case it
// without corrupting UTF-8 output) and the number of input bytes consumed.
func decodeEscape(body string, asBytes bool) (rune, int, error) {
	if len(body) < 2 {
		return 0, 0, fmt.Errorf("unterminated escape sequence")
	}
	c := body[1]
	switch c {
	case '\\':
		return '\\', 2, nil
	case '"':
		return '"', 2, nil
	case '\'':
		return '\'', 2, nil
	case 'n':
		return '\n', 2, nil
	case 'r':
		return '\r', 2, nil
	case 't':
		return '\t', 2, nil
	case 'b':
		return '\b', 2, nil
	case 'f':
		return '\f', 2, nil
	case 'v':
		return '\v', 2, nil
	case 'a':
		return '\a', 2, nil
	case '?':
		return '?', 2, nil
	case '`':
		return '`', 2, nil
	case 'x', 'X':
		v, n, err := hexDigits(body[2:], 2)
		if err != nil {
			return 0, 0, err
		}
		if asBytes {
			return -(rune(v) + 1), 2 + n, nil
		}
		return rune(v), 2 + n, nil
	case 'u':
		v, n, err := hexDigits(body[2:], 4)
		if err != nil {
			return 0, 0, err
		}
		return rune(v), 2 + n, nil
	case 'U':
		if asBytes {
			return 0, 0, fmt.Errorf(`\U escape is not valid in a bytes literal`)
		}
		v, n, err := hexDigits(body[2:], 8)
		if err != nil {
			return 0, 0, err
		}
		if v > 0x10FFFF || (v >= 0xD800 && v <= 0xDFFF) {
			return 0, 0, fmt.Errorf(`\U%08x is not a valid code point`, v)
		}
		return rune(v), 2 + n, nil
	default:
		return 0, 0, fmt.Errorf("unknown escape sequence \\%c", c)
	}
}

func hexDigits(s string, n int) (uint32, int, error) {
	if len(s) < n {
		return 0, 0, fmt.Errorf("short hex escape, want %d digits", n)
	}
	var v uint32
	for i := 0; i < n; i++ {
		d, ok := hexVal(s[i])
		if !ok {
			return 0, 0, fmt.Errorf("invalid hex digit %q", s[i])
		}
		v = v<<4 | uint32(d)
	}
	return v, n, nil
}

func hexVal(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

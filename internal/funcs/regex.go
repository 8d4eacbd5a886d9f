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

// matches() is supplemented beyond the distilled surface (SPEC_FULL.md
// §12). There is no third-party regular-expression engine anywhere in the
// example pack, so this is the other documented stdlib exception alongside
// net/netip — see DESIGN.md.
package funcs

import (
	"regexp"

	"github.com/kestrelcel/cel/internal/value"
)

func init() {
	register(&Func{Name: "matches", Func: regexMatches})
}

func regexMatches(args []value.Value) value.Value {
	if len(args) != 2 {
		return errArgs("matches")
	}
	s, ok := value.Unwrap(args[0]).(value.String)
	pattern, ok2 := value.Unwrap(args[1]).(value.String)
	if !ok || !ok2 {
		return errArgs("matches")
	}
	re, err := regexp.Compile(string(pattern))
	if err != nil {
		return value.NewError(value.ErrDomain, "matches: invalid pattern: "+err.Error())
	}
	return value.Bool(re.MatchString(string(s)))
}

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
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain registers "cel" as a script-runnable program the same way the
// teacher's cmd/cue script tests register "cue" (§10.4): testscript
// re-execs this test binary in-process rather than needing a separately
// installed executable.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"cel": celMain,
	}))
}

// TestScript runs the txtar fixtures under testdata/, each exercising one
// §8 end-to-end scenario as a literal CEL source/expected-value pair.
func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
	})
}

// celMain is the "cel" program body: args[0] is the CEL source, any
// further args are NAME=VALUE bindings. The result prints to stdout on
// success, the error message to stderr with a non-zero exit on failure.
func celMain() int {
	args := os.Args[1:]
	disableMacros := false
	var positional []string
	for _, a := range args {
		if a == "-disable-macros" {
			disableMacros = true
			continue
		}
		positional = append(positional, a)
	}
	if len(positional) < 1 {
		fmt.Fprintln(os.Stderr, "cel: missing source argument")
		return 1
	}
	source := positional[0]
	bindings := BindingMap{}
	for _, kv := range positional[1:] {
		name, val, ok := strings.Cut(kv, "=")
		if !ok {
			fmt.Fprintf(os.Stderr, "cel: malformed binding %q\n", kv)
			return 1
		}
		bindings[name] = parseLiteralBinding(val)
	}
	result, err := Compile(source, CompileOptions{DisableMacros: disableMacros})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	v, err := result.Evaluate(bindings)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "%v\n", v)
	return 0
}

// parseLiteralBinding infers a Go type for a script-supplied binding
// value: boolean, integer, float, or a bare string fallback.
func parseLiteralBinding(s string) interface{} {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

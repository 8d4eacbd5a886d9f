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
	"encoding/base64"

	"github.com/kestrelcel/cel/internal/value"
)

func init() {
	register(&Func{Name: "base64.encode", Func: base64Encode})
	register(&Func{Name: "base64.decode", Func: base64Decode})
}

func base64Encode(args []value.Value) value.Value {
	if len(args) != 1 {
		return errArgs("base64.encode")
	}
	b, ok := value.Unwrap(args[0]).(value.Bytes)
	if !ok {
		return errArgs("base64.encode")
	}
	return value.String(base64.StdEncoding.EncodeToString([]byte(b)))
}

// base64Decode accepts padded or unpadded input (§4.10), trying standard
// padded decoding first and falling back to the raw (unpadded) alphabet.
func base64Decode(args []value.Value) value.Value {
	if len(args) != 1 {
		return errArgs("base64.decode")
	}
	s, ok := value.Unwrap(args[0]).(value.String)
	if !ok {
		return errArgs("base64.decode")
	}
	b, err := base64.StdEncoding.DecodeString(string(s))
	if err == nil {
		return value.Bytes(b)
	}
	b, err = base64.RawStdEncoding.DecodeString(string(s))
	if err != nil {
		return value.NewError(value.ErrDomain, "base64.decode: invalid input: "+err.Error())
	}
	return value.Bytes(b)
}

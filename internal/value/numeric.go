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

	"github.com/cockroachdb/apd/v3"
)

// numericEqual and numericCompare implement §4.2's cross-numeric contract:
// comparisons between two exact integers (int/uint in any combination) use
// arbitrary-precision arithmetic so that values above 2^53 are never
// silently rounded, while a comparison involving a double falls back to
// double comparison, accepting standard IEEE-754 boundary behavior. This is
// exactly the trade-off the design notes prescribe ("use the target
// language's big-integer facility... fall back to double comparison only
// when at least one operand is a double"); apd.Decimal is cockroachdb's
// arbitrary-precision type, adopted from the teacher's own dependency list.

func isExactInteger(v Value) bool {
	k := v.Kind()
	return k == KindInt || k == KindUint
}

func toDecimal(v Value) *apd.Decimal {
	switch x := v.(type) {
	case Int:
		return apd.New(int64(x), 0)
	case Uint:
		d, _, err := apd.NewFromString(uitoa(uint64(x)))
		if err != nil {
			return apd.New(0, 0)
		}
		return d
	}
	return nil
}

func uitoa(u uint64) string {
	if u == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for u > 0 {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	return string(buf[i:])
}

func toFloat(v Value) float64 {
	switch x := v.(type) {
	case Int:
		return float64(x)
	case Uint:
		return float64(x)
	case Double:
		return float64(x)
	}
	return math.NaN()
}

// numericEqual compares two numeric values by mathematical value (§4.2).
func numericEqual(a, b Value) bool {
	if isExactInteger(a) && isExactInteger(b) {
		return toDecimal(a).Cmp(toDecimal(b)) == 0
	}
	fa, fb := toFloat(a), toFloat(b)
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return false
	}
	return fa == fb
}

// numericCompare returns -1, 0, 1, or reports ok=false if either operand is
// NaN (in which case every relational comparison is false, never an error,
// per §4.2).
func numericCompare(a, b Value) (int, bool) {
	if isExactInteger(a) && isExactInteger(b) {
		return toDecimal(a).Cmp(toDecimal(b)), true
	}
	fa, fb := toFloat(a), toFloat(b)
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return 0, false
	}
	switch {
	case fa < fb:
		return -1, true
	case fa > fb:
		return 1, true
	default:
		return 0, true
	}
}

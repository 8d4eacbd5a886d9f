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
	"testing"

	"github.com/go-quicktest/qt"
)

func TestCompareAllowsCrossNumericUnlikeEqual(t *testing.T) {
	// Relational operators relax the cross-numeric rule equality enforces:
	// int < double is a legitimate comparison (§4.2).
	got := Compare(OpLss, Int(1), Double(1.5))
	qt.Assert(t, qt.Equals(got, Value(Bool(true))))
}

func TestCompareExactIntegerBeyondFloat53Bits(t *testing.T) {
	// Two huge exact integers one apart must compare correctly, something
	// a naive float64 round-trip would lose.
	huge := Int(1<<62) + 1
	hugePlusOne := huge + 1
	got := Compare(OpLss, huge, hugePlusOne)
	qt.Assert(t, qt.Equals(got, Value(Bool(true))))
}

func TestCompareNaNIsAlwaysFalseNeverError(t *testing.T) {
	nan := Double(nan())
	for _, op := range []RelOp{OpLss, OpLeq, OpGtr, OpGeq} {
		got := Compare(op, nan, Double(1))
		qt.Check(t, qt.Equals(got, Value(Bool(false))))
	}
}

func nan() float64 {
	var z float64
	return z / z
}

func TestCompareStrings(t *testing.T) {
	qt.Assert(t, qt.Equals(Compare(OpLss, String("a"), String("b")), Value(Bool(true))))
	qt.Assert(t, qt.Equals(Compare(OpGeq, String("b"), String("b")), Value(Bool(true))))
}

func TestCompareMismatchedNonNumericKindsIsError(t *testing.T) {
	got := Compare(OpLss, String("a"), Bool(true))
	qt.Assert(t, qt.IsTrue(IsError(got)))
}

func TestCompareBoolFalseBeforeTrue(t *testing.T) {
	qt.Assert(t, qt.Equals(Compare(OpLss, Bool(false), Bool(true)), Value(Bool(true))))
}

func TestCompareDurationBySeconds(t *testing.T) {
	short := Duration{Seconds: 1}
	long := Duration{Seconds: 2}
	qt.Assert(t, qt.Equals(Compare(OpLss, short, long), Value(Bool(true))))
}

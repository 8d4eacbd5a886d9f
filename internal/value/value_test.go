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

func TestAddIntOverflow(t *testing.T) {
	got := Add(Int(9223372036854775807), Int(1))
	err, ok := AsError(got)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(err.ErrKind, ErrOverflow))
}

func TestAddInt(t *testing.T) {
	got := Add(Int(2), Int(3))
	qt.Assert(t, qt.Equals(got, Value(Int(5))))
}

func TestEqualStrictCrossType(t *testing.T) {
	// Bare cross-type numeric equality is a type mismatch, not a bool
	// (§4.2, §8 property 9): int and double never compare equal outside
	// dyn().
	got := Equal(Int(1), Double(1.0))
	qt.Assert(t, qt.IsTrue(IsError(got)))
}

func TestEqualDynRelaxed(t *testing.T) {
	// dyn(1) == 1.0 relaxes the strict cross-type rule (§4.9, §8 property 9).
	got := Equal(&Dynamic{Inner: Int(1)}, Double(1.0))
	qt.Assert(t, qt.Equals(got, Value(Bool(true))))
}

func TestEqualMapsWithMixedIntUintKeysDoesNotPanic(t *testing.T) {
	// {1: "a", 2u: "b"} == {1: "a", 2u: "b"}: the outer entry keyed by the
	// uint 2 must compare against the int-keyed entry first without
	// panicking on the strict-type-mismatch error Equal returns for that
	// pair (§3.4, §8 "v == v" is always true).
	a := NewMap([]MapEntry{
		{Key: Int(1), Value: String("a")},
		{Key: Uint(2), Value: String("b")},
	})
	b := NewMap([]MapEntry{
		{Key: Int(1), Value: String("a")},
		{Key: Uint(2), Value: String("b")},
	})
	got := Equal(a, b)
	qt.Assert(t, qt.Equals(got, Value(Bool(true))))
}

func TestHasOnPlainMapMissingKey(t *testing.T) {
	m := NewMap(nil)
	got := In(String("b"), m)
	qt.Assert(t, qt.Equals(got, Value(Bool(false))))
}

func TestHasOnPlainMapNullValue(t *testing.T) {
	// A key explicitly present with a null value still counts as present
	// (§8 scenario 3's {a: {b: {c: null}}} -> has(a.b.c) == true case).
	m := NewMap([]MapEntry{{Key: String("c"), Value: Null{}}})
	got := In(String("c"), m)
	qt.Assert(t, qt.Equals(got, Value(Bool(true))))
}

func TestDurationNormalization(t *testing.T) {
	got := NewDuration("90m")
	d, ok := got.(Duration)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(d.Seconds, int64(5400)))
	qt.Check(t, qt.Equals(d.Nanos, int32(0)))
}

func TestTimestampWithLayout(t *testing.T) {
	got := NewTimestampWithLayout("2006-01-02", "2020-06-15")
	ts, ok := got.(Timestamp)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(ts.ToTime().Year(), 2020))
	qt.Check(t, qt.Equals(ts.ToTime().Month().String(), "June"))
}

func TestDivByZero(t *testing.T) {
	got := Div(Int(1), Int(0))
	err, ok := AsError(got)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(err.ErrKind, ErrDivByZero))
}

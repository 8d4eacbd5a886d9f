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
	"github.com/kr/pretty"
)

func TestNewMapRejectsDuplicateKeys(t *testing.T) {
	got := NewMap([]MapEntry{
		{Key: String("a"), Value: Int(1)},
		{Key: String("a"), Value: Int(2)},
	})
	qt.Assert(t, qt.IsTrue(IsError(got)))
}

func TestNewMapIntAndUintKeysCollideByMagnitude(t *testing.T) {
	// An int key and a magnitude-equal uint key are the same CEL key
	// (§3.1), so constructing both is a duplicate-key error.
	got := NewMap([]MapEntry{
		{Key: Int(1), Value: Int(1)},
		{Key: Uint(1), Value: Int(2)},
	})
	qt.Assert(t, qt.IsTrue(IsError(got)))
}

func TestMapIndexRejectsDoubleKey(t *testing.T) {
	m := NewMap([]MapEntry{{Key: String("a"), Value: Int(1)}})
	got := Index(m, Double(1))
	err, ok := AsError(got)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(err.ErrKind, ErrTypeMismatch))
}

func TestMapIndexMissingKeyIsIndexRange(t *testing.T) {
	m := NewMap([]MapEntry{{Key: String("a"), Value: Int(1)}})
	got := Index(m, String("z"))
	err, ok := AsError(got)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(err.ErrKind, ErrIndexRange))
}

func TestListIndexAcceptsWholeNumberDoubleRejectsFractional(t *testing.T) {
	l := NewList(String("a"), String("b"), String("c"))
	qt.Assert(t, qt.Equals(Index(l, Double(1)), Value(String("b"))))
	got := Index(l, Double(1.5))
	qt.Assert(t, qt.IsTrue(IsError(got)))
}

func TestListIndexOutOfRange(t *testing.T) {
	l := NewList(String("a"))
	got := Index(l, Int(5))
	err, ok := AsError(got)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(err.ErrKind, ErrIndexRange))
}

func TestStructIndexUsesFieldOrDefault(t *testing.T) {
	s := NewStruct("pkg.Msg", map[string]Value{"display_name": String("hi")}, []string{"display_name"})
	qt.Assert(t, qt.Equals(Index(s, String("display_name")), Value(String("hi"))))
}

func TestInOnList(t *testing.T) {
	l := NewList(Int(1), Int(2), Int(3))
	qt.Assert(t, qt.Equals(In(Int(2), l), Value(Bool(true))))
	qt.Assert(t, qt.Equals(In(Int(9), l), Value(Bool(false))))
}

func TestInOnMapChecksKeysNotValues(t *testing.T) {
	m := NewMap([]MapEntry{{Key: String("a"), Value: Int(1)}})
	qt.Assert(t, qt.Equals(In(String("a"), m), Value(Bool(true))))
	qt.Assert(t, qt.Equals(In(Int(1), m), Value(Bool(false))))
}

func TestSizeVariants(t *testing.T) {
	qt.Assert(t, qt.Equals(Size(NewList(Int(1), Int(2))), Value(Int(2))))
	qt.Assert(t, qt.Equals(Size(String("héllo")), Value(Int(5))))
	qt.Assert(t, qt.Equals(Size(Bytes("ab")), Value(Int(2))))
}

func TestSizeUndefinedForScalarIsError(t *testing.T) {
	got := Size(Int(5))
	qt.Assert(t, qt.IsTrue(IsError(got)))
}

func TestNewListProducesStableElementOrder(t *testing.T) {
	want := NewList(Int(1), Int(2), Int(3))
	got := NewList(Int(1), Int(2), Int(3))
	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Fatalf("unexpected difference between identically-built lists:\n%v", diff)
	}
}

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

package errors

import (
	"testing"

	qt "github.com/go-quicktest/qt"

	"github.com/kestrelcel/cel/internal/token"
)

func TestNewfFormatsPositionedMessage(t *testing.T) {
	pos := token.Position{Line: 1, Column: 5}
	err := Newf(pos, "unexpected %s", "token")
	qt.Check(t, qt.Equals(err.Error(), "1:5: unexpected token"))
}

func TestNewfOmitsPositionWhenInvalid(t *testing.T) {
	err := Newf(token.NoPos, "bad literal")
	qt.Check(t, qt.Equals(err.Error(), "bad literal"))
}

func TestListErrIsNilWhenEmpty(t *testing.T) {
	var l List
	qt.Check(t, qt.IsNil(l.Err()))
}

func TestListErrReturnsListWhenNonEmpty(t *testing.T) {
	var l List
	l.Addf(token.Position{Line: 1, Column: 1}, "first")
	err := l.Err()
	qt.Assert(t, qt.IsNotNil(err))
	qt.Check(t, qt.Equals(err.Error(), "1:1: first"))
}

func TestListSortOrdersByLineThenColumn(t *testing.T) {
	var l List
	l.Addf(token.Position{Line: 2, Column: 1}, "second line")
	l.Addf(token.Position{Line: 1, Column: 9}, "first line, later column")
	l.Addf(token.Position{Line: 1, Column: 3}, "first line, earlier column")
	l.Sort()
	all := l.All()
	qt.Assert(t, qt.Equals(len(all), 3))
	qt.Check(t, qt.Equals(all[0].Error(), "1:3: first line, earlier column"))
	qt.Check(t, qt.Equals(all[1].Error(), "1:9: first line, later column"))
	qt.Check(t, qt.Equals(all[2].Error(), "2:1: second line"))
}

func TestListErrorJoinsWithNewlines(t *testing.T) {
	var l List
	l.Addf(token.NoPos, "one")
	l.Addf(token.NoPos, "two")
	qt.Check(t, qt.Equals(l.Error(), "one\ntwo"))
}

func TestNilListErrIsNil(t *testing.T) {
	var l *List
	qt.Check(t, qt.IsNil(l.Err()))
}

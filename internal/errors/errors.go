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

// Package errors implements the positioned-diagnostic list shared by the
// scanner, parser and transformer. It deliberately mirrors the shape of
// cuelang.org/go/cue/errors: a sortable List that stages collects into over
// the course of a compile, independent of Go's single-error convention,
// because a CEL source string can carry several independent diagnostics
// (e.g. two bad literals) that are all useful to report at once.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kestrelcel/cel/internal/token"
)

// Error is a single positioned diagnostic.
type Error interface {
	error
	Position() token.Position
}

type posError struct {
	pos token.Position
	msg string
}

func (e *posError) Position() token.Position { return e.pos }
func (e *posError) Error() string {
	if e.pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.pos, e.msg)
	}
	return e.msg
}

// Newf creates a positioned error, in the style of cue/errors.Newf.
func Newf(pos token.Position, format string, args ...interface{}) Error {
	return &posError{pos: pos, msg: fmt.Sprintf(format, args...)}
}

// List accumulates diagnostics across a single compile. It implements
// error so a full compile can return (result, error) with zero diagnostics
// meaning a nil error, matching the rest of the Go ecosystem while still
// letting compile stages collect more than one failure before bailing.
type List struct {
	errs []Error
}

// Add appends a diagnostic.
func (l *List) Add(err Error) { l.errs = append(l.errs, err) }

// Addf appends a positioned diagnostic built from a format string.
func (l *List) Addf(pos token.Position, format string, args ...interface{}) {
	l.Add(Newf(pos, format, args...))
}

// Len reports the number of accumulated diagnostics.
func (l *List) Len() int { return len(l.errs) }

// Sort orders diagnostics by source position, matching cue/errors.List.Sort.
func (l *List) Sort() {
	sort.SliceStable(l.errs, func(i, j int) bool {
		pi, pj := l.errs[i].Position(), l.errs[j].Position()
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		return pi.Column < pj.Column
	})
}

// Err returns nil if the list is empty, else the list itself as an error.
func (l *List) Err() error {
	if l == nil || len(l.errs) == 0 {
		return nil
	}
	l.Sort()
	return l
}

// All returns the accumulated diagnostics.
func (l *List) All() []Error { return l.errs }

func (l *List) Error() string {
	parts := make([]string, len(l.errs))
	for i, e := range l.errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n")
}

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

// Package celog is the module's one ambient logging seam (SPEC_FULL.md
// §10.2): a *zap.Logger, defaulting to a no-op so that a library caller who
// never asks for diagnostics pays nothing for them, enabled only through
// cel.WithLogger. Nothing on the hot evaluation path (internal/value,
// internal/eval) imports this package — only the compile-stage driver in
// the top-level cel package does, for compile timing and a warning when
// Evaluate surfaces the error sentinel to the boundary.
package celog

import "go.uber.org/zap"

var logger = zap.NewNop()

// Set installs l as the package logger. A nil l resets to the no-op
// default.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// L returns the current logger.
func L() *zap.Logger {
	return logger
}

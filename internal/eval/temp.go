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

package eval

import "github.com/google/uuid"

// DebugID returns a short, process-unique synthetic identifier. The
// `__and_lN__`/`__or_rN__`-style names transform.go allocates are already
// unique within one compile, but Render's pseudo-source output is meant to
// be read alongside a caller's own request-scoped trace, so each rendered
// program is tagged with one of these to disambiguate its temporaries from
// another concurrently-rendered compile of the same source text.
func DebugID() string {
	return uuid.NewString()[:8]
}

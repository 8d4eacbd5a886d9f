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

import "time"

// minTimestamp/maxTimestamp bound the valid CEL timestamp range,
// 0001-01-01T00:00:00Z .. 9999-12-31T23:59:59.999999999Z (§3.1).
var (
	minTimestamp = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxTimestamp = time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC).Unix()
)

// NormalizeDuration puts (seconds, nanos) in canonical form: nanos in
// [0, 1e9) magnitude and sharing seconds' sign after normalization (§3.4).
func NormalizeDuration(seconds int64, nanos int32) Duration {
	for nanos <= -1e9 {
		nanos += 1e9
		seconds--
	}
	for nanos >= 1e9 {
		nanos -= 1e9
		seconds++
	}
	if seconds > 0 && nanos < 0 {
		seconds--
		nanos += 1e9
	} else if seconds < 0 && nanos > 0 {
		seconds++
		nanos -= 1e9
	}
	return Duration{Seconds: seconds, Nanos: nanos}
}

func inTimestampRange(sec int64) bool {
	return sec >= minTimestamp && sec <= maxTimestamp
}

func addTimestampDuration(t Timestamp, d Duration) Value {
	sec := t.Seconds + d.Seconds
	nsec := int64(t.Nanos) + int64(d.Nanos)
	for nsec < 0 {
		nsec += 1e9
		sec--
	}
	for nsec >= 1e9 {
		nsec -= 1e9
		sec++
	}
	if !inTimestampRange(sec) {
		return NewError(ErrDomain, "timestamp out of range")
	}
	return Timestamp{Seconds: sec, Nanos: int32(nsec)}
}

func subTimestampDuration(t Timestamp, d Duration) Value {
	return addTimestampDuration(t, Duration{Seconds: -d.Seconds, Nanos: -d.Nanos})
}

func subTimestamps(a, b Timestamp) Value {
	sec := a.Seconds - b.Seconds
	nsec := int32(a.Nanos) - b.Nanos
	return NormalizeDuration(sec, nsec)
}

func addDuration(a, b Duration) Value {
	return NormalizeDuration(a.Seconds+b.Seconds, a.Nanos+b.Nanos)
}

func subDuration(a, b Duration) Value {
	return NormalizeDuration(a.Seconds-b.Seconds, a.Nanos-b.Nanos)
}

// NewTimestamp parses an RFC3339 timestamp string (§4.10 `timestamp()`
// conversion), validating the §3.1 range.
func NewTimestamp(s string) Value {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return NewError(ErrDomain, "invalid timestamp string: "+err.Error())
	}
	sec := t.Unix()
	if !inTimestampRange(sec) {
		return NewError(ErrDomain, "timestamp out of range")
	}
	return Timestamp{Seconds: sec, Nanos: int32(t.Nanosecond())}
}

// NewTimestampWithLayout parses s using a caller-given Go reference-time
// layout, the two-argument `timestamp(s, format)` form supplemented beyond
// the bare RFC3339 conversion (SPEC_FULL.md §12).
func NewTimestampWithLayout(layout, s string) Value {
	t, err := time.Parse(layout, s)
	if err != nil {
		return NewError(ErrDomain, "invalid timestamp string: "+err.Error())
	}
	sec := t.Unix()
	if !inTimestampRange(sec) {
		return NewError(ErrDomain, "timestamp out of range")
	}
	return Timestamp{Seconds: sec, Nanos: int32(t.Nanosecond())}
}

// ToTime converts a Timestamp to a time.Time for use by accessor functions.
func (t Timestamp) ToTime() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanos)).UTC()
}

// String renders the canonical RFC3339 form.
func (t Timestamp) String() string {
	return t.ToTime().Format(time.RFC3339Nano)
}

// NewDuration parses a Go-style duration string ("1h2m3s", "1.5s", §4.10)
// with the unit suffixes of SPEC_FULL.md §12 (ns, us, ms, s, m, h). A bare
// number without a unit is rejected, except "0".
func NewDuration(s string) Value {
	d, err := time.ParseDuration(s)
	if err != nil {
		return NewError(ErrDomain, "invalid duration string: "+err.Error())
	}
	nsTotal := d.Nanoseconds()
	sec := nsTotal / 1e9
	nsec := nsTotal % 1e9
	return NormalizeDuration(sec, int32(nsec))
}

// String renders the canonical Go-style duration form.
func (d Duration) String() string {
	return time.Duration(d.Seconds*1e9 + int64(d.Nanos)).String()
}

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
	"time"

	"github.com/kestrelcel/cel/internal/value"
)

func init() {
	register(&Func{Name: "getFullYear", Func: wrapTimeAccessor(func(t time.Time) int64 { return int64(t.Year()) })})
	register(&Func{Name: "getMonth", Func: wrapTimeAccessor(func(t time.Time) int64 { return int64(t.Month()) - 1 })})
	register(&Func{Name: "getDate", Func: wrapTimeAccessor(func(t time.Time) int64 { return int64(t.Day()) })})
	register(&Func{Name: "getDayOfMonth", Func: wrapTimeAccessor(func(t time.Time) int64 { return int64(t.Day()) - 1 })})
	register(&Func{Name: "getDayOfWeek", Func: wrapTimeAccessor(func(t time.Time) int64 { return int64(t.Weekday()) })})
	register(&Func{Name: "getDayOfYear", Func: wrapTimeAccessor(func(t time.Time) int64 { return int64(t.YearDay()) - 1 })})
	register(&Func{Name: "getHours", Func: wrapTimeAccessor(func(t time.Time) int64 { return int64(t.Hour()) })})
	register(&Func{Name: "getMinutes", Func: wrapTimeAccessor(func(t time.Time) int64 { return int64(t.Minute()) })})
	register(&Func{Name: "getSeconds", Func: wrapTimeAccessor(func(t time.Time) int64 { return int64(t.Second()) })})
	register(&Func{Name: "getMilliseconds", Func: wrapTimeAccessor(func(t time.Time) int64 { return int64(t.Nanosecond() / 1e6) })})
}

// resolveLocation parses the optional timezone argument (§4.10): an IANA
// zone name or a ±HH:MM offset.
func resolveLocation(s string) (*time.Location, value.Value) {
	if loc, err := time.LoadLocation(s); err == nil {
		return loc, nil
	}
	if len(s) == 6 && (s[0] == '+' || s[0] == '-') {
		t, err := time.Parse("-07:00", s)
		if err == nil {
			_, offset := t.Zone()
			return time.FixedZone(s, offset), nil
		}
	}
	return nil, value.NewError(value.ErrDomain, "unknown timezone: "+s)
}

func wrapTimeAccessor(fn func(time.Time) int64) func([]value.Value) value.Value {
	return func(args []value.Value) value.Value {
		if len(args) < 1 || len(args) > 2 {
			return errArgs("timestamp accessor")
		}
		ts, ok := value.Unwrap(args[0]).(value.Timestamp)
		if !ok {
			return errArgs("timestamp accessor")
		}
		t := ts.ToTime()
		if len(args) == 2 {
			tz, ok := value.Unwrap(args[1]).(value.String)
			if !ok {
				return errArgs("timestamp accessor")
			}
			loc, errv := resolveLocation(string(tz))
			if errv != nil {
				return errv
			}
			t = t.In(loc)
		}
		return value.Int(fn(t))
	}
}

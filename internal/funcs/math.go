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
	"math"

	"github.com/kestrelcel/cel/internal/value"
)

func init() {
	register(&Func{Name: "math.greatest", Func: mathGreatest})
	register(&Func{Name: "math.least", Func: mathLeast})
	register(&Func{Name: "math.ceil", Func: wrap1Double(math.Ceil)})
	register(&Func{Name: "math.floor", Func: wrap1Double(math.Floor)})
	register(&Func{Name: "math.round", Func: wrap1Double(math.Round)})
	register(&Func{Name: "math.trunc", Func: wrap1Double(math.Trunc)})
	register(&Func{Name: "math.abs", Func: mathAbs})
	register(&Func{Name: "math.sign", Func: mathSign})
	register(&Func{Name: "math.isNaN", Func: mathIsNaN})
	register(&Func{Name: "math.isInf", Func: mathIsInf})
	register(&Func{Name: "math.isFinite", Func: mathIsFinite})
	register(&Func{Name: "math.bitAnd", Func: mathBitAnd})
	register(&Func{Name: "math.bitOr", Func: mathBitOr})
	register(&Func{Name: "math.bitXor", Func: mathBitXor})
	register(&Func{Name: "math.bitNot", Func: mathBitNot})
	register(&Func{Name: "math.bitShiftLeft", Func: mathBitShiftLeft})
	register(&Func{Name: "math.bitShiftRight", Func: mathBitShiftRight})
}

// operands flattens either a variadic argument list or a single list
// argument into a slice of values, the shape math.greatest/least accept.
func operands(args []value.Value) ([]value.Value, value.Value) {
	if len(args) == 1 {
		if l, ok := value.Unwrap(args[0]).(*value.List); ok {
			return l.Elems, nil
		}
	}
	return args, nil
}

func mathGreatest(args []value.Value) value.Value {
	vals, errv := operands(args)
	if errv != nil {
		return errv
	}
	if len(vals) == 0 {
		return errArgs("math.greatest")
	}
	best := vals[0]
	for _, v := range vals[1:] {
		r := value.Compare(value.OpGtr, v, best)
		if value.IsError(r) {
			return r
		}
		if bool(r.(value.Bool)) {
			best = v
		}
	}
	return best
}

func mathLeast(args []value.Value) value.Value {
	vals, errv := operands(args)
	if errv != nil {
		return errv
	}
	if len(vals) == 0 {
		return errArgs("math.least")
	}
	best := vals[0]
	for _, v := range vals[1:] {
		r := value.Compare(value.OpLss, v, best)
		if value.IsError(r) {
			return r
		}
		if bool(r.(value.Bool)) {
			best = v
		}
	}
	return best
}

func wrap1Double(fn func(float64) float64) func([]value.Value) value.Value {
	return func(args []value.Value) value.Value {
		if len(args) != 1 {
			return errArgs("math")
		}
		v := value.Unwrap(args[0])
		d, ok := v.(value.Double)
		if !ok {
			return errArgs("math")
		}
		return value.Double(fn(float64(d)))
	}
}

func mathAbs(args []value.Value) value.Value {
	if len(args) != 1 {
		return errArgs("math.abs")
	}
	switch x := value.Unwrap(args[0]).(type) {
	case value.Int:
		if x < 0 {
			if x == math.MinInt64 {
				return value.NewError(value.ErrOverflow, "math.abs: int64 minimum has no positive representation")
			}
			return -x
		}
		return x
	case value.Uint:
		return x
	case value.Double:
		return value.Double(math.Abs(float64(x)))
	}
	return errArgs("math.abs")
}

func mathSign(args []value.Value) value.Value {
	if len(args) != 1 {
		return errArgs("math.sign")
	}
	switch x := value.Unwrap(args[0]).(type) {
	case value.Int:
		switch {
		case x > 0:
			return value.Int(1)
		case x < 0:
			return value.Int(-1)
		}
		return value.Int(0)
	case value.Uint:
		if x > 0 {
			return value.Uint(1)
		}
		return value.Uint(0)
	case value.Double:
		f := float64(x)
		switch {
		case math.IsNaN(f):
			return value.Double(f)
		case f > 0:
			return value.Double(1)
		case f < 0:
			return value.Double(-1)
		}
		return value.Double(0)
	}
	return errArgs("math.sign")
}

func mathIsNaN(args []value.Value) value.Value {
	d, ok := oneDouble(args)
	if !ok {
		return errArgs("math.isNaN")
	}
	return value.Bool(math.IsNaN(float64(d)))
}

func mathIsInf(args []value.Value) value.Value {
	d, ok := oneDouble(args)
	if !ok {
		return errArgs("math.isInf")
	}
	return value.Bool(math.IsInf(float64(d), 0))
}

func mathIsFinite(args []value.Value) value.Value {
	d, ok := oneDouble(args)
	if !ok {
		return errArgs("math.isFinite")
	}
	f := float64(d)
	return value.Bool(!math.IsNaN(f) && !math.IsInf(f, 0))
}

func oneDouble(args []value.Value) (value.Double, bool) {
	if len(args) != 1 {
		return 0, false
	}
	d, ok := value.Unwrap(args[0]).(value.Double)
	return d, ok
}

// twoBitwiseInts resolves a and b to a common int64/uint64 pair for the
// bitwise functions, which require same-type int or uint operands (§4.10).
func twoBitwiseInts(args []value.Value) (int64, int64, bool, bool) {
	if len(args) != 2 {
		return 0, 0, false, false
	}
	a, b := value.Unwrap(args[0]), value.Unwrap(args[1])
	switch av := a.(type) {
	case value.Int:
		bv, ok := b.(value.Int)
		if !ok {
			return 0, 0, false, false
		}
		return int64(av), int64(bv), false, true
	case value.Uint:
		bv, ok := b.(value.Uint)
		if !ok {
			return 0, 0, false, false
		}
		return int64(av), int64(bv), true, true
	}
	return 0, 0, false, false
}

func mathBitAnd(args []value.Value) value.Value {
	a, b, isUint, ok := twoBitwiseInts(args)
	if !ok {
		return errArgs("math.bitAnd")
	}
	if isUint {
		return value.Uint(uint64(a) & uint64(b))
	}
	return value.Int(a & b)
}

func mathBitOr(args []value.Value) value.Value {
	a, b, isUint, ok := twoBitwiseInts(args)
	if !ok {
		return errArgs("math.bitOr")
	}
	if isUint {
		return value.Uint(uint64(a) | uint64(b))
	}
	return value.Int(a | b)
}

func mathBitXor(args []value.Value) value.Value {
	a, b, isUint, ok := twoBitwiseInts(args)
	if !ok {
		return errArgs("math.bitXor")
	}
	if isUint {
		return value.Uint(uint64(a) ^ uint64(b))
	}
	return value.Int(a ^ b)
}

func mathBitNot(args []value.Value) value.Value {
	if len(args) != 1 {
		return errArgs("math.bitNot")
	}
	switch x := value.Unwrap(args[0]).(type) {
	case value.Int:
		return value.Int(^int64(x))
	case value.Uint:
		return value.Uint(^uint64(x))
	}
	return errArgs("math.bitNot")
}

func shiftAmount(args []value.Value) (value.Value, int64, bool) {
	if len(args) != 2 {
		return nil, 0, false
	}
	shift, ok := value.Unwrap(args[1]).(value.Int)
	if !ok {
		return nil, 0, false
	}
	return value.Unwrap(args[0]), int64(shift), true
}

func mathBitShiftLeft(args []value.Value) value.Value {
	base, shift, ok := shiftAmount(args)
	if !ok {
		return errArgs("math.bitShiftLeft")
	}
	if shift < 0 {
		return value.NewError(value.ErrDomain, "math.bitShiftLeft: negative shift")
	}
	switch x := base.(type) {
	case value.Int:
		if shift >= 64 {
			return value.Int(0)
		}
		return value.Int(int64(x) << uint(shift))
	case value.Uint:
		if shift >= 64 {
			return value.Uint(0)
		}
		return value.Uint(uint64(x) << uint(shift))
	}
	return errArgs("math.bitShiftLeft")
}

func mathBitShiftRight(args []value.Value) value.Value {
	base, shift, ok := shiftAmount(args)
	if !ok {
		return errArgs("math.bitShiftRight")
	}
	if shift < 0 {
		return value.NewError(value.ErrDomain, "math.bitShiftRight: negative shift")
	}
	switch x := base.(type) {
	case value.Int:
		if shift >= 64 {
			return value.Int(0)
		}
		return value.Int(int64(x) >> uint(shift))
	case value.Uint:
		if shift >= 64 {
			return value.Uint(0)
		}
		return value.Uint(uint64(x) >> uint(shift))
	}
	return errArgs("math.bitShiftRight")
}

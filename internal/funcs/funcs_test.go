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
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/kestrelcel/cel/internal/value"
)

func call(t *testing.T, name string, args ...value.Value) value.Value {
	t.Helper()
	f, ok := Lookup(name)
	qt.Assert(t, qt.IsTrue(ok))
	return f.Func(args)
}

func TestMathGreatestVariadic(t *testing.T) {
	got := call(t, "math.greatest", value.Int(1), value.Int(5), value.Int(3))
	qt.Assert(t, qt.Equals(got, value.Value(value.Int(5))))
}

func TestMathGreatestSingleListArg(t *testing.T) {
	l := value.NewList(value.Int(1), value.Int(5), value.Int(3))
	got := call(t, "math.greatest", l)
	qt.Assert(t, qt.Equals(got, value.Value(value.Int(5))))
}

func TestMathLeast(t *testing.T) {
	got := call(t, "math.least", value.Int(1), value.Int(5), value.Int(3))
	qt.Assert(t, qt.Equals(got, value.Value(value.Int(1))))
}

func TestMathAbsIntOverflow(t *testing.T) {
	got := call(t, "math.abs", value.Int(-9223372036854775808))
	err, ok := value.AsError(got)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(err.ErrKind, value.ErrOverflow))
}

func TestMathSignDouble(t *testing.T) {
	qt.Assert(t, qt.Equals(call(t, "math.sign", value.Double(-4.2)), value.Value(value.Double(-1))))
	qt.Assert(t, qt.Equals(call(t, "math.sign", value.Double(0)), value.Value(value.Double(0))))
}

func TestMathBitwiseAndOr(t *testing.T) {
	qt.Assert(t, qt.Equals(call(t, "math.bitAnd", value.Int(6), value.Int(3)), value.Value(value.Int(2))))
	qt.Assert(t, qt.Equals(call(t, "math.bitOr", value.Int(6), value.Int(3)), value.Value(value.Int(7))))
}

func TestMathBitShiftLeftClampsAtWidth(t *testing.T) {
	got := call(t, "math.bitShiftLeft", value.Int(1), value.Int(64))
	qt.Assert(t, qt.Equals(got, value.Value(value.Int(0))))
}

func TestMathBitShiftNegativeIsDomainError(t *testing.T) {
	got := call(t, "math.bitShiftLeft", value.Int(1), value.Int(-1))
	err, ok := value.AsError(got)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(err.ErrKind, value.ErrDomain))
}

func TestStringsCharAtCodePointIndexed(t *testing.T) {
	got := call(t, "strings.charAt", value.String("hé llo"), value.Int(1))
	qt.Assert(t, qt.Equals(got, value.Value(value.String("é"))))
}

func TestStringsCharAtAtLengthReturnsEmpty(t *testing.T) {
	got := call(t, "strings.charAt", value.String("ab"), value.Int(2))
	qt.Assert(t, qt.Equals(got, value.Value(value.String(""))))
}

func TestStringsIndexOfNotFound(t *testing.T) {
	got := call(t, "strings.indexOf", value.String("hello"), value.String("z"))
	qt.Assert(t, qt.Equals(got, value.Value(value.Int(-1))))
}

func TestStringsSubstringOutOfRange(t *testing.T) {
	got := call(t, "strings.substring", value.String("hi"), value.Int(0), value.Int(5))
	err, ok := value.AsError(got)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(err.ErrKind, value.ErrIndexRange))
}

func TestStringsReplaceNegativeCountIsUnlimited(t *testing.T) {
	got := call(t, "strings.replace", value.String("aaa"), value.String("a"), value.String("b"), value.Int(-1))
	qt.Assert(t, qt.Equals(got, value.Value(value.String("bbb"))))
}

func TestStringsSplitAndJoinRoundTrip(t *testing.T) {
	split := call(t, "strings.split", value.String("a,b,c"), value.String(","))
	l, ok := split.(*value.List)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(len(l.Elems), 3))
	joined := call(t, "strings.join", l, value.String("-"))
	qt.Assert(t, qt.Equals(joined, value.Value(value.String("a-b-c"))))
}

func TestStringsFormatDecimalAndString(t *testing.T) {
	args := value.NewList(value.Int(42), value.String("x"))
	got := call(t, "strings.format", value.String("%d-%s"), args)
	qt.Assert(t, qt.Equals(got, value.Value(value.String("42-x"))))
}

func TestStringsFormatTooFewArguments(t *testing.T) {
	got := call(t, "strings.format", value.String("%d %d"), value.NewList(value.Int(1)))
	err, ok := value.AsError(got)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(err.ErrKind, value.ErrDomain))
}

func TestBase64RoundTrip(t *testing.T) {
	enc := call(t, "base64.encode", value.Bytes("hi"))
	qt.Assert(t, qt.Equals(enc, value.Value(value.String("aGk="))))
	dec := call(t, "base64.decode", value.String("aGk="))
	b, ok := dec.(value.Bytes)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(string(b), "hi"))
}

func TestBase64DecodeUnpaddedFallback(t *testing.T) {
	dec := call(t, "base64.decode", value.String("aGk"))
	b, ok := dec.(value.Bytes)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(string(b), "hi"))
}

func TestBase64DecodeInvalidIsDomainError(t *testing.T) {
	got := call(t, "base64.decode", value.String("!!!not base64!!!"))
	err, ok := value.AsError(got)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(err.ErrKind, value.ErrDomain))
}

func TestNetworkIPFamily(t *testing.T) {
	v4 := call(t, "ip", value.String("192.0.2.1"))
	qt.Assert(t, qt.IsFalse(value.IsError(v4)))
	qt.Assert(t, qt.Equals(call(t, "family", v4), value.Value(value.Int(4))))

	v6 := call(t, "ip", value.String("2001:db8::1"))
	qt.Assert(t, qt.IsFalse(value.IsError(v6)))
	qt.Assert(t, qt.Equals(call(t, "family", v6), value.Value(value.Int(6))))
}

func TestNetworkIPRejectsMappedDotted(t *testing.T) {
	got := call(t, "ip", value.String("::ffff:192.0.2.1"))
	err, ok := value.AsError(got)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(err.ErrKind, value.ErrDomain))
}

func TestNetworkIsIP(t *testing.T) {
	qt.Assert(t, qt.Equals(call(t, "isIP", value.String("192.0.2.1")), value.Value(value.Bool(true))))
	qt.Assert(t, qt.Equals(call(t, "isIP", value.String("not an ip")), value.Value(value.Bool(false))))
}

func TestCIDRContainsIP(t *testing.T) {
	cidr := call(t, "cidr", value.String("192.0.2.0/24"))
	qt.Assert(t, qt.IsFalse(value.IsError(cidr)))
	inside := call(t, "ip", value.String("192.0.2.42"))
	outside := call(t, "ip", value.String("198.51.100.1"))
	qt.Assert(t, qt.Equals(call(t, "cidr.containsIP", cidr, inside), value.Value(value.Bool(true))))
	qt.Assert(t, qt.Equals(call(t, "cidr.containsIP", cidr, outside), value.Value(value.Bool(false))))
}

func TestCIDRPrefixLength(t *testing.T) {
	cidr := call(t, "cidr", value.String("10.0.0.0/8"))
	qt.Assert(t, qt.Equals(call(t, "cidr.prefixLength", cidr), value.Value(value.Int(8))))
}

func TestOptionalOfAndHasValue(t *testing.T) {
	opt := call(t, "optional.of", value.Int(3))
	qt.Assert(t, qt.Equals(call(t, "hasValue", opt), value.Value(value.Bool(true))))
	qt.Assert(t, qt.Equals(call(t, "value", opt), value.Value(value.Int(3))))
}

func TestOptionalNoneValueIsNoSuchField(t *testing.T) {
	got := call(t, "value", value.None)
	err, ok := value.AsError(got)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(err.ErrKind, value.ErrNoSuchField))
}

func TestOptionalOfNonZeroValue(t *testing.T) {
	zero := call(t, "optional.ofNonZeroValue", value.Int(0))
	qt.Assert(t, qt.Equals(zero, value.Value(value.None)))
	nonzero := call(t, "optional.ofNonZeroValue", value.Int(5))
	qt.Assert(t, qt.Equals(call(t, "hasValue", nonzero), value.Value(value.Bool(true))))
}

func TestOptionalOrFallsThroughToSecond(t *testing.T) {
	got := call(t, "or", value.None, call(t, "optional.of", value.Int(9)))
	qt.Assert(t, qt.Equals(call(t, "hasValue", got), value.Value(value.Bool(true))))
	qt.Assert(t, qt.Equals(call(t, "value", got), value.Value(value.Int(9))))
}

func TestOptionalOrValueFallback(t *testing.T) {
	got := call(t, "orValue", value.None, value.Int(7))
	qt.Assert(t, qt.Equals(got, value.Value(value.Int(7))))
}

func TestRegexMatches(t *testing.T) {
	qt.Assert(t, qt.Equals(call(t, "matches", value.String("hello123"), value.String(`^[a-z]+\d+$`)), value.Value(value.Bool(true))))
	qt.Assert(t, qt.Equals(call(t, "matches", value.String("HELLO"), value.String(`^[a-z]+$`)), value.Value(value.Bool(false))))
}

func TestRegexMatchesInvalidPattern(t *testing.T) {
	got := call(t, "matches", value.String("x"), value.String("("))
	err, ok := value.AsError(got)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(err.ErrKind, value.ErrDomain))
}

func TestListDistinct(t *testing.T) {
	l := value.NewList(value.Int(1), value.Int(2), value.Int(1), value.Int(3), value.Int(2))
	got := call(t, "list.distinct", l)
	out, ok := got.(*value.List)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(len(out.Elems), 3))
}

func TestListFlattenOneLevel(t *testing.T) {
	inner1 := value.NewList(value.Int(1), value.Int(2))
	inner2 := value.NewList(value.Int(3))
	nested := value.NewList(inner1, inner2)
	got := call(t, "list.flatten", nested)
	out, ok := got.(*value.List)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(len(out.Elems), 3))
}

func TestListSliceOutOfRange(t *testing.T) {
	l := value.NewList(value.Int(1), value.Int(2), value.Int(3))
	got := call(t, "list.slice", l, value.Int(1), value.Int(10))
	err, ok := value.AsError(got)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(err.ErrKind, value.ErrIndexRange))
}

func TestListSliceValid(t *testing.T) {
	l := value.NewList(value.Int(1), value.Int(2), value.Int(3))
	got := call(t, "list.slice", l, value.Int(1), value.Int(3))
	out, ok := got.(*value.List)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Check(t, qt.Equals(len(out.Elems), 2))
	qt.Check(t, qt.Equals(out.Elems[0], value.Value(value.Int(2))))
}

func TestTimeAccessorsUTC(t *testing.T) {
	ts := value.NewTimestampWithLayout("2006-01-02T15:04:05Z", "2020-06-15T10:30:45Z")
	tv, ok := ts.(value.Timestamp)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(call(t, "getFullYear", tv), value.Value(value.Int(2020))))
	qt.Assert(t, qt.Equals(call(t, "getMonth", tv), value.Value(value.Int(5))))
	qt.Assert(t, qt.Equals(call(t, "getHours", tv), value.Value(value.Int(10))))
}

func TestTimeAccessorsWithTimezoneOffset(t *testing.T) {
	ts := value.NewTimestampWithLayout("2006-01-02T15:04:05Z", "2020-06-15T10:30:45Z")
	tv, ok := ts.(value.Timestamp)
	qt.Assert(t, qt.IsTrue(ok))
	got := call(t, "getHours", tv, value.String("-05:00"))
	qt.Assert(t, qt.Equals(got, value.Value(value.Int(5))))
}

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
	"strings"

	"github.com/kestrelcel/cel/internal/value"
)

func init() {
	register(&Func{Name: "ip", Func: networkIP})
	register(&Func{Name: "cidr", Func: networkCIDR})
	register(&Func{Name: "isIP", Func: networkIsIP})
	register(&Func{Name: "ip.isCanonical", Func: networkIPIsCanonical})
	register(&Func{Name: "family", Func: networkFamily})
	register(&Func{Name: "isUnspecified", Func: wrapIPPredicate(func(v *value.IP) bool { return v.Addr.IsUnspecified() })})
	register(&Func{Name: "isLoopback", Func: wrapIPPredicate(func(v *value.IP) bool { return v.Addr.IsLoopback() })})
	register(&Func{Name: "isGlobalUnicast", Func: wrapIPPredicate(func(v *value.IP) bool { return v.Addr.IsGlobalUnicast() })})
	register(&Func{Name: "isLinkLocalMulticast", Func: wrapIPPredicate(func(v *value.IP) bool { return v.Addr.IsLinkLocalMulticast() })})
	register(&Func{Name: "isLinkLocalUnicast", Func: wrapIPPredicate(func(v *value.IP) bool { return v.Addr.IsLinkLocalUnicast() })})
	register(&Func{Name: "cidr.containsIP", Func: cidrContainsIP})
	register(&Func{Name: "cidr.containsCIDR", Func: cidrContainsCIDR})
	register(&Func{Name: "cidr.masked", Func: cidrMasked})
	register(&Func{Name: "cidr.prefixLength", Func: cidrPrefixLength})
}

// rejectMappedDotted enforces the spec's string-parser exclusion: IPv4-
// mapped IPv6 written in dotted-decimal form (e.g. "::ffff:192.0.2.1") is
// rejected rather than silently accepted (§4.10).
func rejectMappedDotted(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "::ffff:") && strings.Contains(lower, ".")
}

func networkIP(args []value.Value) value.Value {
	if len(args) != 1 {
		return errArgs("ip")
	}
	s, ok := value.Unwrap(args[0]).(value.String)
	if !ok {
		return errArgs("ip")
	}
	if rejectMappedDotted(string(s)) {
		return value.NewError(value.ErrDomain, "ip: dotted-decimal IPv4-mapped IPv6 is rejected")
	}
	return value.NewIP(string(s))
}

func networkCIDR(args []value.Value) value.Value {
	if len(args) != 1 {
		return errArgs("cidr")
	}
	s, ok := value.Unwrap(args[0]).(value.String)
	if !ok {
		return errArgs("cidr")
	}
	if rejectMappedDotted(string(s)) {
		return value.NewError(value.ErrDomain, "cidr: dotted-decimal IPv4-mapped IPv6 is rejected")
	}
	return value.NewCIDR(string(s))
}

func networkIsIP(args []value.Value) value.Value {
	if len(args) != 1 {
		return errArgs("isIP")
	}
	s, ok := value.Unwrap(args[0]).(value.String)
	if !ok {
		return errArgs("isIP")
	}
	if rejectMappedDotted(string(s)) {
		return value.Bool(false)
	}
	return value.Bool(!value.IsError(value.NewIP(string(s))))
}

func networkIPIsCanonical(args []value.Value) value.Value {
	if len(args) != 1 {
		return errArgs("ip.isCanonical")
	}
	s, ok := value.Unwrap(args[0]).(value.String)
	if !ok {
		return errArgs("ip.isCanonical")
	}
	parsed := value.NewIP(string(s))
	if value.IsError(parsed) {
		return value.Bool(false)
	}
	return value.Bool(parsed.(*value.IP).String() == string(s))
}

func oneIP(args []value.Value) (*value.IP, bool) {
	if len(args) != 1 {
		return nil, false
	}
	ip, ok := value.Unwrap(args[0]).(*value.IP)
	return ip, ok
}

func networkFamily(args []value.Value) value.Value {
	ip, ok := oneIP(args)
	if !ok {
		return errArgs("family")
	}
	return value.Int(int64(ip.Family()))
}

func wrapIPPredicate(fn func(*value.IP) bool) func([]value.Value) value.Value {
	return func(args []value.Value) value.Value {
		ip, ok := oneIP(args)
		if !ok {
			return errArgs("ip predicate")
		}
		return value.Bool(fn(ip))
	}
}

func oneCIDR(args []value.Value, n int) (*value.CIDR, bool) {
	if len(args) != n {
		return nil, false
	}
	c, ok := value.Unwrap(args[0]).(*value.CIDR)
	return c, ok
}

func cidrContainsIP(args []value.Value) value.Value {
	c, ok := oneCIDR(args, 2)
	if !ok {
		return errArgs("cidr.containsIP")
	}
	ip, ok := value.Unwrap(args[1]).(*value.IP)
	if !ok {
		return errArgs("cidr.containsIP")
	}
	return value.Bool(c.ContainsIP(ip))
}

func cidrContainsCIDR(args []value.Value) value.Value {
	c, ok := oneCIDR(args, 2)
	if !ok {
		return errArgs("cidr.containsCIDR")
	}
	other, ok := value.Unwrap(args[1]).(*value.CIDR)
	if !ok {
		return errArgs("cidr.containsCIDR")
	}
	return value.Bool(c.ContainsCIDR(other))
}

func cidrMasked(args []value.Value) value.Value {
	c, ok := oneCIDR(args, 1)
	if !ok {
		return errArgs("cidr.masked")
	}
	return c.Masked()
}

func cidrPrefixLength(args []value.Value) value.Value {
	c, ok := oneCIDR(args, 1)
	if !ok {
		return errArgs("cidr.prefixLength")
	}
	return value.Int(int64(c.Prefix))
}

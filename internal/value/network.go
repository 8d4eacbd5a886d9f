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

import "net/netip"

// IP is a CEL ip value (§3.1): 4 or 16 raw octets plus a canonical string
// cache, backed by the standard library's netip.Addr (the idiomatic Go
// representation of an IP address; none of the pack's example repos embed
// a third-party IP library, so this is the one place the runtime reaches
// for the standard library over a dependency — see DESIGN.md).
type IP struct {
	Addr netip.Addr
}

func (*IP) Kind() Kind { return KindIP }

// NewIP parses an IP literal for the `ip()` extension function (§4.10).
// Zone identifiers are rejected, matching the spec's explicit
// zone-identifier exclusion.
func NewIP(s string) Value {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return NewError(ErrDomain, "invalid IP address: "+err.Error())
	}
	if addr.Zone() != "" {
		return NewError(ErrDomain, "zone identifiers are not supported")
	}
	return &IP{Addr: addr}
}

// Family returns 4 or 6.
func (ip *IP) Family() int {
	if ip.Addr.Is4() || ip.Addr.Is4In6() {
		return 4
	}
	return 6
}

func (ip *IP) String() string { return ip.Addr.String() }

func ipEqual(a, b *IP) bool {
	aa, ba := a.Addr, b.Addr
	if aa.Is4In6() {
		aa = aa.Unmap()
	}
	if ba.Is4In6() {
		ba = ba.Unmap()
	}
	return aa == ba
}

// CIDR is a CEL cidr value (§3.1): an ip plus a prefix length.
type CIDR struct {
	IP     *IP
	Prefix int
}

func (*CIDR) Kind() Kind { return KindCIDR }

// NewCIDR parses a CIDR literal for the `cidr()` extension function.
func NewCIDR(s string) Value {
	prefix, err := netip.ParsePrefix(s)
	if err != nil {
		return NewError(ErrDomain, "invalid CIDR: "+err.Error())
	}
	return &CIDR{IP: &IP{Addr: prefix.Addr()}, Prefix: prefix.Bits()}
}

func (c *CIDR) String() string {
	return c.IP.String() + "/" + itoa(c.Prefix)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [8]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}

// ContainsIP implements `cidr.containsIP(ip)` (§4.10).
func (c *CIDR) ContainsIP(ip *IP) bool {
	prefix := netip.PrefixFrom(c.IP.Addr, c.Prefix)
	addr := ip.Addr
	if addr.Is4() != c.IP.Addr.Is4() {
		addr = unifyFamily(addr, c.IP.Addr)
	}
	return prefix.Contains(addr)
}

func unifyFamily(a, ref netip.Addr) netip.Addr {
	if ref.Is4() && a.Is4In6() {
		return a.Unmap()
	}
	return a
}

// ContainsCIDR implements `cidr.containsCIDR(other)`.
func (c *CIDR) ContainsCIDR(other *CIDR) bool {
	if c.IP.Family() != other.IP.Family() {
		return false
	}
	if other.Prefix < c.Prefix {
		return false
	}
	prefix := netip.PrefixFrom(c.IP.Addr, c.Prefix)
	return prefix.Contains(other.IP.Addr)
}

// Masked implements `cidr.masked()`.
func (c *CIDR) Masked() *CIDR {
	p := netip.PrefixFrom(c.IP.Addr, c.Prefix).Masked()
	return &CIDR{IP: &IP{Addr: p.Addr()}, Prefix: p.Bits()}
}

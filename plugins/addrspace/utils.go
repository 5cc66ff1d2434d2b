// Copyright (c) 2019 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package addrspace

import (
	"fmt"
	"net"

	"github.com/go-errors/errors"
)

// ParseInterfaceAddress parses an interface address in CIDR notation
// (e.g. "10.0.0.1/30") into the address and the subnet it belongs to.
func ParseInterfaceAddress(address string) (net.IP, *Subnet, error) {
	ip, network, err := net.ParseCIDR(address)
	if err != nil {
		return nil, nil, errors.Errorf("invalid interface address %q: %v", address, err)
	}
	if ip4 := ip.To4(); ip4 != nil {
		ip = ip4
	}
	return ip, New(network, 0), nil
}

// DottedMask returns the IPv4 network mask in the dotted-quad notation.
func DottedMask(mask net.IPMask) string {
	if len(mask) != net.IPv4len {
		return mask.String()
	}
	return net.IP(mask).String()
}

// WildcardMask returns the inverse of the IPv4 network mask in the dotted-quad notation.
func WildcardMask(mask net.IPMask) string {
	if len(mask) != net.IPv4len {
		return mask.String()
	}
	return fmt.Sprintf("%d.%d.%d.%d", ^mask[0], ^mask[1], ^mask[2], ^mask[3])
}

// overlaps returns true if the two prefixes share at least one address.
func overlaps(a, b *net.IPNet) bool {
	return a.Contains(b.IP) || b.Contains(a.IP)
}

// alignUp rounds the offset up to the next multiple of the block size.
func alignUp(offset, blockSize uint64) uint64 {
	if rem := offset % blockSize; rem != 0 {
		return offset + blockSize - rem
	}
	return offset
}

// ipv4ToUint32 is simple utility function for conversion between IPv4 and uint32.
func ipv4ToUint32(ip net.IP) (uint32, error) {
	ip = ip.To4()
	if ip == nil {
		return 0, fmt.Errorf("IP address %v is not an IPv4 address", ip)
	}
	var tmp uint32
	for _, bytePart := range ip {
		tmp = tmp<<8 + uint32(bytePart)
	}
	return tmp, nil
}

// normalizeIPNet returns a copy of the prefix with host bits cleared and
// IPv4 addresses in their 4-byte form.
func normalizeIPNet(ipNet *net.IPNet) *net.IPNet {
	ip := ipNet.IP.Mask(ipNet.Mask)
	mask := ipNet.Mask
	if ip4 := ip.To4(); ip4 != nil {
		ip = ip4
		if len(mask) == net.IPv6len {
			mask = mask[12:]
		}
	}
	return newIPNet(&net.IPNet{IP: ip, Mask: mask})
}

// newIPNet is simple utility function to create defend copy of net.IPNet.
func newIPNet(ipNet *net.IPNet) *net.IPNet {
	ip := make(net.IP, len(ipNet.IP))
	copy(ip, ipNet.IP)
	mask := make(net.IPMask, len(ipNet.Mask))
	copy(mask, ipNet.Mask)
	return &net.IPNet{IP: ip, Mask: mask}
}

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
	"sync"

	"github.com/apparentlymart/go-cidr/cidr"
	"github.com/go-errors/errors"
)

const (
	ipv4Bits = 32
	ipv6Bits = 128

	// ipv6GroupBits is the width of one hex group of an IPv6 address.
	ipv6GroupBits = 16

	// ipv4ReservedAddrs counts the network and broadcast address of an IPv4 subnet.
	ipv4ReservedAddrs = 2
)

// Subnet is one node of the address plan.
type Subnet struct {
	sync.Mutex

	network *net.IPNet
	hosts   int // number of hosts the subnet was sized for

	hostIDOffset int
	lastHostID   int

	childCount int          // number of child subnets minted so far
	nextOffset uint64       // IPv4 only: first free address relative to the network address
	reserved   []*net.IPNet // prefixes fixed by the intent, never handed out
}

// ExhaustedError is returned when a prefix has no room left for another child
// subnet of the requested size.
type ExhaustedError struct {
	parent *net.IPNet
	hosts  int
}

// NewExhaustedError is the constructor for ExhaustedError.
func NewExhaustedError(parent *net.IPNet, hosts int) error {
	return &ExhaustedError{parent: parent, hosts: hosts}
}

// Error returns the description of the exhausted prefix.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("address space %s exhausted: no room for a subnet with %d hosts",
		e.parent.String(), e.hosts)
}

// GetParent returns the exhausted prefix.
func (e *ExhaustedError) GetParent() *net.IPNet {
	return e.parent
}

// New creates a root of the address plan for the given prefix.
// Host IDs returned by NextHostID start right after hostIDOffset.
func New(network *net.IPNet, hostIDOffset int) *Subnet {
	return newSubnet(network, 0, hostIDOffset)
}

// Parse creates a root of the address plan from its CIDR notation.
// Host bits set in the address are ignored.
func Parse(prefix string, hostIDOffset int) (*Subnet, error) {
	_, network, err := net.ParseCIDR(prefix)
	if err != nil {
		return nil, errors.Errorf("invalid prefix %q: %v", prefix, err)
	}
	return New(network, hostIDOffset), nil
}

func newSubnet(network *net.IPNet, hosts int, hostIDOffset int) *Subnet {
	return &Subnet{
		network:      normalizeIPNet(network),
		hosts:        hosts,
		hostIDOffset: hostIDOffset,
		lastHostID:   hostIDOffset,
	}
}

// Network returns a copy of the prefix owned by the subnet.
func (s *Subnet) Network() *net.IPNet {
	return newIPNet(s.network)
}

// String returns the prefix in CIDR notation.
func (s *Subnet) String() string {
	return s.network.String()
}

// PrefixLen returns the length of the network prefix.
func (s *Subnet) PrefixLen() int {
	ones, _ := s.network.Mask.Size()
	return ones
}

// Mask returns the network mask of the subnet.
func (s *Subnet) Mask() net.IPMask {
	return s.network.Mask
}

// IsIPv6 returns true if the subnet is an IPv6 prefix.
func (s *Subnet) IsIPv6() bool {
	return s.network.IP.To4() == nil
}

// Hosts returns the number of hosts the subnet was sized for (0 for roots).
func (s *Subnet) Hosts() int {
	return s.hosts
}

// Contains returns true if the given address belongs to the subnet.
func (s *Subnet) Contains(ip net.IP) bool {
	return s.network.Contains(ip)
}

// Reserve marks a prefix inside the subnet as taken, so that no child subnet
// minted afterwards overlaps it.
func (s *Subnet) Reserve(network *net.IPNet) error {
	network = normalizeIPNet(network)
	first, last := cidr.AddressRange(network)
	if !s.network.Contains(first) || !s.network.Contains(last) {
		return errors.Errorf("cannot reserve %s: not inside %s", network, s.network)
	}

	s.Lock()
	defer s.Unlock()
	s.reserved = append(s.reserved, network)
	return nil
}

// NextSubnetwork mints a new child subnet able to hold at least the given number of hosts.
// Child subnets never overlap each other nor any reserved prefix and inherit the host
// ID offset of the parent.
func (s *Subnet) NextSubnetwork(hosts int) (*Subnet, error) {
	if hosts < 1 {
		return nil, errors.Errorf("invalid number of hosts %d for a subnet of %s", hosts, s.network)
	}

	s.Lock()
	defer s.Unlock()

	var (
		child *net.IPNet
		err   error
	)
	if s.IsIPv6() {
		child, err = s.nextIPv6Subnetwork(hosts)
	} else {
		child, err = s.nextIPv4Subnetwork(hosts)
	}
	if err != nil {
		return nil, err
	}
	return newSubnet(child, hosts, s.hostIDOffset), nil
}

// nextIPv6Subnetwork advances the hex group right after the parent prefix.
// The first child gets group value 1.
func (s *Subnet) nextIPv6Subnetwork(hosts int) (*net.IPNet, error) {
	parentLen := s.PrefixLen()
	prefixLen := (parentLen/ipv6GroupBits + 1) * ipv6GroupBits
	if prefixLen > ipv6Bits {
		return nil, NewExhaustedError(s.Network(), hosts)
	}
	newBits := prefixLen - parentLen
	maxChild := 1<<uint(newBits) - 1

	for s.childCount < maxChild {
		s.childCount++
		candidate, err := cidr.Subnet(s.network, newBits, s.childCount)
		if err != nil {
			return nil, err
		}
		if s.reservedOverlap(candidate) == nil {
			return candidate, nil
		}
	}
	return nil, NewExhaustedError(s.Network(), hosts)
}

// nextIPv4Subnetwork places the smallest power-of-two block able to hold the hosts
// at the first free aligned offset of the parent.
func (s *Subnet) nextIPv4Subnetwork(hosts int) (*net.IPNet, error) {
	parentLen := s.PrefixLen()
	hostBits := 0
	for (1 << uint(hostBits)) < hosts+ipv4ReservedAddrs {
		hostBits++
	}
	prefixLen := ipv4Bits - hostBits
	if prefixLen < parentLen {
		prefixLen = parentLen
	}
	blockSize := uint64(1) << uint(ipv4Bits-prefixLen)
	parentSize := uint64(1) << uint(ipv4Bits-parentLen)

	offset := alignUp(s.nextOffset, blockSize)
	// every conflict moves the offset past one reserved prefix
	for attempt := 0; attempt <= len(s.reserved); attempt++ {
		if offset+blockSize > parentSize {
			break
		}
		candidate, err := cidr.Subnet(s.network, prefixLen-parentLen, int(offset/blockSize))
		if err != nil {
			return nil, err
		}
		conflict := s.reservedOverlap(candidate)
		if conflict == nil {
			s.childCount++
			s.nextOffset = offset + blockSize
			return candidate, nil
		}
		_, last := cidr.AddressRange(conflict)
		offset = alignUp(s.offsetOf(last)+1, blockSize)
	}
	return nil, NewExhaustedError(s.Network(), hosts)
}

// reservedOverlap returns the first reserved prefix overlapping the candidate.
func (s *Subnet) reservedOverlap(candidate *net.IPNet) *net.IPNet {
	for _, reserved := range s.reserved {
		if overlaps(reserved, candidate) {
			return reserved
		}
	}
	return nil
}

// offsetOf returns the distance of the IPv4 address from the network address.
func (s *Subnet) offsetOf(ip net.IP) uint64 {
	base, _ := ipv4ToUint32(s.network.IP)
	addr, _ := ipv4ToUint32(ip)
	return uint64(addr) - uint64(base)
}

// HostAddress returns the address of the host with the given ID inside the subnet.
// The result only depends on the subnet and the ID.
func (s *Subnet) HostAddress(id int) (net.IP, error) {
	if id < 1 {
		return nil, errors.Errorf("invalid host ID %d for %s", id, s.network)
	}
	ip, err := cidr.Host(s.network, id)
	if err != nil {
		return nil, errors.Errorf("host ID %d does not fit into %s: %v", id, s.network, err)
	}
	if !s.IsIPv6() && s.PrefixLen() < ipv4Bits-1 {
		if _, broadcast := cidr.AddressRange(s.network); ip.Equal(broadcast) {
			return nil, errors.Errorf("host ID %d maps to the broadcast address of %s", id, s.network)
		}
	}
	return ip, nil
}

// NextHostID returns the next host ID of the subnet, starting right after
// the configured offset.
func (s *Subnet) NextHostID() int {
	s.Lock()
	defer s.Unlock()
	s.lastHostID++
	return s.lastHostID
}

// HostID returns the ID under which the given address is reachable in the subnet.
func (s *Subnet) HostID(ip net.IP) (int, error) {
	if !s.network.Contains(ip) {
		return 0, errors.Errorf("address %s is not inside %s", ip, s.network)
	}
	if s.IsIPv6() {
		// only the trailing 64 bits can be used as host ID
		ip16 := ip.To16()
		var id uint64
		for _, b := range ip16[8:] {
			id = id<<8 + uint64(b)
		}
		return int(id), nil
	}
	return int(s.offsetOf(ip)), nil
}

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

package topology

import (
	"net"
	"sync"

	"github.com/pkg/errors"

	"github.com/contiv/netsynth/plugins/addrspace"
)

// maxHostIDAttempts bounds the search for a free host ID of a link subnet,
// at most one address of a point-to-point link can be pinned by the other end.
const maxHostIDAttempts = 3

// pairKey identifies the unordered pair of link endpoints.
type pairKey struct {
	owner string // lexicographically smaller hostname
	other string
}

// orderPair returns the hostnames ordered lexicographically.
func orderPair(a, b string) (owner, other string) {
	if a < b {
		return a, b
	}
	return b, a
}

func newPairKey(a, b string) pairKey {
	owner, other := orderPair(a, b)
	return pairKey{owner: owner, other: other}
}

// linkEntry is the state shared by both ends of a link.
type linkEntry struct {
	subnet    *addrspace.Subnet
	addresses map[string]net.IP // hostname -> interface address
}

// linkCache holds exactly one subnet per link, so both ends of the link agree
// on the subnet regardless of the order in which they are processed.
type linkCache struct {
	sync.Mutex
	entries map[pairKey]*linkEntry
}

func newLinkCache() *linkCache {
	return &linkCache{entries: map[pairKey]*linkEntry{}}
}

// getOrCreate returns the entry of the link, calling create to obtain the subnet
// if the link has no entry yet.
func (c *linkCache) getOrCreate(key pairKey, create func() (*addrspace.Subnet, error)) (
	entry *linkEntry, created bool, err error) {

	c.Lock()
	defer c.Unlock()
	if entry, exists := c.entries[key]; exists {
		return entry, false, nil
	}
	subnet, err := create()
	if err != nil {
		return nil, false, err
	}
	entry = &linkEntry{subnet: subnet, addresses: map[string]net.IP{}}
	c.entries[key] = entry
	return entry, true, nil
}

// lookup returns the entry of the link.
func (c *linkCache) lookup(key pairKey) (*linkEntry, bool) {
	c.Lock()
	defer c.Unlock()
	entry, exists := c.entries[key]
	return entry, exists
}

// pinAddress records an address fixed by the intent for one end of the link.
func (c *linkCache) pinAddress(key pairKey, hostname string, ip net.IP) error {
	c.Lock()
	defer c.Unlock()
	entry := c.entries[key]
	if !entry.subnet.Contains(ip) {
		return NewPreconditionError(hostname, otherEnd(key, hostname),
			"address "+ip.String()+" is outside of the link subnet "+entry.subnet.String())
	}
	if entry.usedByOther(hostname, ip) {
		return NewPreconditionError(hostname, otherEnd(key, hostname), "both ends pinned to address "+ip.String())
	}
	entry.addresses[hostname] = ip
	return nil
}

// assignAddress gives the end of the link the next free host address of the link subnet.
// An end with an address keeps it.
func (c *linkCache) assignAddress(key pairKey, hostname string) (net.IP, error) {
	c.Lock()
	defer c.Unlock()
	entry := c.entries[key]
	if ip, assigned := entry.addresses[hostname]; assigned {
		return ip, nil
	}
	for attempt := 0; attempt < maxHostIDAttempts; attempt++ {
		ip, err := entry.subnet.HostAddress(entry.subnet.NextHostID())
		if err != nil {
			return nil, errors.Wrapf(err, "link %s <-> %s", key.owner, key.other)
		}
		if !entry.usedByOther(hostname, ip) {
			entry.addresses[hostname] = ip
			return ip, nil
		}
	}
	return nil, errors.Errorf("link %s <-> %s: no free address left in %s", key.owner, key.other, entry.subnet)
}

func (e *linkEntry) usedByOther(hostname string, ip net.IP) bool {
	for peer, address := range e.addresses {
		if peer != hostname && address.Equal(ip) {
			return true
		}
	}
	return false
}

func otherEnd(key pairKey, hostname string) string {
	if key.owner == hostname {
		return key.other
	}
	return key.owner
}

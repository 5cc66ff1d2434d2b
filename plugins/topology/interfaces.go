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

	"github.com/pkg/errors"

	"github.com/contiv/netsynth/plugins/addrspace"
)

// assignInterfaces is the interface pass. Fixed interfaces and addresses are
// honoured first so that nothing allocated afterwards collides with them.
func (t *Topology) assignInterfaces() error {
	routers := t.Routers()
	for _, router := range routers {
		t.reserveInterfaces(router)
	}
	for _, router := range routers {
		if err := t.pinLinkAddresses(router); err != nil {
			return err
		}
	}
	for _, router := range routers {
		if err := t.mintLinkSubnets(router); err != nil {
			return err
		}
	}
	for _, router := range routers {
		if err := t.assignLinks(router); err != nil {
			return err
		}
	}
	return nil
}

// reserveInterfaces removes the interfaces fixed by the intent or already wired
// in the lab from the pool of the router.
func (t *Topology) reserveInterfaces(router *Router) {
	used := map[string]bool{}
	for _, link := range router.Links {
		if link.Interface != "" {
			used[link.Interface] = true
		}
	}
	for _, link := range router.Links {
		labIf, wired := router.labInterfaces[link.Neighbor]
		if !wired {
			continue
		}
		if link.Interface != "" {
			if link.Interface != labIf {
				t.Log.Warnf("Router %s: link to %s uses %s in the lab but %s in the intent, keeping %s",
					router.Hostname, link.Neighbor, labIf, link.Interface, link.Interface)
			}
			continue
		}
		if used[labIf] {
			t.Log.Warnf("Router %s: lab interface %s of the link to %s is already taken, ignoring it",
				router.Hostname, labIf, link.Neighbor)
			delete(router.labInterfaces, link.Neighbor)
			continue
		}
		used[labIf] = true
	}

	router.available = nil
	for _, ifName := range t.config.InterfacePool {
		if !used[ifName] {
			router.available = append(router.available, ifName)
		}
	}
}

// pinLinkAddresses registers subnets and addresses fixed by the intent.
func (t *Topology) pinLinkAddresses(router *Router) error {
	for _, link := range router.Links {
		if link.Address == nil {
			continue
		}
		key := newPairKey(router.Hostname, link.Neighbor)
		network := &net.IPNet{IP: link.Address.IP.Mask(link.Address.Mask), Mask: link.Address.Mask}
		entry, created, err := t.links.getOrCreate(key, func() (*addrspace.Subnet, error) {
			return addrspace.New(network, t.config.HostIDOffset), nil
		})
		if err != nil {
			return err
		}
		if created {
			as := t.systems[router.ASN]
			if as.Prefix.Contains(network.IP) {
				if err := as.Prefix.Reserve(network); err != nil {
					return errors.Wrapf(err, "router %s", router.Hostname)
				}
			}
		} else if entry.subnet.Network().String() != network.String() {
			return NewPreconditionError(router.Hostname, link.Neighbor,
				"pinned subnet "+network.String()+" differs from "+entry.subnet.String()+" pinned by the neighbor")
		}
		if err := t.links.pinAddress(key, router.Hostname, link.Address.IP); err != nil {
			return err
		}
	}
	return nil
}

// mintLinkSubnets allocates subnets of the links owned by the router, i.e. links
// to neighbors with a greater hostname. Internal links take a /30 (or the next
// IPv6 child) of the AS prefix, external links use the transport prefix.
func (t *Topology) mintLinkSubnets(router *Router) error {
	for _, link := range router.Links {
		if owner, _ := orderPair(router.Hostname, link.Neighbor); owner != router.Hostname {
			continue
		}
		neighbor := t.routers[link.Neighbor]
		key := newPairKey(router.Hostname, neighbor.Hostname)
		_, _, err := t.links.getOrCreate(key, func() (*addrspace.Subnet, error) {
			if router.ASN == neighbor.ASN {
				subnet, err := t.systems[router.ASN].Prefix.NextSubnetwork(2)
				if err != nil {
					return nil, errors.Wrapf(err, "link %s <-> %s", router.Hostname, neighbor.Hostname)
				}
				if t.Stats != nil {
					t.Stats.SubnetAllocated(router.ASN)
				}
				return subnet, nil
			}
			transport, err := t.transportFor(router, neighbor)
			if err != nil {
				return nil, err
			}
			return addrspace.New(transport, t.config.HostIDOffset), nil
		})
		if err != nil {
			return err
		}
		if _, err := t.links.assignAddress(key, router.Hostname); err != nil {
			return err
		}
		if _, err := t.links.assignAddress(key, neighbor.Hostname); err != nil {
			return err
		}
	}
	return nil
}

// assignLinks builds the link states of the router.
func (t *Topology) assignLinks(router *Router) error {
	as := t.systems[router.ASN]
	router.linkStates = map[string]*LinkState{}
	router.linkOrder = nil

	for _, link := range router.Links {
		neighbor := t.routers[link.Neighbor]
		ifName := link.Interface
		if ifName == "" {
			ifName = router.labInterfaces[link.Neighbor]
		}
		if ifName == "" {
			if len(router.available) == 0 {
				return NewPreconditionError(router.Hostname, link.Neighbor, "no interface left in the pool")
			}
			ifName = router.available[0]
			router.available = router.available[1:]
		}

		entry, exists := t.links.lookup(newPairKey(router.Hostname, neighbor.Hostname))
		if !exists {
			return NewPreconditionError(router.Hostname, link.Neighbor, "link has no subnet")
		}
		address, assigned := entry.addresses[router.Hostname]
		if !assigned {
			return NewPreconditionError(router.Hostname, link.Neighbor, "link end has no address")
		}

		external := router.ASN != neighbor.ASN
		state := &LinkState{
			Neighbor:   neighbor.Hostname,
			NeighborAS: neighbor.ASN,
			Interface:  ifName,
			Subnet:     entry.subnet,
			Address:    address,
			OSPFCost:   link.OSPFCost,
			External:   external,
			Passive:    external,
			MPLS:       !external && as.LDP,
		}
		router.linkStates[neighbor.Hostname] = state
		router.linkOrder = append(router.linkOrder, state)
		t.Log.Debugf("Router %s: %s %s/%d towards %s", router.Hostname, ifName, address,
			entry.subnet.PrefixLen(), neighbor.Hostname)
	}
	return nil
}

// transportFor returns the prefix of the inter-AS link between the routers.
// The relation entry of the local AS takes precedence over the one of the neighbor AS.
func (t *Topology) transportFor(local, neighbor *Router) (*net.IPNet, error) {
	if as, exists := t.systems[local.ASN]; exists {
		if connected, found := as.ConnectedTo(neighbor.ASN); found {
			if prefix, found := connected.Transport[local.Hostname]; found {
				return prefix, nil
			}
		}
	}
	if as, exists := t.systems[neighbor.ASN]; exists {
		if connected, found := as.ConnectedTo(local.ASN); found {
			if prefix, found := connected.Transport[neighbor.Hostname]; found {
				return prefix, nil
			}
		}
	}
	return nil, NewPreconditionError(local.Hostname, neighbor.Hostname, "no transport prefix for the inter-AS link")
}

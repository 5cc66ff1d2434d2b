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
	"sort"
)

// classify derives the MPLS role and the reflector flag of the router.
func (t *Topology) classify(router *Router) {
	as := t.systems[router.ASN]
	router.role = RoleCustomerEdge
	if as.LDP {
		router.role = RoleProvider
		for _, state := range router.linkOrder {
			if state.External {
				router.role = RoleProviderEdge
				break
			}
		}
	}
	router.reflector = router.RouteReflector ||
		(t.config.RouteReflectorHostname != "" && router.Hostname == t.config.RouteReflectorHostname)
	t.Log.Debugf("Router %s: role %s, reflector %t", router.Hostname, router.role, router.reflector)
}

// assignAdjacencies derives the iBGP neighbors (all PEs and route reflectors of the AS
// except the router), the eBGP neighbors and the inbound route-maps used by the router.
func (t *Topology) assignAdjacencies(router *Router) {
	as := t.systems[router.ASN]
	router.ibgp = nil
	for _, hostname := range sortedMembers(as) {
		if hostname == router.Hostname {
			continue
		}
		if t.routers[hostname].CarriesVPNRoutes() {
			router.ibgp = append(router.ibgp, hostname)
		}
	}

	router.ebgp = map[string]uint32{}
	router.importPeers = nil
	seen := map[uint32]bool{}
	for _, state := range router.linkOrder {
		if !state.External {
			continue
		}
		router.ebgp[state.Neighbor] = state.NeighborAS
		if seen[state.NeighborAS] {
			continue
		}
		seen[state.NeighborAS] = true
		if _, exists := as.policy.ImportRouteMap(state.NeighborAS); exists {
			router.importPeers = append(router.importPeers, state.NeighborAS)
		} else {
			t.Log.Warnf("Router %s: no relation declared between AS %d and AS %d, eBGP session with %s is unfiltered",
				router.Hostname, router.ASN, state.NeighborAS, state.Neighbor)
		}
	}
}

// assignVRFs creates or reuses a VRF for every link of a PE towards a customer
// router of another AS carrying VPN family tags.
func (t *Topology) assignVRFs(router *Router) {
	router.vrfs = nil
	if !router.IsProviderEdge() {
		return
	}
	for _, state := range router.linkOrder {
		state.VRF = nil
		if !state.External {
			continue
		}
		customer := t.routers[state.Neighbor]
		if len(customer.VPNFamily) == 0 {
			continue
		}
		vrf, created := t.vrfs.GetOrCreate(customer.Hostname, router.Hostname, state.Interface,
			customer.ASN, customer.VPNFamily)
		if created {
			if t.Stats != nil {
				t.Stats.VRFCreated(customer.ASN)
			}
			t.Log.Debugf("Router %s: VRF %s (rd %s) for customer %s", router.Hostname, vrf.Name,
				vrf.RouteDistinguisher, customer.Hostname)
		}
		state.VRF = vrf
		router.vrfs = append(router.vrfs, vrf)
	}
	sort.Slice(router.vrfs, func(i, j int) bool {
		return router.vrfs[i].Name < router.vrfs[j].Name
	})
}

// PeerLink returns the end of the link owned by the neighbor, its address is
// the BGP peering address of eBGP sessions.
func (s *Synthesized) PeerLink(router *Router, neighbor string) (*LinkState, bool) {
	peer, exists := s.t.routers[neighbor]
	if !exists {
		return nil, false
	}
	return peer.LinkState(router.Hostname)
}

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
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/contiv/netsynth/plugins/addrspace"
	"github.com/contiv/netsynth/plugins/idalloc"
	"github.com/contiv/netsynth/plugins/policy"
)

const (
	// IPv4 selects IPv4 addressing for all routers of an AS.
	IPv4 = 4
	// IPv6 selects IPv6 addressing for all routers of an AS.
	IPv6 = 6
)

// IGP is the interior routing protocol of an AS.
type IGP int

const (
	// IGPOSPF is OSPF (OSPFv3 for IPv6), always with a single area 0.
	IGPOSPF IGP = iota

	// IGPRIP is RIP version 2 (RIPng for IPv6).
	IGPRIP
)

// ParseIGP parses the protocol name used in the intent.
func ParseIGP(name string) (IGP, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "OSPF":
		return IGPOSPF, nil
	case "RIP":
		return IGPRIP, nil
	}
	return IGPOSPF, fmt.Errorf("unknown interior routing protocol %q", name)
}

// String returns the protocol name as used in the intent.
func (p IGP) String() string {
	if p == IGPRIP {
		return "RIP"
	}
	return "OSPF"
}

// Role is the MPLS role of a router.
type Role int

const (
	// RoleCustomerEdge is any router of an AS without LDP.
	RoleCustomerEdge Role = iota

	// RoleProviderEdge is a router of an LDP-enabled AS with at least one link to another AS.
	RoleProviderEdge

	// RoleProvider is a router of an LDP-enabled AS with all links inside the AS.
	RoleProvider
)

// String returns the usual abbreviation of the role.
func (r Role) String() string {
	switch r {
	case RoleProviderEdge:
		return "PE"
	case RoleProvider:
		return "P"
	}
	return "CE"
}

// AutonomousSystem is one administrative routing domain of the intent.
type AutonomousSystem struct {
	Number    uint32
	IPVersion int
	IGP       IGP
	LDP       bool

	// Prefix is the root of link subnets, LoopbackPrefix the root of loopback addresses.
	Prefix         *addrspace.Subnet
	LoopbackPrefix *addrspace.Subnet

	// Routers lists hostnames of the members.
	Routers []string

	// Connected is the ordered relation list of the AS.
	Connected []*ConnectedAS

	policy    *policy.Catalog
	routerIDs *idalloc.RouterIDAllocator
	members   map[string]bool
}

// ConnectedAS is one relation of an AS.
type ConnectedAS struct {
	ASN      uint32
	Relation policy.Relation

	// Transport maps the hostname of a local border router to the prefix
	// of its link into the connected AS.
	Transport map[string]*net.IPNet
}

// Policy returns the routing policy derived from the relation list.
func (as *AutonomousSystem) Policy() *policy.Catalog {
	return as.policy
}

// RouterIDs returns the router ID pool of the AS.
func (as *AutonomousSystem) RouterIDs() *idalloc.RouterIDAllocator {
	return as.routerIDs
}

// HasMember returns true if the router belongs to the AS.
func (as *AutonomousSystem) HasMember(hostname string) bool {
	return as.members[hostname]
}

// ConnectedTo returns the relation entry of the given AS.
func (as *AutonomousSystem) ConnectedTo(asn uint32) (*ConnectedAS, bool) {
	for _, connected := range as.Connected {
		if connected.ASN == asn {
			return connected, true
		}
	}
	return nil, false
}

// Position is the location of the router in the lab canvas.
type Position struct {
	X int
	Y int
}

// Link is one end of a link as declared by the intent.
type Link struct {
	Neighbor string

	// Interface fixes the local interface (empty = take one from the pool).
	Interface string

	// Address fixes the local interface address, the mask selects the link subnet (nil = allocate).
	Address *net.IPNet

	// OSPFCost overrides the OSPF interface cost (0 = default).
	OSPFCost uint32
}

// LinkState is the synthesized state of one end of a link.
type LinkState struct {
	Neighbor   string
	NeighborAS uint32
	Interface  string
	Subnet     *addrspace.Subnet
	Address    net.IP
	OSPFCost   uint32

	// External is true for links crossing the AS boundary, those are passive for the IGP.
	External bool
	Passive  bool

	// MPLS enables label switching on the interface.
	MPLS bool

	// VRF is set on PE interfaces towards VPN customers.
	VRF *policy.VRF
}

// Router is one router of the intent together with its synthesized state.
type Router struct {
	Hostname       string
	ASN            uint32
	Links          []*Link
	VPNFamily      []uint32
	Position       Position
	RouteReflector bool

	// RouterID and Loopback may be pinned by the intent, otherwise they are assigned
	// by the loopback pass.
	RouterID uint32
	Loopback net.IP

	labInterfaces map[string]string // neighbor -> interface used in the lab
	available     []string
	linkStates    map[string]*LinkState
	linkOrder     []*LinkState

	role        Role
	reflector   bool
	ibgp        []string
	ebgp        map[string]uint32
	importPeers []uint32
	vrfs        []*policy.VRF
}

// LinkStates returns the synthesized link ends in the order of the declared links.
func (r *Router) LinkStates() []*LinkState {
	return r.linkOrder
}

// LinkState returns the synthesized end of the link to the given neighbor.
func (r *Router) LinkState(neighbor string) (*LinkState, bool) {
	state, exists := r.linkStates[neighbor]
	return state, exists
}

// Role returns the MPLS role of the router.
func (r *Router) Role() Role {
	return r.role
}

// IsProviderEdge returns true for routers of an LDP-enabled AS with a link into another AS.
func (r *Router) IsProviderEdge() bool {
	return r.role == RoleProviderEdge
}

// IsProvider returns true for routers of an LDP-enabled AS with all links inside the AS.
func (r *Router) IsProvider() bool {
	return r.role == RoleProvider
}

// IsRouteReflector returns true if the router reflects VPN routes to the PEs of its AS.
func (r *Router) IsRouteReflector() bool {
	return r.reflector
}

// CarriesVPNRoutes returns true for the PEs and the route reflectors of an LDP-enabled AS.
func (r *Router) CarriesVPNRoutes() bool {
	return r.role == RoleProviderEdge || (r.role == RoleProvider && r.reflector)
}

// IBGPNeighbors returns hostnames of the iBGP neighbors, sorted.
func (r *Router) IBGPNeighbors() []string {
	return r.ibgp
}

// EBGPNeighbors returns the AS number of every eBGP neighbor, keyed by hostname.
func (r *Router) EBGPNeighbors() map[string]uint32 {
	return r.ebgp
}

// ImportPeers returns AS numbers whose inbound route-maps are used by the router.
func (r *Router) ImportPeers() []uint32 {
	return r.importPeers
}

// VRFs returns the VRFs terminating on the router.
func (r *Router) VRFs() []*policy.VRF {
	return r.vrfs
}

// RouterIDString returns the router ID in the dotted form used by the routing protocols.
func (r *Router) RouterIDString() string {
	return fmt.Sprintf("%d.%d.%d.%d", r.RouterID, r.RouterID, r.RouterID, r.RouterID)
}

// PassiveInterfaces returns interfaces on which the IGP does not form adjacencies, sorted.
func (r *Router) PassiveInterfaces() []string {
	var passive []string
	for _, state := range r.linkOrder {
		if state.Passive {
			passive = append(passive, state.Interface)
		}
	}
	sort.Strings(passive)
	return passive
}

// findLink returns the declared link to the given neighbor.
func (r *Router) findLink(neighbor string) *Link {
	for _, link := range r.Links {
		if link.Neighbor == neighbor {
			return link
		}
	}
	return nil
}

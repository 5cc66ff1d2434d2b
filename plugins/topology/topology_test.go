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
	"testing"

	"github.com/ligato/cn-infra/logging/logrus"
	. "github.com/onsi/gomega"

	"github.com/contiv/netsynth/plugins/addrspace"
	"github.com/contiv/netsynth/plugins/policy"
	"github.com/contiv/netsynth/plugins/synthconf"
	"github.com/contiv/netsynth/plugins/synthconf/config"
)

func newTestTopology(cfg *config.Config) *Topology {
	if cfg == nil {
		cfg = synthconf.Defaults()
	}
	return NewTopology(Deps{Log: logrus.DefaultLogger()}, cfg)
}

func mustSubnet(prefix string) *addrspace.Subnet {
	subnet, err := addrspace.Parse(prefix, 0)
	Expect(err).To(BeNil())
	return subnet
}

func mustIPNet(prefix string) *net.IPNet {
	ip, network, err := net.ParseCIDR(prefix)
	Expect(err).To(BeNil())
	network.IP = ip
	return network
}

func addIPv4AS(topo *Topology, asn uint32, ldp bool, connected ...*ConnectedAS) {
	Expect(topo.AddAutonomousSystem(&AutonomousSystem{
		Number:         asn,
		IPVersion:      IPv4,
		IGP:            IGPOSPF,
		LDP:            ldp,
		Prefix:         mustSubnet("10.0.0.0/16"),
		LoopbackPrefix: mustSubnet("192.168.0.0/24"),
		Connected:      connected,
	})).To(Succeed())
}

func addRouter(topo *Topology, hostname string, asn uint32, neighbors ...string) *Router {
	router := &Router{Hostname: hostname, ASN: asn}
	for _, neighbor := range neighbors {
		router.Links = append(router.Links, &Link{Neighbor: neighbor})
	}
	Expect(topo.AddRouter(router)).To(Succeed())
	return router
}

func TestIntraASLink(t *testing.T) {
	RegisterTestingT(t)
	topo := newTestTopology(nil)
	addIPv4AS(topo, 65001, false)
	r1 := addRouter(topo, "R1", 65001, "R2")
	r2 := addRouter(topo, "R2", 65001, "R1")

	syn, err := topo.Synthesize()
	Expect(err).To(BeNil())
	Expect(syn.Routers()).To(HaveLen(2))

	end1, exists := r1.LinkState("R2")
	Expect(exists).To(BeTrue())
	end2, exists := r2.LinkState("R1")
	Expect(exists).To(BeTrue())
	Expect(end1.Subnet).To(BeIdenticalTo(end2.Subnet))
	Expect(end1.Subnet.String()).To(Equal("10.0.0.0/30"))
	Expect(end1.Address.String()).To(Equal("10.0.0.1"))
	Expect(end2.Address.String()).To(Equal("10.0.0.2"))
	Expect(end1.Interface).To(Equal("FastEthernet0/0"))
	Expect(end1.External).To(BeFalse())
	Expect(end1.Passive).To(BeFalse())

	Expect(r1.RouterID).To(BeEquivalentTo(1))
	Expect(r2.RouterID).To(BeEquivalentTo(2))
	Expect(r1.RouterIDString()).To(Equal("1.1.1.1"))
	Expect(r1.Loopback.String()).To(Equal("192.168.0.1"))
	Expect(r2.Loopback.String()).To(Equal("192.168.0.2"))

	for _, router := range []*Router{r1, r2} {
		Expect(router.IsProviderEdge()).To(BeFalse())
		Expect(router.IsProvider()).To(BeFalse())
		Expect(router.Role()).To(Equal(RoleCustomerEdge))
		Expect(router.IBGPNeighbors()).To(BeEmpty())
		Expect(router.EBGPNeighbors()).To(BeEmpty())
	}
}

func TestProviderRelation(t *testing.T) {
	RegisterTestingT(t)
	topo := newTestTopology(nil)
	addIPv4AS(topo, 65001, true, &ConnectedAS{
		ASN:       65002,
		Relation:  policy.RelationProvider,
		Transport: map[string]*net.IPNet{"PE1": mustIPNet("172.16.0.0/30")},
	})
	addIPv4AS(topo, 65002, false)
	pe1 := addRouter(topo, "PE1", 65001, "X1")
	x1 := addRouter(topo, "X1", 65002, "PE1")

	syn, err := topo.Synthesize()
	Expect(err).To(BeNil())

	Expect(pe1.IsProviderEdge()).To(BeTrue())
	Expect(pe1.EBGPNeighbors()).To(Equal(map[string]uint32{"X1": 65002}))
	Expect(pe1.ImportPeers()).To(Equal([]uint32{65002}))

	as, _ := syn.AutonomousSystem(65001)
	routeMap, exists := as.Policy().ImportRouteMap(65002)
	Expect(exists).To(BeTrue())
	Expect(routeMap.Name).To(Equal("Provider-AS65002"))
	Expect(routeMap.Clauses).To(HaveLen(1))
	Expect(routeMap.Clauses[0].LocalPreference).To(BeEquivalentTo(100))
	Expect(routeMap.Clauses[0].SetCommunity).To(Equal("65002:1000"))

	// the provider sees the AS as its client
	provider, _ := syn.AutonomousSystem(65002)
	relation, declared := provider.Policy().Relation(65001)
	Expect(declared).To(BeTrue())
	Expect(relation).To(Equal(policy.RelationClient))
	Expect(provider.Policy().FiltersExportTo(65001)).To(BeFalse())

	end, _ := pe1.LinkState("X1")
	Expect(end.External).To(BeTrue())
	Expect(end.Passive).To(BeTrue())
	Expect(end.MPLS).To(BeFalse())
	Expect(end.Subnet.String()).To(Equal("172.16.0.0/30"))
	Expect(end.Address.String()).To(Equal("172.16.0.1"))
	peer, exists := syn.PeerLink(pe1, "X1")
	Expect(exists).To(BeTrue())
	Expect(peer.Address.String()).To(Equal("172.16.0.2"))
	Expect(pe1.PassiveInterfaces()).To(Equal([]string{end.Interface}))
	Expect(x1.Role()).To(Equal(RoleCustomerEdge))
}

func TestReservedRouterID(t *testing.T) {
	RegisterTestingT(t)
	topo := newTestTopology(nil)
	addIPv4AS(topo, 65001, false)
	as, _ := topo.AutonomousSystem(65001)
	Expect(as.RouterIDs().ReserveID(3)).To(Succeed())

	var routers []*Router
	for _, hostname := range []string{"R1", "R2", "R3", "R4", "R5"} {
		routers = append(routers, addRouter(topo, hostname, 65001))
	}
	_, err := topo.Synthesize()
	Expect(err).To(BeNil())

	var ids []uint32
	for _, router := range routers {
		ids = append(ids, router.RouterID)
	}
	Expect(ids).To(Equal([]uint32{1, 2, 4, 5, 6}))
}

func TestPinnedRouterID(t *testing.T) {
	RegisterTestingT(t)
	topo := newTestTopology(nil)
	addIPv4AS(topo, 65001, false)
	Expect(topo.AddRouter(&Router{Hostname: "R9", ASN: 65001, RouterID: 1})).To(Succeed())
	r1 := addRouter(topo, "R1", 65001)

	_, err := topo.Synthesize()
	Expect(err).To(BeNil())
	r9, _ := topo.Router("R9")
	Expect(r9.RouterID).To(BeEquivalentTo(1))
	Expect(r9.Loopback.String()).To(Equal("192.168.0.1"))
	Expect(r1.RouterID).To(BeEquivalentTo(2))
}

func TestProviderRoles(t *testing.T) {
	RegisterTestingT(t)
	cfg := synthconf.Defaults()
	cfg.RouteReflectorHostname = "PE1"
	topo := newTestTopology(cfg)
	addIPv4AS(topo, 65001, true, &ConnectedAS{
		ASN:      65002,
		Relation: policy.RelationPeer,
		Transport: map[string]*net.IPNet{
			"PE1": mustIPNet("172.16.0.0/30"),
			"PE2": mustIPNet("172.16.0.4/30"),
		},
	})
	addIPv4AS(topo, 65002, false)
	pe1 := addRouter(topo, "PE1", 65001, "P1", "X1")
	p1 := addRouter(topo, "P1", 65001, "PE1", "PE2")
	pe2 := addRouter(topo, "PE2", 65001, "P1", "X2")
	addRouter(topo, "X1", 65002, "PE1")
	addRouter(topo, "X2", 65002, "PE2")

	syn, err := topo.Synthesize()
	Expect(err).To(BeNil())

	for _, router := range syn.Routers() {
		Expect(router.IsProviderEdge() && router.IsProvider()).To(BeFalse())
	}
	Expect(pe1.Role()).To(Equal(RoleProviderEdge))
	Expect(pe2.Role()).To(Equal(RoleProviderEdge))
	Expect(p1.Role()).To(Equal(RoleProvider))

	Expect(pe1.IBGPNeighbors()).To(Equal([]string{"PE2"}))
	Expect(pe2.IBGPNeighbors()).To(Equal([]string{"PE1"}))
	Expect(p1.IBGPNeighbors()).To(Equal([]string{"PE1", "PE2"}))
	Expect(pe1.IsRouteReflector()).To(BeTrue())
	Expect(pe2.IsRouteReflector()).To(BeFalse())

	internal, _ := pe1.LinkState("P1")
	Expect(internal.MPLS).To(BeTrue())
	Expect(internal.Interface).To(Equal("FastEthernet0/0"))
	external, _ := pe1.LinkState("X1")
	Expect(external.MPLS).To(BeFalse())
	Expect(external.Interface).To(Equal("GigabitEthernet1/0"))

	// P1 owns the link to PE1 and PE2 (P1 < PE1 < PE2)
	towardsPE1, _ := p1.LinkState("PE1")
	towardsPE2, _ := p1.LinkState("PE2")
	Expect(towardsPE1.Subnet.String()).To(Equal("10.0.0.0/30"))
	Expect(towardsPE2.Subnet.String()).To(Equal("10.0.0.4/30"))
	Expect(towardsPE1.Address.String()).To(Equal("10.0.0.1"))
	Expect(internal.Address.String()).To(Equal("10.0.0.2"))
}

func TestProviderReflector(t *testing.T) {
	RegisterTestingT(t)
	cfg := synthconf.Defaults()
	cfg.RouteReflectorHostname = "P1"
	topo := newTestTopology(cfg)
	addIPv4AS(topo, 65001, true, &ConnectedAS{
		ASN:       65002,
		Relation:  policy.RelationPeer,
		Transport: map[string]*net.IPNet{"PE1": mustIPNet("172.16.0.0/30")},
	})
	addIPv4AS(topo, 65002, false)
	pe1 := addRouter(topo, "PE1", 65001, "P1", "X1")
	p1 := addRouter(topo, "P1", 65001, "PE1", "PE2", "P2")
	pe2 := addRouter(topo, "PE2", 65001, "P1")
	p2 := addRouter(topo, "P2", 65001, "P1")
	addRouter(topo, "X1", 65002, "PE1")

	_, err := topo.Synthesize()
	Expect(err).To(BeNil())
	Expect(pe2.Role()).To(Equal(RoleProvider))
	Expect(p1.Role()).To(Equal(RoleProvider))
	Expect(p1.IsRouteReflector()).To(BeTrue())
	Expect(p1.CarriesVPNRoutes()).To(BeTrue())
	Expect(p2.CarriesVPNRoutes()).To(BeFalse())
	Expect(pe1.CarriesVPNRoutes()).To(BeTrue())

	Expect(pe1.IBGPNeighbors()).To(Equal([]string{"P1"}))
	Expect(p1.IBGPNeighbors()).To(Equal([]string{"PE1"}))
	Expect(p2.IBGPNeighbors()).To(Equal([]string{"P1", "PE1"}))
}

func TestPinnedIPv6LoopbackIsNotReused(t *testing.T) {
	RegisterTestingT(t)
	topo := newTestTopology(nil)
	Expect(topo.AddAutonomousSystem(&AutonomousSystem{
		Number:         65001,
		IPVersion:      IPv6,
		IGP:            IGPOSPF,
		Prefix:         mustSubnet("2001:db8::/32"),
		LoopbackPrefix: mustSubnet("2001:db8:ffff::/48"),
	})).To(Succeed())
	r1 := &Router{Hostname: "R1", ASN: 65001, Links: []*Link{{Neighbor: "R2"}},
		Loopback: net.ParseIP("2001:db8:ffff::2")}
	Expect(topo.AddRouter(r1)).To(Succeed())
	r2 := addRouter(topo, "R2", 65001, "R1", "R3")
	r3 := addRouter(topo, "R3", 65001, "R2")

	_, err := topo.Synthesize()
	Expect(err).To(BeNil())
	Expect(r1.RouterID).To(BeEquivalentTo(1))
	Expect(r1.Loopback.String()).To(Equal("2001:db8:ffff::2"))
	Expect(r2.RouterID).To(BeEquivalentTo(3))
	Expect(r2.Loopback.String()).To(Equal("2001:db8:ffff::3"))
	Expect(r3.Loopback.String()).To(Equal("2001:db8:ffff::4"))
}

func TestMissingReciprocalLink(t *testing.T) {
	RegisterTestingT(t)
	topo := newTestTopology(nil)
	addIPv4AS(topo, 65001, false)
	addRouter(topo, "R1", 65001, "R2")
	addRouter(topo, "R2", 65001)

	_, err := topo.AssignInterfaces()
	Expect(err).ToNot(BeNil())
	Expect(err).To(BeAssignableToTypeOf(&PreconditionError{}))
	precondition := err.(*PreconditionError)
	Expect(precondition.GetHostname()).To(Equal("R1"))
	Expect(precondition.GetNeighbor()).To(Equal("R2"))
}

func TestMissingTransport(t *testing.T) {
	RegisterTestingT(t)
	topo := newTestTopology(nil)
	addIPv4AS(topo, 65001, false)
	addIPv4AS(topo, 65002, false)
	addRouter(topo, "R1", 65001, "X1")
	addRouter(topo, "X1", 65002, "R1")

	_, err := topo.Synthesize()
	Expect(err).To(BeAssignableToTypeOf(&PreconditionError{}))
	Expect(err.Error()).To(ContainSubstring("R1 -> X1"))
}

func TestTransportFromNeighborAS(t *testing.T) {
	RegisterTestingT(t)
	topo := newTestTopology(nil)
	addIPv4AS(topo, 65001, false)
	addIPv4AS(topo, 65002, false, &ConnectedAS{
		ASN:       65001,
		Relation:  policy.RelationClient,
		Transport: map[string]*net.IPNet{"X1": mustIPNet("172.16.8.0/30")},
	})
	r1 := addRouter(topo, "R1", 65001, "X1")
	x1 := addRouter(topo, "X1", 65002, "R1")

	_, err := topo.Synthesize()
	Expect(err).To(BeNil())
	end, _ := r1.LinkState("X1")
	Expect(end.Address.String()).To(Equal("172.16.8.1"))
	end, _ = x1.LinkState("R1")
	Expect(end.Address.String()).To(Equal("172.16.8.2"))
}

func TestConflictingRelations(t *testing.T) {
	RegisterTestingT(t)
	topo := newTestTopology(nil)
	addIPv4AS(topo, 65001, false, &ConnectedAS{ASN: 65002, Relation: policy.RelationProvider})
	addIPv4AS(topo, 65002, false, &ConnectedAS{ASN: 65001, Relation: policy.RelationPeer})

	Expect(topo.Validate()).ToNot(Succeed())
}

func TestFixedInterfacesAndAddresses(t *testing.T) {
	RegisterTestingT(t)
	topo := newTestTopology(nil)
	addIPv4AS(topo, 65001, false)
	r1 := &Router{Hostname: "R1", ASN: 65001, Links: []*Link{
		{Neighbor: "R2", Interface: "GigabitEthernet3/0", Address: mustIPNet("10.0.0.9/30")},
		{Neighbor: "R3"},
	}}
	Expect(topo.AddRouter(r1)).To(Succeed())
	r2 := addRouter(topo, "R2", 65001, "R1", "R3")
	r3 := addRouter(topo, "R3", 65001, "R1", "R2", "R4")
	addRouter(topo, "R4", 65001, "R3")

	_, err := topo.Synthesize()
	Expect(err).To(BeNil())

	pinned, _ := r1.LinkState("R2")
	Expect(pinned.Interface).To(Equal("GigabitEthernet3/0"))
	Expect(pinned.Subnet.String()).To(Equal("10.0.0.8/30"))
	Expect(pinned.Address.String()).To(Equal("10.0.0.9"))
	far, _ := r2.LinkState("R1")
	Expect(far.Address.String()).To(Equal("10.0.0.10"))

	minted, _ := r1.LinkState("R3")
	Expect(minted.Interface).To(Equal("FastEthernet0/0"))
	Expect(minted.Subnet.String()).To(Equal("10.0.0.0/30"))
	minted, _ = r2.LinkState("R3")
	Expect(minted.Subnet.String()).To(Equal("10.0.0.4/30"))
	// the pinned prefix is skipped
	minted, _ = r3.LinkState("R4")
	Expect(minted.Subnet.String()).To(Equal("10.0.0.12/30"))
}

func TestInterfacePoolExhausted(t *testing.T) {
	RegisterTestingT(t)
	cfg := synthconf.Defaults()
	cfg.InterfacePool = []string{"GigabitEthernet1/0"}
	topo := newTestTopology(cfg)
	addIPv4AS(topo, 65001, false)
	addRouter(topo, "R1", 65001, "R2", "R3")
	addRouter(topo, "R2", 65001, "R1")
	addRouter(topo, "R3", 65001, "R1")

	_, err := topo.AssignInterfaces()
	Expect(err).To(BeAssignableToTypeOf(&PreconditionError{}))
	Expect(err.Error()).To(ContainSubstring("no interface left"))
}

func TestLabInterfaces(t *testing.T) {
	RegisterTestingT(t)
	topo := newTestTopology(nil)
	addIPv4AS(topo, 65001, false)
	r1 := addRouter(topo, "R1", 65001, "R2", "R3")
	addRouter(topo, "R2", 65001, "R1")
	addRouter(topo, "R3", 65001, "R1")
	Expect(topo.PinLabInterface("R1", "R3", "FastEthernet0/0")).To(Succeed())
	Expect(topo.PinLabInterface("R1", "R4", "GigabitEthernet1/0")).ToNot(Succeed())

	_, err := topo.AssignInterfaces()
	Expect(err).To(BeNil())
	towardsR3, _ := r1.LinkState("R3")
	Expect(towardsR3.Interface).To(Equal("FastEthernet0/0"))
	towardsR2, _ := r1.LinkState("R2")
	Expect(towardsR2.Interface).To(Equal("GigabitEthernet1/0"))

	Expect(topo.PinLabInterface("R1", "R2", "GigabitEthernet2/0")).ToNot(Succeed())
}

func TestLoopbacksAreIdempotent(t *testing.T) {
	RegisterTestingT(t)
	topo := newTestTopology(nil)
	addIPv4AS(topo, 65001, false)
	r1 := addRouter(topo, "R1", 65001, "R2")
	r2 := addRouter(topo, "R2", 65001, "R1")

	interfaces, err := topo.AssignInterfaces()
	Expect(err).To(BeNil())
	_, err = interfaces.AssignLoopbacks()
	Expect(err).To(BeNil())
	loopbacks, err := interfaces.AssignLoopbacks()
	Expect(err).To(BeNil())

	Expect(r1.RouterID).To(BeEquivalentTo(1))
	Expect(r2.RouterID).To(BeEquivalentTo(2))
	as, _ := loopbacks.Topology().AutonomousSystem(65001)
	Expect(as.RouterIDs().AllocatedIDs()).To(Equal([]uint32{1, 2}))

	_, err = topo.AssignInterfaces()
	Expect(err).ToNot(BeNil())
}

func TestIPv6Addressing(t *testing.T) {
	RegisterTestingT(t)
	topo := newTestTopology(nil)
	Expect(topo.AddAutonomousSystem(&AutonomousSystem{
		Number:         65001,
		IPVersion:      IPv6,
		IGP:            IGPRIP,
		Prefix:         mustSubnet("2001:db8::/32"),
		LoopbackPrefix: mustSubnet("2001:db8:ffff::/48"),
	})).To(Succeed())
	r1 := addRouter(topo, "R1", 65001, "R2")
	addRouter(topo, "R2", 65001, "R1")

	_, err := topo.Synthesize()
	Expect(err).To(BeNil())
	end, _ := r1.LinkState("R2")
	Expect(end.Subnet.String()).To(Equal("2001:db8:1::/48"))
	Expect(end.Address.String()).To(Equal("2001:db8:1::1"))
	Expect(r1.Loopback.String()).To(Equal("2001:db8:ffff::1"))

	Expect(topo.AddAutonomousSystem(&AutonomousSystem{
		Number:         65002,
		IPVersion:      IPv4,
		Prefix:         mustSubnet("2001:db8::/32"),
		LoopbackPrefix: mustSubnet("2001:db8:ffff::/48"),
	})).ToNot(Succeed())
}

func TestVRFReuse(t *testing.T) {
	RegisterTestingT(t)
	topo := newTestTopology(nil)
	addIPv4AS(topo, 65001, true, &ConnectedAS{
		ASN:      65100,
		Relation: policy.RelationClient,
		Transport: map[string]*net.IPNet{
			"PE1": mustIPNet("172.16.0.0/30"),
			"PE2": mustIPNet("172.16.0.4/30"),
		},
	})
	addIPv4AS(topo, 65100, false)
	pe1 := addRouter(topo, "PE1", 65001, "PE2", "CE1")
	pe2 := addRouter(topo, "PE2", 65001, "PE1", "CE2")
	Expect(topo.AddRouter(&Router{Hostname: "CE1", ASN: 65100, VPNFamily: []uint32{20, 10, 10},
		Links: []*Link{{Neighbor: "PE1"}}})).To(Succeed())
	Expect(topo.AddRouter(&Router{Hostname: "CE2", ASN: 65100, VPNFamily: []uint32{10},
		Links: []*Link{{Neighbor: "PE2"}}})).To(Succeed())

	interfaces, err := topo.AssignInterfaces()
	Expect(err).To(BeNil())
	loopbacks, err := interfaces.AssignLoopbacks()
	Expect(err).To(BeNil())
	syn, err := loopbacks.AssignBGP()
	Expect(err).To(BeNil())

	Expect(pe1.VRFs()).To(HaveLen(1))
	vrf := pe1.VRFs()[0]
	Expect(vrf.Name).To(Equal("VRF_GigabitEthernet1/0_PE1"))
	Expect(vrf.RouteDistinguisher).To(Equal("65100:1"))
	Expect(vrf.RouteTargets).To(Equal([]string{"65100:10", "65100:20"}))
	end, _ := pe1.LinkState("CE1")
	Expect(end.VRF).To(BeIdenticalTo(vrf))
	Expect(pe2.VRFs()[0].RouteDistinguisher).To(Equal("65100:2"))

	// repeated observations of the same CE/PE pair reuse the VRF
	again, err := loopbacks.AssignBGP()
	Expect(err).To(BeNil())
	Expect(again.Topology()).To(BeIdenticalTo(syn.Topology()))
	reused, created := syn.Topology().VRFRegistry().GetOrCreate("CE1", "PE1", "GigabitEthernet1/0", 65100, []uint32{10})
	Expect(created).To(BeFalse())
	Expect(reused).To(BeIdenticalTo(vrf))
	Expect(syn.Topology().VRFRegistry().VRFs()).To(HaveLen(2))

	ce1, _ := syn.Router("CE1")
	Expect(ce1.VRFs()).To(BeEmpty())
}

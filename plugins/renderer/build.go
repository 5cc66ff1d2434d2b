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

package renderer

import (
	"fmt"
	"net"
	"strings"

	"github.com/pkg/errors"

	"github.com/contiv/netsynth/plugins/addrspace"
	"github.com/contiv/netsynth/plugins/policy"
	"github.com/contiv/netsynth/plugins/topology"
)

// Section names, in the order of the document.
const (
	SectionGlobal         = "global"
	SectionMPLS           = "mpls"
	SectionVRF            = "vrf"
	SectionLoopback       = "loopback"
	SectionInterfaces     = "interfaces"
	SectionIGP            = "igp"
	SectionBGP            = "bgp"
	SectionCommunityLists = "community-lists"
	SectionRouteMaps      = "route-maps"
	SectionServices       = "services"
	SectionLines          = "lines"
)

// builder collects the document of one router.
type builder struct {
	syn    *topology.Synthesized
	router *topology.Router
	as     *topology.AutonomousSystem

	igpProcess string
	loopbackIf string
	ipv6       bool
}

// Build creates the configuration document of the given router.
func Build(syn *topology.Synthesized, hostname string) (*Document, error) {
	router, exists := syn.Router(hostname)
	if !exists {
		return nil, errors.Errorf("unknown router %s", hostname)
	}
	as, exists := syn.AutonomousSystem(router.ASN)
	if !exists {
		return nil, errors.Errorf("router %s: unknown AS %d", hostname, router.ASN)
	}
	cfg := syn.Topology().Config()
	b := &builder{
		syn:        syn,
		router:     router,
		as:         as,
		igpProcess: cfg.IGPProcessID,
		loopbackIf: cfg.LoopbackInterface,
		ipv6:       as.IPVersion == topology.IPv6,
	}
	if b.ipv6 && len(router.VRFs()) > 0 {
		return nil, errors.Errorf("router %s: MPLS VPN is supported for IPv4 autonomous systems only", hostname)
	}

	doc := &Document{Hostname: hostname}
	doc.addSection(SectionGlobal, b.global())
	doc.addSection(SectionMPLS, b.mpls()...)
	doc.addSection(SectionVRF, b.vrfDefinitions()...)
	doc.addSection(SectionLoopback, b.loopback())
	doc.addSection(SectionInterfaces, b.interfaces()...)
	doc.addSection(SectionIGP, b.igp())
	bgp, err := b.bgp()
	if err != nil {
		return nil, err
	}
	doc.addSection(SectionBGP, bgp)
	doc.addSection(SectionCommunityLists, b.communityLists()...)
	doc.addSection(SectionRouteMaps, b.routeMaps()...)
	doc.addSection(SectionServices, b.services())
	doc.addSection(SectionLines, b.lines()...)
	return doc, nil
}

// BuildAll creates documents of all routers in the declaration order.
func BuildAll(syn *topology.Synthesized) ([]*Document, error) {
	var docs []*Document
	for _, router := range syn.Routers() {
		doc, err := Build(syn, router.Hostname)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (b *builder) ipKeyword() string {
	if b.ipv6 {
		return "ipv6"
	}
	return "ip"
}

func (b *builder) global() *Block {
	statements := []string{
		"service timestamps debug datetime msec",
		"service timestamps log datetime msec",
		"no service password-encryption",
		"hostname " + b.router.Hostname,
		"no aaa new-model",
		"no ip icmp rate-limit unreachable",
		"no ip domain lookup",
		"ip cef",
	}
	if b.ipv6 {
		statements = append(statements, "ipv6 unicast-routing", "ipv6 cef")
	} else {
		statements = append(statements, "ip routing")
	}
	statements = append(statements,
		"ip tcp synwait-time 5",
		"no cdp log mismatch duplex",
		"ip bgp-community new-format")
	return &Block{Statements: statements}
}

func (b *builder) mpls() []*Block {
	if !b.as.LDP {
		return nil
	}
	return []*Block{{Statements: []string{
		"mpls ip",
		"mpls label protocol ldp",
		fmt.Sprintf("mpls ldp router-id %s force", b.loopbackIf),
	}}}
}

func (b *builder) vrfDefinitions() []*Block {
	var blocks []*Block
	for _, vrf := range b.router.VRFs() {
		block := &Block{
			Header:     "ip vrf " + vrf.Name,
			Statements: []string{"rd " + vrf.RouteDistinguisher},
		}
		for _, target := range vrf.RouteTargets {
			block.Statements = append(block.Statements,
				"route-target import "+target,
				"route-target export "+target)
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// igpEnable returns the interface statement attaching the interface to the IGP,
// IPv4 RIP is attached by network statements instead.
func (b *builder) igpEnable() (string, bool) {
	switch {
	case b.as.IGP == topology.IGPOSPF:
		return fmt.Sprintf("%s ospf %s area 0", b.ipKeyword(), b.igpProcess), true
	case b.ipv6:
		return fmt.Sprintf("ipv6 rip %s enable", b.igpProcess), true
	}
	return "", false
}

func (b *builder) loopback() *Block {
	block := &Block{Header: "interface " + b.loopbackIf}
	if b.ipv6 {
		block.Statements = append(block.Statements,
			"no ip address",
			"ipv6 enable",
			fmt.Sprintf("ipv6 address %s/128", b.router.Loopback))
	} else {
		block.Statements = append(block.Statements,
			fmt.Sprintf("ip address %s 255.255.255.255", b.router.Loopback))
	}
	if enable, ok := b.igpEnable(); ok {
		block.Statements = append(block.Statements, enable)
	}
	return block
}

// inIGP returns true for interfaces attached to the IGP of the AS.
func inIGP(state *topology.LinkState) bool {
	return state.VRF == nil
}

func (b *builder) interfaces() []*Block {
	var blocks []*Block
	for _, state := range b.router.LinkStates() {
		block := &Block{Header: "interface " + state.Interface}
		if state.VRF != nil {
			// must precede the address, the VRF change clears it
			block.Statements = append(block.Statements, "ip vrf forwarding "+state.VRF.Name)
		}
		block.Statements = append(block.Statements, "no shutdown")
		if b.ipv6 {
			block.Statements = append(block.Statements,
				"ipv6 enable",
				fmt.Sprintf("ipv6 address %s/%d", state.Address, state.Subnet.PrefixLen()))
		} else {
			block.Statements = append(block.Statements,
				fmt.Sprintf("ip address %s %s", state.Address, addrspace.DottedMask(state.Subnet.Mask())))
		}
		if enable, ok := b.igpEnable(); ok && inIGP(state) {
			block.Statements = append(block.Statements, enable)
			if b.as.IGP == topology.IGPOSPF && state.OSPFCost > 0 && !state.External {
				block.Statements = append(block.Statements,
					fmt.Sprintf("%s ospf cost %d", b.ipKeyword(), state.OSPFCost))
			}
		}
		if state.MPLS {
			block.Statements = append(block.Statements, "mpls ip")
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// passiveInterfaces returns the passive interfaces attached to the IGP.
func (b *builder) passiveInterfaces() []string {
	var passive []string
	for _, ifName := range b.router.PassiveInterfaces() {
		for _, state := range b.router.LinkStates() {
			if state.Interface == ifName && inIGP(state) {
				passive = append(passive, "passive-interface "+ifName)
			}
		}
	}
	return passive
}

func (b *builder) igp() *Block {
	routerID := "router-id " + b.router.RouterIDString()
	if b.as.IGP == topology.IGPOSPF {
		block := &Block{Header: fmt.Sprintf("%s ospf %s", b.routerKeyword(), b.igpProcess)}
		block.Statements = append([]string{routerID}, b.passiveInterfaces()...)
		return block
	}
	if b.ipv6 {
		return &Block{Header: "ipv6 router rip " + b.igpProcess}
	}

	block := &Block{Header: "router rip", Statements: []string{"version 2"}}
	networks := map[string]bool{}
	addNetwork := func(ip net.IP) {
		statement := "network " + ip.String()
		if !networks[statement] {
			networks[statement] = true
			block.Statements = append(block.Statements, statement)
		}
	}
	addNetwork(b.router.Loopback)
	for _, state := range b.router.LinkStates() {
		if inIGP(state) {
			addNetwork(state.Subnet.Network().IP)
		}
	}
	block.Statements = append(block.Statements, b.passiveInterfaces()...)
	block.Statements = append(block.Statements, "no auto-summary")
	return block
}

func (b *builder) routerKeyword() string {
	if b.ipv6 {
		return "ipv6 router"
	}
	return "router"
}

// ebgpSession is one eBGP session of the router.
type ebgpSession struct {
	peer  net.IP
	asn   uint32
	state *topology.LinkState
}

func (b *builder) ebgpSessions() ([]*ebgpSession, error) {
	var sessions []*ebgpSession
	for _, state := range b.router.LinkStates() {
		if !state.External {
			continue
		}
		peer, exists := b.syn.PeerLink(b.router, state.Neighbor)
		if !exists {
			return nil, topology.NewPreconditionError(b.router.Hostname, state.Neighbor, "neighbor end of the link is missing")
		}
		sessions = append(sessions, &ebgpSession{peer: peer.Address, asn: state.NeighborAS, state: state})
	}
	return sessions, nil
}

func (b *builder) bgp() (*Block, error) {
	sessions, err := b.ebgpSessions()
	if err != nil {
		return nil, err
	}
	catalog := b.as.Policy()

	block := &Block{
		Header: fmt.Sprintf("router bgp %d", b.router.ASN),
		Statements: []string{
			"bgp router-id " + b.router.RouterIDString(),
			"bgp log-neighbor-changes",
			"no bgp default ipv4-unicast",
		},
	}
	var ibgpPeers []net.IP
	var vpnPeers []*topology.Router
	for _, hostname := range b.router.IBGPNeighbors() {
		neighbor, _ := b.syn.Router(hostname)
		ibgpPeers = append(ibgpPeers, neighbor.Loopback)
		if neighbor.CarriesVPNRoutes() {
			vpnPeers = append(vpnPeers, neighbor)
		}
		block.Statements = append(block.Statements,
			fmt.Sprintf("neighbor %s remote-as %d", neighbor.Loopback, b.router.ASN),
			fmt.Sprintf("neighbor %s update-source %s", neighbor.Loopback, b.loopbackIf))
	}
	for _, session := range sessions {
		if session.state.VRF == nil {
			block.Statements = append(block.Statements,
				fmt.Sprintf("neighbor %s remote-as %d", session.peer, session.asn))
		}
	}

	unicast := &Block{Header: "address-family ipv4", Exit: ExitAddressFamily}
	if b.ipv6 {
		unicast.Header = "address-family ipv6"
		unicast.Statements = append(unicast.Statements, fmt.Sprintf("network %s/128", b.router.Loopback))
	} else {
		unicast.Statements = append(unicast.Statements,
			fmt.Sprintf("network %s mask 255.255.255.255", b.router.Loopback))
	}
	for _, peer := range ibgpPeers {
		unicast.Statements = append(unicast.Statements,
			fmt.Sprintf("neighbor %s activate", peer),
			fmt.Sprintf("neighbor %s send-community both", peer),
			fmt.Sprintf("neighbor %s next-hop-self", peer))
	}
	for _, session := range sessions {
		if session.state.VRF != nil {
			continue
		}
		unicast.Statements = append(unicast.Statements,
			fmt.Sprintf("neighbor %s activate", session.peer),
			fmt.Sprintf("neighbor %s send-community", session.peer))
		unicast.Statements = append(unicast.Statements, b.sessionPolicy(catalog, session)...)
	}
	block.Children = append(block.Children, unicast)

	if b.router.CarriesVPNRoutes() && len(vpnPeers) > 0 {
		vpn := &Block{Header: "address-family vpnv4", Exit: ExitAddressFamily}
		for _, peer := range vpnPeers {
			vpn.Statements = append(vpn.Statements,
				fmt.Sprintf("neighbor %s activate", peer.Loopback),
				fmt.Sprintf("neighbor %s send-community extended", peer.Loopback))
			// reflectors do not treat each other as clients
			if b.router.IsRouteReflector() && !peer.IsRouteReflector() {
				vpn.Statements = append(vpn.Statements,
					fmt.Sprintf("neighbor %s route-reflector-client", peer.Loopback))
			}
		}
		block.Children = append(block.Children, vpn)
	}

	for _, session := range sessions {
		if session.state.VRF == nil {
			continue
		}
		vrf := &Block{
			Header: "address-family ipv4 vrf " + session.state.VRF.Name,
			Statements: []string{
				fmt.Sprintf("neighbor %s remote-as %d", session.peer, session.asn),
				fmt.Sprintf("neighbor %s activate", session.peer),
			},
			Exit: ExitAddressFamily,
		}
		vrf.Statements = append(vrf.Statements, b.sessionPolicy(catalog, session)...)
		vrf.Statements = append(vrf.Statements, "redistribute connected")
		block.Children = append(block.Children, vrf)
	}
	return block, nil
}

// sessionPolicy returns route-map statements of an eBGP session.
func (b *builder) sessionPolicy(catalog *policy.Catalog, session *ebgpSession) []string {
	var statements []string
	if routeMap, exists := catalog.ImportRouteMap(session.asn); exists {
		statements = append(statements, fmt.Sprintf("neighbor %s route-map %s in", session.peer, routeMap.Name))
	}
	if catalog.FiltersExportTo(session.asn) {
		statements = append(statements,
			fmt.Sprintf("neighbor %s route-map %s out", session.peer, policy.ExportRouteMapName))
	}
	return statements
}

func (b *builder) communityLists() []*Block {
	lists := b.as.Policy().CommunityLists()
	if len(lists) == 0 {
		return nil
	}
	block := &Block{}
	for _, list := range lists {
		block.Statements = append(block.Statements, fmt.Sprintf("ip community-list standard %s %s %s",
			list.Name, list.Action, list.Community))
	}
	return []*Block{block}
}

func (b *builder) routeMaps() []*Block {
	catalog := b.as.Policy()
	var blocks []*Block
	for _, asn := range b.router.ImportPeers() {
		if routeMap, exists := catalog.ImportRouteMap(asn); exists {
			blocks = append(blocks, routeMapBlocks(routeMap)...)
		}
	}
	return append(blocks, routeMapBlocks(catalog.ExportRouteMap())...)
}

func routeMapBlocks(routeMap *policy.RouteMap) []*Block {
	var blocks []*Block
	for _, clause := range routeMap.Clauses {
		block := &Block{Header: fmt.Sprintf("route-map %s %s %d", routeMap.Name, clause.Action, clause.Sequence)}
		if len(clause.MatchCommunities) > 0 {
			block.Statements = append(block.Statements,
				"match community "+strings.Join(clause.MatchCommunities, " "))
		}
		if clause.LocalPreference > 0 {
			block.Statements = append(block.Statements, fmt.Sprintf("set local-preference %d", clause.LocalPreference))
		}
		if clause.SetCommunity != "" {
			block.Statements = append(block.Statements, "set community "+clause.SetCommunity)
		}
		blocks = append(blocks, block)
	}
	return blocks
}

func (b *builder) services() *Block {
	return &Block{Statements: []string{
		"ip forward-protocol nd",
		"no ip http server",
		"no ip http secure-server",
	}}
}

func (b *builder) lines() []*Block {
	console := []string{
		"exec-timeout 0 0",
		"privilege level 15",
		"logging synchronous",
		"stopbits 1",
	}
	return []*Block{
		{Header: "control-plane"},
		{Header: "line con 0", Statements: console},
		{Header: "line aux 0", Statements: append([]string(nil), console...)},
		{Header: "line vty 0 4", Statements: []string{"login"}},
	}
}

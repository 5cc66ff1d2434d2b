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
	"strconv"

	"github.com/ligato/cn-infra/logging"
	"github.com/pkg/errors"

	"github.com/contiv/netsynth/plugins/idalloc"
	"github.com/contiv/netsynth/plugins/policy"
	"github.com/contiv/netsynth/plugins/statscollector"
	"github.com/contiv/netsynth/plugins/synthconf/config"
)

type stage int

const (
	stageDeclared stage = iota
	stageInterfaces
	stageLoopbacks
	stageSynthesized
)

// Topology is the declared network: autonomous systems and routers as loaded
// from the intent. It is the input of the synthesis pipeline.
type Topology struct {
	Deps

	config *config.Config

	systems     map[uint32]*AutonomousSystem
	asOrder     []uint32
	routers     map[string]*Router
	routerOrder []string

	links *linkCache
	vrfs  *policy.VRFRegistry

	validated bool
	stage     stage
}

// Deps lists dependencies of the Topology.
type Deps struct {
	Log logging.Logger

	// Stats is optional.
	Stats statscollector.API
}

// NewTopology creates an empty topology synthesized with the given configuration.
func NewTopology(deps Deps, cfg *config.Config) *Topology {
	return &Topology{
		Deps:    deps,
		config:  cfg,
		systems: map[uint32]*AutonomousSystem{},
		routers: map[string]*Router{},
		links:   newLinkCache(),
		vrfs:    policy.NewVRFRegistry(),
	}
}

// AddAutonomousSystem adds an AS to the topology.
func (t *Topology) AddAutonomousSystem(as *AutonomousSystem) error {
	if _, duplicate := t.systems[as.Number]; duplicate {
		return errors.Errorf("AS %d is declared twice", as.Number)
	}
	if as.IPVersion != IPv4 && as.IPVersion != IPv6 {
		return errors.Errorf("AS %d: unsupported IP version %d", as.Number, as.IPVersion)
	}
	if as.Prefix == nil || as.LoopbackPrefix == nil {
		return errors.Errorf("AS %d: link and loopback prefixes are mandatory", as.Number)
	}
	if as.Prefix.IsIPv6() != (as.IPVersion == IPv6) || as.LoopbackPrefix.IsIPv6() != (as.IPVersion == IPv6) {
		return errors.Errorf("AS %d: prefixes %s and %s do not match IP version %d",
			as.Number, as.Prefix, as.LoopbackPrefix, as.IPVersion)
	}

	as.members = map[string]bool{}
	for _, hostname := range as.Routers {
		as.members[hostname] = true
	}
	as.routerIDs = idalloc.NewRouterIDAllocator(idalloc.Deps{Log: t.Log}, asPoolName(as.Number))

	t.systems[as.Number] = as
	t.asOrder = append(t.asOrder, as.Number)
	t.validated = false
	return nil
}

// AddRouter adds a router to the topology. The AS of the router must be added first.
// A router ID pinned by the router is reserved in the pool of its AS.
func (t *Topology) AddRouter(router *Router) error {
	if router.Hostname == "" {
		return errors.New("router without hostname")
	}
	if _, duplicate := t.routers[router.Hostname]; duplicate {
		return errors.Errorf("router %s is declared twice", router.Hostname)
	}
	as, exists := t.systems[router.ASN]
	if !exists {
		return errors.Errorf("router %s belongs to undeclared AS %d", router.Hostname, router.ASN)
	}
	if router.RouterID != 0 {
		if err := as.routerIDs.AssignID(router.Hostname, router.RouterID); err != nil {
			return errors.Wrapf(err, "router %s", router.Hostname)
		}
	}
	if router.Loopback != nil {
		if err := reservePinnedLoopback(as, router); err != nil {
			return errors.Wrapf(err, "router %s", router.Hostname)
		}
	}
	if !as.members[router.Hostname] {
		t.Log.Debugf("Router %s is not listed among the routers of AS %d, adding it", router.Hostname, as.Number)
		as.Routers = append(as.Routers, router.Hostname)
		as.members[router.Hostname] = true
	}

	router.labInterfaces = map[string]string{}
	router.linkStates = map[string]*LinkState{}
	t.routers[router.Hostname] = router
	t.routerOrder = append(t.routerOrder, router.Hostname)
	t.validated = false
	return nil
}

// reservePinnedLoopback keeps router IDs drawn later from mapping onto the pinned
// loopback of the router.
func reservePinnedLoopback(as *AutonomousSystem, router *Router) error {
	if !as.LoopbackPrefix.Contains(router.Loopback) {
		return nil
	}
	hostID, err := as.LoopbackPrefix.HostID(router.Loopback)
	if err != nil {
		return err
	}
	if hostID < idalloc.MinRouterID || hostID > idalloc.MaxRouterID || uint32(hostID) == router.RouterID {
		return nil
	}
	return as.routerIDs.ReserveID(uint32(hostID))
}

// Router returns the router with the given hostname.
func (t *Topology) Router(hostname string) (*Router, bool) {
	router, exists := t.routers[hostname]
	return router, exists
}

// Routers returns all routers in the declaration order.
func (t *Topology) Routers() []*Router {
	routers := make([]*Router, 0, len(t.routerOrder))
	for _, hostname := range t.routerOrder {
		routers = append(routers, t.routers[hostname])
	}
	return routers
}

// AutonomousSystem returns the AS with the given number.
func (t *Topology) AutonomousSystem(asn uint32) (*AutonomousSystem, bool) {
	as, exists := t.systems[asn]
	return as, exists
}

// AutonomousSystems returns all autonomous systems in the declaration order.
func (t *Topology) AutonomousSystems() []*AutonomousSystem {
	systems := make([]*AutonomousSystem, 0, len(t.asOrder))
	for _, asn := range t.asOrder {
		systems = append(systems, t.systems[asn])
	}
	return systems
}

// Config returns the configuration of the synthesis.
func (t *Topology) Config() *config.Config {
	return t.config
}

// VRFRegistry returns the registry of VRFs created by the synthesis.
func (t *Topology) VRFRegistry() *policy.VRFRegistry {
	return t.vrfs
}

// PinLabInterface records the interface already wired in the lab for the link
// between the given routers. It must be called before interfaces are assigned.
func (t *Topology) PinLabInterface(hostname, neighbor, ifName string) error {
	if t.stage != stageDeclared {
		return errors.Errorf("cannot pin interface %s of %s: interfaces were already assigned", ifName, hostname)
	}
	router, exists := t.routers[hostname]
	if !exists {
		return errors.Errorf("unknown router %s", hostname)
	}
	if router.findLink(neighbor) == nil {
		return NewPreconditionError(hostname, neighbor, "lab link is not declared in the intent")
	}
	router.labInterfaces[neighbor] = ifName
	return nil
}

// Validate checks the consistency of the declared topology and derives the routing
// policy of every AS. Relations declared by only one side of an AS pair are
// completed with the inverse relation on the other side.
func (t *Topology) Validate() error {
	if t.validated {
		return nil
	}

	for _, asn := range t.asOrder {
		as := t.systems[asn]
		for _, hostname := range as.Routers {
			router, exists := t.routers[hostname]
			if !exists {
				return errors.Errorf("AS %d lists undeclared router %s", asn, hostname)
			}
			if router.ASN != asn {
				return errors.Errorf("AS %d lists router %s which belongs to AS %d", asn, hostname, router.ASN)
			}
		}
		for _, connected := range as.Connected {
			if _, exists := t.systems[connected.ASN]; !exists {
				t.Log.Warnf("AS %d is related to undeclared AS %d", asn, connected.ASN)
			}
		}
	}

	if err := t.buildPolicies(); err != nil {
		return err
	}

	for _, hostname := range t.routerOrder {
		if err := t.validateLinks(t.routers[hostname]); err != nil {
			return err
		}
	}
	t.validated = true
	return nil
}

// validateLinks checks the declared links of one router.
func (t *Topology) validateLinks(router *Router) error {
	neighbors := map[string]bool{}
	interfaces := map[string]string{}
	for _, link := range router.Links {
		if link.Neighbor == router.Hostname {
			return NewPreconditionError(router.Hostname, link.Neighbor, "link to itself")
		}
		if neighbors[link.Neighbor] {
			return NewPreconditionError(router.Hostname, link.Neighbor, "link declared twice")
		}
		neighbors[link.Neighbor] = true

		neighbor, exists := t.routers[link.Neighbor]
		if !exists {
			return NewPreconditionError(router.Hostname, link.Neighbor, "neighbor is not declared")
		}
		reciprocal := neighbor.findLink(router.Hostname)
		if reciprocal == nil {
			return NewPreconditionError(router.Hostname, link.Neighbor, "reciprocal link is missing")
		}
		if link.Interface != "" {
			if other, used := interfaces[link.Interface]; used {
				return NewPreconditionError(router.Hostname, link.Neighbor,
					"interface "+link.Interface+" is already used for the link to "+other)
			}
			interfaces[link.Interface] = link.Neighbor
		}
		pinned := link.Address != nil || reciprocal.Address != nil
		if owner, _ := orderPair(router.Hostname, neighbor.Hostname); owner == router.Hostname &&
			router.ASN != neighbor.ASN && !pinned {
			if _, err := t.transportFor(router, neighbor); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildPolicies derives the policy catalog of every AS.
func (t *Topology) buildPolicies() error {
	inferred := map[uint32][]policy.Neighbor{}
	for _, asn := range t.asOrder {
		for _, connected := range t.systems[asn].Connected {
			other, exists := t.systems[connected.ASN]
			if !exists {
				continue
			}
			if declared, found := other.ConnectedTo(asn); found {
				if declared.Relation != connected.Relation.Inverse() {
					return errors.Errorf("AS %d declares AS %d as %s but AS %d declares AS %d as %s",
						asn, connected.ASN, connected.Relation, connected.ASN, asn, declared.Relation)
				}
				continue
			}
			inferred[connected.ASN] = append(inferred[connected.ASN],
				policy.Neighbor{ASN: asn, Relation: connected.Relation.Inverse()})
		}
	}

	for _, asn := range t.asOrder {
		as := t.systems[asn]
		var neighbors []policy.Neighbor
		for _, connected := range as.Connected {
			neighbors = append(neighbors, policy.Neighbor{ASN: connected.ASN, Relation: connected.Relation})
		}
		for _, neighbor := range inferred[asn] {
			t.Log.Debugf("AS %d: relation with AS %d inferred as %s", asn, neighbor.ASN, neighbor.Relation)
			neighbors = append(neighbors, neighbor)
		}
		catalog, err := policy.NewCatalog(asn, neighbors)
		if err != nil {
			return err
		}
		as.policy = catalog
	}
	return nil
}

// relation returns the relation of the local AS with the neighbor AS.
func (t *Topology) relation(localAS, neighborAS uint32) (policy.Relation, bool) {
	as, exists := t.systems[localAS]
	if !exists || as.policy == nil {
		return policy.RelationPeer, false
	}
	return as.policy.Relation(neighborAS)
}

// sortedMembers returns hostnames of the AS members in ascending order.
func sortedMembers(as *AutonomousSystem) []string {
	members := append([]string(nil), as.Routers...)
	sort.Strings(members)
	return members
}

func asPoolName(asn uint32) string {
	return "AS" + strconv.FormatUint(uint64(asn), 10)
}

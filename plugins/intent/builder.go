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

package intent

import (
	"net"

	"github.com/pkg/errors"

	"github.com/contiv/netsynth/plugins/addrspace"
	"github.com/contiv/netsynth/plugins/policy"
	"github.com/contiv/netsynth/plugins/synthconf/config"
	"github.com/contiv/netsynth/plugins/topology"
)

// Build converts the intent into a validated topology.
func (i *Intent) Build(deps topology.Deps, cfg *config.Config) (*topology.Topology, error) {
	topo := topology.NewTopology(deps, cfg)
	versions := map[uint32]int{}

	for _, raw := range i.AutonomousSystems {
		as, err := i.buildAS(raw, cfg.HostIDOffset)
		if err != nil {
			return nil, err
		}
		if err := topo.AddAutonomousSystem(as); err != nil {
			return nil, err
		}
		versions[as.Number] = as.IPVersion
	}
	for _, raw := range i.Routers {
		router, err := buildRouter(raw, versions[raw.ASN])
		if err != nil {
			return nil, err
		}
		if err := topo.AddRouter(router); err != nil {
			return nil, err
		}
	}
	if err := topo.Validate(); err != nil {
		return nil, err
	}
	deps.Log.Infof("Intent loaded: %d autonomous systems, %d routers",
		len(i.AutonomousSystems), len(i.Routers))
	return topo, nil
}

func (i *Intent) buildAS(raw *AutonomousSystem, hostIDOffset int) (*topology.AutonomousSystem, error) {
	if raw.Number == 0 {
		return nil, errors.New("AS without AS_number")
	}
	version := raw.IPVersion
	if version == 0 {
		version = i.IPVersion
	}
	if version == 0 {
		version = DefaultIPVersion
	}

	linkPrefix, loopbackPrefix := raw.IPv4Prefix, raw.IPv4LoopbackPrefix
	if version == topology.IPv6 {
		linkPrefix, loopbackPrefix = raw.IPv6Prefix, raw.LoopbackPrefix
	}
	if linkPrefix == "" || loopbackPrefix == "" {
		return nil, errors.Errorf("AS %d: link and loopback prefixes of IP version %d are mandatory",
			raw.Number, version)
	}
	prefix, err := addrspace.Parse(linkPrefix, hostIDOffset)
	if err != nil {
		return nil, errors.Wrapf(err, "AS %d", raw.Number)
	}
	loopback, err := addrspace.Parse(loopbackPrefix, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "AS %d", raw.Number)
	}
	igp, err := topology.ParseIGP(raw.InternalRouting)
	if err != nil {
		return nil, errors.Wrapf(err, "AS %d", raw.Number)
	}

	as := &topology.AutonomousSystem{
		Number:         raw.Number,
		IPVersion:      version,
		IGP:            igp,
		LDP:            raw.LDP,
		Prefix:         prefix,
		LoopbackPrefix: loopback,
		Routers:        append([]string(nil), raw.Routers...),
	}
	for _, rawConnected := range raw.Connected {
		relation, err := policy.ParseRelation(rawConnected.Relation)
		if err != nil {
			return nil, errors.Wrapf(err, "AS %d: relation with AS %d", raw.Number, rawConnected.ASN)
		}
		connected := &topology.ConnectedAS{
			ASN:       rawConnected.ASN,
			Relation:  relation,
			Transport: map[string]*net.IPNet{},
		}
		for hostname, transport := range rawConnected.Transport {
			_, network, err := net.ParseCIDR(transport)
			if err != nil {
				return nil, errors.Errorf("AS %d: invalid transport prefix %q of %s: %v",
					raw.Number, transport, hostname, err)
			}
			connected.Transport[hostname] = network
		}
		as.Connected = append(as.Connected, connected)
	}
	return as, nil
}

func buildRouter(raw *Router, version int) (*topology.Router, error) {
	router := &topology.Router{
		Hostname:       raw.Hostname,
		ASN:            raw.ASN,
		VPNFamily:      append([]uint32(nil), raw.VPNFamily...),
		RouteReflector: raw.RouteReflector,
		RouterID:       raw.RouterID,
	}
	if raw.Position != nil {
		router.Position = topology.Position{X: raw.Position.X, Y: raw.Position.Y}
	}

	for _, rawLink := range raw.Links {
		if rawLink.Hostname == "" {
			return nil, errors.Errorf("router %s: link without neighbor hostname", raw.Hostname)
		}
		link := &topology.Link{
			Neighbor:  rawLink.Hostname,
			Interface: rawLink.Interface,
			OSPFCost:  rawLink.OSPFCost,
		}
		address := rawLink.IPv4Address
		if version == topology.IPv6 {
			address = rawLink.IPv6Address
		}
		if address != "" {
			network, err := parseInterfaceAddress(address, version)
			if err != nil {
				return nil, topology.NewPreconditionError(raw.Hostname, rawLink.Hostname, err.Error())
			}
			link.Address = network
		}
		router.Links = append(router.Links, link)
	}

	switch version {
	case topology.IPv4:
		if raw.IPv4Loopback != "" {
			ip, err := parseLoopback(raw.IPv4Loopback)
			if err != nil || ip.To4() == nil {
				return nil, errors.Errorf("router %s: invalid IPv4 loopback %q", raw.Hostname, raw.IPv4Loopback)
			}
			router.Loopback = ip.To4()
			if router.RouterID == 0 {
				// the router ID is the last octet of a pinned IPv4 loopback
				if router.Loopback[3] == 0 {
					return nil, errors.Errorf("router %s: loopback %s yields router ID 0, pin router_id or another loopback",
						raw.Hostname, router.Loopback)
				}
				router.RouterID = uint32(router.Loopback[3])
			}
		}
	case topology.IPv6:
		if raw.IPv6Loopback != "" {
			ip, err := parseLoopback(raw.IPv6Loopback)
			if err != nil || ip.To4() != nil {
				return nil, errors.Errorf("router %s: invalid IPv6 loopback %q", raw.Hostname, raw.IPv6Loopback)
			}
			router.Loopback = ip
		}
	}
	return router, nil
}

// parseInterfaceAddress parses an interface address in CIDR notation, the mask
// selects the link subnet.
func parseInterfaceAddress(address string, version int) (*net.IPNet, error) {
	ip, subnet, err := addrspace.ParseInterfaceAddress(address)
	if err != nil {
		return nil, err
	}
	if (ip.To4() == nil) != (version == topology.IPv6) {
		return nil, errors.Errorf("address %s does not match IP version %d", address, version)
	}
	return &net.IPNet{IP: ip, Mask: subnet.Mask()}, nil
}

// parseLoopback accepts the loopback address with or without a prefix length.
func parseLoopback(address string) (net.IP, error) {
	if ip, _, err := net.ParseCIDR(address); err == nil {
		return ip, nil
	}
	if ip := net.ParseIP(address); ip != nil {
		return ip, nil
	}
	return nil, errors.Errorf("invalid address %q", address)
}

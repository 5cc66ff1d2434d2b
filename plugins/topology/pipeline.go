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
	"github.com/pkg/errors"
)

// InterfacesAssigned is a topology whose links all carry an interface, a subnet
// and an address on both ends.
type InterfacesAssigned struct {
	t *Topology
}

// LoopbacksAssigned is a topology whose routers all have a router ID and a loopback address.
type LoopbacksAssigned struct {
	t *Topology
}

// Synthesized is a fully synthesized topology, ready to be rendered.
type Synthesized struct {
	t *Topology
}

// AssignInterfaces runs the interface pass over all routers.
func (t *Topology) AssignInterfaces() (*InterfacesAssigned, error) {
	if t.stage != stageDeclared {
		return nil, errors.New("interfaces were already assigned")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := t.assignInterfaces(); err != nil {
		return nil, err
	}
	t.stage = stageInterfaces
	t.Log.Infof("Interfaces assigned for %d routers", len(t.routerOrder))
	return &InterfacesAssigned{t: t}, nil
}

// Synthesize runs all three passes.
func (t *Topology) Synthesize() (*Synthesized, error) {
	interfaces, err := t.AssignInterfaces()
	if err != nil {
		return nil, err
	}
	loopbacks, err := interfaces.AssignLoopbacks()
	if err != nil {
		return nil, err
	}
	return loopbacks.AssignBGP()
}

// Topology returns the underlying topology.
func (s *InterfacesAssigned) Topology() *Topology {
	return s.t
}

// AssignLoopbacks runs the loopback pass over all routers. Routers which already
// have a router ID or a loopback keep it, so the pass may be repeated.
func (s *InterfacesAssigned) AssignLoopbacks() (*LoopbacksAssigned, error) {
	for _, router := range s.t.Routers() {
		if err := s.t.assignLoopback(router); err != nil {
			return nil, err
		}
	}
	if s.t.stage < stageLoopbacks {
		s.t.stage = stageLoopbacks
	}
	s.t.Log.Infof("Loopbacks assigned for %d routers", len(s.t.routerOrder))
	return &LoopbacksAssigned{t: s.t}, nil
}

// Topology returns the underlying topology.
func (s *LoopbacksAssigned) Topology() *Topology {
	return s.t
}

// AssignBGP classifies the routers and derives their BGP adjacencies and VRFs.
func (s *LoopbacksAssigned) AssignBGP() (*Synthesized, error) {
	if s.t.stage == stageSynthesized {
		return &Synthesized{t: s.t}, nil
	}
	routers := s.t.Routers()
	for _, router := range routers {
		s.t.classify(router)
	}
	for _, router := range routers {
		s.t.assignAdjacencies(router)
	}
	for _, router := range routers {
		s.t.assignVRFs(router)
	}
	s.t.stage = stageSynthesized
	s.t.Log.Infof("BGP assigned for %d routers, %d VRFs created", len(routers), len(s.t.vrfs.VRFs()))
	return &Synthesized{t: s.t}, nil
}

// Topology returns the underlying topology.
func (s *Synthesized) Topology() *Topology {
	return s.t
}

// Router returns the synthesized router with the given hostname.
func (s *Synthesized) Router(hostname string) (*Router, bool) {
	return s.t.Router(hostname)
}

// Routers returns all synthesized routers in the declaration order.
func (s *Synthesized) Routers() []*Router {
	return s.t.Routers()
}

// AutonomousSystem returns the AS with the given number.
func (s *Synthesized) AutonomousSystem(asn uint32) (*AutonomousSystem, bool) {
	return s.t.AutonomousSystem(asn)
}

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

package policy

import (
	"fmt"
	"sort"
	"sync"
)

// VRF describes the routing table of one MPLS VPN customer on a provider-edge router.
type VRF struct {
	Name               string
	RouteDistinguisher string
	RouteTargets       []string

	CustomerEdge string
	ProviderEdge string
	CustomerAS   uint32
}

type vrfKey struct {
	customerEdge string
	providerEdge string
}

// VRFRegistry is the arena of VRFs of one synthesis run. The route distinguisher
// sequence is shared by all VRFs of the registry and starts at 1.
type VRFRegistry struct {
	sync.Mutex

	nextRD uint32
	vrfs   map[vrfKey]*VRF
	order  []*VRF
}

// NewVRFRegistry returns an empty registry.
func NewVRFRegistry() *VRFRegistry {
	return &VRFRegistry{
		nextRD: 1,
		vrfs:   map[vrfKey]*VRF{},
	}
}

// VRFName returns the name of the VRF terminating on the given interface of the PE.
func VRFName(ifName, providerEdge string) string {
	return fmt.Sprintf("VRF_%s_%s", ifName, providerEdge)
}

// GetOrCreate returns the VRF of the given CE/PE pair, creating it on the first call.
// The created flag tells whether a new route distinguisher was consumed.
func (r *VRFRegistry) GetOrCreate(customerEdge, providerEdge, ifName string, customerAS uint32,
	vpnFamily []uint32) (vrf *VRF, created bool) {

	r.Lock()
	defer r.Unlock()

	key := vrfKey{customerEdge: customerEdge, providerEdge: providerEdge}
	if vrf, exists := r.vrfs[key]; exists {
		return vrf, false
	}

	tags := append([]uint32(nil), vpnFamily...)
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	vrf = &VRF{
		Name:               VRFName(ifName, providerEdge),
		RouteDistinguisher: fmt.Sprintf("%d:%d", customerAS, r.nextRD),
		CustomerEdge:       customerEdge,
		ProviderEdge:       providerEdge,
		CustomerAS:         customerAS,
	}
	for i, tag := range tags {
		if i > 0 && tag == tags[i-1] {
			continue
		}
		vrf.RouteTargets = append(vrf.RouteTargets, fmt.Sprintf("%d:%d", customerAS, tag))
	}
	r.nextRD++
	r.vrfs[key] = vrf
	r.order = append(r.order, vrf)
	return vrf, true
}

// Lookup returns the VRF of the given CE/PE pair.
func (r *VRFRegistry) Lookup(customerEdge, providerEdge string) (vrf *VRF, exists bool) {
	r.Lock()
	defer r.Unlock()
	vrf, exists = r.vrfs[vrfKey{customerEdge: customerEdge, providerEdge: providerEdge}]
	return vrf, exists
}

// VRFs returns all VRFs in creation order.
func (r *VRFRegistry) VRFs() []*VRF {
	r.Lock()
	defer r.Unlock()
	return append([]*VRF(nil), r.order...)
}

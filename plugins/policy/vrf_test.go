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
	"testing"

	. "github.com/onsi/gomega"
)

func TestVRFIsReusedForTheSamePair(t *testing.T) {
	RegisterTestingT(t)
	registry := NewVRFRegistry()

	vrf, created := registry.GetOrCreate("CE1", "PE1", "GigabitEthernet1/0", 65010, []uint32{20, 10})
	Expect(created).To(BeTrue())
	Expect(vrf.Name).To(Equal("VRF_GigabitEthernet1/0_PE1"))
	Expect(vrf.RouteDistinguisher).To(Equal("65010:1"))
	Expect(vrf.RouteTargets).To(Equal([]string{"65010:10", "65010:20"}))

	again, created := registry.GetOrCreate("CE1", "PE1", "GigabitEthernet1/0", 65010, []uint32{20, 10})
	Expect(created).To(BeFalse())
	Expect(again).To(BeIdenticalTo(vrf))

	other, created := registry.GetOrCreate("CE2", "PE1", "GigabitEthernet2/0", 65020, []uint32{10})
	Expect(created).To(BeTrue())
	Expect(other.RouteDistinguisher).To(Equal("65020:2"))

	Expect(registry.VRFs()).To(Equal([]*VRF{vrf, other}))
	found, exists := registry.Lookup("CE2", "PE1")
	Expect(exists).To(BeTrue())
	Expect(found).To(BeIdenticalTo(other))
	_, exists = registry.Lookup("PE1", "CE2")
	Expect(exists).To(BeFalse())
}

func TestRegistriesAreIndependent(t *testing.T) {
	RegisterTestingT(t)

	first := NewVRFRegistry()
	second := NewVRFRegistry()
	first.GetOrCreate("CE1", "PE1", "FastEthernet0/0", 65010, []uint32{1})
	vrf, _ := second.GetOrCreate("CE9", "PE9", "FastEthernet0/0", 65090, []uint32{1, 1})
	Expect(vrf.RouteDistinguisher).To(Equal("65090:1"))
	Expect(vrf.RouteTargets).To(Equal([]string{"65090:1"}))
}

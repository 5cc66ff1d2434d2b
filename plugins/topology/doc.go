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

// Package topology synthesizes the addressing, the routing adjacencies and the
// MPLS/VPN constructs of every router of the network from the declared intent.
//
// The synthesis runs in three passes over all routers, each one reading the state
// written by the previous one on other routers:
//  1. interfaces: every link gets an interface, a subnet and an address on both ends,
//  2. loopbacks: every router gets a router ID and a loopback address,
//  3. BGP: routers are classified (PE / P / CE), iBGP and eBGP neighbors are derived
//     together with the route-maps they use, and PE routers get a VRF per VPN customer.
//
// The passes are modelled as a chain of stage types (Topology -> InterfacesAssigned ->
// LoopbacksAssigned -> Synthesized), so a pass cannot be run before the one it depends on
// and the renderers only accept a fully synthesized topology.
package topology

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

// Package addrspace implements the hierarchical address plan of the generated
// network. A Subnet owns one IPv4 or IPv6 prefix and is able to:
//   - mint nested child subnets sized for a given number of hosts, none of which
//     ever overlap each other or a prefix reserved by the intent,
//   - map a numeric host ID onto an address inside the prefix (the same ID always
//     yields the same address),
//   - hand out monotonic host IDs for point-to-point links.
//
// IPv6 children are always aligned to the next 16-bit group of the parent
// prefix (one hex group per child), IPv4 children get the smallest power-of-two
// block able to hold the requested hosts plus the network and broadcast address.
package addrspace

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

// Package policy derives the BGP routing policy of an autonomous system from
// the list of its relations with the connected autonomous systems.
//
// For every connected AS the catalog contains a community list matching the
// community tag of that AS and an inbound route-map, which sets the local
// preference by the relation tier (provider < peer < client) and tags the routes
// with the community of the neighbor AS. A single export route-map shared by all
// eBGP sessions denies routes tagged by any non-client AS and permits everything
// else, so that routes learned from providers and peers are never re-advertised
// to other providers and peers.
//
// The package also hosts the registry of VRFs, which assigns route
// distinguishers and route targets of MPLS VPN customers.
package policy

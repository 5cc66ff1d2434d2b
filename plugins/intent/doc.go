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

// Package intent loads the declarative description of the network (autonomous
// systems, routers and their links) and turns it into a validated topology.
//
// The intent is a JSON document, YAML is accepted as well:
//
//	{
//	  "ip_version": 4,
//	  "Les_AS": [{
//	    "AS_number": 65001, "routers": ["PE1", "P1"], "internal_routing": "OSPF",
//	    "LDP_activation": true,
//	    "ipv4_prefix": "10.0.0.0/16", "ipv4_loopback_prefix": "192.168.0.0/24",
//	    "connected_AS": [[65002, "provider", {"PE1": "172.16.0.0/30"}]]
//	  }],
//	  "Les_routeurs": [{
//	    "hostname": "PE1", "AS_number": 65001,
//	    "links": [{"hostname": "P1"}, {"hostname": "X1", "interface": "GigabitEthernet2/0"}]
//	  }]
//	}
//
// Every field is checked once at load time, the synthesis never probes
// optional values ad hoc.
package intent

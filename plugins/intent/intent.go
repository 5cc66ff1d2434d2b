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
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/ghodss/yaml"
)

// DefaultIPVersion is the IP version of autonomous systems which declare none,
// when the intent declares none either.
const DefaultIPVersion = 6

// Intent is the declarative description of the network.
type Intent struct {
	IPVersion         int                 `json:"ip_version,omitempty"`
	AutonomousSystems []*AutonomousSystem `json:"Les_AS"`
	Routers           []*Router           `json:"Les_routeurs"`
}

// AutonomousSystem is one AS of the intent.
type AutonomousSystem struct {
	Number uint32 `json:"AS_number"`

	// IPVersion overrides the version of the intent for this AS.
	IPVersion int `json:"ip_version,omitempty"`

	Routers         []string `json:"routers"`
	InternalRouting string   `json:"internal_routing"`
	LDP             bool     `json:"LDP_activation,omitempty"`

	IPv6Prefix         string `json:"ipv6_prefix,omitempty"`
	LoopbackPrefix     string `json:"loopback_prefix,omitempty"`
	IPv4Prefix         string `json:"ipv4_prefix,omitempty"`
	IPv4LoopbackPrefix string `json:"ipv4_loopback_prefix,omitempty"`

	Connected []*ConnectedAS `json:"connected_AS,omitempty"`
}

// ConnectedAS is one relation of an AS. In the intent it is written either as
// the tuple [asn, relation, {hostname: transport prefix}] or as an object.
type ConnectedAS struct {
	ASN       uint32            `json:"AS_number"`
	Relation  string            `json:"relation"`
	Transport map[string]string `json:"transport,omitempty"`
}

// Router is one router of the intent.
type Router struct {
	Hostname       string    `json:"hostname"`
	ASN            uint32    `json:"AS_number"`
	Links          []*Link   `json:"links,omitempty"`
	VPNFamily      []uint32  `json:"VPN_family,omitempty"`
	Position       *Position `json:"position,omitempty"`
	RouteReflector bool      `json:"route_reflector,omitempty"`

	// Pinned identity, used when migrating an existing network.
	RouterID     uint32 `json:"router_id,omitempty"`
	IPv4Loopback string `json:"ipv4_loopback_address,omitempty"`
	IPv6Loopback string `json:"ipv6_loopback_address,omitempty"`
}

// Link is one end of a link of the intent.
type Link struct {
	Hostname    string `json:"hostname"`
	Interface   string `json:"interface,omitempty"`
	IPv4Address string `json:"ipv4_address,omitempty"`
	IPv6Address string `json:"ipv6_address,omitempty"`
	OSPFCost    uint32 `json:"ospf_cost,omitempty"`
}

// Position is the location of the router in the lab canvas.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// UnmarshalJSON accepts both the tuple and the object form of the relation.
func (c *ConnectedAS) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err == nil {
		if len(tuple) < 2 || len(tuple) > 3 {
			return fmt.Errorf("connected AS %s: expected [asn, relation, transport]", string(data))
		}
		if err := json.Unmarshal(tuple[0], &c.ASN); err != nil {
			return fmt.Errorf("connected AS %s: invalid AS number: %v", string(data), err)
		}
		if err := json.Unmarshal(tuple[1], &c.Relation); err != nil {
			return fmt.Errorf("connected AS %s: invalid relation: %v", string(data), err)
		}
		if len(tuple) == 3 {
			if err := json.Unmarshal(tuple[2], &c.Transport); err != nil {
				return fmt.Errorf("connected AS %s: invalid transport: %v", string(data), err)
			}
		}
		return nil
	}

	type plain ConnectedAS
	return json.Unmarshal(data, (*plain)(c))
}

// Parse parses the intent from JSON or YAML.
func Parse(data []byte) (*Intent, error) {
	intent := &Intent{}
	if err := yaml.Unmarshal(data, intent); err != nil {
		return nil, fmt.Errorf("failed to parse intent: %v", err)
	}
	if len(intent.AutonomousSystems) == 0 {
		return nil, fmt.Errorf("intent declares no autonomous system")
	}
	return intent, nil
}

// LoadFile reads and parses the intent file.
func LoadFile(fileName string) (*Intent, error) {
	data, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read intent file %s: %v", fileName, err)
	}
	return Parse(data)
}

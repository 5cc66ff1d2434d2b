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
	"strings"
)

// Relation describes the role of a connected AS from the point of view of the local AS.
type Relation int

const (
	// RelationPeer is a settlement-free peer.
	RelationPeer Relation = iota

	// RelationProvider is an upstream provider of the local AS.
	RelationProvider

	// RelationClient is a customer of the local AS.
	RelationClient
)

// ParseRelation parses the relation name used in the intent.
func ParseRelation(name string) (Relation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "peer":
		return RelationPeer, nil
	case "provider":
		return RelationProvider, nil
	case "client", "customer":
		return RelationClient, nil
	}
	return RelationPeer, fmt.Errorf("unknown AS relation %q", name)
}

// String returns the relation name as used in the intent.
func (r Relation) String() string {
	switch r {
	case RelationPeer:
		return "peer"
	case RelationProvider:
		return "provider"
	case RelationClient:
		return "client"
	}
	return fmt.Sprintf("relation(%d)", int(r))
}

// Inverse returns the relation as seen from the other side.
func (r Relation) Inverse() Relation {
	switch r {
	case RelationProvider:
		return RelationClient
	case RelationClient:
		return RelationProvider
	}
	return r
}

// LocalPreference returns the BGP local preference given to routes learned
// over a session with this relation.
func (r Relation) LocalPreference() uint32 {
	switch r {
	case RelationProvider:
		return 100
	case RelationClient:
		return 300
	}
	return 200
}

// routeMapPrefix is the first part of the inbound route-map name.
func (r Relation) routeMapPrefix() string {
	switch r {
	case RelationProvider:
		return "Provider"
	case RelationClient:
		return "Client"
	}
	return "Peer"
}

// ActionType is either DENY or PERMIT.
type ActionType int

const (
	// ActionDeny rejects the matching routes.
	ActionDeny ActionType = iota

	// ActionPermit accepts the matching routes.
	ActionPermit
)

// String returns the keyword of the action.
func (a ActionType) String() string {
	if a == ActionDeny {
		return "deny"
	}
	return "permit"
}

// Neighbor is one entry of the AS relation list.
type Neighbor struct {
	ASN      uint32
	Relation Relation
}

// CommunityList matches routes carrying the community of one AS.
type CommunityList struct {
	Name      string
	Action    ActionType
	Community string
}

// Clause is one sequence-numbered entry of a route-map.
type Clause struct {
	Sequence int
	Action   ActionType

	// MatchCommunities lists community-list names, a route matches if it
	// is matched by any of them. Empty = match all.
	MatchCommunities []string

	// LocalPreference is set on the matching routes (0 = unchanged).
	LocalPreference uint32

	// SetCommunity replaces the communities of the matching routes (empty = unchanged).
	SetCommunity string
}

// RouteMap is an ordered list of clauses.
type RouteMap struct {
	Name    string
	Clauses []*Clause
}

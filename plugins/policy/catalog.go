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
)

const (
	// ExportRouteMapName is the name of the route-map applied to outbound eBGP updates.
	ExportRouteMapName = "General-OUT"

	// communityValue is the second half of every AS community tag.
	communityValue = 1000

	exportDenySeq   = 10
	exportPermitSeq = 20
	importPermitSeq = 10
)

// Catalog contains the policy objects derived from the relations of one AS.
// The catalog is computed once and never changes afterwards.
type Catalog struct {
	asn       uint32
	neighbors []Neighbor

	relations      map[uint32]Relation
	communityLists []*CommunityList
	importMaps     map[uint32]*RouteMap
	exportMap      *RouteMap
}

// CommunityTag returns the community of the given AS.
func CommunityTag(asn uint32) string {
	return fmt.Sprintf("%d:%d", asn, communityValue)
}

// CommunityListName returns the name of the community list matching the given AS.
func CommunityListName(asn uint32) string {
	return fmt.Sprintf("AS%d", asn)
}

// NewCatalog computes the policy of the AS from its relation list.
// The list may be empty but may not mention the same AS twice.
func NewCatalog(asn uint32, neighbors []Neighbor) (*Catalog, error) {
	c := &Catalog{
		asn:        asn,
		relations:  map[uint32]Relation{},
		importMaps: map[uint32]*RouteMap{},
	}

	deny := &Clause{Sequence: exportDenySeq, Action: ActionDeny}
	for _, neighbor := range neighbors {
		if neighbor.ASN == asn {
			return nil, fmt.Errorf("AS %d cannot be related to itself", asn)
		}
		if _, duplicate := c.relations[neighbor.ASN]; duplicate {
			return nil, fmt.Errorf("AS %d declares more than one relation with AS %d", asn, neighbor.ASN)
		}
		c.relations[neighbor.ASN] = neighbor.Relation
		c.neighbors = append(c.neighbors, neighbor)

		c.communityLists = append(c.communityLists, &CommunityList{
			Name:      CommunityListName(neighbor.ASN),
			Action:    ActionPermit,
			Community: CommunityTag(neighbor.ASN),
		})
		c.importMaps[neighbor.ASN] = &RouteMap{
			Name: ImportRouteMapName(neighbor.ASN, neighbor.Relation),
			Clauses: []*Clause{{
				Sequence:        importPermitSeq,
				Action:          ActionPermit,
				LocalPreference: neighbor.Relation.LocalPreference(),
				SetCommunity:    CommunityTag(neighbor.ASN),
			}},
		}
		if neighbor.Relation != RelationClient {
			deny.MatchCommunities = append(deny.MatchCommunities, CommunityListName(neighbor.ASN))
		}
	}

	c.exportMap = &RouteMap{Name: ExportRouteMapName}
	if len(deny.MatchCommunities) > 0 {
		c.exportMap.Clauses = append(c.exportMap.Clauses, deny)
	}
	c.exportMap.Clauses = append(c.exportMap.Clauses, &Clause{Sequence: exportPermitSeq, Action: ActionPermit})
	return c, nil
}

// ImportRouteMapName returns the name of the inbound route-map for sessions with the given AS.
func ImportRouteMapName(asn uint32, relation Relation) string {
	return fmt.Sprintf("%s-AS%d", relation.routeMapPrefix(), asn)
}

// ASN returns the number of the AS owning the catalog.
func (c *Catalog) ASN() uint32 {
	return c.asn
}

// OwnCommunity returns the community tag of the AS owning the catalog.
func (c *Catalog) OwnCommunity() string {
	return CommunityTag(c.asn)
}

// Neighbors returns the relation list in declaration order.
func (c *Catalog) Neighbors() []Neighbor {
	return append([]Neighbor(nil), c.neighbors...)
}

// Relation returns the declared relation with the given AS.
func (c *Catalog) Relation(asn uint32) (relation Relation, declared bool) {
	relation, declared = c.relations[asn]
	return relation, declared
}

// CommunityLists returns one community list per connected AS, in declaration order.
func (c *Catalog) CommunityLists() []*CommunityList {
	return c.communityLists
}

// ImportRouteMap returns the inbound route-map for sessions with the given AS.
func (c *Catalog) ImportRouteMap(asn uint32) (routeMap *RouteMap, exists bool) {
	routeMap, exists = c.importMaps[asn]
	return routeMap, exists
}

// ExportRouteMap returns the route-map applied to outbound eBGP updates.
func (c *Catalog) ExportRouteMap() *RouteMap {
	return c.exportMap
}

// FiltersExportTo returns true if the export route-map must be applied to sessions
// with the given AS. Clients receive the full table.
func (c *Catalog) FiltersExportTo(asn uint32) bool {
	relation, declared := c.relations[asn]
	return declared && relation != RelationClient
}

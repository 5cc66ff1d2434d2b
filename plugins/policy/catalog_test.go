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

func TestEmptyRelationList(t *testing.T) {
	RegisterTestingT(t)

	catalog, err := NewCatalog(65001, nil)
	Expect(err).To(BeNil())
	Expect(catalog.CommunityLists()).To(BeEmpty())
	Expect(catalog.OwnCommunity()).To(Equal("65001:1000"))

	export := catalog.ExportRouteMap()
	Expect(export.Name).To(Equal(ExportRouteMapName))
	Expect(export.Clauses).To(HaveLen(1))
	Expect(export.Clauses[0].Action).To(Equal(ActionPermit))
	Expect(export.Clauses[0].Sequence).To(Equal(20))
	Expect(export.Clauses[0].MatchCommunities).To(BeEmpty())
}

func TestOnlyClientsDegenerateToPermit(t *testing.T) {
	RegisterTestingT(t)

	catalog, err := NewCatalog(65002, []Neighbor{
		{ASN: 65001, Relation: RelationClient},
		{ASN: 65003, Relation: RelationClient},
	})
	Expect(err).To(BeNil())
	Expect(catalog.CommunityLists()).To(HaveLen(2))
	Expect(catalog.ExportRouteMap().Clauses).To(HaveLen(1))
	Expect(catalog.ExportRouteMap().Clauses[0].Action).To(Equal(ActionPermit))
	Expect(catalog.FiltersExportTo(65001)).To(BeFalse())
}

func TestExportDeniesNonClientCommunities(t *testing.T) {
	RegisterTestingT(t)

	catalog, err := NewCatalog(65001, []Neighbor{
		{ASN: 65002, Relation: RelationProvider},
		{ASN: 65003, Relation: RelationClient},
		{ASN: 65004, Relation: RelationPeer},
	})
	Expect(err).To(BeNil())

	export := catalog.ExportRouteMap()
	Expect(export.Clauses).To(HaveLen(2))
	Expect(export.Clauses[0].Action).To(Equal(ActionDeny))
	Expect(export.Clauses[0].Sequence).To(Equal(10))
	Expect(export.Clauses[0].MatchCommunities).To(Equal([]string{"AS65002", "AS65004"}))
	Expect(export.Clauses[1].Action).To(Equal(ActionPermit))

	Expect(catalog.FiltersExportTo(65002)).To(BeTrue())
	Expect(catalog.FiltersExportTo(65003)).To(BeFalse())
	Expect(catalog.FiltersExportTo(65999)).To(BeFalse())

	lists := catalog.CommunityLists()
	Expect(lists).To(HaveLen(3))
	Expect(lists[0].Name).To(Equal("AS65002"))
	Expect(lists[0].Community).To(Equal("65002:1000"))
	Expect(lists[0].Action).To(Equal(ActionPermit))
}

func TestImportRouteMapsByRelation(t *testing.T) {
	RegisterTestingT(t)

	catalog, err := NewCatalog(65001, []Neighbor{
		{ASN: 65002, Relation: RelationProvider},
		{ASN: 65003, Relation: RelationClient},
		{ASN: 65004, Relation: RelationPeer},
	})
	Expect(err).To(BeNil())

	tests := []struct {
		asn       uint32
		name      string
		localPref uint32
		community string
	}{
		{65002, "Provider-AS65002", 100, "65002:1000"},
		{65003, "Client-AS65003", 300, "65003:1000"},
		{65004, "Peer-AS65004", 200, "65004:1000"},
	}
	for _, test := range tests {
		routeMap, exists := catalog.ImportRouteMap(test.asn)
		Expect(exists).To(BeTrue())
		Expect(routeMap.Name).To(Equal(test.name))
		Expect(routeMap.Clauses).To(HaveLen(1))
		Expect(routeMap.Clauses[0].Action).To(Equal(ActionPermit))
		Expect(routeMap.Clauses[0].Sequence).To(Equal(10))
		Expect(routeMap.Clauses[0].LocalPreference).To(Equal(test.localPref))
		Expect(routeMap.Clauses[0].SetCommunity).To(Equal(test.community))
	}

	_, exists := catalog.ImportRouteMap(65999)
	Expect(exists).To(BeFalse())
}

func TestDuplicateRelationIsRejected(t *testing.T) {
	RegisterTestingT(t)

	_, err := NewCatalog(65001, []Neighbor{
		{ASN: 65002, Relation: RelationProvider},
		{ASN: 65002, Relation: RelationPeer},
	})
	Expect(err).ToNot(BeNil())

	_, err = NewCatalog(65001, []Neighbor{{ASN: 65001, Relation: RelationPeer}})
	Expect(err).ToNot(BeNil())
}

func TestRelationParsing(t *testing.T) {
	RegisterTestingT(t)

	for name, expected := range map[string]Relation{
		"peer":     RelationPeer,
		"Provider": RelationProvider,
		"client":   RelationClient,
		"customer": RelationClient,
	} {
		relation, err := ParseRelation(name)
		Expect(err).To(BeNil())
		Expect(relation).To(Equal(expected))
	}
	_, err := ParseRelation("sibling")
	Expect(err).ToNot(BeNil())

	Expect(RelationProvider.Inverse()).To(Equal(RelationClient))
	Expect(RelationClient.Inverse()).To(Equal(RelationProvider))
	Expect(RelationPeer.Inverse()).To(Equal(RelationPeer))
}

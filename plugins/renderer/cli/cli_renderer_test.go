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

package cli

import (
	"testing"

	"github.com/ligato/cn-infra/logging/logrus"
	. "github.com/onsi/gomega"

	"github.com/contiv/netsynth/plugins/renderer"
	"github.com/contiv/netsynth/plugins/statscollector"
	"github.com/contiv/netsynth/plugins/synthconf/config"
)

func TestRender(t *testing.T) {
	RegisterTestingT(t)
	stats, err := statscollector.NewPlugin(statscollector.Deps{Log: logrus.DefaultLogger()})
	Expect(err).To(BeNil())
	r := NewRenderer(Deps{Log: logrus.DefaultLogger(), Stats: stats})
	Expect(r.Mode()).To(Equal(config.ModeTelnet))

	doc := &renderer.Document{
		Hostname: "R1",
		Sections: []*renderer.Section{
			{Name: renderer.SectionGlobal, Blocks: []*renderer.Block{
				{Statements: []string{"hostname R1"}},
			}},
			{Name: renderer.SectionInterfaces, Blocks: []*renderer.Block{
				{Header: "interface FastEthernet0/0", Statements: []string{"no shutdown"}},
			}},
			{Name: renderer.SectionBGP, Blocks: []*renderer.Block{{
				Header: "router bgp 65001",
				Children: []*renderer.Block{{
					Header:     "address-family vpnv4",
					Statements: []string{"neighbor 192.168.0.2 activate"},
					Exit:       renderer.ExitAddressFamily,
				}},
			}}},
		},
	}
	output, err := r.Render(doc)
	Expect(err).To(BeNil())
	Expect(output.Commands).To(Equal([]string{
		"enable",
		"configure terminal",
		"hostname R1",
		"interface FastEthernet0/0",
		"no shutdown",
		"exit",
		"router bgp 65001",
		"address-family vpnv4",
		"neighbor 192.168.0.2 activate",
		"exit-address-family",
		"exit",
		"end",
		"write memory",
	}))
	Expect(output.Text).To(HavePrefix("enable\nconfigure terminal\n"))
	Expect(renderer.StatementsFromCommands(output.Commands)).To(Equal(renderer.Statements(doc)))
}

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

package cmdimpl

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/contiv/netsynth/plugins/renderer"
	"github.com/contiv/netsynth/plugins/renderer/cfg"
	"github.com/contiv/netsynth/plugins/renderer/cli"
	"github.com/contiv/netsynth/plugins/topology"
)

// Plan prints the address plan of the intent without deploying anything.
// With verify set, both renderings of every router are checked to carry
// the same statements.
func Plan(opts Options, out io.Writer, verify bool) error {
	r, err := load(opts)
	if err != nil {
		return err
	}
	interfaces, err := r.topo.AssignInterfaces()
	if err != nil {
		return err
	}
	loopbacks, err := interfaces.AssignLoopbacks()
	if err != nil {
		return err
	}
	syn, err := loopbacks.AssignBGP()
	if err != nil {
		return err
	}

	PrintRouters(out, syn)
	fmt.Fprintln(out)
	PrintLinks(out, syn)
	if !verify {
		return nil
	}

	docs, err := renderer.BuildAll(syn)
	if err != nil {
		return err
	}
	cfgRenderer := cfg.NewRenderer(cfg.Deps{Log: r.log})
	cliRenderer := cli.NewRenderer(cli.Deps{Log: r.log})
	for _, doc := range docs {
		if err := verifyDocument(cfgRenderer, cliRenderer, doc); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "\nVerified %d routers: configuration files and command lists are equivalent\n", len(docs))
	return nil
}

// PrintRouters prints one row per router.
func PrintRouters(out io.Writer, syn *topology.Synthesized) {
	w := getTabWriterAndPrintHeader(out, "HOSTNAME\tAS\tROLE\tROUTER-ID\tLOOPBACK\tIBGP-PEERS\tEBGP-PEERS")
	for _, router := range syn.Routers() {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			router.Hostname,
			router.ASN,
			roleString(router),
			router.RouterIDString(),
			router.Loopback,
			listOrDash(router.IBGPNeighbors()),
			listOrDash(ebgpPeers(router)))
	}
	w.Flush()
}

// PrintLinks prints one row per link end.
func PrintLinks(out io.Writer, syn *topology.Synthesized) {
	w := getTabWriterAndPrintHeader(out, "HOSTNAME\tINTERFACE\tNEIGHBOR\tADDRESS\tSUBNET\tTYPE\tVRF")
	for _, router := range syn.Routers() {
		for _, state := range router.LinkStates() {
			linkType := "internal"
			if state.External {
				linkType = "external"
			}
			if state.MPLS {
				linkType += "/mpls"
			}
			vrf := "-"
			if state.VRF != nil {
				vrf = state.VRF.Name
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				router.Hostname,
				state.Interface,
				state.Neighbor,
				state.Address,
				state.Subnet,
				linkType,
				vrf)
		}
	}
	w.Flush()
}

func verifyDocument(cfgRenderer renderer.API, cliRenderer renderer.API, doc *renderer.Document) error {
	file, err := cfgRenderer.Render(doc)
	if err != nil {
		return err
	}
	commands, err := cliRenderer.Render(doc)
	if err != nil {
		return err
	}
	fromText := renderer.StatementsFromText(file.Text)
	fromCommands := renderer.StatementsFromCommands(commands.Commands)
	if !reflect.DeepEqual(fromText, fromCommands) {
		return errors.Errorf("configuration of %s differs between the file (%d statements) and the commands (%d statements)",
			doc.Hostname, len(fromText), len(fromCommands))
	}
	return nil
}

func getTabWriterAndPrintHeader(out io.Writer, header string) *tabwriter.Writer {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, header)
	return w
}

func roleString(router *topology.Router) string {
	role := router.Role().String()
	if router.IsRouteReflector() {
		role += "/RR"
	}
	return role
}

func ebgpPeers(router *topology.Router) []string {
	var peers []string
	for _, state := range router.LinkStates() {
		if asn, exists := router.EBGPNeighbors()[state.Neighbor]; exists {
			peers = append(peers, fmt.Sprintf("%s(AS%d)", state.Neighbor, asn))
		}
	}
	return peers
}

func listOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ",")
}

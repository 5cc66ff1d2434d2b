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
	"strings"

	"github.com/ligato/cn-infra/logging"
	"github.com/pkg/errors"

	"github.com/contiv/netsynth/plugins/renderer"
	"github.com/contiv/netsynth/plugins/statscollector"
	"github.com/contiv/netsynth/plugins/synthconf/config"
)

// Commands wrapping the configuration.
var (
	prologue = []string{"enable", "configure terminal"}
	epilogue = []string{"end", "write memory"}
)

// Renderer writes the ordered list of interactive commands configuring a router.
type Renderer struct {
	Deps
}

// Deps lists dependencies of Renderer.
type Deps struct {
	Log logging.Logger

	// Stats is optional.
	Stats statscollector.API
}

// NewRenderer is a constructor for Renderer.
func NewRenderer(deps Deps) *Renderer {
	return &Renderer{Deps: deps}
}

// Mode returns the telnet mode.
func (r *Renderer) Mode() config.DeploymentMode {
	return config.ModeTelnet
}

// Render writes the document as commands replayed in a terminal session: every
// context is entered by its header and left by an explicit exit. Separator and
// blank lines are never emitted.
func (r *Renderer) Render(doc *renderer.Document) (*renderer.Output, error) {
	if doc == nil || doc.Hostname == "" {
		return nil, errors.New("cannot render commands without hostname")
	}
	commands := append([]string(nil), prologue...)
	for _, section := range doc.Sections {
		for _, block := range section.Blocks {
			commands = appendBlock(commands, block)
		}
	}
	commands = append(commands, epilogue...)

	if r.Stats != nil {
		r.Stats.RouterRendered(string(config.ModeTelnet))
	}
	r.Log.Debugf("Rendered %d commands for %s", len(commands), doc.Hostname)
	return &renderer.Output{
		Hostname: doc.Hostname,
		Mode:     config.ModeTelnet,
		Text:     strings.Join(commands, "\n") + "\n",
		Commands: commands,
	}, nil
}

func appendBlock(commands []string, block *renderer.Block) []string {
	if block.Header != "" {
		commands = append(commands, block.Header)
	}
	commands = append(commands, block.Statements...)
	for _, child := range block.Children {
		commands = appendBlock(commands, child)
	}
	switch {
	case block.Exit != "":
		commands = append(commands, block.Exit)
	case block.Header != "":
		commands = append(commands, renderer.ExitContext)
	}
	return commands
}

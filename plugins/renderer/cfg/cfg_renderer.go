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

package cfg

import (
	"strings"

	"github.com/ligato/cn-infra/logging"
	"github.com/pkg/errors"

	"github.com/contiv/netsynth/plugins/renderer"
	"github.com/contiv/netsynth/plugins/statscollector"
	"github.com/contiv/netsynth/plugins/synthconf/config"
)

const (
	separator = "!"
	indent    = " "
)

// Renderer writes the static startup configuration of a router.
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

// Mode returns the configuration file mode.
func (r *Renderer) Mode() config.DeploymentMode {
	return config.ModeConfigFile
}

// Render writes the document as a startup configuration: sections are separated
// by "!" lines, nested contexts are indented by one space per level and the
// configuration is terminated by "end".
func (r *Renderer) Render(doc *renderer.Document) (*renderer.Output, error) {
	if doc == nil || doc.Hostname == "" {
		return nil, errors.New("cannot render configuration without hostname")
	}
	var sb strings.Builder
	sb.WriteString(separator + "\n")
	for _, section := range doc.Sections {
		for _, block := range section.Blocks {
			writeBlock(&sb, block, 0)
		}
		sb.WriteString(separator + "\n")
	}
	sb.WriteString("end\n")

	if r.Stats != nil {
		r.Stats.RouterRendered(string(config.ModeConfigFile))
	}
	r.Log.Debugf("Rendered startup configuration of %s (%d sections)", doc.Hostname, len(doc.Sections))
	return &renderer.Output{
		Hostname: doc.Hostname,
		Mode:     config.ModeConfigFile,
		Text:     sb.String(),
	}, nil
}

func writeBlock(sb *strings.Builder, block *renderer.Block, depth int) {
	prefix := strings.Repeat(indent, depth)
	inner := prefix
	if block.Header != "" {
		writeLine(sb, prefix, block.Header)
		inner += indent
	}
	for _, statement := range block.Statements {
		writeLine(sb, inner, statement)
	}
	for _, child := range block.Children {
		writeLine(sb, inner, separator)
		writeBlock(sb, child, depth+1)
	}
	if block.Exit != "" {
		writeLine(sb, prefix, block.Exit)
	}
}

func writeLine(sb *strings.Builder, prefix, line string) {
	sb.WriteString(prefix)
	sb.WriteString(line)
	sb.WriteString("\n")
}

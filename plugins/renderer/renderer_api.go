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

package renderer

import (
	"github.com/contiv/netsynth/plugins/synthconf/config"
)

// API is implemented by every configuration renderer.
type API interface {
	// Mode returns the deployment mode the renderer produces output for.
	Mode() config.DeploymentMode

	// Render serializes the document. Either the complete output
	// or an error is returned.
	Render(doc *Document) (*Output, error)
}

// Output is the serialized configuration of one router.
type Output struct {
	Hostname string
	Mode     config.DeploymentMode

	// Text is the configuration as written into a file.
	Text string

	// Commands is the ordered list of interactive commands (telnet mode only).
	Commands []string
}

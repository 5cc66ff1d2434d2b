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

package config

// DeploymentMode selects the form in which the generated configuration is applied.
type DeploymentMode string

const (
	// ModeConfigFile writes one startup configuration document per router.
	ModeConfigFile DeploymentMode = "cfg"

	// ModeTelnet replays an ordered list of commands over a terminal session of each router.
	ModeTelnet DeploymentMode = "telnet"
)

// Config represents configuration of the configuration generator.
// The path to the configuration file can be specified in two ways:
//  - using the `--config=<path to config>` argument, or
//  - using the `NETSYNTH_CONFIG=<path to config>` environment variable
type Config struct {
	SynthesisConfig
	DeploymentConfig

	LogLevel    string `json:"logLevel,omitempty"`
	MetricsFile string `json:"metricsFile,omitempty"`
}

// SynthesisConfig groups configuration options of the topology synthesis.
type SynthesisConfig struct {
	// InterfacePool lists the physical interfaces of every router in the order
	// in which they are assigned to links. The position of an interface in the
	// pool is also its port index in the lab.
	InterfacePool []string `json:"interfacePool,omitempty"`

	IGPProcessID      string `json:"igpProcessID,omitempty"`
	LoopbackInterface string `json:"loopbackInterface,omitempty"`

	// RouteReflectorHostname marks the router acting as the BGP route reflector
	// of its AS, on top of the routers flagged in the intent.
	RouteReflectorHostname string `json:"routeReflectorHostname,omitempty"`

	// HostIDOffset is the offset of host IDs given to the endpoints of a link.
	HostIDOffset int `json:"hostIDOffset,omitempty"`
}

// DeploymentConfig groups configuration options related to applying the configuration.
type DeploymentConfig struct {
	DeploymentMode DeploymentMode `json:"deploymentMode,omitempty"`
	OutputDir      string         `json:"outputDir,omitempty"`

	// RouterTemplate is the lab template of nodes created during reconciliation.
	RouterTemplate string `json:"routerTemplate,omitempty"`

	// Concurrency limits the number of router sessions open at the same time (0 = unlimited).
	Concurrency int `json:"concurrency,omitempty"`
}

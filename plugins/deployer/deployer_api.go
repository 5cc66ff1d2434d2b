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

package deployer

import (
	"context"

	"github.com/contiv/netsynth/plugins/renderer"
	"github.com/contiv/netsynth/plugins/topology"
)

// API is implemented by the Deployer.
type API interface {
	// Deploy applies the rendered outputs of a fully synthesized topology.
	Deploy(ctx context.Context, syn *topology.Synthesized, outputs []*renderer.Output) error
}

// ConfigStore persists startup configurations.
type ConfigStore interface {
	// Store saves the configuration of the router and returns where it was stored.
	Store(hostname, text string) (location string, err error)
}

// Session is an interactive terminal session of one router.
type Session interface {
	// Send types the commands into the router console in the given order.
	Send(ctx context.Context, commands []string) error

	// Close terminates the session.
	Close() error
}

// Dialer opens terminal sessions.
type Dialer interface {
	// Dial opens a terminal session of the given router.
	Dial(ctx context.Context, hostname string) (Session, error)
}

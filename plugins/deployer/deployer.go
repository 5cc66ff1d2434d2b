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

	"github.com/ligato/cn-infra/logging"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/contiv/netsynth/plugins/labsync"
	"github.com/contiv/netsynth/plugins/renderer"
	"github.com/contiv/netsynth/plugins/statscollector"
	"github.com/contiv/netsynth/plugins/synthconf/config"
	"github.com/contiv/netsynth/plugins/topology"
)

// Deployer applies the rendered configurations of all routers concurrently.
type Deployer struct {
	Deps
}

// Deps lists dependencies of the Deployer.
type Deps struct {
	Log    logging.Logger
	Config *config.Config

	// Store receives configurations rendered in the config-file mode.
	Store ConfigStore

	// Dialer opens sessions for configurations rendered in the telnet mode.
	Dialer Dialer

	// optional
	Lab   labsync.LabClient
	Stats statscollector.API
}

// NewDeployer is a constructor for Deployer.
func NewDeployer(deps Deps) *Deployer {
	return &Deployer{Deps: deps}
}

// Deploy applies every output. At most Config.Concurrency routers are handled
// at once. The first failure cancels the routers not finished yet and is returned.
func (d *Deployer) Deploy(ctx context.Context, syn *topology.Synthesized, outputs []*renderer.Output) error {
	for _, output := range outputs {
		if _, exists := syn.Router(output.Hostname); !exists {
			return errors.Errorf("output of unknown router %s", output.Hostname)
		}
		if err := d.checkMode(output); err != nil {
			return err
		}
	}

	group, ctx := errgroup.WithContext(ctx)
	if d.Config.Concurrency > 0 {
		group.SetLimit(d.Config.Concurrency)
	}
	for _, output := range outputs {
		group.Go(func() error {
			err := d.deploy(ctx, output)
			if d.Stats != nil {
				d.Stats.RouterDeployed(string(output.Mode), err)
			}
			if err != nil {
				d.Log.Errorf("Deployment of %s failed: %v", output.Hostname, err)
			}
			return err
		})
	}
	return group.Wait()
}

func (d *Deployer) checkMode(output *renderer.Output) error {
	switch output.Mode {
	case config.ModeConfigFile:
		if d.Store == nil {
			return errors.Errorf("no configuration store to deploy %s", output.Hostname)
		}
	case config.ModeTelnet:
		if d.Dialer == nil {
			return errors.Errorf("no session dialer to deploy %s", output.Hostname)
		}
	default:
		return errors.Errorf("unsupported deployment mode %q of %s", output.Mode, output.Hostname)
	}
	return nil
}

func (d *Deployer) deploy(ctx context.Context, output *renderer.Output) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if output.Mode == config.ModeConfigFile {
		location, err := d.Store.Store(output.Hostname, output.Text)
		if err != nil {
			return err
		}
		d.Log.Infof("Startup configuration of %s written into %s", output.Hostname, location)
		return nil
	}

	if d.Lab != nil {
		if err := d.Lab.StartNode(ctx, output.Hostname); err != nil {
			return errors.Wrapf(err, "failed to start %s", output.Hostname)
		}
	}
	session, err := d.Dialer.Dial(ctx, output.Hostname)
	if err != nil {
		return errors.Wrapf(err, "failed to open session of %s", output.Hostname)
	}
	defer func() {
		if err := session.Close(); err != nil {
			d.Log.Warnf("Failed to close session of %s: %v", output.Hostname, err)
		}
	}()
	if err := session.Send(ctx, output.Commands); err != nil {
		return errors.Wrapf(err, "failed to configure %s", output.Hostname)
	}
	d.Log.Infof("Sent %d commands to %s", len(output.Commands), output.Hostname)
	return nil
}

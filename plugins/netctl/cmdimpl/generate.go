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
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/contiv/netsynth/plugins/deployer"
	"github.com/contiv/netsynth/plugins/labsync"
	"github.com/contiv/netsynth/plugins/renderer"
	"github.com/contiv/netsynth/plugins/renderer/cfg"
	"github.com/contiv/netsynth/plugins/renderer/cli"
	"github.com/contiv/netsynth/plugins/synthconf/config"
	"github.com/contiv/netsynth/plugins/topology"
)

// Env connects the generate command with the outside world.
type Env struct {
	// Out receives the commands of a telnet deployment when no Dialer is given.
	Out io.Writer

	// optional
	Lab    labsync.LabClient
	Dialer deployer.Dialer
}

// Generate synthesizes the configuration of every router of the intent and deploys it.
func Generate(ctx context.Context, opts Options, env Env) error {
	r, err := load(opts)
	if err != nil {
		return err
	}

	syn, err := r.synthesize(ctx, env.Lab)
	if err != nil {
		return err
	}

	outputs, err := r.render(syn)
	if err != nil {
		return err
	}

	dialer := env.Dialer
	if dialer == nil && env.Out != nil {
		dialer = deployer.NewConsoleDialer(env.Out)
	}
	d := deployer.NewDeployer(deployer.Deps{
		Log:    r.log,
		Config: r.cfg,
		Store:  deployer.NewFileStore(r.cfg.OutputDir),
		Dialer: dialer,
		Lab:    env.Lab,
		Stats:  r.stats,
	})
	if err := d.Deploy(ctx, syn, outputs); err != nil {
		return err
	}
	r.log.Infof("Deployed configuration of %d routers (%s mode)", len(outputs), r.cfg.DeploymentMode)

	if r.cfg.MetricsFile != "" {
		return r.stats.WriteTextfile(r.cfg.MetricsFile)
	}
	return nil
}

// synthesize runs the three passes, reconciling the topology with the lab when there is one.
func (r *run) synthesize(ctx context.Context, lab labsync.LabClient) (*topology.Synthesized, error) {
	var reconciler *labsync.Reconciler
	if lab != nil {
		reconciler = labsync.NewReconciler(labsync.Deps{Log: r.log, Client: lab, Config: r.cfg})
		if err := reconciler.Reconcile(ctx, r.topo); err != nil {
			return nil, errors.Wrap(err, "lab reconciliation failed")
		}
	}

	interfaces, err := r.topo.AssignInterfaces()
	if err != nil {
		return nil, err
	}
	if reconciler != nil {
		if err := reconciler.CreateMissingLinks(ctx, interfaces); err != nil {
			return nil, err
		}
	}
	loopbacks, err := interfaces.AssignLoopbacks()
	if err != nil {
		return nil, err
	}
	return loopbacks.AssignBGP()
}

func (r *run) render(syn *topology.Synthesized) ([]*renderer.Output, error) {
	var rend renderer.API
	switch r.cfg.DeploymentMode {
	case config.ModeTelnet:
		rend = cli.NewRenderer(cli.Deps{Log: r.log, Stats: r.stats})
	default:
		rend = cfg.NewRenderer(cfg.Deps{Log: r.log, Stats: r.stats})
	}

	docs, err := renderer.BuildAll(syn)
	if err != nil {
		return nil, err
	}
	var outputs []*renderer.Output
	for _, doc := range docs {
		output, err := rend.Render(doc)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to render %s", doc.Hostname)
		}
		outputs = append(outputs, output)
	}
	return outputs, nil
}

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
	"strings"

	"github.com/ligato/cn-infra/logging"
	"github.com/ligato/cn-infra/logging/logrus"
	"github.com/pkg/errors"

	"github.com/contiv/netsynth/plugins/intent"
	"github.com/contiv/netsynth/plugins/statscollector"
	"github.com/contiv/netsynth/plugins/synthconf"
	"github.com/contiv/netsynth/plugins/synthconf/config"
	"github.com/contiv/netsynth/plugins/topology"
)

// DefaultIntentFile is the intent read when no file is given on the command line.
const DefaultIntentFile = "intent.json"

// Options are the flags shared by all commands.
type Options struct {
	ConfigFile string
	IntentFile string

	// LogLevel overrides the level from the configuration file.
	LogLevel string
}

// run holds everything loaded for one command.
type run struct {
	cfg   *config.Config
	log   logging.Logger
	stats *statscollector.Plugin
	topo  *topology.Topology
}

func load(opts Options) (*run, error) {
	cfg, err := synthconf.LoadConfig(opts.ConfigFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	stats, err := statscollector.NewPlugin(statscollector.Deps{Log: log})
	if err != nil {
		return nil, err
	}

	intentFile := opts.IntentFile
	if intentFile == "" {
		intentFile = DefaultIntentFile
	}
	in, err := intent.LoadFile(intentFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load intent %s", intentFile)
	}
	topo, err := in.Build(topology.Deps{Log: log, Stats: stats}, cfg)
	if err != nil {
		return nil, err
	}
	log.Debugf("Loaded intent %s: %d autonomous systems, %d routers",
		intentFile, len(topo.AutonomousSystems()), len(topo.Routers()))
	return &run{cfg: cfg, log: log, stats: stats, topo: topo}, nil
}

func newLogger(level string) (logging.Logger, error) {
	log := logrus.DefaultLogger()
	switch strings.ToLower(level) {
	case "debug":
		log.SetLevel(logging.DebugLevel)
	case "", "info":
		log.SetLevel(logging.InfoLevel)
	case "warn", "warning":
		log.SetLevel(logging.WarnLevel)
	case "error":
		log.SetLevel(logging.ErrorLevel)
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return log, nil
}

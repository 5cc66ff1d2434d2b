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

// Package synthconf loads and validates the configuration of the configuration
// generator. Values missing in the configuration file are filled with defaults
// which reproduce the conventions of the lab: Cisco 7200 routers with one
// FastEthernet and six GigabitEthernet ports, IGP process "1984" and the router
// identity bound to interface Loopback0.
package synthconf

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/contiv/netsynth/plugins/synthconf/config"
)

const (
	// ConfigEnvVar is the environment variable with the path of the configuration file.
	ConfigEnvVar = "NETSYNTH_CONFIG"

	defaultIGPProcessID      = "1984"
	defaultLoopbackInterface = "Loopback0"
	defaultRouterTemplate    = "c7200"
	defaultOutputDir         = "configs"
	defaultLogLevel          = "info"
)

// DefaultInterfacePool is the interface layout of the default router template.
var DefaultInterfacePool = []string{
	"FastEthernet0/0",
	"GigabitEthernet1/0",
	"GigabitEthernet2/0",
	"GigabitEthernet3/0",
	"GigabitEthernet4/0",
	"GigabitEthernet5/0",
	"GigabitEthernet6/0",
}

// Defaults returns the configuration used when no configuration file is given.
func Defaults() *config.Config {
	cfg := &config.Config{}
	applyDefaults(cfg)
	return cfg
}

// LoadConfig reads the configuration from the given file. If the path is empty,
// the path from the NETSYNTH_CONFIG environment variable is used, and if that
// one is not set either, the defaults are returned.
func LoadConfig(fileName string) (*config.Config, error) {
	if fileName == "" {
		fileName = os.Getenv(ConfigEnvVar)
	}
	if fileName == "" {
		return Defaults(), nil
	}

	data, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig parses the configuration in YAML or JSON, fills defaults and validates it.
func ParseConfig(data []byte) (*config.Config, error) {
	cfg := &config.Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %v", err)
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the consistency of the configuration.
func Validate(cfg *config.Config) error {
	seen := map[string]bool{}
	for _, ifName := range cfg.InterfacePool {
		if ifName == "" {
			return fmt.Errorf("interface pool contains an empty interface name")
		}
		if seen[ifName] {
			return fmt.Errorf("interface %s is listed twice in the interface pool", ifName)
		}
		if ifName == cfg.LoopbackInterface {
			return fmt.Errorf("loopback interface %s cannot be part of the interface pool", ifName)
		}
		seen[ifName] = true
	}
	switch cfg.DeploymentMode {
	case config.ModeConfigFile, config.ModeTelnet:
	default:
		return fmt.Errorf("unknown deployment mode %q (expected %q or %q)",
			cfg.DeploymentMode, config.ModeConfigFile, config.ModeTelnet)
	}
	if cfg.HostIDOffset < 0 {
		return fmt.Errorf("host ID offset cannot be negative")
	}
	if cfg.Concurrency < 0 {
		return fmt.Errorf("concurrency cannot be negative")
	}
	return nil
}

func applyDefaults(cfg *config.Config) {
	if len(cfg.InterfacePool) == 0 {
		cfg.InterfacePool = append([]string(nil), DefaultInterfacePool...)
	}
	if cfg.IGPProcessID == "" {
		cfg.IGPProcessID = defaultIGPProcessID
	}
	if cfg.LoopbackInterface == "" {
		cfg.LoopbackInterface = defaultLoopbackInterface
	}
	if cfg.DeploymentMode == "" {
		cfg.DeploymentMode = config.ModeConfigFile
	}
	cfg.DeploymentMode = config.DeploymentMode(strings.ToLower(string(cfg.DeploymentMode)))
	if cfg.RouterTemplate == "" {
		cfg.RouterTemplate = defaultRouterTemplate
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaultOutputDir
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
}

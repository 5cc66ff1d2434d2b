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

package synthconf

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/contiv/netsynth/plugins/synthconf/config"
)

func TestDefaults(t *testing.T) {
	RegisterTestingT(t)

	cfg := Defaults()
	Expect(cfg.InterfacePool).To(Equal(DefaultInterfacePool))
	Expect(cfg.IGPProcessID).To(Equal("1984"))
	Expect(cfg.LoopbackInterface).To(Equal("Loopback0"))
	Expect(cfg.DeploymentMode).To(Equal(config.ModeConfigFile))
	Expect(cfg.RouterTemplate).To(Equal("c7200"))
	Expect(Validate(cfg)).To(BeNil())
}

func TestParseYAML(t *testing.T) {
	RegisterTestingT(t)

	cfg, err := ParseConfig([]byte(`
interfacePool:
  - GigabitEthernet0/0
  - GigabitEthernet0/1
igpProcessID: "10"
routeReflectorHostname: PE1
deploymentMode: TELNET
concurrency: 4
`))
	Expect(err).To(BeNil())
	Expect(cfg.InterfacePool).To(Equal([]string{"GigabitEthernet0/0", "GigabitEthernet0/1"}))
	Expect(cfg.IGPProcessID).To(Equal("10"))
	Expect(cfg.RouteReflectorHostname).To(Equal("PE1"))
	Expect(cfg.DeploymentMode).To(Equal(config.ModeTelnet))
	Expect(cfg.Concurrency).To(Equal(4))
	Expect(cfg.LoopbackInterface).To(Equal("Loopback0"))
}

func TestParseJSON(t *testing.T) {
	RegisterTestingT(t)

	cfg, err := ParseConfig([]byte(`{"outputDir": "/tmp/out", "hostIDOffset": 4}`))
	Expect(err).To(BeNil())
	Expect(cfg.OutputDir).To(Equal("/tmp/out"))
	Expect(cfg.HostIDOffset).To(Equal(4))
}

func TestInvalidConfig(t *testing.T) {
	RegisterTestingT(t)

	_, err := ParseConfig([]byte(`deploymentMode: ssh`))
	Expect(err).ToNot(BeNil())

	_, err = ParseConfig([]byte(`interfacePool: [Gi1/0, Gi1/0]`))
	Expect(err).ToNot(BeNil())

	_, err = ParseConfig([]byte(`interfacePool: [Loopback0]`))
	Expect(err).ToNot(BeNil())
}

func TestLoadConfigFromEnv(t *testing.T) {
	RegisterTestingT(t)

	dir, err := ioutil.TempDir("", "synthconf")
	Expect(err).To(BeNil())
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "netsynth.conf")
	Expect(ioutil.WriteFile(path, []byte("igpProcessID: \"7\"\n"), 0644)).To(Succeed())

	os.Setenv(ConfigEnvVar, path)
	defer os.Unsetenv(ConfigEnvVar)

	cfg, err := LoadConfig("")
	Expect(err).To(BeNil())
	Expect(cfg.IGPProcessID).To(Equal("7"))

	_, err = LoadConfig(filepath.Join(dir, "missing.conf"))
	Expect(err).ToNot(BeNil())
}

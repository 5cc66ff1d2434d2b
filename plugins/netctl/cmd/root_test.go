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

package cmd

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/onsi/gomega"
)

const intent = `
Les_AS:
- AS_number: 65001
  ip_version: 4
  routers: [R1, R2]
  internal_routing: RIP
  ipv4_prefix: 10.0.0.0/16
  ipv4_loopback_prefix: 192.168.0.0/24
Les_routeurs:
- hostname: R1
  AS_number: 65001
  links: [{hostname: R2}]
- hostname: R2
  AS_number: 65001
  links: [{hostname: R1}]
`

func TestPlanCommand(t *testing.T) {
	gomega.RegisterTestingT(t)
	dir, err := ioutil.TempDir("", "netsynth")
	gomega.Expect(err).To(gomega.BeNil())
	defer os.RemoveAll(dir)
	intentFile := filepath.Join(dir, "intent.yaml")
	gomega.Expect(ioutil.WriteFile(intentFile, []byte(intent), 0644)).To(gomega.Succeed())

	var out bytes.Buffer
	rootCmd := NewRootCommand()
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"plan", "--intent", intentFile, "--log-level", "error", "--verify"})
	gomega.Expect(rootCmd.Execute()).To(gomega.Succeed())
	gomega.Expect(out.String()).To(gomega.ContainSubstring("10.0.0.1"))
	gomega.Expect(out.String()).To(gomega.ContainSubstring("Verified 2 routers"))
}

func TestUnknownCommand(t *testing.T) {
	gomega.RegisterTestingT(t)
	rootCmd := NewRootCommand()
	rootCmd.SetOut(ioutil.Discard)
	rootCmd.SetArgs([]string{"deploy"})
	gomega.Expect(rootCmd.Execute()).ToNot(gomega.Succeed())
}

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

package statscollector

import (
	"strconv"
	"sync"

	"github.com/ligato/cn-infra/logging"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "netsynth"

	asLabel     = "as"
	modeLabel   = "mode"
	resultLabel = "result"

	subnetsMetric   = "subnets_allocated_total"
	routerIDsMetric = "router_ids_issued_total"
	vrfsMetric      = "vrfs_created_total"
	renderedMetric  = "routers_rendered_total"
	deployedMetric  = "routers_deployed_total"

	resultSuccess = "success"
	resultFailure = "failure"
)

// Plugin counts the objects produced by a synthesis run and publishes them
// in a dedicated prometheus registry.
type Plugin struct {
	Deps
	sync.Mutex

	registry    *prometheus.Registry
	counterVecs map[string]*prometheus.CounterVec
}

// Deps groups the dependencies of the Plugin.
type Deps struct {
	Log logging.Logger
}

// NewPlugin creates the plugin with all counters registered.
func NewPlugin(deps Deps) (*Plugin, error) {
	p := &Plugin{
		Deps:        deps,
		registry:    prometheus.NewRegistry(),
		counterVecs: map[string]*prometheus.CounterVec{},
	}

	counters := []struct {
		name   string
		help   string
		labels []string
	}{
		{subnetsMetric, "Number of link subnets minted from AS prefixes", []string{asLabel}},
		{routerIDsMetric, "Number of router IDs drawn from AS pools", []string{asLabel}},
		{vrfsMetric, "Number of VRFs created for VPN customers", []string{asLabel}},
		{renderedMetric, "Number of router configurations rendered", []string{modeLabel}},
		{deployedMetric, "Number of router configurations applied", []string{modeLabel, resultLabel}},
	}
	for _, counter := range counters {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      counter.name,
			Help:      counter.help,
		}, counter.labels)
		if err := p.registry.Register(vec); err != nil {
			p.Log.Errorf("Failed to register metric %s: %v", counter.name, err)
			return nil, err
		}
		p.counterVecs[counter.name] = vec
	}
	return p, nil
}

// Registry returns the registry with all counters of the plugin.
func (p *Plugin) Registry() *prometheus.Registry {
	return p.registry
}

// WriteTextfile writes the current counter values to the given file
// in the prometheus text format (node-exporter textfile collector).
func (p *Plugin) WriteTextfile(filename string) error {
	p.Lock()
	defer p.Unlock()
	if err := prometheus.WriteToTextfile(filename, p.registry); err != nil {
		p.Log.Errorf("Failed to write metrics into %s: %v", filename, err)
		return err
	}
	p.Log.Debugf("Metrics written into %s", filename)
	return nil
}

// SubnetAllocated counts a link subnet minted from an AS prefix.
func (p *Plugin) SubnetAllocated(asn uint32) {
	p.inc(subnetsMetric, asLabelValue(asn))
}

// RouterIDIssued counts a router ID drawn from the pool of an AS.
func (p *Plugin) RouterIDIssued(asn uint32) {
	p.inc(routerIDsMetric, asLabelValue(asn))
}

// VRFCreated counts a VRF consuming a route distinguisher.
func (p *Plugin) VRFCreated(customerAS uint32) {
	p.inc(vrfsMetric, asLabelValue(customerAS))
}

// RouterRendered counts a router configuration produced in the given mode.
func (p *Plugin) RouterRendered(mode string) {
	p.inc(renderedMetric, mode)
}

// RouterDeployed counts a router configuration applied in the given mode.
func (p *Plugin) RouterDeployed(mode string, err error) {
	result := resultSuccess
	if err != nil {
		result = resultFailure
	}
	p.inc(deployedMetric, mode, result)
}

func (p *Plugin) inc(metric string, labelValues ...string) {
	p.Lock()
	defer p.Unlock()
	p.counterVecs[metric].WithLabelValues(labelValues...).Inc()
}

func asLabelValue(asn uint32) string {
	return strconv.FormatUint(uint64(asn), 10)
}

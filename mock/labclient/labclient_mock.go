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

package labclient

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/contiv/netsynth/plugins/deployer"
	"github.com/contiv/netsynth/plugins/labsync"
)

// Node is a node of the mock lab.
type Node struct {
	Template string
	X        int
	Y        int
	Started  bool
}

// Link is a cable of the mock lab.
type Link struct {
	Hostname        string
	Neighbor        string
	Adapter         int
	NeighborAdapter int
}

// MockLabClient simulates the lab orchestrator in memory. It also serves
// terminal sessions of the started nodes.
type MockLabClient struct {
	sync.Mutex

	nodes    map[string]*Node
	links    []*Link
	commands map[string][]string

	// failures injected per operation name and hostname
	failures map[string]error
}

// NewMockLabClient is a constructor for MockLabClient.
func NewMockLabClient() *MockLabClient {
	return &MockLabClient{
		nodes:    make(map[string]*Node),
		commands: make(map[string][]string),
		failures: make(map[string]error),
	}
}

// AddNode simulates a node created in the lab beforehand.
func (m *MockLabClient) AddNode(hostname, template string) {
	m.Lock()
	defer m.Unlock()
	m.nodes[hostname] = &Node{Template: template}
}

// AddLink simulates a cable created in the lab beforehand.
func (m *MockLabClient) AddLink(hostname, neighbor string, adapter, neighborAdapter int) {
	m.Lock()
	defer m.Unlock()
	m.links = append(m.links, &Link{
		Hostname:        hostname,
		Neighbor:        neighbor,
		Adapter:         adapter,
		NeighborAdapter: neighborAdapter,
	})
}

// FailOn makes the given operation ("NodeExists", "CreateNode", "UpdateNodePosition",
// "GetUsedInterfaceForLink", "CreateLinkIfNotExists", "StartNode", "Dial", "Send")
// fail for the given hostname.
func (m *MockLabClient) FailOn(operation, hostname string, err error) {
	m.Lock()
	defer m.Unlock()
	m.failures[operation+"/"+hostname] = err
}

// Node returns the node with the given name.
func (m *MockLabClient) Node(hostname string) (node Node, exists bool) {
	m.Lock()
	defer m.Unlock()
	if n, exists := m.nodes[hostname]; exists {
		return *n, true
	}
	return Node{}, false
}

// Links returns all cables of the lab.
func (m *MockLabClient) Links() []Link {
	m.Lock()
	defer m.Unlock()
	var links []Link
	for _, link := range m.links {
		links = append(links, *link)
	}
	return links
}

// Commands returns the commands received by the node over its sessions.
func (m *MockLabClient) Commands(hostname string) []string {
	m.Lock()
	defer m.Unlock()
	return append([]string(nil), m.commands[hostname]...)
}

// Hostnames returns the names of nodes which received commands, sorted.
func (m *MockLabClient) Hostnames() []string {
	m.Lock()
	defer m.Unlock()
	var hostnames []string
	for hostname := range m.commands {
		hostnames = append(hostnames, hostname)
	}
	sort.Strings(hostnames)
	return hostnames
}

func (m *MockLabClient) failure(operation, hostname string) error {
	return m.failures[operation+"/"+hostname]
}

// NodeExists returns true if the node was added or created.
func (m *MockLabClient) NodeExists(ctx context.Context, hostname string) (bool, error) {
	m.Lock()
	defer m.Unlock()
	if err := m.failure("NodeExists", hostname); err != nil {
		return false, err
	}
	_, exists := m.nodes[hostname]
	return exists, nil
}

// CreateNode simulates creation of a node.
func (m *MockLabClient) CreateNode(ctx context.Context, hostname, template string) error {
	m.Lock()
	defer m.Unlock()
	if err := m.failure("CreateNode", hostname); err != nil {
		return err
	}
	if _, exists := m.nodes[hostname]; exists {
		return fmt.Errorf("node %s already exists", hostname)
	}
	m.nodes[hostname] = &Node{Template: template}
	return nil
}

// UpdateNodePosition moves the node.
func (m *MockLabClient) UpdateNodePosition(ctx context.Context, hostname string, x, y int) error {
	m.Lock()
	defer m.Unlock()
	if err := m.failure("UpdateNodePosition", hostname); err != nil {
		return err
	}
	node, exists := m.nodes[hostname]
	if !exists {
		return fmt.Errorf("node %s not found", hostname)
	}
	node.X, node.Y = x, y
	return nil
}

// GetUsedInterfaceForLink returns the adapter of the first router cabled to the second one.
func (m *MockLabClient) GetUsedInterfaceForLink(ctx context.Context, hostname, neighbor string) (int, error) {
	m.Lock()
	defer m.Unlock()
	if err := m.failure("GetUsedInterfaceForLink", hostname); err != nil {
		return 0, err
	}
	if link := m.findLink(hostname, neighbor); link != nil {
		if link.Hostname == hostname {
			return link.Adapter, nil
		}
		return link.NeighborAdapter, nil
	}
	return 0, labsync.ErrLinkNotFound
}

// CreateLinkIfNotExists cables the routers unless they are cabled already.
func (m *MockLabClient) CreateLinkIfNotExists(ctx context.Context, hostname, neighbor string,
	adapter, neighborAdapter int) error {

	m.Lock()
	defer m.Unlock()
	if err := m.failure("CreateLinkIfNotExists", hostname); err != nil {
		return err
	}
	if m.findLink(hostname, neighbor) != nil {
		return nil
	}
	for _, link := range m.links {
		if m.usesAdapter(link, hostname, adapter) {
			return fmt.Errorf("adapter %d of %s is already in use", adapter, hostname)
		}
		if m.usesAdapter(link, neighbor, neighborAdapter) {
			return fmt.Errorf("adapter %d of %s is already in use", neighborAdapter, neighbor)
		}
	}
	m.links = append(m.links, &Link{
		Hostname:        hostname,
		Neighbor:        neighbor,
		Adapter:         adapter,
		NeighborAdapter: neighborAdapter,
	})
	return nil
}

// StartNode powers the node on.
func (m *MockLabClient) StartNode(ctx context.Context, hostname string) error {
	m.Lock()
	defer m.Unlock()
	if err := m.failure("StartNode", hostname); err != nil {
		return err
	}
	node, exists := m.nodes[hostname]
	if !exists {
		return fmt.Errorf("node %s not found", hostname)
	}
	node.Started = true
	return nil
}

// Dial opens a terminal session of a started node.
func (m *MockLabClient) Dial(ctx context.Context, hostname string) (deployer.Session, error) {
	m.Lock()
	defer m.Unlock()
	if err := m.failure("Dial", hostname); err != nil {
		return nil, err
	}
	node, exists := m.nodes[hostname]
	if !exists || !node.Started {
		return nil, fmt.Errorf("node %s is not running", hostname)
	}
	return &mockSession{client: m, hostname: hostname}, nil
}

func (m *MockLabClient) findLink(hostname, neighbor string) *Link {
	for _, link := range m.links {
		if (link.Hostname == hostname && link.Neighbor == neighbor) ||
			(link.Hostname == neighbor && link.Neighbor == hostname) {
			return link
		}
	}
	return nil
}

func (m *MockLabClient) usesAdapter(link *Link, hostname string, adapter int) bool {
	return (link.Hostname == hostname && link.Adapter == adapter) ||
		(link.Neighbor == hostname && link.NeighborAdapter == adapter)
}

// mockSession records the commands sent to the node.
type mockSession struct {
	client   *MockLabClient
	hostname string
	closed   bool
}

// Send records the commands.
func (s *mockSession) Send(ctx context.Context, commands []string) error {
	s.client.Lock()
	defer s.client.Unlock()
	if s.closed {
		return fmt.Errorf("session of %s is closed", s.hostname)
	}
	if err := s.client.failure("Send", s.hostname); err != nil {
		return err
	}
	s.client.commands[s.hostname] = append(s.client.commands[s.hostname], commands...)
	return nil
}

// Close closes the session.
func (s *mockSession) Close() error {
	s.closed = true
	return nil
}

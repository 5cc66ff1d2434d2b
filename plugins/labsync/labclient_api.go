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

package labsync

import (
	"context"
	"errors"
)

// ErrLinkNotFound is returned by GetUsedInterfaceForLink when the routers are not cabled.
var ErrLinkNotFound = errors.New("link not found in the lab")

// LabClient is the client of the lab orchestrator.
type LabClient interface {
	// NodeExists returns true if the lab contains a node with the given name.
	NodeExists(ctx context.Context, hostname string) (bool, error)

	// CreateNode creates the node from the given template.
	CreateNode(ctx context.Context, hostname, template string) error

	// UpdateNodePosition moves the node in the lab canvas.
	UpdateNodePosition(ctx context.Context, hostname string, x, y int) error

	// GetUsedInterfaceForLink returns the adapter index used by the first router
	// for its link to the second router, or ErrLinkNotFound.
	GetUsedInterfaceForLink(ctx context.Context, hostname, neighbor string) (int, error)

	// CreateLinkIfNotExists cables the routers between the given adapters unless
	// they are already cabled.
	CreateLinkIfNotExists(ctx context.Context, hostname, neighbor string, adapter, neighborAdapter int) error

	// StartNode powers the node on.
	StartNode(ctx context.Context, hostname string) error
}

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

	"github.com/ligato/cn-infra/logging"
	"github.com/pkg/errors"

	"github.com/contiv/netsynth/plugins/synthconf/config"
	"github.com/contiv/netsynth/plugins/topology"
)

// Reconciler reconciles the lab with the topology.
type Reconciler struct {
	Deps
}

// Deps lists dependencies of the Reconciler.
type Deps struct {
	Log    logging.Logger
	Client LabClient
	Config *config.Config
}

// NewReconciler is a constructor for Reconciler.
func NewReconciler(deps Deps) *Reconciler {
	return &Reconciler{Deps: deps}
}

// Reconcile creates missing nodes, updates positions and pins interfaces already
// cabled in the lab. Failures to move a node or to read the cabling are not fatal,
// the synthesis then uses the interface pool.
func (r *Reconciler) Reconcile(ctx context.Context, topo *topology.Topology) error {
	for _, router := range topo.Routers() {
		exists, err := r.Client.NodeExists(ctx, router.Hostname)
		if err != nil {
			return errors.Wrapf(err, "failed to look up node %s", router.Hostname)
		}
		if !exists {
			r.Log.Infof("Node %s is missing in the lab, creating it from template %s",
				router.Hostname, r.Config.RouterTemplate)
			if err := r.Client.CreateNode(ctx, router.Hostname, r.Config.RouterTemplate); err != nil {
				return errors.Wrapf(err, "failed to create node %s", router.Hostname)
			}
		}
		if err := r.Client.UpdateNodePosition(ctx, router.Hostname, router.Position.X, router.Position.Y); err != nil {
			r.Log.Warnf("Failed to update position of %s: %v", router.Hostname, err)
		}
	}

	for _, router := range topo.Routers() {
		for _, link := range router.Links {
			if link.Interface != "" {
				continue
			}
			adapter, err := r.Client.GetUsedInterfaceForLink(ctx, router.Hostname, link.Neighbor)
			if err == ErrLinkNotFound {
				r.Log.Debugf("Link %s -> %s is not cabled yet", router.Hostname, link.Neighbor)
				continue
			}
			if err != nil {
				r.Log.Warnf("Failed to read the lab interface of link %s -> %s: %v", router.Hostname, link.Neighbor, err)
				continue
			}
			if adapter < 0 || adapter >= len(r.Config.InterfacePool) {
				r.Log.Warnf("Link %s -> %s uses adapter %d outside of the interface pool",
					router.Hostname, link.Neighbor, adapter)
				continue
			}
			if err := topo.PinLabInterface(router.Hostname, link.Neighbor, r.Config.InterfacePool[adapter]); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateMissingLinks cables every link of the topology between the assigned interfaces.
// Each link is created once, from the end with the smaller hostname.
func (r *Reconciler) CreateMissingLinks(ctx context.Context, assigned *topology.InterfacesAssigned) error {
	topo := assigned.Topology()
	for _, router := range topo.Routers() {
		for _, state := range router.LinkStates() {
			if router.Hostname > state.Neighbor {
				continue
			}
			neighbor, _ := topo.Router(state.Neighbor)
			peer, exists := neighbor.LinkState(router.Hostname)
			if !exists {
				return topology.NewPreconditionError(router.Hostname, state.Neighbor, "reciprocal link is missing")
			}
			adapter, err := r.adapterIndex(state.Interface)
			if err != nil {
				return errors.Wrapf(err, "link %s -> %s", router.Hostname, state.Neighbor)
			}
			peerAdapter, err := r.adapterIndex(peer.Interface)
			if err != nil {
				return errors.Wrapf(err, "link %s -> %s", state.Neighbor, router.Hostname)
			}
			err = r.Client.CreateLinkIfNotExists(ctx, router.Hostname, state.Neighbor, adapter, peerAdapter)
			if err != nil {
				return errors.Wrapf(err, "failed to create link %s -> %s", router.Hostname, state.Neighbor)
			}
		}
	}
	return nil
}

func (r *Reconciler) adapterIndex(ifName string) (int, error) {
	for index, name := range r.Config.InterfacePool {
		if name == ifName {
			return index, nil
		}
	}
	return 0, errors.Errorf("interface %s is not in the interface pool", ifName)
}

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

package topology

import (
	"github.com/pkg/errors"
)

// assignLoopback gives the router its router ID and loopback address unless
// the intent pinned them.
func (t *Topology) assignLoopback(router *Router) error {
	as := t.systems[router.ASN]
	if router.RouterID == 0 {
		id, err := as.routerIDs.GetOrAllocateID(router.Hostname)
		if err != nil {
			return errors.Wrapf(err, "router %s", router.Hostname)
		}
		router.RouterID = id
		if t.Stats != nil {
			t.Stats.RouterIDIssued(router.ASN)
		}
		t.Log.Debugf("Router %s: router ID %d drawn from pool %s", router.Hostname, id, as.routerIDs.Name())
	}
	if router.Loopback == nil {
		loopback, err := as.LoopbackPrefix.HostAddress(int(router.RouterID))
		if err != nil {
			return errors.Wrapf(err, "router %s", router.Hostname)
		}
		router.Loopback = loopback
		t.Log.Debugf("Router %s: loopback %s", router.Hostname, loopback)
	}
	return nil
}

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

package idalloc

import (
	"sort"
	"sync"

	"github.com/ligato/cn-infra/logging"
	"github.com/pkg/errors"
)

const (
	// MinRouterID is the first ID of every pool.
	MinRouterID = 1

	// MaxRouterID is the last ID of every pool, router IDs are rendered as "id.id.id.id".
	MaxRouterID = 255
)

// RouterIDAllocator is a pool of router IDs of one autonomous system.
type RouterIDAllocator struct {
	sync.Mutex
	Deps

	name   string
	nextID uint32

	reservedIDs  map[uint32]bool
	allocatedIDs map[uint32]string // id to label map
	labels       map[string]uint32 // label to id map
}

// Deps lists dependencies of the RouterIDAllocator.
type Deps struct {
	Log logging.Logger
}

// NewRouterIDAllocator creates an empty pool with the given name.
func NewRouterIDAllocator(deps Deps, name string) *RouterIDAllocator {
	return &RouterIDAllocator{
		Deps:         deps,
		name:         name,
		nextID:       MinRouterID,
		reservedIDs:  map[uint32]bool{},
		allocatedIDs: map[uint32]string{},
		labels:       map[string]uint32{},
	}
}

// Name returns the name of the pool.
func (a *RouterIDAllocator) Name() string {
	return a.name
}

// GetOrAllocateID returns allocated ID in the pool for given label. If the ID was
// not already allocated, allocates new available ID.
func (a *RouterIDAllocator) GetOrAllocateID(idLabel string) (id uint32, err error) {
	a.Lock()
	defer a.Unlock()

	if id, exists := a.labels[idLabel]; exists {
		return id, nil
	}

	// each skipped value is a distinct reservation
	succeeded := false
	for attempt := 0; attempt <= len(a.reservedIDs); attempt++ {
		if a.nextID > MaxRouterID {
			break
		}
		id = a.nextID
		a.nextID++
		if a.reservedIDs[id] {
			continue
		}
		succeeded = true
		break
	}
	if !succeeded {
		err = errors.Errorf("ID allocation for label '%s' failed: pool %s exhausted", idLabel, a.name)
		a.Log.Errorf("Error by allocating ID: %v", err)
		return 0, err
	}

	a.allocatedIDs[id] = idLabel
	a.labels[idLabel] = id
	a.Log.Debugf("ID for label '%s' in pool %s: %d", idLabel, a.name, id)
	return id, nil
}

// AssignID binds the given label to an externally fixed ID and reserves the ID.
func (a *RouterIDAllocator) AssignID(idLabel string, id uint32) error {
	if err := a.ReserveID(id); err != nil {
		return err
	}

	a.Lock()
	defer a.Unlock()
	if owner, taken := a.allocatedIDs[id]; taken && owner != idLabel {
		return errors.Errorf("ID %d of pool %s is already assigned to '%s'", id, a.name, owner)
	}
	if current, exists := a.labels[idLabel]; exists && current != id {
		return errors.Errorf("label '%s' of pool %s already has ID %d", idLabel, a.name, current)
	}
	a.allocatedIDs[id] = idLabel
	a.labels[idLabel] = id
	a.Log.Debugf("Fixed ID for label '%s' in pool %s: %d", idLabel, a.name, id)
	return nil
}

// ReserveID prevents the ID from being allocated. IDs issued before
// the reservation stay valid.
func (a *RouterIDAllocator) ReserveID(id uint32) error {
	if id < MinRouterID || id > MaxRouterID {
		return errors.Errorf("ID %d is out of the range of pool %s (%d-%d)", id, a.name, MinRouterID, MaxRouterID)
	}

	a.Lock()
	defer a.Unlock()
	if label, issued := a.allocatedIDs[id]; issued {
		a.Log.Warnf("Reserving ID %d of pool %s already issued to '%s'", id, a.name, label)
	}
	a.reservedIDs[id] = true
	return nil
}

// GetID returns the ID allocated for the given label, if any.
func (a *RouterIDAllocator) GetID(idLabel string) (id uint32, exists bool) {
	a.Lock()
	defer a.Unlock()
	id, exists = a.labels[idLabel]
	return id, exists
}

// AllocatedIDs returns all IDs of the pool bound to a label, in ascending order.
func (a *RouterIDAllocator) AllocatedIDs() []uint32 {
	a.Lock()
	defer a.Unlock()
	ids := make([]uint32, 0, len(a.allocatedIDs))
	for id := range a.allocatedIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

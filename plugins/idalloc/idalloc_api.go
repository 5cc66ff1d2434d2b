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

// API defines methods provided by a router ID pool.
type API interface {
	// GetOrAllocateID returns the ID allocated for the given label. If the ID was
	// not already allocated, allocates the next available ID.
	GetOrAllocateID(idLabel string) (id uint32, err error)

	// AssignID binds the given label to an externally fixed ID and reserves the ID.
	AssignID(idLabel string, id uint32) error

	// ReserveID prevents the ID from being allocated. IDs issued before
	// the reservation stay valid.
	ReserveID(id uint32) error

	// GetID returns the ID allocated for the given label, if any.
	GetID(idLabel string) (id uint32, exists bool)
}

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

// Package idalloc is responsible for allocation of router identifiers. Every autonomous
// system owns one pool; a router (identified by its hostname, the label) gets the lowest
// ID of the pool that was neither issued before nor reserved. Once allocated, the ID of
// a label never changes, so repeated allocation requests are safe no-ops.
//
// IDs pinned by the intent (routers migrated from an existing network) are reserved
// up-front and are never issued to any other router.
package idalloc

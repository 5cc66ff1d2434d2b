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

// Package labsync reconciles the lab (emulated routers and the cabling between
// them) with the intent.
//
// Before the interface pass, missing nodes are created, nodes are moved to the
// position from the intent and the interfaces already cabled in the lab are
// pinned on the topology so that the synthesis keeps them. After the interface
// pass, the links missing in the lab are created between the assigned interfaces.
//
// The lab itself is accessed through the LabClient interface. The position of an
// interface in the configured interface pool is its adapter index in the lab.
package labsync

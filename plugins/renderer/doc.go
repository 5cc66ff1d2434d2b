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

// Package renderer turns a synthesized router into the configuration document
// consumed by the deployment.
//
// Build produces one intermediate Document per router: an ordered list of sections,
// each made of configuration blocks (a context header such as "interface X" or
// "router bgp N" with its statements and nested contexts). The Document is then
// serialized by one of the renderers:
//   - renderer/cfg writes the static startup configuration,
//   - renderer/cli writes the ordered list of interactive commands.
//
// Since both renderers walk the same Document, every statement of the static
// configuration appears in the same relative order in the command list.
// Statements and StatementsFromCommands recover the effective statements from
// both forms so that the equivalence can be verified.
package renderer

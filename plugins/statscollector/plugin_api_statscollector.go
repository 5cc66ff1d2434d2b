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

// API is used by the synthesis and deployment plugins to report the progress of a run.
type API interface {
	// SubnetAllocated is called for every link subnet minted from an AS prefix.
	SubnetAllocated(asn uint32)

	// RouterIDIssued is called for every router ID drawn from the pool of an AS.
	RouterIDIssued(asn uint32)

	// VRFCreated is called for every VRF consuming a route distinguisher.
	VRFCreated(customerAS uint32)

	// RouterRendered is called for every router configuration produced in the given mode.
	RouterRendered(mode string)

	// RouterDeployed is called for every router configuration applied in the given mode.
	RouterDeployed(mode string, err error)
}

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
	"fmt"
)

// PreconditionError reports an incomplete intent: a link without its reciprocal link,
// an inter-AS link without a transport prefix, etc. It identifies the offending
// hostname pair and is never recovered from.
type PreconditionError struct {
	hostname string
	neighbor string
	reason   string
}

// NewPreconditionError is the constructor for PreconditionError.
func NewPreconditionError(hostname, neighbor, reason string) error {
	return &PreconditionError{hostname: hostname, neighbor: neighbor, reason: reason}
}

// Error returns the description of the violated precondition.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("incomplete intent for link %s -> %s: %s", e.hostname, e.neighbor, e.reason)
}

// GetHostname returns the router at which the violation was detected.
func (e *PreconditionError) GetHostname() string {
	return e.hostname
}

// GetNeighbor returns the far end of the offending link.
func (e *PreconditionError) GetNeighbor() string {
	return e.neighbor
}

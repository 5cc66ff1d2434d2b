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

package deployer

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// ConsoleDialer opens sessions which print the commands instead of sending them
// to a router. It is used to review a telnet deployment without a lab.
type ConsoleDialer struct {
	sync.Mutex
	out io.Writer
}

// NewConsoleDialer is a constructor for ConsoleDialer.
func NewConsoleDialer(out io.Writer) *ConsoleDialer {
	return &ConsoleDialer{out: out}
}

// Dial returns a session printing commands prefixed by the router prompt.
func (d *ConsoleDialer) Dial(ctx context.Context, hostname string) (Session, error) {
	return &consoleSession{dialer: d, hostname: hostname}, nil
}

type consoleSession struct {
	dialer   *ConsoleDialer
	hostname string
}

// Send prints all commands at once so that sessions of different routers do not interleave.
func (s *consoleSession) Send(ctx context.Context, commands []string) error {
	s.dialer.Lock()
	defer s.dialer.Unlock()
	for _, command := range commands {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(s.dialer.out, "%s# %s\n", s.hostname, command); err != nil {
			return err
		}
	}
	return nil
}

func (s *consoleSession) Close() error {
	return nil
}

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

package renderer

import (
	"strings"
)

const (
	// ExitContext leaves a configuration context in the command list.
	ExitContext = "exit"

	// ExitAddressFamily leaves a BGP address family, in both output forms.
	ExitAddressFamily = "exit-address-family"
)

// Commands which switch the CLI mode rather than configure the router.
var modeCommands = map[string]bool{
	"enable":             true,
	"configure terminal": true,
	ExitContext:          true,
	"end":                true,
	"write memory":       true,
}

// Document is the intermediate configuration model of one router.
type Document struct {
	Hostname string
	Sections []*Section
}

// Section groups related blocks, e.g. all physical interfaces.
type Section struct {
	Name   string
	Blocks []*Block
}

// Block is a configuration context. A block without a header holds
// global statements.
type Block struct {
	Header     string
	Statements []string
	Children   []*Block

	// Exit is the statement leaving the context in both output forms
	// (empty = plain exit, emitted into the command list only).
	Exit string
}

// addSection appends a section unless it is empty.
func (d *Document) addSection(name string, blocks ...*Block) {
	if len(blocks) == 0 {
		return
	}
	d.Sections = append(d.Sections, &Section{Name: name, Blocks: blocks})
}

// Section returns the section with the given name.
func (d *Document) Section(name string) (*Section, bool) {
	for _, section := range d.Sections {
		if section.Name == name {
			return section, true
		}
	}
	return nil, false
}

// Block returns the first block of the document with the given header.
func (d *Document) Block(header string) (*Block, bool) {
	for _, section := range d.Sections {
		for _, block := range section.Blocks {
			if found := block.find(header); found != nil {
				return found, true
			}
		}
	}
	return nil, false
}

func (b *Block) find(header string) *Block {
	if b.Header == header {
		return b
	}
	for _, child := range b.Children {
		if found := child.find(header); found != nil {
			return found
		}
	}
	return nil
}

// Statements returns the effective statements of the document in order:
// headers, statements and explicit exits, without separators and mode commands.
func Statements(doc *Document) []string {
	var statements []string
	for _, section := range doc.Sections {
		for _, block := range section.Blocks {
			statements = block.appendStatements(statements)
		}
	}
	return statements
}

func (b *Block) appendStatements(statements []string) []string {
	if b.Header != "" {
		statements = append(statements, b.Header)
	}
	statements = append(statements, b.Statements...)
	for _, child := range b.Children {
		statements = child.appendStatements(statements)
	}
	if b.Exit != "" {
		statements = append(statements, b.Exit)
	}
	return statements
}

// StatementsFromText recovers the effective statements from a static configuration.
func StatementsFromText(text string) []string {
	var statements []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "!") || line == "end" {
			continue
		}
		statements = append(statements, line)
	}
	return statements
}

// StatementsFromCommands recovers the effective statements from a command list.
func StatementsFromCommands(commands []string) []string {
	var statements []string
	for _, command := range commands {
		command = strings.TrimSpace(command)
		if command == "" || command == "!" || modeCommands[command] {
			continue
		}
		statements = append(statements, command)
	}
	return statements
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema describes the surface of a command: its options,
// positional arguments and subcommands.
//
// A Schema is built once, checked with Validate, and then only read. The
// resolver never modifies it, so one Schema may serve concurrent parses.
package schema

import (
	"fmt"
	"strings"

	"github.com/yeetrun/yparse/pkg/policy"
	"github.com/yeetrun/yparse/pkg/value"
)

// HelpCommand is the DefaultCommand sentinel that shows help when a
// command is invoked without arguments.
const HelpCommand = "help"

// Option is a flag such as --port or -p.
type Option struct {
	Name        string
	Type        value.Type
	Short       rune // 0 when the option has no short form
	Description string
	Default     any
	Validators  []value.Validator
	Hidden      bool
}

// Positional is a positional argument slot.
type Positional struct {
	Name string
	Type value.Type
	// Rest slots collect every following non-flag token.
	Rest bool
	// RawCapture slots collect everything left once capture starts,
	// verbatim and without flag interpretation.
	RawCapture  bool
	Description string
	Default     any
	Validators  []value.Validator
}

// SubCommand is a named child command.
type SubCommand struct {
	Name        string
	Description string
	Aliases     []string
	Hidden      bool
	Schema      *Schema
}

// Schema is one command level.
type Schema struct {
	Name        string
	Description string
	Options     []Option
	Positionals []Positional
	SubCommands []SubCommand
	Examples    []string

	// DefaultCommand runs when the command gets no arguments: either
	// HelpCommand or the name of a subcommand. It is not inherited.
	DefaultCommand string
	// Policy overrides the parent's error and help policy field by field.
	Policy policy.Policy
}

// OptionByName returns the option with the given long name.
func (s *Schema) OptionByName(name string) (*Option, bool) {
	for i := range s.Options {
		if s.Options[i].Name == name {
			return &s.Options[i], true
		}
	}
	return nil, false
}

// OptionByShort returns the option with the given short character.
func (s *Schema) OptionByShort(c rune) (*Option, bool) {
	if c == 0 {
		return nil, false
	}
	for i := range s.Options {
		if s.Options[i].Short == c {
			return &s.Options[i], true
		}
	}
	return nil, false
}

// SubCommand returns the subcommand called name, resolving aliases.
func (s *Schema) SubCommand(name string) (*SubCommand, bool) {
	for i := range s.SubCommands {
		sc := &s.SubCommands[i]
		if sc.Name == name {
			return sc, true
		}
	}
	for i := range s.SubCommands {
		sc := &s.SubCommands[i]
		for _, a := range sc.Aliases {
			if a == name {
				return sc, true
			}
		}
	}
	return nil, false
}

// SubCommandNames returns every name and alias, in declaration order.
func (s *Schema) SubCommandNames() []string {
	var names []string
	for _, sc := range s.SubCommands {
		names = append(names, sc.Name)
		names = append(names, sc.Aliases...)
	}
	return names
}

// RawCapture returns the raw capture slot, if any.
func (s *Schema) RawCapture() (*Positional, bool) {
	for i := range s.Positionals {
		if s.Positionals[i].RawCapture {
			return &s.Positionals[i], true
		}
	}
	return nil, false
}

// Slots returns the positionals that are not raw capture, in order.
func (s *Schema) Slots() []*Positional {
	out := make([]*Positional, 0, len(s.Positionals))
	for i := range s.Positionals {
		if !s.Positionals[i].RawCapture {
			out = append(out, &s.Positionals[i])
		}
	}
	return out
}

func (s *Schema) defines(name string) bool {
	if _, ok := s.OptionByName(name); ok {
		return true
	}
	for _, p := range s.Positionals {
		if p.Name == name {
			return true
		}
	}
	return false
}

// ConfigError reports a schema that violates a construction invariant.
// It is a programming error in the schema, not a user input error.
type ConfigError struct {
	Schema string
	Msg    string
}

func (e *ConfigError) Error() string {
	if e.Schema == "" {
		return "invalid schema: " + e.Msg
	}
	return fmt.Sprintf("invalid schema %q: %s", e.Schema, e.Msg)
}

func configErrorf(s *Schema, format string, args ...any) error {
	return &ConfigError{Schema: s.Name, Msg: fmt.Sprintf(format, args...)}
}

// Validate checks the construction invariants of s and of every
// subcommand schema beneath it.
func (s *Schema) Validate() error {
	return s.validate(nil)
}

func (s *Schema) validate(parents []string) error {
	path := append(append([]string(nil), parents...), s.Name)
	if err := s.validateOptions(); err != nil {
		return err
	}
	if err := s.validatePositionals(); err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, sc := range s.SubCommands {
		if sc.Name == "" {
			return configErrorf(s, "subcommand with empty name")
		}
		for _, n := range append([]string{sc.Name}, sc.Aliases...) {
			if seen[n] {
				return configErrorf(s, "duplicate subcommand name %q", n)
			}
			seen[n] = true
		}
		if s.defines(sc.Name) {
			return configErrorf(s, "subcommand %q has the same name as an option or positional", sc.Name)
		}
		if sc.Schema == nil {
			return configErrorf(s, "subcommand %q has no schema", sc.Name)
		}
		if err := sc.Schema.validate(path); err != nil {
			return err
		}
	}
	if s.DefaultCommand != "" && s.DefaultCommand != HelpCommand {
		if _, ok := s.SubCommand(s.DefaultCommand); !ok {
			return configErrorf(s, "default command %q is not a subcommand of %s", s.DefaultCommand, strings.Join(path, " "))
		}
	}
	return nil
}

func (s *Schema) validateOptions() error {
	names := map[string]bool{}
	shorts := map[rune]string{}
	for _, o := range s.Options {
		if o.Name == "" {
			return configErrorf(s, "option with empty name")
		}
		if o.Name == "help" {
			return configErrorf(s, "option name %q is reserved", o.Name)
		}
		if names[o.Name] {
			return configErrorf(s, "duplicate option name %q", o.Name)
		}
		names[o.Name] = true
		if o.Short == 0 {
			continue
		}
		if o.Short == 'h' {
			return configErrorf(s, "option %q: short flag -h is reserved for help", o.Name)
		}
		if o.Short == '-' || o.Short == '=' {
			return configErrorf(s, "option %q: invalid short flag %q", o.Name, o.Short)
		}
		if other, ok := shorts[o.Short]; ok {
			return configErrorf(s, "options %q and %q share short flag -%c", other, o.Name, o.Short)
		}
		shorts[o.Short] = o.Name
	}
	return nil
}

func (s *Schema) validatePositionals() error {
	names := map[string]bool{}
	raw, rest := -1, -1
	for i, p := range s.Positionals {
		if p.Name == "" {
			return configErrorf(s, "positional %d has an empty name", i)
		}
		if names[p.Name] {
			return configErrorf(s, "duplicate positional name %q", p.Name)
		}
		if _, ok := s.OptionByName(p.Name); ok {
			return configErrorf(s, "positional %q has the same name as an option", p.Name)
		}
		names[p.Name] = true
		if p.Rest && p.RawCapture {
			return configErrorf(s, "positional %q cannot be both rest and raw capture", p.Name)
		}
		if p.RawCapture {
			if raw >= 0 {
				return configErrorf(s, "more than one raw capture positional (%q, %q)", s.Positionals[raw].Name, p.Name)
			}
			raw = i
		}
		if p.Rest {
			if p.Type == value.Boolean {
				return configErrorf(s, "rest positional %q cannot be boolean", p.Name)
			}
			if rest >= 0 {
				return configErrorf(s, "more than one rest positional (%q, %q)", s.Positionals[rest].Name, p.Name)
			}
			rest = i
		}
	}
	if raw >= 0 && raw != len(s.Positionals)-1 {
		return configErrorf(s, "raw capture positional %q must be last", s.Positionals[raw].Name)
	}
	if rest >= 0 {
		lastNonRaw := len(s.Positionals) - 1
		if raw >= 0 {
			lastNonRaw--
		}
		if rest != lastNonRaw {
			return configErrorf(s, "rest positional %q must be the last positional", s.Positionals[rest].Name)
		}
	}
	return nil
}

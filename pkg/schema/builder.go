// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"github.com/yeetrun/yparse/pkg/policy"
	"github.com/yeetrun/yparse/pkg/value"
)

// Builder assembles a Schema fluently.
//
//	s, err := schema.New("app").
//	    Describe("Deploys things").
//	    Option(schema.Option{Name: "port", Short: 'p', Default: 8080}).
//	    Option(schema.Option{Name: "debug", Type: value.Boolean}).
//	    Positional(schema.Positional{Name: "target", Type: value.String}).
//	    Command("build", "Build the project", buildSchema).
//	    Build()
type Builder struct {
	s Schema
}

// New starts a Builder for a command called name.
func New(name string) *Builder {
	return &Builder{s: Schema{Name: name}}
}

func (b *Builder) Describe(desc string) *Builder {
	b.s.Description = desc
	return b
}

func (b *Builder) Option(o Option) *Builder {
	b.s.Options = append(b.s.Options, o)
	return b
}

// Flag adds a boolean option.
func (b *Builder) Flag(name string, short rune, desc string) *Builder {
	return b.Option(Option{Name: name, Type: value.Boolean, Short: short, Description: desc})
}

func (b *Builder) Positional(p Positional) *Builder {
	b.s.Positionals = append(b.s.Positionals, p)
	return b
}

// Rest adds a rest positional of type t.
func (b *Builder) Rest(name string, t value.Type, desc string) *Builder {
	return b.Positional(Positional{Name: name, Type: t, Rest: true, Description: desc})
}

// RawCapture adds the raw capture positional.
func (b *Builder) RawCapture(name, desc string) *Builder {
	return b.Positional(Positional{Name: name, Type: value.StringArray, RawCapture: true, Description: desc})
}

// Command adds a subcommand. The child schema is shared, not copied.
func (b *Builder) Command(name, desc string, child *Schema, aliases ...string) *Builder {
	b.s.SubCommands = append(b.s.SubCommands, SubCommand{
		Name:        name,
		Description: desc,
		Aliases:     aliases,
		Schema:      child,
	})
	return b
}

// Default sets the DefaultCommand.
func (b *Builder) Default(name string) *Builder {
	b.s.DefaultCommand = name
	return b
}

func (b *Builder) WithPolicy(p policy.Policy) *Builder {
	b.s.Policy = p
	return b
}

func (b *Builder) Example(ex ...string) *Builder {
	b.s.Examples = append(b.s.Examples, ex...)
	return b
}

// Build validates and returns the schema.
func (b *Builder) Build() (*Schema, error) {
	s := b.s
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// MustBuild is like Build but panics on an invalid schema.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

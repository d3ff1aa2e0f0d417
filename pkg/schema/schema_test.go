// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/yparse/pkg/value"
)

func TestValidate(t *testing.T) {
	leaf := &Schema{Name: "leaf"}
	tests := []struct {
		name    string
		s       *Schema
		wantErr string
	}{
		{
			name: "valid",
			s: &Schema{
				Name:        "app",
				Options:     []Option{{Name: "port", Short: 'p', Type: value.Number}},
				Positionals: []Positional{{Name: "files", Type: value.StringArray, Rest: true}, {Name: "cmd", RawCapture: true}},
				SubCommands: []SubCommand{{Name: "build", Aliases: []string{"b"}, Schema: leaf}},
			},
		},
		{
			name:    "reserved help option",
			s:       &Schema{Options: []Option{{Name: "help"}}},
			wantErr: "reserved",
		},
		{
			name:    "reserved short h",
			s:       &Schema{Options: []Option{{Name: "host", Short: 'h'}}},
			wantErr: "reserved for help",
		},
		{
			name:    "duplicate short",
			s:       &Schema{Options: []Option{{Name: "a", Short: 'x'}, {Name: "b", Short: 'x'}}},
			wantErr: "share short flag -x",
		},
		{
			name:    "duplicate option",
			s:       &Schema{Options: []Option{{Name: "a"}, {Name: "a"}}},
			wantErr: "duplicate option name",
		},
		{
			name:    "positional shadows option",
			s:       &Schema{Options: []Option{{Name: "a"}}, Positionals: []Positional{{Name: "a"}}},
			wantErr: "same name as an option",
		},
		{
			name:    "raw not last",
			s:       &Schema{Positionals: []Positional{{Name: "cmd", RawCapture: true}, {Name: "x"}}},
			wantErr: "must be last",
		},
		{
			name:    "two rest slots",
			s:       &Schema{Positionals: []Positional{{Name: "a", Rest: true}, {Name: "b", Rest: true}}},
			wantErr: "more than one rest",
		},
		{
			name:    "rest before plain positional",
			s:       &Schema{Positionals: []Positional{{Name: "a", Rest: true}, {Name: "b"}}},
			wantErr: "must be the last positional",
		},
		{
			name:    "boolean rest",
			s:       &Schema{Positionals: []Positional{{Name: "a", Type: value.Boolean, Rest: true}}},
			wantErr: "cannot be boolean",
		},
		{
			name:    "rest and raw on one slot",
			s:       &Schema{Positionals: []Positional{{Name: "a", Rest: true, RawCapture: true}}},
			wantErr: "both rest and raw",
		},
		{
			name:    "alias collides with name",
			s:       &Schema{SubCommands: []SubCommand{{Name: "build", Schema: leaf}, {Name: "bake", Aliases: []string{"build"}, Schema: leaf}}},
			wantErr: "duplicate subcommand name",
		},
		{
			name:    "subcommand without schema",
			s:       &Schema{SubCommands: []SubCommand{{Name: "build"}}},
			wantErr: "has no schema",
		},
		{
			name:    "unknown default command",
			s:       &Schema{Name: "app", DefaultCommand: "deploy"},
			wantErr: `default command "deploy"`,
		},
		{
			name: "nested failure",
			s: &Schema{SubCommands: []SubCommand{{Name: "build", Schema: &Schema{
				Name:    "build",
				Options: []Option{{Name: "help"}},
			}}}},
			wantErr: `invalid schema "build"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() error = %#v, want *ConfigError", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultCommandHelpIsValid(t *testing.T) {
	s := &Schema{Name: "app", DefaultCommand: HelpCommand}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLookups(t *testing.T) {
	build := &Schema{Name: "build"}
	s := New("app").
		Flag("verbose", 'v', "").
		Option(Option{Name: "port", Type: value.Number}).
		Positional(Positional{Name: "target"}).
		RawCapture("cmd", "").
		Command("build", "", build, "b", "mk").
		MustBuild()

	if o, ok := s.OptionByShort('v'); !ok || o.Name != "verbose" {
		t.Fatalf("OptionByShort(v) = %#v, %v", o, ok)
	}
	if _, ok := s.OptionByShort(0); ok {
		t.Fatal("OptionByShort(0) matched")
	}
	if sc, ok := s.SubCommand("mk"); !ok || sc.Name != "build" {
		t.Fatalf("SubCommand(mk) = %#v, %v", sc, ok)
	}
	if diff := cmp.Diff([]string{"build", "b", "mk"}, s.SubCommandNames()); diff != "" {
		t.Errorf("SubCommandNames mismatch (-want +got):\n%s", diff)
	}
	if p, ok := s.RawCapture(); !ok || p.Name != "cmd" || p.Type != value.StringArray {
		t.Fatalf("RawCapture() = %#v, %v", p, ok)
	}
	if slots := s.Slots(); len(slots) != 1 || slots[0].Name != "target" {
		t.Fatalf("Slots() = %#v", slots)
	}
}

func TestBuilderRejectsInvalid(t *testing.T) {
	if _, err := New("app").Flag("host", 'h', "").Build(); err == nil {
		t.Fatal("Build() succeeded with -h option")
	}
}

const yamlSchema = `
name: deploy
description: Deploy things
options:
  - name: port
    short: p
    type: number
    default: 8080
    validate: ["min=1", "max=65535"]
  - name: tags
    type: string[]
    default: [a, b]
positionals:
  - name: target
    type: string
    validate: [required]
  - name: cmd
    raw: true
commands:
  - name: build
    aliases: [b]
    exit_on_error: false
    options:
      - name: release
        type: boolean
default_command: help
`

const tomlSchema = `
name = "deploy"
description = "Deploy things"
default_command = "help"

[[options]]
name = "port"
short = "p"
type = "number"
default = 8080
validate = ["min=1", "max=65535"]

[[options]]
name = "tags"
type = "string[]"
default = ["a", "b"]

[[positionals]]
name = "target"
type = "string"
validate = ["required"]

[[positionals]]
name = "cmd"
raw = true

[[commands]]
name = "build"
aliases = ["b"]
exit_on_error = false

[[commands.options]]
name = "release"
type = "boolean"
`

func TestDecode(t *testing.T) {
	for _, tt := range []struct {
		format string
		doc    string
	}{
		{FormatYAML, yamlSchema},
		{FormatTOML, tomlSchema},
	} {
		t.Run(tt.format, func(t *testing.T) {
			s, err := Decode([]byte(tt.doc), tt.format)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			port, ok := s.OptionByName("port")
			if !ok {
				t.Fatal("port option missing")
			}
			if port.Short != 'p' || port.Type != value.Number || port.Default != 8080.0 {
				t.Fatalf("port = %#v", port)
			}
			if err := value.Validate(0.0, port.Validators); err == nil {
				t.Error("port validators accepted 0")
			}
			tags, _ := s.OptionByName("tags")
			if diff := cmp.Diff([]string{"a", "b"}, tags.Default); diff != "" {
				t.Errorf("tags default mismatch (-want +got):\n%s", diff)
			}
			raw, ok := s.RawCapture()
			if !ok || raw.Type != value.StringArray {
				t.Fatalf("raw capture = %#v, %v", raw, ok)
			}
			build, ok := s.SubCommand("b")
			if !ok || build.Schema.Name != "build" {
				t.Fatalf("SubCommand(b) = %#v, %v", build, ok)
			}
			if p := build.Schema.Policy.ExitOnError; p == nil || *p {
				t.Fatalf("build ExitOnError = %v, want false", p)
			}
			if s.DefaultCommand != HelpCommand {
				t.Fatalf("DefaultCommand = %q", s.DefaultCommand)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		doc    string
	}{
		{"unknown yaml key", FormatYAML, "name: x\nflags: []\n"},
		{"unknown toml key", FormatTOML, "name = \"x\"\nflags = []\n"},
		{"bad type", FormatYAML, "options:\n  - name: a\n    type: map\n"},
		{"bad validator", FormatYAML, "options:\n  - name: a\n    validate: [nope]\n"},
		{"long short", FormatYAML, "options:\n  - name: a\n    short: ab\n"},
		{"invalid schema", FormatYAML, "options:\n  - name: help\n"},
		{"unknown format", "ini", "name = x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.doc), tt.format); err == nil {
				t.Fatal("Decode() succeeded, want error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deploy.toml")
	if err := os.WriteFile(path, []byte(tomlSchema), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Name != "deploy" {
		t.Fatalf("Name = %q", s.Name)
	}
	if _, err := Load(filepath.Join(dir, "deploy.ini")); err == nil {
		t.Fatal("Load(.ini) succeeded")
	}
}

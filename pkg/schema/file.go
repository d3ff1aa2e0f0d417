// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/yparse/pkg/policy"
	"github.com/yeetrun/yparse/pkg/value"
	"gopkg.in/yaml.v3"
)

// File formats accepted by Decode.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatJSON = "json"
)

// fileSchema is the on-disk form of a Schema. Subcommands reuse it, with
// Aliases and Hidden only meaningful below the root.
type fileSchema struct {
	Name           string           `yaml:"name" toml:"name"`
	Description    string           `yaml:"description" toml:"description"`
	Aliases        []string         `yaml:"aliases" toml:"aliases"`
	Hidden         bool             `yaml:"hidden" toml:"hidden"`
	Options        []fileOption     `yaml:"options" toml:"options"`
	Positionals    []filePositional `yaml:"positionals" toml:"positionals"`
	Commands       []fileSchema     `yaml:"commands" toml:"commands"`
	DefaultCommand string           `yaml:"default_command" toml:"default_command"`
	ExitOnError    *bool            `yaml:"exit_on_error" toml:"exit_on_error"`
	ExitOnHelp     *bool            `yaml:"exit_on_help" toml:"exit_on_help"`
	Examples       []string         `yaml:"examples" toml:"examples"`
}

type fileOption struct {
	Name        string   `yaml:"name" toml:"name"`
	Type        string   `yaml:"type" toml:"type"`
	Short       string   `yaml:"short" toml:"short"`
	Description string   `yaml:"description" toml:"description"`
	Default     any      `yaml:"default" toml:"default"`
	Validate    []string `yaml:"validate" toml:"validate"`
	Hidden      bool     `yaml:"hidden" toml:"hidden"`
}

type filePositional struct {
	Name        string   `yaml:"name" toml:"name"`
	Type        string   `yaml:"type" toml:"type"`
	Description string   `yaml:"description" toml:"description"`
	Default     any      `yaml:"default" toml:"default"`
	Validate    []string `yaml:"validate" toml:"validate"`
	Rest        bool     `yaml:"rest" toml:"rest"`
	Raw         bool     `yaml:"raw" toml:"raw"`
}

// Load reads a schema file. The format follows the file extension:
// .yaml, .yml, .json or .toml.
func Load(path string) (*Schema, error) {
	format, err := formatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return s, nil
}

func formatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported schema file extension %q", filepath.Ext(path))
}

// Decode parses a schema document. Unknown keys are rejected. The result
// has been validated.
func Decode(data []byte, format string) (*Schema, error) {
	var fs fileSchema
	switch format {
	case FormatYAML, FormatJSON:
		// JSON documents are valid YAML.
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&fs); err != nil {
			return nil, err
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &fs)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("unsupported schema format %q", format)
	}
	s, err := fs.schema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (fs *fileSchema) schema() (*Schema, error) {
	s := &Schema{
		Name:           fs.Name,
		Description:    fs.Description,
		Examples:       fs.Examples,
		DefaultCommand: fs.DefaultCommand,
		Policy: policy.Policy{
			ExitOnError: fs.ExitOnError,
			ExitOnHelp:  fs.ExitOnHelp,
		},
	}
	for _, fo := range fs.Options {
		o, err := fo.option()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fs.Name, err)
		}
		s.Options = append(s.Options, o)
	}
	for _, fp := range fs.Positionals {
		p, err := fp.positional()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fs.Name, err)
		}
		s.Positionals = append(s.Positionals, p)
	}
	for i := range fs.Commands {
		fc := &fs.Commands[i]
		child, err := fc.schema()
		if err != nil {
			return nil, err
		}
		s.SubCommands = append(s.SubCommands, SubCommand{
			Name:        fc.Name,
			Description: fc.Description,
			Aliases:     fc.Aliases,
			Hidden:      fc.Hidden,
			Schema:      child,
		})
	}
	return s, nil
}

func (fo fileOption) option() (Option, error) {
	t, def, validators, err := decodeDef(fo.Name, fo.Type, fo.Default, fo.Validate)
	if err != nil {
		return Option{}, err
	}
	o := Option{
		Name:        fo.Name,
		Type:        t,
		Description: fo.Description,
		Default:     def,
		Validators:  validators,
		Hidden:      fo.Hidden,
	}
	if fo.Short != "" {
		r, size := utf8.DecodeRuneInString(fo.Short)
		if size != len(fo.Short) {
			return Option{}, fmt.Errorf("option %q: short flag %q must be a single character", fo.Name, fo.Short)
		}
		o.Short = r
	}
	return o, nil
}

func (fp filePositional) positional() (Positional, error) {
	typ := fp.Type
	if fp.Raw && typ == "" {
		typ = value.StringArray.String()
	}
	t, def, validators, err := decodeDef(fp.Name, typ, fp.Default, fp.Validate)
	if err != nil {
		return Positional{}, err
	}
	return Positional{
		Name:        fp.Name,
		Type:        t,
		Rest:        fp.Rest,
		RawCapture:  fp.Raw,
		Description: fp.Description,
		Default:     def,
		Validators:  validators,
	}, nil
}

func decodeDef(name, typ string, rawDefault any, specs []string) (value.Type, any, []value.Validator, error) {
	t, err := value.ParseType(typ)
	if err != nil {
		return value.Unknown, nil, nil, fmt.Errorf("%q: %w", name, err)
	}
	def, _, err := value.Normalize(rawDefault)
	if err != nil {
		return value.Unknown, nil, nil, fmt.Errorf("%q: %w", name, err)
	}
	var validators []value.Validator
	for _, spec := range specs {
		v, err := value.ParseValidator(spec)
		if err != nil {
			return value.Unknown, nil, nil, fmt.Errorf("%q: %w", name, err)
		}
		validators = append(validators, v)
	}
	return t, def, validators, nil
}

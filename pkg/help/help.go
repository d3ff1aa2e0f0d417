// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package help renders plain text help for one schema level.
package help

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yeetrun/yparse/pkg/schema"
	"github.com/yeetrun/yparse/pkg/value"
)

const (
	helpFlagShort = "-h"
	helpFlagLong  = "--help"
)

// Render returns the help text for s, reached through the command path.
func Render(path []string, s *schema.Schema) string {
	var b strings.Builder
	cmd := strings.Join(path, " ")
	if cmd == "" {
		cmd = s.Name
	}

	// Header
	b.WriteString(cmd)
	if s.Description != "" {
		b.WriteString(" - ")
		b.WriteString(s.Description)
	}
	b.WriteString("\n\n")

	// Usage
	b.WriteString("USAGE:\n")
	b.WriteString("    " + usage(cmd, s) + "\n\n")

	commands := visibleCommands(s)
	if len(commands) > 0 {
		b.WriteString("COMMANDS:\n")
		for _, sc := range commands {
			b.WriteString(fmt.Sprintf("    %-12s %s\n", sc.Name, describeWithAliases(sc.Description, sc.Aliases)))
		}
		b.WriteString("\n")
	}

	if len(s.Positionals) > 0 {
		b.WriteString("ARGUMENTS:\n")
		for _, p := range s.Positionals {
			name := strings.ToUpper(p.Name)
			desc := p.Description
			if p.Default != nil {
				desc = strings.TrimSpace(desc + fmt.Sprintf(" (default: %s)", formatDefault(p.Default)))
			}
			if desc != "" {
				b.WriteString(fmt.Sprintf("    %-20s %s\n", name, desc))
			} else {
				b.WriteString(fmt.Sprintf("    %s\n", name))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("OPTIONS:\n")
	for _, o := range s.Options {
		if o.Hidden {
			continue
		}
		var flagStr string
		if o.Short != 0 {
			flagStr = fmt.Sprintf("    -%c, --%s", o.Short, o.Name)
		} else {
			flagStr = fmt.Sprintf("        --%s", o.Name)
		}
		if o.Type != value.Boolean && o.Type != value.Unknown {
			flagStr += " <" + o.Type.String() + ">"
		}

		if o.Description != "" {
			b.WriteString(fmt.Sprintf("%-28s %s", flagStr, o.Description))
		} else {
			b.WriteString(flagStr)
		}
		if o.Default != nil {
			b.WriteString(fmt.Sprintf(" (default: %s)", formatDefault(o.Default)))
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("%-28s %s\n", fmt.Sprintf("    %s, %s", helpFlagShort, helpFlagLong), "Show this help message"))

	if len(s.Examples) > 0 {
		b.WriteString("\nEXAMPLES:\n")
		for _, example := range s.Examples {
			b.WriteString(fmt.Sprintf("    %s\n", example))
		}
	}
	return b.String()
}

func usage(cmd string, s *schema.Schema) string {
	parts := []string{cmd, "[OPTIONS]"}
	if len(visibleCommands(s)) > 0 {
		parts = append(parts, "[COMMAND]")
	}
	for _, p := range s.Positionals {
		name := strings.ToUpper(p.Name)
		switch {
		case p.RawCapture:
			parts = append(parts, fmt.Sprintf("[%s...]", name))
		case p.Rest:
			parts = append(parts, fmt.Sprintf("[%s...]", name))
		case p.Default != nil:
			parts = append(parts, fmt.Sprintf("[%s]", name))
		default:
			parts = append(parts, fmt.Sprintf("<%s>", name))
		}
	}
	return strings.Join(parts, " ")
}

func visibleCommands(s *schema.Schema) []schema.SubCommand {
	var out []schema.SubCommand
	for _, sc := range s.SubCommands {
		if !sc.Hidden {
			out = append(out, sc)
		}
	}
	slices.SortFunc(out, func(a, b schema.SubCommand) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

func aliasSuffix(aliases []string) string {
	if len(aliases) == 0 {
		return ""
	}
	if len(aliases) == 1 {
		return fmt.Sprintf(" (alias: %s)", aliases[0])
	}
	return fmt.Sprintf(" (aliases: %s)", strings.Join(aliases, ", "))
}

func describeWithAliases(desc string, aliases []string) string {
	suffix := aliasSuffix(aliases)
	if desc == "" {
		return strings.TrimSpace(suffix)
	}
	return desc + suffix
}

func formatDefault(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []string:
		return strings.Join(x, ",")
	case []float64:
		s := make([]string, len(x))
		for i, f := range x {
			s[i] = strconv.FormatFloat(f, 'f', -1, 64)
		}
		return strings.Join(s, ",")
	}
	return fmt.Sprint(v)
}

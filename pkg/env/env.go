// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package env writes resolved arguments as shell variable assignments, one
// per line, so a script can source them.
//
//	PORT=3000
//	DEBUG=true
//	DEPLOY_ENV='prod'
package env

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/yeetrun/yparse/pkg/resolve"
)

// Write writes an environment file with the given name for r.
func Write(name, prefix string, r *resolve.Result) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := Marshal(f, prefix, r); err != nil {
		return fmt.Errorf("failed to marshal env: %v", err)
	}
	return f.Close()
}

// Marshal writes one assignment per value in r. Selected subcommands are
// flattened with their name as an extra prefix and unselected ones are
// skipped, as are nil values. Lists are joined with spaces.
func Marshal(w io.Writer, prefix string, r *resolve.Result) error {
	for _, key := range r.Keys() {
		name := prefix + Name(key)
		switch v := r.Get(key).(type) {
		case nil:
		case *resolve.Result:
			if v == nil {
				continue
			}
			if err := Marshal(w, name+"_", v); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintf(w, "%s=%s\n", name, format(v)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Name maps a definition name to a variable name: upper case, with every
// character outside [A-Z0-9_] replaced by '_'.
func Name(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, key)
}

func format(v any) string {
	switch v := v.(type) {
	case string:
		return quote(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []string:
		return quote(strings.Join(v, " "))
	case []float64:
		parts := make([]string, len(v))
		for i, f := range v {
			parts[i] = strconv.FormatFloat(f, 'f', -1, 64)
		}
		return quote(strings.Join(parts, " "))
	}
	return quote(fmt.Sprint(v))
}

// quote single-quotes s for POSIX shells.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package token splits raw command-line arguments into lexical tokens.
//
// The tokenizer has no knowledge of any schema. It never fails: deciding
// whether a token means anything is left to the resolver.
package token

import "strings"

// Kind is the lexical class of a Token.
type Kind int

const (
	// Positional is anything that is not flag shaped, and every argument
	// after the first separator.
	Positional Kind = iota
	// LongFlag is --name or --name=value.
	LongFlag
	// ShortCluster is -x, -xyz or -x=value.
	ShortCluster
	// Separator is the first literal "--".
	Separator
)

func (k Kind) String() string {
	switch k {
	case Positional:
		return "positional"
	case LongFlag:
		return "long-flag"
	case ShortCluster:
		return "short-cluster"
	case Separator:
		return "separator"
	}
	return "unknown"
}

const separator = "--"

// Token is one lexed argument.
type Token struct {
	Kind Kind
	// Name is the flag name without dashes (LongFlag) or the cluster
	// characters (ShortCluster).
	Name string
	// Value is the embedded value after '=' for flags, or the argument
	// itself for Positional tokens.
	Value string
	// HasValue is set when a flag carried an embedded '=' value.
	HasValue bool
	// Raw is the original argument, untouched.
	Raw string
}

// IsFlag reports whether the token is flag shaped.
func (t Token) IsFlag() bool {
	return t.Kind == LongFlag || t.Kind == ShortCluster
}

// Tokenize lexes args in order.
func Tokenize(args []string) []Token {
	toks := make([]Token, 0, len(args))
	afterSeparator := false
	for _, arg := range args {
		if afterSeparator {
			toks = append(toks, Token{Kind: Positional, Value: arg, Raw: arg})
			continue
		}
		if arg == separator {
			afterSeparator = true
			toks = append(toks, Token{Kind: Separator, Raw: arg})
			continue
		}
		toks = append(toks, lex(arg))
	}
	return toks
}

func lex(arg string) Token {
	switch {
	case strings.HasPrefix(arg, "--"):
		name, value, ok := strings.Cut(arg[2:], "=")
		return Token{Kind: LongFlag, Name: name, Value: value, HasValue: ok, Raw: arg}
	case len(arg) > 1 && arg[0] == '-' && !isNumeric(arg):
		name, value, ok := strings.Cut(arg[1:], "=")
		return Token{Kind: ShortCluster, Name: name, Value: value, HasValue: ok, Raw: arg}
	}
	// A lone "-" (conventionally stdin) and negative numbers are values.
	return Token{Kind: Positional, Value: arg, Raw: arg}
}

// isNumeric checks if a string is a number (e.g., "10", "-10", "3.14", "-3.14").
func isNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}

	start := 0
	if s[0] == '-' || s[0] == '+' {
		if len(s) == 1 {
			return false
		}
		start = 1
	}

	hasDigit := false
	hasDot := false
	for i := start; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			hasDigit = true
		case s[i] == '.':
			if hasDot {
				return false
			}
			hasDot = true
		default:
			return false
		}
	}
	return hasDigit
}

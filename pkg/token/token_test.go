// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package token

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []Token
	}{
		{
			name: "long flag without value",
			args: []string{"--debug"},
			want: []Token{{Kind: LongFlag, Name: "debug", Raw: "--debug"}},
		},
		{
			name: "long flag with embedded value splits at first equals",
			args: []string{"--define=a=b"},
			want: []Token{{Kind: LongFlag, Name: "define", Value: "a=b", HasValue: true, Raw: "--define=a=b"}},
		},
		{
			name: "long flag with empty embedded value",
			args: []string{"--name="},
			want: []Token{{Kind: LongFlag, Name: "name", HasValue: true, Raw: "--name="}},
		},
		{
			name: "short cluster stays one token",
			args: []string{"-xyz"},
			want: []Token{{Kind: ShortCluster, Name: "xyz", Raw: "-xyz"}},
		},
		{
			name: "short flag with embedded value",
			args: []string{"-p=80"},
			want: []Token{{Kind: ShortCluster, Name: "p", Value: "80", HasValue: true, Raw: "-p=80"}},
		},
		{
			name: "bare words are positional",
			args: []string{"build", "x.txt"},
			want: []Token{
				{Kind: Positional, Value: "build", Raw: "build"},
				{Kind: Positional, Value: "x.txt", Raw: "x.txt"},
			},
		},
		{
			name: "lone dash and negative numbers are positional",
			args: []string{"-", "-5", "-3.25"},
			want: []Token{
				{Kind: Positional, Value: "-", Raw: "-"},
				{Kind: Positional, Value: "-5", Raw: "-5"},
				{Kind: Positional, Value: "-3.25", Raw: "-3.25"},
			},
		},
		{
			name: "everything after the first separator is positional",
			args: []string{"-v", "--", "--flag1", "-x", "--", "y"},
			want: []Token{
				{Kind: ShortCluster, Name: "v", Raw: "-v"},
				{Kind: Separator, Raw: "--"},
				{Kind: Positional, Value: "--flag1", Raw: "--flag1"},
				{Kind: Positional, Value: "-x", Raw: "-x"},
				{Kind: Positional, Value: "--", Raw: "--"},
				{Kind: Positional, Value: "y", Raw: "y"},
			},
		},
		{
			name: "empty input",
			args: nil,
			want: []Token{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.args)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.args, diff)
			}
		})
	}
}

func TestTokenizeDoesNotAliasInput(t *testing.T) {
	args := []string{"--port", "80"}
	toks := Tokenize(args)
	args[1] = "90"
	if toks[1].Value != "80" {
		t.Fatalf("token value = %q, want %q", toks[1].Value, "80")
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"10", true},
		{"-10", true},
		{"+3.5", true},
		{"-.5", true},
		{"-", false},
		{"-1.2.3", false},
		{"-v", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isNumeric(tt.input); got != tt.want {
			t.Errorf("isNumeric(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsFlag(t *testing.T) {
	for _, tok := range Tokenize([]string{"--a", "-b", "c", "--"}) {
		want := tok.Kind == LongFlag || tok.Kind == ShortCluster
		if tok.IsFlag() != want {
			t.Errorf("%s IsFlag() = %v, want %v", tok.Kind, tok.IsFlag(), want)
		}
	}
}

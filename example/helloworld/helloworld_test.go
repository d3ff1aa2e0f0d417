// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/yeetrun/yparse/pkg/argerr"
	"github.com/yeetrun/yparse/pkg/policy"
	"github.com/yeetrun/yparse/pkg/schema"
	"github.com/yeetrun/yparse/pkg/value"
)

func TestRunGreets(t *testing.T) {
	var out bytes.Buffer
	if err := run(helloSchema, []string{"-s", "-n", "2", "alice", "bob"}, &out, policy.InBand()); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "HELLO, ALICE AND BOB!\nHELLO, ALICE AND BOB!\n"
	if got := out.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRunReturnsErrors(t *testing.T) {
	var out bytes.Buffer
	err := run(helloSchema, []string{"--times", "20"}, &out, policy.InBand())
	if argerr.KindOf(err) != argerr.ValidationError {
		t.Fatalf("run error = %v, want validation_error", err)
	}

	bad := &schema.Schema{Name: "bad", Options: []schema.Option{
		{Name: "a", Type: value.String},
		{Name: "a", Type: value.String},
	}}
	var ce *schema.ConfigError
	if err := run(bad, nil, &out, policy.Policy{}); !errors.As(err, &ce) {
		t.Fatalf("run error = %v, want *schema.ConfigError", err)
	}

	var handled string
	err = run(helloSchema, []string{"--nope"}, &out, policy.Policy{OnError: func(msg string, code int) { handled = msg }})
	if err != nil || handled == "" {
		t.Fatalf("run = %v, handled %q; want the handler to own the error", err, handled)
	}
	if out.Len() != 0 {
		t.Fatalf("output = %q, want none", out.String())
	}
}

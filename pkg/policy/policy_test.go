// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package policy

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/yeetrun/yparse/pkg/argerr"
)

func mockExit(t *testing.T) *int {
	t.Helper()
	code := -1
	prev := osExit
	osExit = func(c int) { code = c }
	t.Cleanup(func() { osExit = prev })
	return &code
}

func testError() *argerr.Error {
	e := argerr.NewUnknownArgument("bogus", "")
	e.Path = []string{"app", "build"}
	return e
}

func TestRouteErrorInBand(t *testing.T) {
	code := mockExit(t)
	err := InBand().RouteError(testError())
	if argerr.KindOf(err) != argerr.UnknownArgument {
		t.Fatalf("RouteError = %v, want the argerr back", err)
	}
	if *code != -1 {
		t.Fatalf("exit called with %d for in-band policy", *code)
	}
}

func TestRouteErrorHandler(t *testing.T) {
	code := mockExit(t)
	var gotMsg string
	var gotCode int
	p := Policy{OnError: func(msg string, exitCode int) {
		gotMsg, gotCode = msg, exitCode
	}}
	if err := p.RouteError(testError()); !errors.Is(err, ErrHandled) {
		t.Fatalf("RouteError = %v, want ErrHandled", err)
	}
	if gotMsg != "unknown argument: bogus" || gotCode != 1 {
		t.Fatalf("handler got (%q, %d)", gotMsg, gotCode)
	}
	if *code != -1 {
		t.Fatal("exit called although a handler was registered")
	}
}

func TestRouteErrorExit(t *testing.T) {
	code := mockExit(t)
	var stderr bytes.Buffer
	p := Policy{Stderr: &stderr}
	_ = p.RouteError(testError())
	if *code != 1 {
		t.Fatalf("exit code = %d, want 1", *code)
	}
	out := stderr.String()
	if !strings.Contains(out, "Error: unknown argument: bogus") {
		t.Errorf("stderr = %q, want error message", out)
	}
	if !strings.Contains(out, "Try 'app build --help'") {
		t.Errorf("stderr = %q, want help hint", out)
	}
}

func TestRouteHelp(t *testing.T) {
	req := errors.New("help requested")

	t.Run("in band", func(t *testing.T) {
		code := mockExit(t)
		rendered := false
		err := InBand().RouteHelp(req, func() string { rendered = true; return "" })
		if err != req {
			t.Fatalf("RouteHelp = %v, want request back", err)
		}
		if rendered || *code != -1 {
			t.Fatalf("rendered=%v exit=%d for in-band help", rendered, *code)
		}
	})

	t.Run("handler", func(t *testing.T) {
		var got string
		p := Policy{OnHelp: func(text string) { got = text }}
		if err := p.RouteHelp(req, func() string { return "USAGE" }); !errors.Is(err, ErrHandled) {
			t.Fatalf("RouteHelp = %v, want ErrHandled", err)
		}
		if got != "USAGE" {
			t.Fatalf("handler text = %q", got)
		}
	})

	t.Run("exit", func(t *testing.T) {
		code := mockExit(t)
		var stdout bytes.Buffer
		p := Policy{Stdout: &stdout}
		_ = p.RouteHelp(req, func() string { return "USAGE\n" })
		if *code != 0 {
			t.Fatalf("exit code = %d, want 0", *code)
		}
		if stdout.String() != "USAGE\n" {
			t.Fatalf("stdout = %q", stdout.String())
		}
	})
}

func TestMerge(t *testing.T) {
	parentHelp := func(string) {}
	parent := Policy{ExitOnError: Bool(false), ExitOnHelp: Bool(true), OnHelp: parentHelp}
	child := Policy{ExitOnHelp: Bool(false)}

	got := Merge(parent, child)
	if got.ExitOnError == nil || *got.ExitOnError {
		t.Errorf("ExitOnError not inherited: %v", got.ExitOnError)
	}
	if got.ExitOnHelp == nil || *got.ExitOnHelp {
		t.Errorf("ExitOnHelp not overridden: %v", got.ExitOnHelp)
	}
	if got.OnHelp == nil {
		t.Error("OnHelp not inherited")
	}
}

func TestZeroPolicyExits(t *testing.T) {
	var p Policy
	if !p.exitOnError() || !p.exitOnHelp() {
		t.Fatal("zero policy should exit on error and help")
	}
}

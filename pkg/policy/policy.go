// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package policy decides what happens when parsing fails or help is
// requested: call a handler, terminate the process, or hand the condition
// back to the caller as an error.
package policy

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/yeetrun/yparse/pkg/argerr"
	"golang.org/x/term"
)

// ErrHandled is returned after a registered OnError or OnHelp handler was
// invoked. Callers should treat it as "already dealt with".
var ErrHandled = errors.New("handled by policy callback")

var (
	osExit         = os.Exit // Mockable for testing
	isTerminalFn   = term.IsTerminal
	errorHighlight = color.New(color.FgRed, color.Bold)
)

// Policy configures how error and help conditions surface. The zero value
// terminates the process on both, which suits a top-level main.
//
// Unset fields inherit from a parent policy in Merge.
type Policy struct {
	// ExitOnError terminates the process with exit code 1 on errors.
	// nil means true.
	ExitOnError *bool
	// ExitOnHelp terminates the process with exit code 0 after printing
	// help. nil means true.
	ExitOnHelp *bool
	// OnError, when set, receives every error instead of the exit or
	// in-band paths.
	OnError func(msg string, exitCode int)
	// OnHelp, when set, receives the rendered help text.
	OnHelp func(text string)

	Stdout io.Writer
	Stderr io.Writer
}

// Bool returns a pointer to b, for use in Policy literals.
func Bool(b bool) *bool { return &b }

// InBand returns a policy that never exits and never calls back: every
// condition comes back as an error from the parse call.
func InBand() Policy {
	return Policy{ExitOnError: Bool(false), ExitOnHelp: Bool(false)}
}

// Merge overlays child on parent. Fields set in child win; nil fields are
// inherited.
func Merge(parent, child Policy) Policy {
	out := parent
	if child.ExitOnError != nil {
		out.ExitOnError = child.ExitOnError
	}
	if child.ExitOnHelp != nil {
		out.ExitOnHelp = child.ExitOnHelp
	}
	if child.OnError != nil {
		out.OnError = child.OnError
	}
	if child.OnHelp != nil {
		out.OnHelp = child.OnHelp
	}
	if child.Stdout != nil {
		out.Stdout = child.Stdout
	}
	if child.Stderr != nil {
		out.Stderr = child.Stderr
	}
	return out
}

func (p Policy) exitOnError() bool { return p.ExitOnError == nil || *p.ExitOnError }
func (p Policy) exitOnHelp() bool  { return p.ExitOnHelp == nil || *p.ExitOnHelp }

func (p Policy) stdout() io.Writer {
	if p.Stdout != nil {
		return p.Stdout
	}
	return os.Stdout
}

func (p Policy) stderr() io.Writer {
	if p.Stderr != nil {
		return p.Stderr
	}
	return os.Stderr
}

// RouteError applies the policy to err.
//
// With OnError set, the handler is called and ErrHandled is returned.
// With ExitOnError, the message and a help hint are printed to Stderr and
// the process exits with err.ExitCode. Otherwise err itself is returned.
func (p Policy) RouteError(err *argerr.Error) error {
	code := err.ExitCode
	if code == 0 {
		code = argerr.ExitCode
	}
	if p.OnError != nil {
		p.OnError(err.Message, code)
		return ErrHandled
	}
	if !p.exitOnError() {
		return err
	}
	w := p.stderr()
	prefix := "Error:"
	if f, ok := w.(*os.File); ok && isTerminalFn(int(f.Fd())) {
		prefix = errorHighlight.Sprint(prefix)
	}
	fmt.Fprintf(w, "%s %s\n", prefix, err.Message)
	if cmd := err.Command(); cmd != "" {
		fmt.Fprintf(w, "Try '%s --help' for more information\n", cmd)
	}
	osExit(code)
	return err
}

// RouteHelp applies the policy to a help request. text is only called when
// the rendered help is needed.
func (p Policy) RouteHelp(req error, text func() string) error {
	if p.OnHelp != nil {
		p.OnHelp(text())
		return ErrHandled
	}
	if !p.exitOnHelp() {
		return req
	}
	fmt.Fprint(p.stdout(), text())
	osExit(0)
	return req
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argerr

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewMissingValue("port"))
	if !errors.Is(err, New(MissingValue, "")) {
		t.Fatal("errors.Is did not match on kind")
	}
	if errors.Is(err, New(UnknownArgument, "")) {
		t.Fatal("errors.Is matched a different kind")
	}
	if got := KindOf(err); got != MissingValue {
		t.Fatalf("KindOf = %q, want %q", got, MissingValue)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Fatalf("KindOf(plain) = %q, want empty", got)
	}
}

func TestUnknownArgumentSuggestion(t *testing.T) {
	e := NewUnknownArgument("--prot", "port")
	if !strings.Contains(e.Message, `did you mean "port"`) {
		t.Fatalf("Message = %q, want suggestion", e.Message)
	}
	if e.Context.Value != "--prot" || e.ExitCode != ExitCode {
		t.Fatalf("Error = %#v", e)
	}
}

func TestValidationUnwraps(t *testing.T) {
	cause := errors.New("must be at least 10")
	e := NewValidation("port", cause)
	if !errors.Is(e, cause) {
		t.Fatal("validation error does not unwrap to its cause")
	}
	if e.Context.ValidationMessage != "must be at least 10" {
		t.Fatalf("ValidationMessage = %q", e.Context.ValidationMessage)
	}
}

func TestNotBoolean(t *testing.T) {
	e := NewNotBoolean('o', "output")
	if e.Kind != ValidationError || e.Context.ValidationMessage != "must be boolean" {
		t.Fatalf("NewNotBoolean = %#v", e)
	}
}

func TestCommandAndJSON(t *testing.T) {
	e := NewMissingType("name", "app")
	e.Path = []string{"app", "build"}
	if got := e.Command(); got != "app build" {
		t.Fatalf("Command() = %q", got)
	}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	var back map[string]any
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back["kind"] != string(MissingTypeInformation) || back["exitCode"] != 1.0 {
		t.Fatalf("json = %s", b)
	}
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argerr defines the structured error reported when a command line
// cannot be resolved against its schema.
package argerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error. The set is closed.
type Kind string

const (
	UnknownArgument         Kind = "unknown_argument"
	MissingValue            Kind = "missing_value"
	InvalidNumber           Kind = "invalid_number"
	InvalidArrayNumber      Kind = "invalid_array_number"
	ValidationError         Kind = "validation_error"
	MissingRequiredArgument Kind = "missing_required_argument"
	MissingTypeInformation  Kind = "missing_type_information"
)

// ExitCode is the process exit code used for every error kind.
const ExitCode = 1

// Context carries the details of what went wrong.
type Context struct {
	ArgumentName      string   `json:"argumentName,omitempty" yaml:"argumentName,omitempty"`
	Value             string   `json:"value,omitempty" yaml:"value,omitempty"`
	ValidationMessage string   `json:"validationMessage,omitempty" yaml:"validationMessage,omitempty"`
	Suggestion        string   `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	Related           []*Error `json:"related,omitempty" yaml:"related,omitempty"`
}

// Error is a structured, catchable parse error.
type Error struct {
	Kind     Kind     `json:"kind" yaml:"kind"`
	Message  string   `json:"message" yaml:"message"`
	ExitCode int      `json:"exitCode" yaml:"exitCode"`
	Path     []string `json:"path,omitempty" yaml:"path,omitempty"` // command path of the schema level that failed
	Context  Context  `json:"context" yaml:"context"`
	Err      error    `json:"-" yaml:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind, so callers can
// write errors.Is(err, argerr.New(argerr.MissingValue, "")).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Command returns the space separated command path, e.g. "app build".
func (e *Error) Command() string {
	return strings.Join(e.Path, " ")
}

// New returns an Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, ExitCode: ExitCode}
}

// KindOf returns the Kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func NewUnknownArgument(arg, suggestion string) *Error {
	msg := fmt.Sprintf("unknown argument: %s", arg)
	if suggestion != "" {
		msg = fmt.Sprintf("%s (did you mean %q?)", msg, suggestion)
	}
	e := New(UnknownArgument, msg)
	e.Context = Context{Value: arg, Suggestion: suggestion}
	return e
}

func NewMissingValue(name string) *Error {
	e := New(MissingValue, fmt.Sprintf("option --%s requires a value", name))
	e.Context.ArgumentName = name
	return e
}

func NewInvalidNumber(name, raw string) *Error {
	e := New(InvalidNumber, fmt.Sprintf("invalid number %q for %s", raw, name))
	e.Context = Context{ArgumentName: name, Value: raw}
	return e
}

func NewInvalidArrayNumber(name, raw string) *Error {
	e := New(InvalidArrayNumber, fmt.Sprintf("invalid number %q in list for %s", raw, name))
	e.Context = Context{ArgumentName: name, Value: raw}
	return e
}

// NewNotBoolean reports a bundled short flag that is declared but does not
// take a boolean.
func NewNotBoolean(char rune, name string) *Error {
	msg := fmt.Sprintf("option -%c (--%s) must be boolean to be bundled", char, name)
	e := New(ValidationError, msg)
	e.Context = Context{ArgumentName: name, Value: "-" + string(char), ValidationMessage: "must be boolean"}
	return e
}

func NewValidation(name string, cause error) *Error {
	e := New(ValidationError, fmt.Sprintf("invalid value for %s: %v", name, cause))
	e.Context = Context{ArgumentName: name, ValidationMessage: cause.Error()}
	e.Err = cause
	return e
}

func NewMissingRequired(name string, cause error) *Error {
	e := New(MissingRequiredArgument, fmt.Sprintf("missing required argument: %s", name))
	e.Context = Context{ArgumentName: name, ValidationMessage: cause.Error()}
	e.Err = cause
	return e
}

func NewMissingType(name, schema string) *Error {
	e := New(MissingTypeInformation, fmt.Sprintf("%s: definition %q has neither a type nor a default value", schema, name))
	e.Context.ArgumentName = name
	return e
}

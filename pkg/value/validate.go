// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// ErrRequired is wrapped by the error returned from Required.
var ErrRequired = errors.New("value is required")

// Validator checks a converted value. It returns nil when the value is
// acceptable. Validators other than Required accept nil.
type Validator func(v any) error

// Validate runs validators in order and returns the first failure. Later
// validators are not run.
func Validate(v any, validators []Validator) error {
	for _, fn := range validators {
		if fn == nil {
			continue
		}
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

// IsEmpty reports whether v counts as "not provided": nil, the empty
// string or an empty list.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []string:
		return len(x) == 0
	case []float64:
		return len(x) == 0
	}
	return false
}

// Required fails when the value is empty.
func Required() Validator {
	return func(v any) error {
		if IsEmpty(v) {
			return fmt.Errorf("is required: %w", ErrRequired)
		}
		return nil
	}
}

// numbers returns the numeric values held by v, if any.
func numbers(v any) []float64 {
	switch x := v.(type) {
	case float64:
		return []float64{x}
	case []float64:
		return x
	}
	return nil
}

// strs returns the string values held by v, if any.
func strs(v any) []string {
	switch x := v.(type) {
	case string:
		return []string{x}
	case []string:
		return x
	}
	return nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Min fails for numbers below n. For lists every element is checked.
func Min(n float64) Validator {
	return func(v any) error {
		for _, f := range numbers(v) {
			if f < n {
				return fmt.Errorf("must be at least %s", formatNumber(n))
			}
		}
		return nil
	}
}

// Max fails for numbers above n. For lists every element is checked.
func Max(n float64) Validator {
	return func(v any) error {
		for _, f := range numbers(v) {
			if f > n {
				return fmt.Errorf("must be at most %s", formatNumber(n))
			}
		}
		return nil
	}
}

// MinLength fails for strings shorter than n runes, or lists with fewer
// than n elements.
func MinLength(n int) Validator {
	return func(v any) error {
		if l, ok := length(v); ok && l < n {
			return fmt.Errorf("must have a length of at least %d", n)
		}
		return nil
	}
}

// MaxLength fails for strings longer than n runes, or lists with more than
// n elements.
func MaxLength(n int) Validator {
	return func(v any) error {
		if l, ok := length(v); ok && l > n {
			return fmt.Errorf("must have a length of at most %d", n)
		}
		return nil
	}
}

func length(v any) (int, bool) {
	switch x := v.(type) {
	case string:
		return len([]rune(x)), true
	case []string:
		return len(x), true
	case []float64:
		return len(x), true
	}
	return 0, false
}

// OneOf fails when a string (or any list element) is not in choices.
func OneOf(choices ...string) Validator {
	return func(v any) error {
		for _, s := range strs(v) {
			if !slices.Contains(choices, s) {
				return fmt.Errorf("must be one of %s", strings.Join(choices, ", "))
			}
		}
		return nil
	}
}

// Pattern fails when a string (or any list element) does not match re.
func Pattern(re *regexp.Regexp) Validator {
	return func(v any) error {
		for _, s := range strs(v) {
			if !re.MatchString(s) {
				return fmt.Errorf("must match %s", re.String())
			}
		}
		return nil
	}
}

// SemVer fails when a string is not a semantic version.
func SemVer() Validator {
	return func(v any) error {
		for _, s := range strs(v) {
			if _, err := semver.NewVersion(s); err != nil {
				return fmt.Errorf("must be a semantic version: %w", err)
			}
		}
		return nil
	}
}

// SemVerConstraint fails when a string is not a semantic version that
// satisfies constraint (e.g. ">= 1.2, < 2").
func SemVerConstraint(constraint string) (Validator, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	return func(v any) error {
		for _, s := range strs(v) {
			ver, err := semver.NewVersion(s)
			if err != nil {
				return fmt.Errorf("must be a semantic version: %w", err)
			}
			if !c.Check(ver) {
				return fmt.Errorf("must satisfy %s", constraint)
			}
		}
		return nil
	}, nil
}

// UUID fails when a string is not a UUID.
func UUID() Validator {
	return func(v any) error {
		for _, s := range strs(v) {
			if err := uuid.Validate(s); err != nil {
				return fmt.Errorf("must be a UUID")
			}
		}
		return nil
	}
}

// ParseValidator builds a validator from the compact spec strings used in
// schema files: "required", "min=N", "max=N", "minlen=N", "maxlen=N",
// "oneof=a|b|c", "pattern=RE", "semver", "semver=CONSTRAINT" and "uuid".
func ParseValidator(spec string) (Validator, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(spec), "=")
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "required":
		return Required(), nil
	case "min", "max":
		n, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return nil, fmt.Errorf("validator %q: invalid number %q", spec, arg)
		}
		if name == "min" {
			return Min(n), nil
		}
		return Max(n), nil
	case "minlen", "maxlen":
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return nil, fmt.Errorf("validator %q: invalid length %q", spec, arg)
		}
		if name == "minlen" {
			return MinLength(n), nil
		}
		return MaxLength(n), nil
	case "oneof":
		if !hasArg || arg == "" {
			return nil, fmt.Errorf("validator %q: missing choices", spec)
		}
		return OneOf(strings.Split(arg, "|")...), nil
	case "pattern":
		re, err := regexp.Compile(arg)
		if err != nil {
			return nil, fmt.Errorf("validator %q: %w", spec, err)
		}
		return Pattern(re), nil
	case "semver":
		if !hasArg {
			return SemVer(), nil
		}
		return SemVerConstraint(arg)
	case "uuid":
		return UUID(), nil
	}
	return nil, fmt.Errorf("unknown validator %q", spec)
}

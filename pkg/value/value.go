// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package value converts raw argument strings into typed values and runs
// validators against them.
//
// Converted values are always one of string, float64, bool, []string or
// []float64.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yeetrun/yparse/pkg/argerr"
)

// Type is the declared type of an option or positional.
type Type int

const (
	// Unknown means no type was declared.
	Unknown Type = iota
	String
	Number
	Boolean
	StringArray
	NumberArray
)

var typeNames = map[Type]string{
	Unknown:     "unknown",
	String:      "string",
	Number:      "number",
	Boolean:     "boolean",
	StringArray: "string[]",
	NumberArray: "number[]",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// IsArray reports whether t is a list type.
func (t Type) IsArray() bool {
	return t == StringArray || t == NumberArray
}

// Elem returns the element type of a list type, or t itself.
func (t Type) Elem() Type {
	switch t {
	case StringArray:
		return String
	case NumberArray:
		return Number
	}
	return t
}

// ParseType parses the names used in schema files ("string", "number",
// "boolean", "string[]", "number[]"). A few common spellings are accepted.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Unknown, nil
	case "string", "str":
		return String, nil
	case "number", "num", "float", "int":
		return Number, nil
	case "boolean", "bool":
		return Boolean, nil
	case "string[]", "strings", "[]string":
		return StringArray, nil
	case "number[]", "numbers", "[]number":
		return NumberArray, nil
	}
	return Unknown, fmt.Errorf("unknown value type %q", s)
}

// Coerce converts raw into a value of type t. name is only used in errors.
//
// Booleans never fail: "true" and "1" (any case) are true, anything else
// is false. List types split raw on ',' and trim each element.
func Coerce(name, raw string, t Type) (any, error) {
	switch t {
	case String, Unknown:
		return raw, nil
	case Number:
		f, ok := parseNumber(raw)
		if !ok {
			return nil, argerr.NewInvalidNumber(name, raw)
		}
		return f, nil
	case Boolean:
		return ParseBool(raw), nil
	case StringArray:
		parts := splitList(raw)
		return parts, nil
	case NumberArray:
		parts := splitList(raw)
		out := make([]float64, 0, len(parts))
		for _, p := range parts {
			f, ok := parseNumber(p)
			if !ok {
				return nil, argerr.NewInvalidArrayNumber(name, p)
			}
			out = append(out, f)
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot coerce to %v", t)
}

// CoerceElement converts a single list element without splitting. It is
// used for rest positionals that accumulate one token at a time.
func CoerceElement(name, raw string, t Type) (any, error) {
	switch t.Elem() {
	case Number:
		f, ok := parseNumber(raw)
		if !ok {
			return nil, argerr.NewInvalidArrayNumber(name, raw)
		}
		return f, nil
	case Boolean:
		return ParseBool(raw), nil
	}
	return raw, nil
}

// Append adds a coerced element or list to an existing list value of
// type t, returning the new list.
func Append(cur any, elem any, t Type) any {
	if t.Elem() == Number {
		list, _ := cur.([]float64)
		switch v := elem.(type) {
		case float64:
			return append(list, v)
		case []float64:
			return append(list, v...)
		}
		return list
	}
	list, _ := cur.([]string)
	switch v := elem.(type) {
	case string:
		return append(list, v)
	case []string:
		return append(list, v...)
	}
	return list
}

// ParseBool implements the lenient boolean rule.
func ParseBool(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	return s == "true" || s == "1"
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(f) {
		return 0, false
	}
	return f, true
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Normalize converts a default value as produced by Go code or a schema
// decoder into its canonical form and reports the Type it implies.
func Normalize(v any) (any, Type, error) {
	switch x := v.(type) {
	case nil:
		return nil, Unknown, nil
	case string:
		return x, String, nil
	case bool:
		return x, Boolean, nil
	case float64:
		if !finite(x) {
			return nil, Unknown, fmt.Errorf("non-finite number default %v", x)
		}
		return x, Number, nil
	case float32:
		return Normalize(float64(x))
	case int:
		return float64(x), Number, nil
	case int8:
		return float64(x), Number, nil
	case int16:
		return float64(x), Number, nil
	case int32:
		return float64(x), Number, nil
	case int64:
		return float64(x), Number, nil
	case uint:
		return float64(x), Number, nil
	case uint8:
		return float64(x), Number, nil
	case uint16:
		return float64(x), Number, nil
	case uint32:
		return float64(x), Number, nil
	case uint64:
		return float64(x), Number, nil
	case []string:
		return append([]string(nil), x...), StringArray, nil
	case []float64:
		for _, f := range x {
			if !finite(f) {
				return nil, Unknown, fmt.Errorf("non-finite number default %v", f)
			}
		}
		return append([]float64(nil), x...), NumberArray, nil
	case []int:
		out := make([]float64, len(x))
		for i, n := range x {
			out[i] = float64(n)
		}
		return out, NumberArray, nil
	case []any:
		return normalizeList(x)
	}
	return nil, Unknown, fmt.Errorf("unsupported default value of type %T", v)
}

func normalizeList(in []any) (any, Type, error) {
	if len(in) == 0 {
		return []string{}, StringArray, nil
	}
	_, first, err := Normalize(in[0])
	if err != nil {
		return nil, Unknown, err
	}
	switch first {
	case Number:
		out := make([]float64, 0, len(in))
		for _, e := range in {
			n, t, err := Normalize(e)
			if err != nil || t != Number {
				return nil, Unknown, fmt.Errorf("mixed list default: %v", in)
			}
			out = append(out, n.(float64))
		}
		return out, NumberArray, nil
	case String:
		out := make([]string, 0, len(in))
		for _, e := range in {
			s, ok := e.(string)
			if !ok {
				return nil, Unknown, fmt.Errorf("mixed list default: %v", in)
			}
			out = append(out, s)
		}
		return out, StringArray, nil
	}
	return nil, Unknown, fmt.Errorf("unsupported list default: %v", in)
}

// Conform converts an already normalized default to type t, so that a
// number default for a number[] definition becomes a one element list.
func Conform(v any, t Type) (any, error) {
	if v == nil || t == Unknown {
		return v, nil
	}
	switch t {
	case String:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	case Number:
		switch x := v.(type) {
		case float64:
			return x, nil
		case string:
			return Coerce("default", x, Number)
		}
	case Boolean:
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			return ParseBool(x), nil
		}
	case StringArray:
		switch x := v.(type) {
		case []string:
			return x, nil
		case string:
			return splitList(x), nil
		}
	case NumberArray:
		switch x := v.(type) {
		case []float64:
			return x, nil
		case float64:
			return []float64{x}, nil
		case string:
			return Coerce("default", x, NumberArray)
		}
	}
	return nil, fmt.Errorf("default %v does not fit type %v", v, t)
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Result maps definition names to resolved values in declaration order:
// options, then positionals, then one entry per subcommand. A subcommand
// entry holds the child *Result when selected and a nil *Result otherwise.
//
// Values are string, float64, bool, []string, []float64 or nil.
type Result struct {
	m *orderedmap.OrderedMap[string, any]
}

func newResult() *Result {
	return &Result{m: orderedmap.New[string, any]()}
}

func (r *Result) set(name string, v any) {
	r.m.Set(name, v)
}

// Lookup returns the value stored under name and whether the name is
// defined at this level.
func (r *Result) Lookup(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	return r.m.Get(name)
}

// Get returns the value stored under name, or nil.
func (r *Result) Get(name string) any {
	v, _ := r.Lookup(name)
	return v
}

func (r *Result) String(name string) string {
	s, _ := r.Get(name).(string)
	return s
}

func (r *Result) Number(name string) float64 {
	f, _ := r.Get(name).(float64)
	return f
}

func (r *Result) Bool(name string) bool {
	b, _ := r.Get(name).(bool)
	return b
}

func (r *Result) Strings(name string) []string {
	s, _ := r.Get(name).([]string)
	return s
}

func (r *Result) Numbers(name string) []float64 {
	f, _ := r.Get(name).([]float64)
	return f
}

// Sub returns the result of the subcommand called name, or nil when that
// subcommand was not selected.
func (r *Result) Sub(name string) *Result {
	sub, _ := r.Get(name).(*Result)
	return sub
}

// Command returns the selected subcommand at this level, if any.
func (r *Result) Command() (string, *Result) {
	if r == nil {
		return "", nil
	}
	for pair := r.m.Oldest(); pair != nil; pair = pair.Next() {
		if sub, ok := pair.Value.(*Result); ok && sub != nil {
			return pair.Key, sub
		}
	}
	return "", nil
}

// Keys returns the defined names in order.
func (r *Result) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, 0, r.m.Len())
	for pair := r.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return r.m.Len()
}

// Map returns the result as plain nested maps. Unselected subcommands map
// to an untyped nil.
func (r *Result) Map() map[string]any {
	if r == nil {
		return nil
	}
	out := make(map[string]any, r.m.Len())
	for pair := r.m.Oldest(); pair != nil; pair = pair.Next() {
		if sub, ok := pair.Value.(*Result); ok {
			if sub == nil {
				out[pair.Key] = nil
			} else {
				out[pair.Key] = sub.Map()
			}
			continue
		}
		out[pair.Key] = pair.Value
	}
	return out
}

// MarshalJSON encodes the result as a JSON object in declaration order.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	return r.m.MarshalJSON()
}

// MarshalYAML encodes the result as a YAML mapping in declaration order.
func (r *Result) MarshalYAML() (any, error) {
	if r == nil {
		return nil, nil
	}
	n := &yaml.Node{Kind: yaml.MappingNode}
	for pair := r.m.Oldest(); pair != nil; pair = pair.Next() {
		var v yaml.Node
		if err := v.Encode(pair.Value); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: pair.Key}, &v)
	}
	return n, nil
}

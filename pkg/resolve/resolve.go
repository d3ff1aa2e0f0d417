// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve resolves a command line against a schema.
//
// Parse makes a single left-to-right pass over the tokens of one command
// level, filling a Result that starts out holding every default. When a
// subcommand name is seen, the remaining tokens are resolved against the
// subcommand's schema and the parent level stops.
//
// Errors and help requests leave Parse through the policy of the level
// that detected them: a registered handler, process exit, or an in-band
// *argerr.Error or *HelpRequest. A schema that fails its construction
// checks is reported as a *schema.ConfigError and is never routed.
//
// Parse keeps no state between calls and never modifies the schema, so a
// schema may be shared by concurrent parses.
package resolve

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/shlex"
	"github.com/yeetrun/yparse/pkg/argerr"
	"github.com/yeetrun/yparse/pkg/help"
	"github.com/yeetrun/yparse/pkg/policy"
	"github.com/yeetrun/yparse/pkg/schema"
	"github.com/yeetrun/yparse/pkg/token"
	"github.com/yeetrun/yparse/pkg/value"
)

// ErrHelp matches every *HelpRequest with errors.Is.
var ErrHelp = errors.New("help requested")

// HelpRequest reports that help was asked for at one command level.
type HelpRequest struct {
	// Path is the command path of the level, starting with the root name.
	Path []string
	// Schema is the schema of that level.
	Schema *schema.Schema
}

func (h *HelpRequest) Error() string {
	return "help requested for " + strings.Join(h.Path, " ")
}

func (h *HelpRequest) Is(target error) bool {
	return target == ErrHelp
}

// Option configures a Parse call.
type Option func(*config)

type config struct {
	policy   policy.Policy
	inBand   bool
	renderer func(*HelpRequest) string
}

// WithPolicy sets the policy the root schema's own policy is merged onto.
// Without it the root inherits the zero Policy, which exits on errors and
// on help.
func WithPolicy(p policy.Policy) Option {
	return func(c *config) { c.policy = p }
}

// ForceInBand returns every error and help request to the caller,
// ignoring handlers and exit settings at every level.
func ForceInBand() Option {
	return func(c *config) { c.inBand = true }
}

// WithRenderer replaces the help renderer used when a policy needs help
// text.
func WithRenderer(fn func(*HelpRequest) string) Option {
	return func(c *config) { c.renderer = fn }
}

func defaultRenderer(req *HelpRequest) string {
	return help.Render(req.Path, req.Schema)
}

// Parse resolves args against s.
//
// On success it returns the Result. Otherwise the returned error is one
// of *schema.ConfigError, *argerr.Error, *HelpRequest or policy.ErrHandled,
// depending on the schema and the policy in effect.
func Parse(s *schema.Schema, args []string, opts ...Option) (*Result, error) {
	cfg := &config{renderer: defaultRenderer}
	for _, o := range opts {
		o(cfg)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	res, err := parseLevel(cfg, s, []string{s.Name}, cfg.policy, token.Tokenize(args))
	if err == nil {
		return res, nil
	}
	var le *levelError
	if !errors.As(err, &le) {
		return nil, err
	}
	return nil, cfg.route(le)
}

// ParseLine splits line like a POSIX shell and resolves the words against s.
func ParseLine(s *schema.Schema, line string, opts ...Option) (*Result, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("failed to split command line: %w", err)
	}
	return Parse(s, args, opts...)
}

func (c *config) route(le *levelError) error {
	switch e := le.err.(type) {
	case *HelpRequest:
		if c.inBand {
			return e
		}
		return le.policy.RouteHelp(e, func() string { return c.renderer(e) })
	case *argerr.Error:
		if c.inBand {
			return e
		}
		return le.policy.RouteError(e)
	}
	return le.err
}

// levelError carries an unrouted condition up to Parse together with the
// policy of the level that raised it.
type levelError struct {
	err    error
	policy policy.Policy
}

func (e *levelError) Error() string { return e.err.Error() }
func (e *levelError) Unwrap() error { return e.err }

// level is the parse state of one command level.
type level struct {
	cfg    *config
	s      *schema.Schema
	path   []string
	policy policy.Policy

	toks []token.Token
	pos  int

	res   *Result
	types map[string]value.Type
	seen  map[string]bool // options set on the command line

	slots    []*schema.Positional
	raw      *schema.Positional
	cursor   int
	consumed int
	sawSep   bool
}

func parseLevel(cfg *config, s *schema.Schema, path []string, parent policy.Policy, toks []token.Token) (*Result, error) {
	l := &level{
		cfg:    cfg,
		s:      s,
		path:   path,
		policy: policy.Merge(parent, s.Policy),
		toks:   toks,
		res:    newResult(),
		types:  map[string]value.Type{},
		seen:   map[string]bool{},
		slots:  s.Slots(),
	}
	l.raw, _ = s.RawCapture()

	if err := l.seed(); err != nil {
		return nil, err
	}
	if len(toks) == 0 && s.DefaultCommand != "" {
		if s.DefaultCommand == schema.HelpCommand {
			return nil, l.fail(l.helpRequest())
		}
		sc, _ := s.SubCommand(s.DefaultCommand)
		if err := l.dispatch(sc); err != nil {
			return nil, err
		}
	}
	for l.pos < len(l.toks) {
		if err := l.step(l.toks[l.pos]); err != nil {
			return nil, err
		}
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return l.res, nil
}

func (l *level) fail(err error) error {
	var ae *argerr.Error
	if errors.As(err, &ae) && ae.Path == nil {
		ae.Path = l.path
		for _, r := range ae.Context.Related {
			r.Path = l.path
		}
	}
	return &levelError{err: err, policy: l.policy}
}

func (l *level) helpRequest() *HelpRequest {
	return &HelpRequest{Path: l.path, Schema: l.s}
}

// seed records the effective type of every definition and stores its
// default, or nil.
func (l *level) seed() error {
	for _, o := range l.s.Options {
		v, t, err := l.resolveDefault(o.Name, o.Type, o.Default)
		if err != nil {
			return err
		}
		l.types[o.Name] = t
		l.res.set(o.Name, v)
	}
	for _, p := range l.s.Positionals {
		typ := p.Type
		switch {
		case p.RawCapture:
			typ = value.StringArray
		case p.Rest:
			typ = listOf(typ)
		}
		v, t, err := l.resolveDefault(p.Name, typ, p.Default)
		if err != nil {
			return err
		}
		if p.Rest {
			t = listOf(t)
			if v, err = value.Conform(v, t); err != nil {
				return &schema.ConfigError{Schema: l.s.Name, Msg: fmt.Sprintf("%s: %v", p.Name, err)}
			}
		}
		l.types[p.Name] = t
		l.res.set(p.Name, v)
	}
	for _, sc := range l.s.SubCommands {
		l.res.set(sc.Name, (*Result)(nil))
	}
	return nil
}

func (l *level) resolveDefault(name string, t value.Type, def any) (any, value.Type, error) {
	v, inferred, err := value.Normalize(def)
	if err != nil {
		return nil, t, &schema.ConfigError{Schema: l.s.Name, Msg: fmt.Sprintf("%s: %v", name, err)}
	}
	if t == value.Unknown {
		if v == nil {
			return nil, t, l.fail(argerr.NewMissingType(name, l.s.Name))
		}
		t = inferred
	}
	v, err = value.Conform(v, t)
	if err != nil {
		return nil, t, &schema.ConfigError{Schema: l.s.Name, Msg: fmt.Sprintf("%s: %v", name, err)}
	}
	return v, t, nil
}

func listOf(t value.Type) value.Type {
	switch t {
	case value.String:
		return value.StringArray
	case value.Number:
		return value.NumberArray
	}
	return t
}

func (l *level) step(tok token.Token) error {
	switch tok.Kind {
	case token.Separator:
		l.sawSep = true
		l.pos++
		return nil
	case token.LongFlag:
		return l.longFlag(tok)
	case token.ShortCluster:
		return l.shortCluster(tok)
	}
	return l.positional(tok)
}

// helpAllowed reports whether a help token is a request for help rather
// than text for the raw capture slot.
func (l *level) helpAllowed() bool {
	return l.raw == nil || l.consumed == 0
}

// rawReady reports whether an unknown flag may start raw capture: a raw
// slot exists and every positional before any rest slot has been filled.
func (l *level) rawReady() bool {
	if l.raw == nil {
		return false
	}
	return l.cursor >= len(l.slots) || l.slots[l.cursor].Rest
}

func (l *level) onHelp() error {
	if l.helpAllowed() {
		return l.fail(l.helpRequest())
	}
	l.capture()
	return nil
}

func (l *level) longFlag(tok token.Token) error {
	if tok.Name == "help" {
		return l.onHelp()
	}
	o, ok := l.s.OptionByName(tok.Name)
	if !ok {
		if l.rawReady() {
			l.capture()
			return nil
		}
		var suggestion string
		if s := suggest(tok.Name, l.optionNames()); s != "" {
			suggestion = "--" + s
		}
		return l.fail(argerr.NewUnknownArgument(tok.Raw, suggestion))
	}
	l.pos++
	return l.setOption(o, tok)
}

func (l *level) shortCluster(tok token.Token) error {
	chars := []rune(tok.Name)
	if slices.Contains(chars, 'h') {
		return l.onHelp()
	}
	if len(chars) == 1 {
		o, ok := l.s.OptionByShort(chars[0])
		if ok {
			l.pos++
			return l.setOption(o, tok)
		}
	}
	if len(chars) <= 1 {
		if l.rawReady() {
			l.capture()
			return nil
		}
		return l.fail(argerr.NewUnknownArgument(tok.Raw, ""))
	}
	return l.bundle(tok, chars)
}

// bundle sets every boolean option named in a cluster such as -abc.
func (l *level) bundle(tok token.Token, chars []rune) error {
	var errs []*argerr.Error
	opts := make([]*schema.Option, 0, len(chars))
	for _, c := range chars {
		o, ok := l.s.OptionByShort(c)
		switch {
		case !ok:
			errs = append(errs, argerr.NewUnknownArgument("-"+string(c), ""))
		case l.types[o.Name] != value.Boolean:
			errs = append(errs, argerr.NewNotBoolean(c, o.Name))
		default:
			opts = append(opts, o)
		}
	}
	if len(errs) > 0 {
		if l.raw != nil {
			l.capture()
			return nil
		}
		first := errs[0]
		first.Context.Related = errs[1:]
		return l.fail(first)
	}
	for i, o := range opts {
		v := true
		if i == len(opts)-1 && tok.HasValue {
			v = value.ParseBool(tok.Value)
		}
		l.res.set(o.Name, v)
		l.seen[o.Name] = true
	}
	l.pos++
	return nil
}

// setOption stores the value for o. tok has already been consumed; a
// value in the following token is consumed here.
func (l *level) setOption(o *schema.Option, tok token.Token) error {
	t := l.types[o.Name]
	var raw string
	switch {
	case tok.HasValue:
		raw = tok.Value
	case t == value.Boolean:
		l.res.set(o.Name, true)
		l.seen[o.Name] = true
		return nil
	default:
		if l.pos >= len(l.toks) || l.toks[l.pos].Kind == token.Separator {
			return l.fail(argerr.NewMissingValue(o.Name))
		}
		raw = l.toks[l.pos].Raw
		l.pos++
	}
	v, err := value.Coerce(o.Name, raw, t)
	if err != nil {
		return l.fail(err)
	}
	if t.IsArray() && l.seen[o.Name] {
		v = value.Append(l.res.Get(o.Name), v, t)
	}
	l.res.set(o.Name, v)
	l.seen[o.Name] = true
	return nil
}

func (l *level) positional(tok token.Token) error {
	if !l.sawSep {
		if sc, ok := l.s.SubCommand(tok.Raw); ok {
			l.pos++
			return l.dispatch(sc)
		}
	}
	if l.cursor < len(l.slots) {
		slot := l.slots[l.cursor]
		if slot.Rest {
			return l.rest(slot)
		}
		v, err := value.Coerce(slot.Name, tok.Raw, l.types[slot.Name])
		if err != nil {
			return l.fail(err)
		}
		l.res.set(slot.Name, v)
		l.cursor++
		l.consumed++
		l.pos++
		return nil
	}
	if l.raw != nil {
		l.capture()
		return nil
	}
	return l.fail(argerr.NewUnknownArgument(tok.Raw, suggest(tok.Raw, l.s.SubCommandNames())))
}

// rest fills slot with positional tokens until a flag or the end of the
// stream. No positional slot follows a rest slot.
func (l *level) rest(slot *schema.Positional) error {
	t := l.types[slot.Name]
	var cur any
	if t == value.NumberArray {
		cur = []float64{}
	} else {
		cur = []string{}
	}
	for ; l.pos < len(l.toks); l.pos++ {
		tok := l.toks[l.pos]
		if tok.Kind == token.Separator {
			l.sawSep = true
			continue
		}
		if tok.Kind != token.Positional {
			break
		}
		elem, err := value.CoerceElement(slot.Name, tok.Raw, t)
		if err != nil {
			return l.fail(err)
		}
		cur = value.Append(cur, elem, t)
		l.consumed++
	}
	l.res.set(slot.Name, cur)
	l.cursor = len(l.slots)
	return nil
}

// capture moves every remaining token, verbatim, into the raw capture slot.
func (l *level) capture() {
	out := make([]string, 0, len(l.toks)-l.pos)
	for ; l.pos < len(l.toks); l.pos++ {
		out = append(out, l.toks[l.pos].Raw)
	}
	l.res.set(l.raw.Name, out)
}

// dispatch resolves the remaining tokens against sc and ends this level's
// token pass.
func (l *level) dispatch(sc *schema.SubCommand) error {
	path := append(slices.Clone(l.path), sc.Name)
	child, err := parseLevel(l.cfg, sc.Schema, path, l.policy, l.toks[l.pos:])
	if err != nil {
		return err
	}
	l.res.set(sc.Name, child)
	l.pos = len(l.toks)
	return nil
}

// validate runs the validators of every option, then every positional.
func (l *level) validate() error {
	for _, o := range l.s.Options {
		if err := l.check(o.Name, o.Validators); err != nil {
			return err
		}
	}
	for _, p := range l.s.Positionals {
		if err := l.check(p.Name, p.Validators); err != nil {
			return err
		}
	}
	return nil
}

func (l *level) check(name string, validators []value.Validator) error {
	err := value.Validate(l.res.Get(name), validators)
	if err == nil {
		return nil
	}
	if errors.Is(err, value.ErrRequired) {
		return l.fail(argerr.NewMissingRequired(name, err))
	}
	return l.fail(argerr.NewValidation(name, err))
}

func (l *level) optionNames() []string {
	names := make([]string, 0, len(l.s.Options))
	for _, o := range l.s.Options {
		if !o.Hidden {
			names = append(names, o.Name)
		}
	}
	return names
}

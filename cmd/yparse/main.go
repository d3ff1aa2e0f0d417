// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command yparse resolves command lines against a schema file and prints
// the result.
//
//	yparse --schema app.yaml -- --port 3000 build
//	yparse --schema app.toml --batch lines.txt --format yaml
//	yparse --schema app.yaml --serve 127.0.0.1:7070
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/shayne/yargs"
	"github.com/yeetrun/yparse/pkg/argerr"
	"github.com/yeetrun/yparse/pkg/console"
	"github.com/yeetrun/yparse/pkg/consolerpc"
	"github.com/yeetrun/yparse/pkg/env"
	"github.com/yeetrun/yparse/pkg/help"
	"github.com/yeetrun/yparse/pkg/policy"
	"github.com/yeetrun/yparse/pkg/resolve"
	"github.com/yeetrun/yparse/pkg/schema"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

type flagsParsed struct {
	Schema  string `flag:"schema" help:"Schema file (.yaml, .yml, .json or .toml)"`
	Format  string `flag:"format" help:"Output format (json|yaml|env)"`
	Prefix  string `flag:"prefix" help:"Variable prefix for --format env and --env-file"`
	EnvFile string `flag:"env-file" help:"Also write the result as shell assignments to FILE"`
	Batch   string `flag:"batch" help:"Parse every non-empty line of FILE"`
	Serve   string `flag:"serve" help:"Serve the parse console on ADDR"`
	Workers int    `flag:"workers" help:"Concurrent parses in batch mode"`
}

const usage = `usage: yparse --schema FILE [--format json|yaml|env] [--env-file FILE] [--batch FILE [--workers N] | --serve ADDR] [-- ARGS...]`

// formatEnv prints shell assignments. Single parses only.
const formatEnv = "env"

func main() {
	log.SetFlags(0)
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, policy.Policy{}); err != nil {
		log.Fatal(err)
	}
}

// run is main without the process exit. p is the policy for single parses;
// batch and serve modes are always in-band.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, p policy.Policy) error {
	result, err := yargs.ParseKnownFlags[flagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return err
	}
	flags := result.Flags
	if flags.Schema == "" {
		return errors.New(usage)
	}
	switch flags.Format {
	case "":
		flags.Format = schema.FormatJSON
	case schema.FormatJSON, schema.FormatYAML:
	case formatEnv:
		if flags.Batch != "" {
			return errors.New("--format env does not support --batch")
		}
	default:
		return fmt.Errorf("unsupported format %q", flags.Format)
	}
	if flags.EnvFile != "" && (flags.Batch != "" || flags.Serve != "") {
		return errors.New("--env-file only applies to single parses")
	}
	s, err := schema.Load(flags.Schema)
	if err != nil {
		return err
	}

	switch {
	case flags.Serve != "":
		srv, err := console.NewServer(s)
		if err != nil {
			return err
		}
		log.Printf("serving %s console on %s", s.Name, flags.Serve)
		return http.ListenAndServe(flags.Serve, srv.Mux())
	case flags.Batch != "":
		workers := flags.Workers
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		return runBatch(ctx, s, flags.Batch, workers, flags.Format, stdout)
	}

	p = policy.Merge(p, policy.Policy{Stdout: stdout, Stderr: stderr})
	res, err := resolve.Parse(s, engineArgs(result.RemainingArgs), resolve.WithPolicy(p))
	if errors.Is(err, policy.ErrHandled) {
		return nil
	}
	if err != nil {
		return err
	}
	if flags.EnvFile != "" {
		if err := env.Write(flags.EnvFile, flags.Prefix, res); err != nil {
			return err
		}
	}
	if flags.Format == formatEnv {
		return env.Marshal(stdout, flags.Prefix, res)
	}
	return encode(stdout, flags.Format, res)
}

// engineArgs drops a leading "--", which ends yparse's own flags. A later
// "--" belongs to the parsed command line.
func engineArgs(remaining []string) []string {
	if len(remaining) > 0 && remaining[0] == "--" {
		return slices.Clone(remaining[1:])
	}
	return remaining
}

func encode(w io.Writer, format string, v any) error {
	if format == schema.FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// batchEntry is the outcome of one batch line. Exactly one of Result,
// Help, Error and Fault is set.
type batchEntry struct {
	Line   string           `json:"line" yaml:"line"`
	Result *resolve.Result  `json:"result,omitempty" yaml:"result,omitempty"`
	Help   *consolerpc.Help `json:"help,omitempty" yaml:"help,omitempty"`
	Error  *argerr.Error    `json:"error,omitempty" yaml:"error,omitempty"`
	Fault  string           `json:"fault,omitempty" yaml:"fault,omitempty"`
}

func newBatchEntry(line string, res *resolve.Result, err error) batchEntry {
	e := batchEntry{Line: line, Result: res}
	if err == nil {
		return e
	}
	var hr *resolve.HelpRequest
	var ae *argerr.Error
	switch {
	case errors.As(err, &hr):
		e.Help = &consolerpc.Help{Path: hr.Path, Text: help.Render(hr.Path, hr.Schema)}
	case errors.As(err, &ae):
		e.Error = ae
	default:
		e.Fault = err.Error()
	}
	return e
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

// runBatch parses every line of path concurrently and writes one entry per
// line, in file order.
func runBatch(ctx context.Context, s *schema.Schema, path string, workers int, format string, w io.Writer) error {
	lines, err := readLines(path)
	if err != nil {
		return err
	}
	entries := make([]batchEntry, len(lines))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, line := range lines {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := resolve.ParseLine(s, line, resolve.ForceInBand())
			entries[i] = newBatchEntry(line, res, err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if format == schema.FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, e := range entries {
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

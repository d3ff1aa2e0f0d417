// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package help

import (
	"strings"
	"testing"

	"github.com/yeetrun/yparse/pkg/schema"
	"github.com/yeetrun/yparse/pkg/value"
)

func testSchema() *schema.Schema {
	build := schema.New("build").Describe("Build the project").MustBuild()
	secret := schema.New("secret").MustBuild()
	return schema.New("app").
		Describe("Deploys things").
		Option(schema.Option{Name: "port", Short: 'p', Type: value.Number, Default: 8080.0, Description: "Port to listen on"}).
		Flag("debug", 0, "Enable debug output").
		Option(schema.Option{Name: "token", Type: value.String, Hidden: true}).
		Positional(schema.Positional{Name: "target", Type: value.String, Description: "Deploy target"}).
		RawCapture("args", "Arguments for the target").
		Command("build", "Build the project", build, "b").
		Command("secret", "", secret).
		Command("zap", "Remove everything", schema.New("zap").MustBuild()).
		Example("app --port 3000 prod").
		MustBuild()
}

func TestRender(t *testing.T) {
	s := testSchema()
	s.SubCommands[1].Hidden = true
	out := Render([]string{"app"}, s)

	for _, want := range []string{
		"app - Deploys things\n",
		"USAGE:\n    app [OPTIONS] [COMMAND] <TARGET> [ARGS...]\n",
		"    build        Build the project (alias: b)\n",
		"    zap          Remove everything\n",
		"    TARGET               Deploy target\n",
		"    -p, --port <number>      Port to listen on (default: 8080)\n",
		"        --debug              Enable debug output\n",
		"    -h, --help               Show this help message\n",
		"EXAMPLES:\n    app --port 3000 prod\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q\n--- got ---\n%s", want, out)
		}
	}
	if strings.Contains(out, "secret") || strings.Contains(out, "token") {
		t.Errorf("Render() shows hidden entries:\n%s", out)
	}
	if strings.Index(out, "build") > strings.Index(out, "zap") {
		t.Errorf("commands not sorted:\n%s", out)
	}
}

func TestRenderSubcommandPath(t *testing.T) {
	s := testSchema()
	build, _ := s.SubCommand("build")
	out := Render([]string{"app", "build"}, build.Schema)
	if !strings.HasPrefix(out, "app build - Build the project\n") {
		t.Fatalf("Render() = %q", out)
	}
	if strings.Contains(out, "--port") {
		t.Fatalf("subcommand help shows parent options:\n%s", out)
	}
}

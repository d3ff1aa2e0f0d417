// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log"
	"net/http"

	"github.com/yeetrun/yparse/pkg/console"
	"github.com/yeetrun/yparse/pkg/schema"
	"github.com/yeetrun/yparse/pkg/value"
)

func main() {
	deploy := schema.New("deploy").
		Option(schema.Option{Name: "env", Short: 'e', Type: value.String, Default: "staging",
			Validators: []value.Validator{value.OneOf("staging", "prod")}}).
		Positional(schema.Positional{Name: "version", Type: value.String,
			Validators: []value.Validator{value.Required(), value.SemVer()}}).
		MustBuild()
	s := schema.New("ops").
		Command("deploy", "Deploy a release", deploy, "d").
		Default(schema.HelpCommand).
		MustBuild()

	srv, err := console.NewServer(s)
	if err != nil {
		log.Fatal(err)
	}
	log.Fatal(http.ListenAndServe(":8080", srv.Mux()))
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/yeetrun/yparse/pkg/policy"
	"github.com/yeetrun/yparse/pkg/resolve"
	"github.com/yeetrun/yparse/pkg/schema"
	"github.com/yeetrun/yparse/pkg/value"
)

var helloSchema = schema.New("helloworld").
	Describe("Greets people").
	Option(schema.Option{Name: "greeting", Short: 'g', Type: value.String, Default: "Hello"}).
	Option(schema.Option{Name: "times", Short: 'n', Type: value.Number, Default: 1, Validators: []value.Validator{value.Min(1), value.Max(10)}}).
	Flag("shout", 's', "Print in upper case").
	Rest("names", value.String, "Who to greet").
	Example("helloworld -s -n 2 alice bob").
	MustBuild()

func main() {
	// The zero policy prints errors and help, then exits.
	if err := run(helloSchema, os.Args[1:], os.Stdout, policy.Policy{}); err != nil {
		log.Fatal(err)
	}
}

func run(s *schema.Schema, args []string, w io.Writer, p policy.Policy) error {
	res, err := resolve.Parse(s, args, resolve.WithPolicy(p))
	if errors.Is(err, policy.ErrHandled) {
		return nil
	}
	if err != nil {
		return err
	}
	names := res.Strings("names")
	if len(names) == 0 {
		names = []string{"World"}
	}
	for range int(res.Number("times")) {
		msg := fmt.Sprintf("%s, %s!", res.String("greeting"), strings.Join(names, " and "))
		if res.Bool("shout") {
			msg = strings.ToUpper(msg)
		}
		fmt.Fprintln(w, msg)
	}
	return nil
}

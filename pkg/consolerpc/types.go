// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package consolerpc holds the wire types of the parse console and a client
// for it.
package consolerpc

import (
	"encoding/json"

	"github.com/yeetrun/yparse/pkg/argerr"
)

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const (
	ErrParseError     = -32700
	ErrInvalidRequest = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603
)

// Methods served on /rpc.
const (
	MethodParse  = "console.Parse"
	MethodSchema = "console.Schema"
)

// ParseRequest asks the console to resolve a command line. Exactly one of
// Args and Line is used; Args wins when both are set.
type ParseRequest struct {
	Args []string `json:"args,omitempty"`
	Line string   `json:"line,omitempty"`
}

// Reply is the outcome of one parse. Exactly one field is set.
type Reply struct {
	// Result is the resolved values as a JSON object in declaration order.
	Result json.RawMessage `json:"result,omitempty"`
	Help   *Help           `json:"help,omitempty"`
	Error  *argerr.Error   `json:"error,omitempty"`
	// Fault is set when the line could not be split into words.
	Fault string `json:"fault,omitempty"`
}

// Help is a help request together with its rendered text.
type Help struct {
	Path []string `json:"path"`
	Text string   `json:"text"`
}

// SchemaInfo describes the schema the console serves.
type SchemaInfo struct {
	Name     string   `json:"name"`
	Commands []string `json:"commands,omitempty"`
	Help     string   `json:"help"`
}

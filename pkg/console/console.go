// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package console serves a schema over HTTP so remote callers can resolve
// command lines against it. Every parse is in-band: errors and help come
// back in the reply and never stop the server.
package console

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeetrun/yparse/pkg/argerr"
	"github.com/yeetrun/yparse/pkg/consolerpc"
	"github.com/yeetrun/yparse/pkg/help"
	"github.com/yeetrun/yparse/pkg/resolve"
	"github.com/yeetrun/yparse/pkg/schema"
)

var rpcUpgrader = websocket.Upgrader{
	ReadBufferSize:  16 * 1024,
	WriteBufferSize: 16 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server resolves command lines against one schema. It is safe for
// concurrent use.
type Server struct {
	schema *schema.Schema
}

// NewServer validates s and returns a Server for it.
func NewServer(s *schema.Schema) (*Server, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Server{schema: s}, nil
}

// Mux returns the handler that serves JSON-RPC on /rpc and line sessions
// on /rpc/session.
func (s *Server) Mux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/rpc", s.handleRPC)
	mux.HandleFunc("/rpc/session", s.handleSessionWS)
	return mux
}

func writeRPCResponse(w http.ResponseWriter, resp consolerpc.Response) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeRPCError(w http.ResponseWriter, id json.RawMessage, code int, msg string, data any) {
	resp := consolerpc.Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &consolerpc.Error{
			Code:    code,
			Message: msg,
			Data:    data,
		},
	}
	writeRPCResponse(w, resp)
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.Body == nil {
		writeRPCError(w, []byte("null"), consolerpc.ErrInvalidRequest, "empty body", nil)
		return
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var req consolerpc.Request
	if err := dec.Decode(&req); err != nil {
		writeRPCError(w, []byte("null"), consolerpc.ErrParseError, "parse error", err.Error())
		return
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		writeRPCError(w, req.ID, consolerpc.ErrInvalidRequest, "invalid request", nil)
		return
	}
	if len(req.ID) == 0 {
		return // notification
	}

	switch req.Method {
	case consolerpc.MethodParse:
		if len(req.Params) == 0 {
			writeRPCError(w, req.ID, consolerpc.ErrInvalidParams, "missing params", nil)
			return
		}
		var params consolerpc.ParseRequest
		if err := json.Unmarshal(req.Params, &params); err != nil {
			writeRPCError(w, req.ID, consolerpc.ErrInvalidParams, "invalid params", err.Error())
			return
		}
		var reply consolerpc.Reply
		if params.Args != nil {
			reply = s.parse(params.Args)
		} else {
			reply = s.parseLine(params.Line)
		}
		writeRPCResponse(w, consolerpc.Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  reply,
		})
	case consolerpc.MethodSchema:
		writeRPCResponse(w, consolerpc.Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: consolerpc.SchemaInfo{
				Name:     s.schema.Name,
				Commands: s.schema.SubCommandNames(),
				Help:     help.Render([]string{s.schema.Name}, s.schema),
			},
		})
	default:
		writeRPCError(w, req.ID, consolerpc.ErrMethodNotFound, "method not found", req.Method)
	}
}

// handleSessionWS answers every text message, a command line, with one
// Reply until the client goes away.
func (s *Server) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	conn, err := rpcUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("console session read failed: %v", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(s.parseLine(string(msg))); err != nil {
			if !errors.Is(err, websocket.ErrCloseSent) {
				log.Printf("console session write failed: %v", err)
			}
			return
		}
	}
}

func (s *Server) parseLine(line string) consolerpc.Reply {
	res, err := resolve.ParseLine(s.schema, line, resolve.ForceInBand())
	return s.reply(res, err)
}

func (s *Server) parse(args []string) consolerpc.Reply {
	res, err := resolve.Parse(s.schema, args, resolve.ForceInBand())
	return s.reply(res, err)
}

func (s *Server) reply(res *resolve.Result, err error) consolerpc.Reply {
	if err == nil {
		b, err := res.MarshalJSON()
		if err != nil {
			return consolerpc.Reply{Fault: err.Error()}
		}
		return consolerpc.Reply{Result: b}
	}
	var hr *resolve.HelpRequest
	if errors.As(err, &hr) {
		return consolerpc.Reply{Help: &consolerpc.Help{
			Path: hr.Path,
			Text: help.Render(hr.Path, hr.Schema),
		}}
	}
	var ae *argerr.Error
	if errors.As(err, &ae) {
		return consolerpc.Reply{Error: ae}
	}
	return consolerpc.Reply{Fault: err.Error()}
}

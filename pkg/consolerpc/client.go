// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package consolerpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

type Client struct {
	baseURL string
	wsURL   string

	httpClient *http.Client
	wsDialer   *websocket.Dialer

	nextID uint64
}

func NewClient(host string, port int) *Client {
	base := fmt.Sprintf("http://%s:%d", host, port)
	ws := fmt.Sprintf("ws://%s:%d", host, port)
	return &Client{
		baseURL: base,
		wsURL:   ws,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		wsDialer: websocket.DefaultDialer,
	}
}

// rawResponse keeps the result bytes as sent so object key order survives.
type rawResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

func (c *Client) Call(ctx context.Context, method string, params any, out any) error {
	req := Request{
		JSONRPC: "2.0",
		Method:  method,
		ID:      []byte(fmt.Sprintf("%d", atomic.AddUint64(&c.nextID, 1))),
	}
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return err
		}
		req.Params = b
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rpc", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("rpc status %d: %s", resp.StatusCode, bytes.TrimSpace(b))
	}
	var rpcResp rawResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return err
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if out == nil || len(rpcResp.Result) == 0 {
		return nil
	}
	return json.Unmarshal(rpcResp.Result, out)
}

// Parse resolves args on the console.
func (c *Client) Parse(ctx context.Context, args []string) (*Reply, error) {
	var reply Reply
	if err := c.Call(ctx, MethodParse, ParseRequest{Args: args}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// ParseLine resolves a shell-quoted command line on the console.
func (c *Client) ParseLine(ctx context.Context, line string) (*Reply, error) {
	var reply Reply
	if err := c.Call(ctx, MethodParse, ParseRequest{Line: line}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *Client) Schema(ctx context.Context) (*SchemaInfo, error) {
	var info SchemaInfo
	if err := c.Call(ctx, MethodSchema, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Session is an interactive console connection. Each Send is answered by
// exactly one Reply, in order. A Session is not safe for concurrent use.
type Session struct {
	conn *websocket.Conn
}

func (c *Client) Session(ctx context.Context) (*Session, error) {
	conn, _, err := c.wsDialer.DialContext(ctx, c.wsURL+"/rpc/session", nil)
	if err != nil {
		return nil, err
	}
	return &Session{conn: conn}, nil
}

// Send parses one command line and waits for its reply.
func (s *Session) Send(line string) (*Reply, error) {
	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
		return nil, err
	}
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	var reply Reply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (s *Session) Close() error {
	_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(2*time.Second))
	return s.conn.Close()
}

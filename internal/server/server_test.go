package server

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/imgbuf/internal/config"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestNew(t *testing.T) {
	s := newServer(t)
	assert.NotNil(t, s.cache)
	assert.Equal(t, 1<<20, s.maxRequest)
}

func TestNew_BadFormat(t *testing.T) {
	cfg := &config.Config{}
	cfg.Output.Format = "webp"
	cfg.Server.MaxRequestBytes = 1024

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{"string id", `{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`, "test-1", "tools/list"},
		{"number id", `{"jsonrpc":"2.0","id":42,"method":"ping"}`, float64(42), "ping"},
		{"null id", `{"jsonrpc":"2.0","id":null,"method":"initialize"}`, nil, "initialize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			require.NoError(t, json.Unmarshal([]byte(tt.json), &req))
			assert.Equal(t, tt.wantID, req.ID)
			assert.Equal(t, tt.wantMethod, req.Method)
			assert.Equal(t, "2.0", req.JSONRPC)
		})
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	s := newServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: "ping-1", Method: "ping"})

	require.NotNil(t, resp)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "ping-1", resp.ID)
}

func TestHandleRequest_ToolsList(t *testing.T) {
	s := newServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	tools, ok := result["tools"].([]Tool)
	require.True(t, ok)
	assert.Len(t, tools, len(GetToolDefinitions()))
}

func TestHandleRequest_NotificationsInitialized(t *testing.T) {
	s := newServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"})
	assert.Nil(t, resp)
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	s := newServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "nonexistent/method"})

	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "nonexistent/method")
}

func TestHandleInitialize(t *testing.T) {
	s := newServer(t)
	resp := s.handleInitialize(&MCPRequest{JSONRPC: "2.0", ID: "init-1"})

	assert.Equal(t, "init-1", resp.ID)
	assert.Equal(t, "2.0", resp.JSONRPC)

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, ProtocolVersion, result["protocolVersion"])

	info, ok := result["serverInfo"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, Name, info["name"])
	assert.Equal(t, Version, info["version"])
}

func TestServe_Session(t *testing.T) {
	s := newServer(t)
	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`not json`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, s.Serve(context.Background(), strings.NewReader(in), &out))

	dec := json.NewDecoder(&out)
	var responses []MCPResponse
	for dec.More() {
		var r MCPResponse
		require.NoError(t, dec.Decode(&r))
		responses = append(responses, r)
	}

	require.Len(t, responses, 3)
	assert.Equal(t, float64(1), responses[0].ID)
	require.NotNil(t, responses[1].Error)
	assert.Equal(t, -32700, responses[1].Error.Code)
	assert.Equal(t, float64(2), responses[2].ID)
	assert.Nil(t, responses[2].Error)
}

func TestServe_RequestTooLarge(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Server.MaxRequestBytes = 128

	s, err := New(cfg)
	require.NoError(t, err)
	defer s.Close()

	line := `{"jsonrpc":"2.0","id":1,"method":"ping","params":{"pad":"` + strings.Repeat("x", 512) + `"}}`
	var out bytes.Buffer
	assert.Error(t, s.Serve(context.Background(), strings.NewReader(line+"\n"), &out))
}

func TestServe_Canceled(t *testing.T) {
	s := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := s.Serve(ctx, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n"), &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, out.Len())
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/statespace"
	"github.com/aretw0/statespace/pkg/adapters/memory"
	"github.com/aretw0/statespace/pkg/domain"
	"github.com/aretw0/statespace/pkg/product"
	"github.com/aretw0/statespace/pkg/sanitize"
)

func newTestServer() *Server {
	loader := memory.NewLoader(map[string]domain.VariableSet{
		"login": domain.NewVariableSet(domain.Bool("userLoggedIn"), domain.Enum("theme", "light", "dark")),
	})
	return NewServer(statespace.New(statespace.WithLoader(loader)))
}

func loginArgs() map[string]interface{} {
	return map[string]interface{}{
		"variables": []interface{}{
			map[string]interface{}{"name": "userLoggedIn", "kind": "boolean", "domain": []interface{}{"true", "false"}},
			map[string]interface{}{"name": "theme", "kind": "enum", "domain": []interface{}{"light", "dark"}},
		},
	}
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandleGenerate(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	resp, err := s.handleGenerate(ctx, mcp.CallToolRequest{}, loginArgs())
	require.NoError(t, err)
	assert.True(t, resp.Passed)
	assert.Equal(t, 4, resp.Count)
	assert.Equal(t, `{"userLoggedIn":"false","theme":"dark"}`, resp.States[3].String())
	assert.NotNil(t, resp.Issues)

	resp, err = s.handleGenerate(ctx, mcp.CallToolRequest{}, map[string]interface{}{"set": "login"})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Count)

	// Domain values of any scalar type are accepted.
	resp, err = s.handleGenerate(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"variables": []interface{}{map[string]interface{}{"name": "n", "domain": []interface{}{1, 2, 3}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Count)
	v, _ := resp.States[0].Get("n")
	assert.Equal(t, "1", v)
}

func TestHandleGenerate_GateAndErrors(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	args := loginArgs()
	args["variables"] = append(args["variables"].([]interface{}), map[string]interface{}{"name": ""})
	resp, err := s.handleGenerate(ctx, mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	assert.False(t, resp.Passed)
	assert.Zero(t, resp.Count)
	require.Len(t, resp.Issues, 1)

	args["policy"] = "lenient"
	resp, err = s.handleGenerate(ctx, mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Count)

	_, err = s.handleGenerate(ctx, mcp.CallToolRequest{}, map[string]interface{}{"set": "missing"})
	assert.ErrorIs(t, err, domain.ErrSetNotFound)

	_, err = s.handleGenerate(ctx, mcp.CallToolRequest{}, map[string]interface{}{"policy": "loose"})
	assert.Error(t, err)

	_, err = s.handleGenerate(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"variables": []interface{}{map[string]interface{}{"name": "x", "kind": "number"}},
	})
	assert.Error(t, err)

	_, err = s.handleGenerate(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"variables": []interface{}{map[string]interface{}{"name": "x\x00", "kind": "boolean"}},
	})
	assert.ErrorIs(t, err, sanitize.ErrControlChar)
}

func TestHandleGenerate_RemoteStateCap(t *testing.T) {
	ctx := context.Background()
	vars := make([]interface{}, 40)
	for i := range vars {
		vars[i] = map[string]interface{}{"name": fmt.Sprintf("b%d", i), "kind": "boolean"}
	}

	s := NewServer(statespace.New())
	_, err := s.handleGenerate(ctx, mcp.CallToolRequest{}, map[string]interface{}{"variables": vars})
	assert.ErrorIs(t, err, product.ErrTooManyStates)

	s = NewServer(statespace.New(), WithLimits(sanitize.Limits{MaxStates: 3}))
	_, err = s.handleGenerate(ctx, mcp.CallToolRequest{}, loginArgs())
	assert.ErrorIs(t, err, product.ErrTooManyStates)
}

func TestHandleValidate(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	resp, err := s.handleValidate(ctx, mcp.CallToolRequest{}, loginArgs())
	require.NoError(t, err)
	assert.True(t, resp.Passed)
	assert.Equal(t, 2, resp.Eligible)
	assert.Equal(t, 4, resp.States)

	args := loginArgs()
	args["variables"] = append(args["variables"].([]interface{}),
		map[string]interface{}{"name": "userLoggedIn"})
	args["unique_names"] = true
	resp, err = s.handleValidate(ctx, mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	assert.False(t, resp.Passed)
	assert.Zero(t, resp.States)
	assert.Equal(t, "duplicate_name", string(resp.Issues[0].Reason))
}

func TestHandleExport(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	args := loginArgs()
	args["format"] = "csv"
	res, err := s.handleExport(ctx, callRequest("export_states", args))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "\"userLoggedIn\",\"theme\"\n\"true\",\"light\"\n\"true\",\"dark\"\n\"false\",\"light\"\n\"false\",\"dark\"", resultText(t, res))

	res, err = s.handleExport(ctx, callRequest("export_states", map[string]interface{}{"set": "login", "format": "md"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "| userLoggedIn | theme |")

	res, err = s.handleExport(ctx, callRequest("export_states", map[string]interface{}{"variables": []interface{}{}, "format": "csv"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "", resultText(t, res))

	res, err = s.handleExport(ctx, callRequest("export_states", map[string]interface{}{"format": "xml"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestProtocol_ToolsAndResources(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	msg := s.MCPServer().HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	out, err := json.Marshal(msg)
	require.NoError(t, err)
	for _, name := range []string{"generate_states", "export_states", "list_sets", "validate_variables"} {
		assert.Contains(t, string(out), `"name":"`+name+`"`)
	}

	msg = s.MCPServer().HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"resources/read","params":{"uri":"statespace://sets"}}`))
	out, err = json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(out), `[\"login\"]`)

	msg = s.MCPServer().HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"list_sets","arguments":{}}}`))
	out, err = json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(out), `[\"login\"]`)
}

package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/service"
	"github.com/aretw0/turing/pkg/adapters/mcp"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const busyBeaver3 = `A
A + _ |> B + * |> R
A + * |> C + * |> L
B + _ |> A + * |> L
B + * |> B + * |> R
C + _ |> B + * |> L
C + * |> H + * |> R
`

// call sends one JSON-RPC request and returns the decoded "result" object.
func call(t *testing.T, s *mcp.Server, method string, params any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	resp := s.MCPServer().HandleMessage(context.Background(), raw)
	out, err := json.Marshal(resp)
	require.NoError(t, err)

	var envelope struct {
		Result map[string]any `json:"result"`
		Error  map[string]any `json:"error"`
	}
	require.NoError(t, json.Unmarshal(out, &envelope))
	require.Nil(t, envelope.Error, "unexpected JSON-RPC error: %s", out)
	return envelope.Result
}

func newServer(t *testing.T) *mcp.Server {
	t.Helper()
	s, err := mcp.NewServer(service.New(nil, domain.LifecycleHooks{}), turing.Examples)
	require.NoError(t, err)
	return s
}

func TestTools_List(t *testing.T) {
	res := call(t, newServer(t), "tools/list", map[string]any{})

	var names []string
	for _, tool := range res["tools"].([]any) {
		names = append(names, tool.(map[string]any)["name"].(string))
	}
	assert.ElementsMatch(t, []string{"simulate", "validate_definition"}, names)
}

func TestSimulateTool(t *testing.T) {
	res := call(t, newServer(t), "tools/call", map[string]any{
		"name":      "simulate",
		"arguments": map[string]any{"definition": busyBeaver3},
	})

	assert.NotEqual(t, true, res["isError"])
	structured, ok := res["structuredContent"].(map[string]any)
	require.True(t, ok, "structured result expected: %v", res)
	assert.Equal(t, "halted", structured["status"])
	assert.Equal(t, "reached_halt_state", structured["reason"])
	assert.InDelta(t, 13, structured["steps"], 0)
	assert.Equal(t, "******", structured["tape"])
}

func TestSimulateTool_MaxSteps(t *testing.T) {
	res := call(t, newServer(t), "tools/call", map[string]any{
		"name":      "simulate",
		"arguments": map[string]any{"definition": busyBeaver3, "max_steps": 2},
	})

	structured := res["structuredContent"].(map[string]any)
	assert.Equal(t, "limited", structured["status"])
	assert.InDelta(t, 2, structured["steps"], 0)
}

func TestSimulateTool_ParseError(t *testing.T) {
	res := call(t, newServer(t), "tools/call", map[string]any{
		"name":      "simulate",
		"arguments": map[string]any{"definition": "A\nA + _ |> B + 1 |> X\n"},
	})

	assert.Equal(t, true, res["isError"])
	content := res["content"].([]any)
	require.NotEmpty(t, content)
	text := content[0].(map[string]any)["text"].(string)
	assert.Contains(t, text, "unknown_direction")
	assert.Contains(t, text, `"line":2`)
}

func TestValidateTool(t *testing.T) {
	res := call(t, newServer(t), "tools/call", map[string]any{
		"name":      "validate_definition",
		"arguments": map[string]any{"definition": busyBeaver3},
	})

	structured := res["structuredContent"].(map[string]any)
	assert.Equal(t, "A", structured["initial_state"])
	assert.Len(t, structured["transitions"], 6)
	assert.Equal(t, []any{"A", "B", "C", "H"}, structured["states"])
}

func TestExampleResources(t *testing.T) {
	s := newServer(t)

	res := call(t, s, "resources/list", map[string]any{})
	var uris []string
	for _, r := range res["resources"].([]any) {
		uris = append(uris, r.(map[string]any)["uri"].(string))
	}
	assert.Contains(t, uris, mcp.ExampleURIPrefix+"busy-beaver-3")

	res = call(t, s, "resources/read", map[string]any{"uri": mcp.ExampleURIPrefix + "busy-beaver-3"})
	contents := res["contents"].([]any)
	require.Len(t, contents, 1)
	assert.Contains(t, contents[0].(map[string]any)["text"], "C + * |> H + * |> R")
}

func TestNewServer_WithoutExamples(t *testing.T) {
	s, err := mcp.NewServer(service.New(nil, domain.LifecycleHooks{}), nil)
	require.NoError(t, err)
	assert.NotNil(t, s.MCPServer())
}

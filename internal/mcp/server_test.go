package mcp

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/khanglvm/deepthink/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.NewConfig()
	cfg.DataDir = t.TempDir()

	server, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	t.Cleanup(func() { server.Close() })

	return server
}

func callTool(t *testing.T, server *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	req, err := json.Marshal(MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	})
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	resp, err := server.handleRequest(req)
	if err != nil {
		t.Fatalf("handleRequest failed: %v", err)
	}
	return resp
}

// toolText extracts the text content from a successful tool response.
func toolText(t *testing.T, resp *MCPResponse) string {
	t.Helper()

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected result type: %T", resp.Result)
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok {
		t.Fatalf("unexpected content type: %T", result["content"])
	}
	text, _ := content[0]["text"].(string)
	return text
}

func TestHandleRequest_Initialize(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.handleRequest([]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`))
	if err != nil {
		t.Fatalf("handleRequest failed: %v", err)
	}

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected result type: %T", resp.Result)
	}
	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok || serverInfo["name"] != "deepthink" {
		t.Errorf("unexpected serverInfo: %v", result["serverInfo"])
	}
}

func TestHandleRequest_ToolsList(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.handleRequest([]byte(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))
	if err != nil {
		t.Fatalf("handleRequest failed: %v", err)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected result type: %T", resp.Result)
	}
	tools, ok := result["tools"].([]map[string]interface{})
	if !ok {
		t.Fatalf("unexpected tools type: %T", result["tools"])
	}

	if len(tools) != 4 {
		t.Fatalf("expected 4 tools, got %d", len(tools))
	}

	names := map[string]bool{}
	for _, tool := range tools {
		name, _ := tool["name"].(string)
		names[name] = true
	}
	for _, want := range []string{"research", "suggest_method", "memory_insights", "cache_lookup"} {
		if !names[want] {
			t.Errorf("missing tool %q", want)
		}
	}
}

func TestHandleRequest_UnknownMethod(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.handleRequest([]byte(`{"jsonrpc":"2.0","id":3,"method":"bogus"}`))
	if err != nil {
		t.Fatalf("handleRequest failed: %v", err)
	}

	if resp.Error == nil || resp.Error.Code != -32601 {
		t.Errorf("expected method-not-found error, got %v", resp.Error)
	}
}

func TestHandleRequest_InvalidJSON(t *testing.T) {
	server := newTestServer(t)

	if _, err := server.handleRequest([]byte("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestToolsCall_SuggestMethod_NoPattern(t *testing.T) {
	server := newTestServer(t)

	resp := callTool(t, server, "suggest_method", map[string]interface{}{
		"query": "Comprehensive analysis of vector databases",
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	text := toolText(t, resp)
	if !strings.Contains(text, "comprehensive_analysis") {
		t.Errorf("expected category in response, got: %s", text)
	}
	if !strings.Contains(text, "No learned pattern") {
		t.Errorf("expected no-pattern notice on fresh memory, got: %s", text)
	}
}

func TestToolsCall_MemoryInsights(t *testing.T) {
	server := newTestServer(t)

	resp := callTool(t, server, "memory_insights", nil)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	text := toolText(t, resp)
	var insights map[string]interface{}
	if err := json.Unmarshal([]byte(text), &insights); err != nil {
		t.Fatalf("insights are not valid JSON: %v", err)
	}
	if _, ok := insights["cache_hit_rate"]; !ok {
		t.Error("expected cache_hit_rate field in insights")
	}
}

func TestToolsCall_CacheLookup_Miss(t *testing.T) {
	server := newTestServer(t)

	resp := callTool(t, server, "cache_lookup", map[string]interface{}{
		"query": "What is a bloom filter?",
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	if !strings.Contains(toolText(t, resp), "No fresh cached result") {
		t.Error("expected cache miss message on empty cache")
	}
}

func TestToolsCall_UnknownTool(t *testing.T) {
	server := newTestServer(t)

	resp := callTool(t, server, "telepathy", nil)
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected unknown-tool error, got %v", resp.Error)
	}
}

func TestToolsCall_MissingQuery(t *testing.T) {
	server := newTestServer(t)

	resp := callTool(t, server, "suggest_method", map[string]interface{}{})
	if resp.Error == nil {
		t.Error("expected error for missing query argument")
	}
}

func TestToolsCall_Research_InvalidMethod(t *testing.T) {
	server := newTestServer(t)

	resp := callTool(t, server, "research", map[string]interface{}{
		"query":  "What is X?",
		"method": "telepathy",
	})
	if resp.Error == nil {
		t.Error("expected error for invalid method override")
	}
}

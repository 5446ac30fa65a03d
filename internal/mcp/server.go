/*
Package mcp implements the MCP server that exposes research tools.

The server uses stdio transport and exposes 4 tools:
  - research: Run a research query with learned method routing
  - suggest_method: Preview which method the memory would pick for a query
  - memory_insights: Report learned patterns and performance statistics
  - cache_lookup: Check whether a query has a fresh cached result
*/
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/khanglvm/deepthink/internal/cache"
	"github.com/khanglvm/deepthink/internal/config"
	"github.com/khanglvm/deepthink/internal/memory"
	"github.com/khanglvm/deepthink/internal/research"
	"github.com/khanglvm/deepthink/internal/storage"
)

// Server represents the deepthink MCP server.
type Server struct {
	config   *config.Config
	store    *storage.SQLiteStorage
	cache    *cache.Cache
	patterns *memory.PatternTable
	tracker  *memory.Tracker
	engine   *research.Engine

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new MCP server with the given configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	store := storage.NewStorageAt(cfg.DBPath())
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	resultCache, err := cache.New(cfg.CacheDir(), cfg.CacheTTL())
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	patterns := memory.NewPatternTable(store, memory.Options{
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		MinSuccesses:        cfg.MinSuccesses,
	})
	tracker := memory.NewTracker(store)

	engine := research.NewEngine(patterns, resultCache, tracker, cfg.DefaultMethod)
	engine.Register(research.NewAgentsRunner(cfg.APIKey(), cfg.Models.Agents))
	engine.Register(research.NewDeepResearchRunner(cfg.APIKey(), cfg.Models.DeepResearch))

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		config:   cfg,
		store:    store,
		cache:    resultCache,
		patterns: patterns,
		tracker:  tracker,
		engine:   engine,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Context returns the server's lifetime context for background tasks.
func (s *Server) Context() context.Context {
	return s.ctx
}

// Close stops background tracking and releases storage resources.
func (s *Server) Close() error {
	s.cancel()
	s.tracker.Stop()
	s.cache.Close()
	return s.store.Close()
}

// Run starts the MCP server using stdio transport.
// This blocks until stdin is closed.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()

		response, err := s.handleRequest(line)
		if err != nil {
			s.sendError(err)
			continue
		}

		if response != nil {
			s.sendResponse(response)
		}
	}

	return scanner.Err()
}

// MCPRequest represents an incoming MCP JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing MCP JSON-RPC response.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents an MCP error.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handleRequest processes an incoming MCP request.
func (s *Server) handleRequest(data []byte) (*MCPResponse, error) {
	var req MCPRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid JSON-RPC request: %w", err)
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(&req)
	case "tools/list":
		return s.handleToolsList(&req)
	case "tools/call":
		return s.handleToolsCall(&req)
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32601, Message: "Method not found"},
		}, nil
	}
}

// handleInitialize handles the MCP initialize request.
func (s *Server) handleInitialize(req *MCPRequest) (*MCPResponse, error) {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "deepthink",
				"version": "0.1.0",
			},
		},
	}, nil
}

// handleToolsList returns the list of available tools.
func (s *Server) handleToolsList(req *MCPRequest) (*MCPResponse, error) {
	tools := []map[string]interface{}{
		{
			"name": "research",
			"description": `Run a research query with learned method routing.

WHEN TO USE: Any question that needs a researched answer with citations.

The router picks between two methods:
  - openai_agents: fast technical answers (30-60s)
  - deep_research_api: comprehensive analysis (2-5min)

Identical queries within the cache TTL return instantly from the cache.`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "The research question",
					},
					"method": map[string]interface{}{
						"type":        "string",
						"description": "Force a specific method instead of auto-routing",
						"enum":        research.Methods(),
					},
				},
				"required": []string{"query"},
			},
		},
		{
			"name": "suggest_method",
			"description": `Preview which research method would be used for a query.

WHEN TO USE: To inspect the router's decision without running research.

Returns the classified category, the suggested method, and the
confidence behind the suggestion.`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "The research question to classify",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			"name": "memory_insights",
			"description": `Report learned patterns and performance statistics.

Returns query type distribution, method preferences, the best
category/method combinations, and the cache hit rate.`,
			"inputSchema": map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			"name": "cache_lookup",
			"description": `Check whether a query has a fresh cached result.

WHEN TO USE: To see if research would return instantly before running it.`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "The research question to look up",
					},
				},
				"required": []string{"query"},
			},
		},
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": tools,
		},
	}, nil
}

// handleToolsCall handles tool execution requests.
func (s *Server) handleToolsCall(req *MCPRequest) (*MCPResponse, error) {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}

	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	var result interface{}
	var err error

	switch params.Name {
	case "research":
		query, _ := params.Arguments["query"].(string)
		method, _ := params.Arguments["method"].(string)
		result, err = s.execResearch(query, method)
	case "suggest_method":
		query, _ := params.Arguments["query"].(string)
		result, err = s.execSuggestMethod(query)
	case "memory_insights":
		result, err = s.execMemoryInsights()
	case "cache_lookup":
		query, _ := params.Arguments["query"].(string)
		result, err = s.execCacheLookup(query)
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32602, Message: fmt.Sprintf("Unknown tool: %s", params.Name)},
		}, nil
	}

	if err != nil {
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32000, Message: err.Error()},
		}, nil
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": result,
				},
			},
		},
	}, nil
}

// execResearch runs a research query through the engine.
func (s *Server) execResearch(query, method string) (string, error) {
	if query == "" {
		return "", fmt.Errorf("query is required")
	}
	if method != "" && !research.ValidMethod(method) {
		return "", fmt.Errorf("unknown method '%s' (valid: %v)", method, research.Methods())
	}

	result, err := s.engine.Research(s.ctx, query, method)
	if err != nil {
		return "", fmt.Errorf("research failed: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(data), nil
}

// execSuggestMethod previews the routing decision for a query.
func (s *Server) execSuggestMethod(query string) (string, error) {
	if query == "" {
		return "", fmt.Errorf("query is required")
	}

	category := memory.Classify(query)
	method, confidence, ok := s.engine.SuggestMethod(query)

	if !ok {
		return fmt.Sprintf("Category: %s\nNo learned pattern yet; default method '%s' would be used.",
			category, s.config.DefaultMethod), nil
	}

	return fmt.Sprintf("Category: %s\nSuggested method: %s (confidence %.0f%%)",
		category, method, confidence*100), nil
}

// execMemoryInsights reports what the memory layer has learned.
func (s *Server) execMemoryInsights() (string, error) {
	insights, err := memory.BuildInsights(s.store, s.patterns.Stats())
	if err != nil {
		return "", fmt.Errorf("failed to build insights: %w", err)
	}

	data, err := json.MarshalIndent(insights, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal insights: %w", err)
	}
	return string(data), nil
}

// execCacheLookup checks the result cache for a query.
func (s *Server) execCacheLookup(query string) (string, error) {
	if query == "" {
		return "", fmt.Errorf("query is required")
	}

	var result research.Result
	hit, err := s.cache.Lookup(query, &result)
	if err != nil {
		return "", fmt.Errorf("cache lookup failed: %w", err)
	}
	if !hit {
		return "No fresh cached result for this query.", nil
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(data), nil
}

// sendResponse writes a JSON-RPC response to stdout.
func (s *Server) sendResponse(resp *MCPResponse) {
	data, _ := json.Marshal(resp)
	fmt.Println(string(data))
}

// sendError writes an error response to stdout.
func (s *Server) sendError(err error) {
	resp := &MCPResponse{
		JSONRPC: "2.0",
		ID:      nil,
		Error:   &MCPError{Code: -32700, Message: err.Error()},
	}
	s.sendResponse(resp)
}

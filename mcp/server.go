// Package mcp implements a Model Context Protocol server over stdio.
// Requests and responses are newline-delimited JSON-RPC 2.0 messages; tool
// execution is delegated to registered providers.
package mcp

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/yabbi/ynab-mcp/mcp/tools"
)

// Version is the server version reported during initialization.
// Overridden at build time via -ldflags.
var Version = "dev"

const protocolVersion = "2024-11-05"

type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server dispatches MCP requests to its tool providers.
type Server struct {
	providers []tools.ToolProvider
	log       *slog.Logger
}

// NewServer creates a server serving the given providers' tools.
func NewServer(log *slog.Logger, providers ...tools.ToolProvider) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{providers: providers, log: log}
}

// Run reads requests from in and writes responses to out until in is
// exhausted. Notifications (requests without an ID) get no response.
func (s *Server) Run(in io.Reader, out io.Writer) error {
	decoder := json.NewDecoder(in)
	encoder := json.NewEncoder(out)

	for {
		var req MCPRequest
		if err := decoder.Decode(&req); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to decode request: %w", err)
		}

		s.log.Debug("handling request", "method", req.Method)
		if req.ID == nil {
			continue
		}

		resp := s.handleRequest(req)
		resp.JSONRPC = "2.0"
		resp.ID = req.ID
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
	}
}

func (s *Server) handleRequest(req MCPRequest) MCPResponse {
	switch req.Method {
	case "initialize":
		return s.initialize()
	case "tools/list":
		return s.listTools()
	case "tools/call":
		return s.callTool(req.Params)
	default:
		return MCPResponse{
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

func (s *Server) initialize() MCPResponse {
	return MCPResponse{
		Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "ynab-mcp",
				"version": Version,
			},
		},
	}
}

func (s *Server) listTools() MCPResponse {
	var all []tools.Tool
	for _, provider := range s.providers {
		all = append(all, provider.Tools()...)
	}
	return MCPResponse{
		Result: map[string]interface{}{
			"tools": all,
		},
	}
}

func (s *Server) callTool(params json.RawMessage) MCPResponse {
	var call struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return MCPResponse{
			Error: &MCPError{
				Code:    -32602,
				Message: fmt.Sprintf("Invalid params: %v", err),
			},
		}
	}

	for _, provider := range s.providers {
		if !provider.HasTool(call.Name) {
			continue
		}
		result, err := provider.Call(call.Name, call.Arguments)
		if err != nil {
			s.log.Warn("tool call failed", "tool", call.Name, "error", err)
			// Tool failures come back as content, not protocol errors, so
			// the assistant can read the message and retry with fixed
			// arguments.
			return MCPResponse{
				Result: map[string]interface{}{
					"content": []map[string]interface{}{
						{"type": "text", "text": fmt.Sprintf("Error: %v", err)},
					},
					"isError": true,
				},
			}
		}
		return MCPResponse{Result: result}
	}

	return MCPResponse{
		Error: &MCPError{
			Code:    -32601,
			Message: fmt.Sprintf("Tool not found: %s", call.Name),
		},
	}
}

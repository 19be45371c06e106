// mcp/protocol.go
// Request/response shapes for the direct tool call and the JSON-RPC envelope.

package mcp

import "encoding/json"

const (
	JSONRPCVersion  = "2.0"
	ProtocolVersion = "2024-11-05"

	// ErrorCode is used for every envelope-level failure.
	ErrorCode = -32603
)

// Envelope methods. The slash forms are accepted as aliases.
const (
	MethodInitialize = "initialize"
	MethodListTools  = "list_tools"
	MethodCallTool   = "call_tool"

	methodListToolsAlias = "tools/list"
	methodCallToolAlias  = "tools/call"
)

// ToolRequest is the direct shape: {"tool": ..., "params": {...}}.
type ToolRequest struct {
	Tool   string         `json:"tool"`
	Params map[string]any `json:"params"`
}

type ToolResponse struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type RPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	ID      json.RawMessage `json:"id,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type CallToolResult struct {
	Content any `json:"content"`
}

type ListToolsResult struct {
	Tools []ToolDescriptor `json:"tools"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	ServerInfo      ServerInfo     `json:"serverInfo"`
	Capabilities    map[string]any `json:"capabilities"`
}

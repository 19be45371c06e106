// internal/mcp/router.go
// Protocol adapter: turns direct tool calls and JSON-RPC envelopes into
// Dispatch calls and wraps the outcome back into the caller's shape.

package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"mcp-docgate/internal/util"
)

// maxBodyBytes bounds inbound request bodies.
const maxBodyBytes = 4 << 20

type Handler struct {
	dispatcher *Dispatcher
	registry   *Registry
	info       ServerInfo
	log        *zap.Logger
}

func NewHandler(d *Dispatcher, reg *Registry, info ServerInfo, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{dispatcher: d, registry: reg, info: info, log: log.Named("mcp")}
}

// StatusHandler: GET / -> status + daftar tool
func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"name":     h.info.Name,
		"version":  h.info.Version,
		"readOnly": h.registry.ReadOnly(),
		"tools":    h.registry.Tools(),
	})
}

func (h *Handler) ToolsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ListToolsResult{Tools: h.registry.Tools()})
}

// CallHandler serves the direct shape {"tool","params"}.
func (h *Handler) CallHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ToolRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logEvent(r, "mcp.call", "", start, err)
		writeJSON(w, http.StatusBadRequest, ToolResponse{Error: err.Error()})
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), req.Tool, req.Params)
	h.logEvent(r, "mcp.call", req.Tool, start, err)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ToolResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ToolResponse{Result: result})
}

// RPCHandler serves the JSON-RPC envelope. Envelope errors are reported in
// the body with HTTP 200.
func (h *Handler) RPCHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RPCRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logEvent(r, "mcp.rpc", "", start, err)
		writeJSON(w, http.StatusOK, errorResponse(nil, err))
		return
	}

	result, err := h.handleRPC(r.Context(), req)
	h.logEvent(r, "mcp.rpc", req.Method, start, err)
	if err != nil {
		writeJSON(w, http.StatusOK, errorResponse(req.ID, err))
		return
	}
	writeJSON(w, http.StatusOK, RPCResponse{JSONRPC: JSONRPCVersion, ID: req.ID, Result: result})
}

// HandleRPC answers one envelope request.
func (h *Handler) HandleRPC(ctx context.Context, req RPCRequest) RPCResponse {
	result, err := h.handleRPC(ctx, req)
	if err != nil {
		return errorResponse(req.ID, err)
	}
	return RPCResponse{JSONRPC: JSONRPCVersion, ID: req.ID, Result: result}
}

func (h *Handler) handleRPC(ctx context.Context, req RPCRequest) (any, error) {
	if strings.TrimSpace(req.JSONRPC) == "" {
		return nil, util.ProtocolError("missing jsonrpc version")
	}
	if strings.TrimSpace(req.Method) == "" {
		return nil, util.ProtocolError("missing method")
	}

	switch req.Method {
	case MethodInitialize:
		return InitializeResult{
			ProtocolVersion: ProtocolVersion,
			ServerInfo:      h.info,
			Capabilities:    map[string]any{"tools": map[string]any{}},
		}, nil

	case MethodListTools, methodListToolsAlias:
		return ListToolsResult{Tools: h.registry.Tools()}, nil

	case MethodCallTool, methodCallToolAlias:
		var p CallToolParams
		if len(req.Params) > 0 && string(req.Params) != "null" {
			if err := json.Unmarshal(req.Params, &p); err != nil {
				return nil, util.Wrap(util.KindProtocol, err, "invalid call_tool params")
			}
		}
		result, err := h.dispatcher.Dispatch(ctx, p.Name, p.Arguments)
		if err != nil {
			return nil, err
		}
		return CallToolResult{Content: result}, nil

	default:
		return nil, util.ProtocolError("unknown method: %s", req.Method)
	}
}

func errorResponse(id json.RawMessage, err error) RPCResponse {
	return RPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &RPCError{Code: ErrorCode, Message: err.Error()},
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return util.Wrap(util.KindProtocol, err, "read body")
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return util.ProtocolError("empty request body")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return util.Wrap(util.KindProtocol, err, "invalid json")
	}
	return nil
}

func (h *Handler) logEvent(r *http.Request, event, name string, start time.Time, err error) {
	fields := []zap.Field{
		zap.String("request_id", r.Header.Get("X-Request-ID")),
		zap.String("name", name),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	}
	if err != nil {
		fields = append(fields, zap.String("kind", string(util.KindOf(err))), zap.Error(err))
		h.log.Warn(event, fields...)
		return
	}
	h.log.Info(event, fields...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

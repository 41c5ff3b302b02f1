package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dungeonforge/crawl-engine/internal/mcp"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// SessionHeader carries the caller's session ID. Requests without it share
// one default session, which keeps single-player setups header-free.
const SessionHeader = "X-Session-ID"

var defaultSessionID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// sessionID extracts the session from the request header.
func sessionID(r *http.Request) (uuid.UUID, bool) {
	raw := r.Header.Get(SessionHeader)
	if raw == "" {
		return defaultSessionID, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding response", "error", err)
	}
}

// CallHandler serves POST /mcp/call: it decodes the tool call, runs it
// against the caller's session, and returns the result. Game-rule
// rejections are 200 responses with isError set; only malformed requests
// and infrastructure failures use HTTP error codes.
type CallHandler struct {
	server *mcp.Server
	logger *slog.Logger
}

func NewCallHandler(server *mcp.Server, logger *slog.Logger) *CallHandler {
	return &CallHandler{server: server, logger: logger}
}

func (h *CallHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, h.logger, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}

	sid, ok := sessionID(r)
	if !ok {
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{Error: "invalid X-Session-ID header"})
		return
	}

	var req mcp.CallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{Error: "tool name is required"})
		return
	}

	result, err := h.server.CallTool(r.Context(), sid, req)
	if err != nil {
		h.logger.Error("Tool call failed", "error", err, "tool", req.Name)
		writeJSON(w, h.logger, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}

// ToolsHandler serves GET /mcp/tools with the static tool catalog.
type ToolsHandler struct {
	logger *slog.Logger
}

func NewToolsHandler(logger *slog.Logger) *ToolsHandler {
	return &ToolsHandler{logger: logger}
}

func (h *ToolsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, h.logger, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"tools": mcp.ListTools()})
}

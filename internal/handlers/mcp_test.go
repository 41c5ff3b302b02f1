package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dungeonforge/crawl-engine/internal/mcp"
	"github.com/dungeonforge/crawl-engine/internal/storage"
)

func newCallHandler(t *testing.T) (*CallHandler, *storage.MemoryStorage) {
	t.Helper()
	st := storage.NewMemoryStorage()
	server := mcp.NewServer(st, testLogger(), nil)
	return NewCallHandler(server, testLogger()), st
}

func postCall(t *testing.T, h *CallHandler, sessionID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/mcp/call", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestCallHandler(t *testing.T) {
	t.Run("new_game returns a snapshot", func(t *testing.T) {
		h, _ := newCallHandler(t)
		sid := uuid.NewString()

		rr := postCall(t, h, sid, mcp.CallRequest{
			Name:      "new_game",
			Arguments: map[string]any{"character_name": "Rook"},
		})

		require.Equal(t, http.StatusOK, rr.Code)
		var result mcp.CallResult
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
		assert.False(t, result.IsError)
		require.NotNil(t, result.GameState)
		assert.Equal(t, "Rook", result.GameState.Character.Name)
		assert.Equal(t, 0, result.GameState.TurnNumber)
	})

	t.Run("game-rule rejection is 200 with isError", func(t *testing.T) {
		h, _ := newCallHandler(t)

		rr := postCall(t, h, uuid.NewString(), mcp.CallRequest{Name: "look"})

		require.Equal(t, http.StatusOK, rr.Code)
		var result mcp.CallResult
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
		assert.True(t, result.IsError)
		assert.Contains(t, result.Content[0].Text, "new_game")
	})

	t.Run("missing header uses the default session", func(t *testing.T) {
		h, _ := newCallHandler(t)

		rr := postCall(t, h, "", mcp.CallRequest{
			Name:      "new_game",
			Arguments: map[string]any{"character_name": "Solo"},
		})
		require.Equal(t, http.StatusOK, rr.Code)

		// A second headerless call sees the same game.
		rr = postCall(t, h, "", mcp.CallRequest{Name: "stats"})
		require.Equal(t, http.StatusOK, rr.Code)
		var result mcp.CallResult
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
		assert.False(t, result.IsError)
		assert.Contains(t, result.Content[0].Text, "Solo")
	})

	t.Run("sessions are isolated by header", func(t *testing.T) {
		h, _ := newCallHandler(t)
		a, b := uuid.NewString(), uuid.NewString()

		postCall(t, h, a, mcp.CallRequest{Name: "new_game", Arguments: map[string]any{"character_name": "Ada"}})

		rr := postCall(t, h, b, mcp.CallRequest{Name: "stats"})
		var result mcp.CallResult
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
		assert.True(t, result.IsError, "session b must not see session a's game")
	})

	t.Run("invalid session header is 400", func(t *testing.T) {
		h, _ := newCallHandler(t)
		rr := postCall(t, h, "not-a-uuid", mcp.CallRequest{Name: "look"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		h, _ := newCallHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/mcp/call", bytes.NewReader([]byte("{")))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing tool name is 400", func(t *testing.T) {
		h, _ := newCallHandler(t)
		rr := postCall(t, h, uuid.NewString(), map[string]any{"arguments": map[string]any{}})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("GET is rejected", func(t *testing.T) {
		h, _ := newCallHandler(t)
		req := httptest.NewRequest(http.MethodGet, "/mcp/call", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})
}

func TestToolsHandler(t *testing.T) {
	h := NewToolsHandler(testLogger())

	req := httptest.NewRequest(http.MethodGet, "/mcp/tools", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var response struct {
		Tools []mcp.Tool `json:"tools"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	assert.Len(t, response.Tools, 10)

	names := make(map[string]bool)
	props := make(map[string]map[string]any)
	for _, tool := range response.Tools {
		names[tool.Name] = true
		assert.NotEmpty(t, tool.Description, "tool %s has no description", tool.Name)
		assert.Equal(t, "object", tool.InputSchema["type"])
		props[tool.Name], _ = tool.InputSchema["properties"].(map[string]any)
	}
	for _, want := range []string{"new_game", "look", "move", "attack", "take", "use", "equip", "inventory", "stats", "map"} {
		assert.True(t, names[want], "missing tool %s", want)
	}

	// The advertised argument names are the ones the engine reads.
	assert.Contains(t, props["new_game"], "character_name")
	assert.Contains(t, props["attack"], "target_id")
	for _, tool := range []string{"take", "use", "equip"} {
		assert.Contains(t, props[tool], "item_id", "tool %s", tool)
	}
}

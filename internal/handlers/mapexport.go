package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dungeonforge/crawl-engine/internal/mapgen"
	"github.com/dungeonforge/crawl-engine/internal/storage"
)

// MapExportHandler serves GET /v1/sessions/{id}/map.pdf: a printable map
// of the dungeon as the session has discovered it so far.
type MapExportHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewMapExportHandler(st storage.Storage, logger *slog.Logger) *MapExportHandler {
	return &MapExportHandler{storage: st, logger: logger}
}

func (h *MapExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, h.logger, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
		return
	}

	sess, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session for map export", "error", err, "session_id", id.String())
		writeJSON(w, h.logger, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	if sess == nil || !sess.HasGame() {
		writeJSON(w, h.logger, http.StatusNotFound, ErrorResponse{Error: "session not found"})
		return
	}

	pdf, err := mapgen.Generate(sess)
	if err != nil {
		h.logger.Error("Failed to render map", "error", err, "session_id", id.String())
		writeJSON(w, h.logger, http.StatusInternalServerError, ErrorResponse{Error: "failed to render map"})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="dungeon-map.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		h.logger.Error("Error writing map response", "error", err)
	}
}

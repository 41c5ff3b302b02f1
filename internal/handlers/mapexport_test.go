package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dungeonforge/crawl-engine/internal/storage"
	"github.com/dungeonforge/crawl-engine/pkg/dungeon"
	"github.com/dungeonforge/crawl-engine/pkg/game"
)

func mapRouter(st storage.Storage) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/v1/sessions/{id}/map.pdf", NewMapExportHandler(st, testLogger()))
	return r
}

func TestMapExportHandler(t *testing.T) {
	st := storage.NewMemoryStorage()

	layout := dungeon.New(11, nil).Generate()
	sess := game.NewSession(uuid.New())
	sess.Rooms = layout.Rooms
	sess.Monsters = layout.Monsters
	sess.Items = layout.Items
	sess.GridSize = layout.GridSize
	sess.Character = game.NewCharacter("Cartographer")
	sess.Character.RoomID = layout.EntranceID
	sess.Visited[layout.EntranceID] = true
	require.NoError(t, st.SaveSession(context.Background(), sess))

	router := mapRouter(st)

	t.Run("renders a PDF", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+sess.ID.String()+"/map.pdf", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")), "response is not a PDF")
	})

	t.Run("unknown session is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+uuid.NewString()+"/map.pdf", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid id is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/sessions/nope/map.pdf", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

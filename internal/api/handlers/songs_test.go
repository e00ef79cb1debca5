package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/magda-patterns/internal/api/middleware"
	"github.com/Conceptual-Machines/magda-patterns/internal/database"
	"github.com/Conceptual-Machines/magda-patterns/internal/dsl"
	"github.com/Conceptual-Machines/magda-patterns/internal/models"
	"github.com/Conceptual-Machines/magda-patterns/internal/song"
)

// memoryStore is an in-memory SongStore
type memoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*models.SongRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[uuid.UUID]*models.SongRecord{}}
}

func (m *memoryStore) Create(_ context.Context, s *song.Song, ownerID string) (*models.SongRecord, error) {
	record, err := database.NewSongRecord(s, ownerID)
	if err != nil {
		return nil, err
	}
	record.ID = uuid.New()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = record
	return record, nil
}

func (m *memoryStore) Get(_ context.Context, id uuid.UUID) (*song.Song, *models.SongRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[id]
	if !ok {
		return nil, nil, database.ErrSongNotFound
	}
	s, err := database.DecodeSong(record)
	if err != nil {
		return nil, nil, err
	}
	return s, record, nil
}

func (m *memoryStore) List(_ context.Context, ownerID string, limit int) ([]models.SongRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := []models.SongRecord{}
	for _, r := range m.records {
		if r.OwnerID == ownerID && len(records) < limit {
			records = append(records, *r)
		}
	}
	return records, nil
}

func (m *memoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return database.ErrSongNotFound
	}
	delete(m.records, id)
	return nil
}

// setupSongTestRouter registers the song routes behind the anonymous auth
// middleware. A nil store disables them.
func setupSongTestRouter(t *testing.T, store SongStore) *gin.Engine {
	t.Helper()

	parser, err := dsl.NewParser()
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())

	h := NewSongHandler(store, NewEngineHandler(testConfig(), parser, nil))
	v1 := router.Group("/api/v1", middleware.NoAuth())
	v1.POST("/songs", h.Create)
	v1.GET("/songs", h.List)
	v1.GET("/songs/:id", h.Get)
	v1.GET("/songs/:id/compiled", h.GetCompiled)
	v1.DELETE("/songs/:id", h.Delete)

	return router
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const testSongJSON = `{
	"name": "loop",
	"tempo": 120,
	"channels": [
		{"name": "bass", "arrangement": "0-0_", "clips": [
			{"pattern": "x-xR", "notes": "C2 G2", "random_notes": ["C3", "D3"], "backend": "pitched"}
		]}
	]
}`

func TestSongHandler_Lifecycle(t *testing.T) {
	store := newMemoryStore()
	router := setupSongTestRouter(t, store)

	w := doRequest(router, http.MethodPost, "/api/v1/songs", testSongJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created SongResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotNil(t, created.Record)
	assert.Equal(t, "loop", created.Record.Name)
	assert.Equal(t, "anonymous", created.Record.OwnerID)
	assert.Equal(t, 1, created.Record.Channels)
	id := created.Record.ID.String()

	t.Run("get", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/songs/"+id, "")
		require.Equal(t, http.StatusOK, w.Code)

		var got SongResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.NotNil(t, got.Song)
		assert.Equal(t, "0-0_", got.Song.Channels[0].Arrangement)
	})

	t.Run("compiled is reproducible with a seed", func(t *testing.T) {
		first := doRequest(router, http.MethodGet, "/api/v1/songs/"+id+"/compiled?seed=42", "")
		require.Equal(t, http.StatusOK, first.Code, first.Body.String())
		second := doRequest(router, http.MethodGet, "/api/v1/songs/"+id+"/compiled?seed=42", "")
		assert.JSONEq(t, first.Body.String(), second.Body.String())

		var compiled map[string]any
		require.NoError(t, json.Unmarshal(first.Body.Bytes(), &compiled))
		channel := compiled["channels"].([]any)[0].(map[string]any)
		assert.Equal(t, []any{
			map[string]any{"clip": 0.0, "start": 0.0, "length": 1.0},
			map[string]any{"clip": 0.0, "start": 2.0, "length": 2.0},
		}, channel["timeline"])
	})

	t.Run("bad seed", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/songs/"+id+"/compiled?seed=abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/songs?limit=5", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Songs []models.SongRecord `json:"songs"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Songs, 1)
		assert.Equal(t, created.Record.ID, resp.Songs[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		w := doRequest(router, http.MethodDelete, "/api/v1/songs/"+id, "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(router, http.MethodGet, "/api/v1/songs/"+id, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSongHandler_CreateRejectsInvalidSongs(t *testing.T) {
	store := newMemoryStore()
	router := setupSongTestRouter(t, store)

	tests := []struct {
		name string
		body string
		kind string
	}{
		{"missing name", `{"channels": []}`, "invalid_request"},
		{"bad pattern", `{"name": "s", "channels": [{"arrangement": "0", "clips": [{"pattern": "x?", "backend": "unpitched"}]}]}`, "invalid_pattern_character"},
		{"clip out of range", `{"name": "s", "channels": [{"arrangement": "3", "clips": [{"pattern": "x", "backend": "unpitched"}]}]}`, "clip_out_of_range"},
		{"bad arrangement", `{"name": "s", "channels": [{"arrangement": "0a", "clips": [{"pattern": "x", "backend": "unpitched"}]}]}`, "invalid_slot_character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/v1/songs", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.kind, resp["kind"])
		})
	}

	assert.Empty(t, store.records)
}

func TestSongHandler_NotFound(t *testing.T) {
	router := setupSongTestRouter(t, newMemoryStore())

	w := doRequest(router, http.MethodGet, "/api/v1/songs/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/songs/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSongHandler_OtherOwnerIsHidden(t *testing.T) {
	store := newMemoryStore()
	router := setupSongTestRouter(t, store)

	s, err := song.Parse([]byte("name: private\nchannels: []\n"))
	require.NoError(t, err)
	record, err := store.Create(context.Background(), s, "someone-else")
	require.NoError(t, err)

	w := doRequest(router, http.MethodGet, "/api/v1/songs/"+record.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodDelete, "/api/v1/songs/"+record.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, store.records, 1)
}

func TestSongHandler_StoreDisabled(t *testing.T) {
	router := setupSongTestRouter(t, nil)

	requests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/v1/songs", testSongJSON},
		{http.MethodGet, "/api/v1/songs", ""},
		{http.MethodGet, "/api/v1/songs/" + uuid.NewString(), ""},
		{http.MethodGet, "/api/v1/songs/" + uuid.NewString() + "/compiled", ""},
		{http.MethodDelete, "/api/v1/songs/" + uuid.NewString(), ""},
	}

	for _, r := range requests {
		w := doRequest(router, r.method, r.path, r.body)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, r.method+" "+r.path)
	}
}

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Conceptual-Machines/magda-patterns/internal/api/middleware"
	"github.com/Conceptual-Machines/magda-patterns/internal/database"
	"github.com/Conceptual-Machines/magda-patterns/internal/models"
	"github.com/Conceptual-Machines/magda-patterns/internal/song"
)

// SongStore persists song documents. *database.SongRepository implements it.
type SongStore interface {
	Create(ctx context.Context, s *song.Song, ownerID string) (*models.SongRecord, error)
	Get(ctx context.Context, id uuid.UUID) (*song.Song, *models.SongRecord, error)
	List(ctx context.Context, ownerID string, limit int) ([]models.SongRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SongHandler serves stored song documents. A nil store answers every
// request with 503.
type SongHandler struct {
	store  SongStore
	engine *EngineHandler
}

func NewSongHandler(store SongStore, engine *EngineHandler) *SongHandler {
	return &SongHandler{store: store, engine: engine}
}

type SongResponse struct {
	Record *models.SongRecord `json:"record"`
	Song   *song.Song         `json:"song,omitempty"`
}

// Create validates and stores a song document. Songs that do not compile
// are rejected so stored documents always compile with a fresh seed.
func (h *SongHandler) Create(c *gin.Context) {
	if h.store == nil {
		respondError(c, ErrStoreDisabled)
		return
	}

	var s song.Song
	if err := c.ShouldBindJSON(&s); err != nil {
		badRequest(c, err)
		return
	}
	if s.Name == "" {
		badRequest(c, fmt.Errorf("song name is required"))
		return
	}

	if _, err := h.engine.compileSong(c.Request.Context(), &s, nil); err != nil {
		respondError(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	record, err := h.store.Create(c.Request.Context(), &s, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SongResponse{Record: record})
}

// List returns the caller's newest songs
func (h *SongHandler) List(c *gin.Context) {
	if h.store == nil {
		respondError(c, ErrStoreDisabled)
		return
	}

	limit := defaultSongPageSize
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(c, fmt.Errorf("invalid limit: %q", v))
			return
		}
		limit = min(n, maxSongPageSize)
	}

	userID, _ := middleware.GetUserID(c)
	records, err := h.store.List(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"songs": records})
}

// Get returns a stored song document
func (h *SongHandler) Get(c *gin.Context) {
	s, record, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, SongResponse{Record: record, Song: s})
}

// GetCompiled compiles a stored song. ?seed= makes randomness reproducible.
func (h *SongHandler) GetCompiled(c *gin.Context) {
	var seed *uint64
	if v := c.Query("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			badRequest(c, fmt.Errorf("invalid seed: %q", v))
			return
		}
		seed = &n
	}

	s, _, ok := h.load(c)
	if !ok {
		return
	}

	compiled, err := h.engine.compileSong(c.Request.Context(), s, seed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, compiled)
}

// Delete removes a stored song
func (h *SongHandler) Delete(c *gin.Context) {
	_, record, ok := h.load(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), record.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SongHandler) load(c *gin.Context) (*song.Song, *models.SongRecord, bool) {
	if h.store == nil {
		respondError(c, ErrStoreDisabled)
		return nil, nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, fmt.Errorf("invalid song id: %q", c.Param("id")))
		return nil, nil, false
	}

	s, record, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}

	// Songs of other gateway users are reported as missing
	if userID, _ := middleware.GetUserID(c); record.OwnerID != "" && record.OwnerID != userID {
		respondError(c, database.ErrSongNotFound)
		return nil, nil, false
	}
	return s, record, true
}

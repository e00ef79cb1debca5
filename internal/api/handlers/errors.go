package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Southclaws/fault/ftag"
	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/magda-patterns/internal/arrangement"
	"github.com/Conceptual-Machines/magda-patterns/internal/clip"
	"github.com/Conceptual-Machines/magda-patterns/internal/database"
	"github.com/Conceptual-Machines/magda-patterns/internal/dsl"
	"github.com/Conceptual-Machines/magda-patterns/internal/logger"
	"github.com/Conceptual-Machines/magda-patterns/internal/song"
)

var (
	ErrPatternTooLong     = errors.New("pattern too long")
	ErrArrangementTooLong = errors.New("arrangement too long")
	ErrStoreDisabled      = errors.New("song store disabled")
)

const (
	kindInvalidRequest = "invalid_request"
	kindInternal       = "internal"
)

var requestKinds = []struct {
	err  error
	kind string
}{
	{arrangement.ErrInvalidSlotCharacter, "invalid_slot_character"},
	{song.ErrClipOutOfRange, "clip_out_of_range"},
	{dsl.ErrEmptyDSL, "empty_dsl"},
	{dsl.ErrMissingPattern, "missing_pattern"},
	{dsl.ErrInvalidDSL, "invalid_dsl"},
	{ErrPatternTooLong, "pattern_too_long"},
	{ErrArrangementTooLong, "arrangement_too_long"},
}

// errorKind names an engine error for API clients, "" if it is not one
func errorKind(err error) string {
	if kind := clip.Kind(err); kind != "" {
		return kind
	}
	for _, k := range requestKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ""
}

// respondError maps err onto a status code: engine and input errors are
// 400, unknown songs 404, a disabled store 503, anything else 500
func respondError(c *gin.Context, err error) {
	kind := errorKind(err)
	status := http.StatusBadRequest

	switch {
	case kind != "":
	case errors.Is(err, database.ErrSongNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, ErrStoreDisabled):
		status, kind = http.StatusServiceUnavailable, "store_disabled"
	case ftag.Get(err) == ftag.InvalidArgument:
		kind = kindInvalidRequest
	default:
		status, kind = http.StatusInternalServerError, kindInternal
	}

	c.Set("error_kind", kind)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", err, logger.WithContext(c))
		c.JSON(status, gin.H{"error": "Internal server error", "kind": kind})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

// badRequest reports a malformed request body
func badRequest(c *gin.Context, err error) {
	c.Set("error_kind", kindInvalidRequest)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": kindInvalidRequest})
}

func checkPatternLength(pattern string, limit int) error {
	if limit > 0 && len(pattern) > limit {
		return fmt.Errorf("%w: %d characters, limit is %d", ErrPatternTooLong, len(pattern), limit)
	}
	return nil
}

func checkArrangementLength(arrangement string, limit int) error {
	if limit > 0 && len(arrangement) > limit {
		return fmt.Errorf("%w: %d slots, limit is %d", ErrArrangementTooLong, len(arrangement), limit)
	}
	return nil
}

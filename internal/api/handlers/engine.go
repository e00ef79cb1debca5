package handlers

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/magda-patterns/internal/arrangement"
	"github.com/Conceptual-Machines/magda-patterns/internal/clip"
	"github.com/Conceptual-Machines/magda-patterns/internal/config"
	"github.com/Conceptual-Machines/magda-patterns/internal/dsl"
	"github.com/Conceptual-Machines/magda-patterns/internal/logger"
	"github.com/Conceptual-Machines/magda-patterns/internal/metrics"
	"github.com/Conceptual-Machines/magda-patterns/internal/pattern"
	"github.com/Conceptual-Machines/magda-patterns/internal/render"
	"github.com/Conceptual-Machines/magda-patterns/internal/song"
)

// EngineHandler serves the stateless compile endpoints
type EngineHandler struct {
	defaults         clip.Defaults
	maxPatternLength int // also bounds arrangement strings
	parser           *dsl.Parser
	cw               *metrics.Client
	sentryMetrics    *metrics.SentryMetrics
	renders          *render.Session
}

// NewEngineHandler creates the handler; cw may be nil
func NewEngineHandler(cfg *config.Config, parser *dsl.Parser, cw *metrics.Client) *EngineHandler {
	return &EngineHandler{
		defaults:         cfg.ClipDefaults(),
		maxPatternLength: cfg.MaxPatternLength,
		parser:           parser,
		cw:               cw,
		sentryMetrics:    metrics.NewSentryMetrics(),
		renders: render.NewSession(func() {
			logger.Debug("No compiles in flight", nil)
		}),
	}
}

// Renders tracks the compiles currently in flight
func (h *EngineHandler) Renders() *render.Session {
	return h.renders
}

type CompileClipRequest struct {
	Clip clip.Spec `json:"clip"`
	Seed *uint64   `json:"seed,omitempty"`
}

type ClipResponse struct {
	Events        []clip.NoteEvent `json:"events"`
	SoundingSteps int              `json:"sounding_steps"`
	Span          float64          `json:"span"`
	TotalDuration float64          `json:"total_duration"`
	Window        render.Window    `json:"window"`
}

// CompileClip compiles one clip spec into note events
func (h *EngineHandler) CompileClip(c *gin.Context) {
	defer h.renders.Begin()()

	var req CompileClipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	start := time.Now()
	resp, err := h.compileClip(req.Clip, h.compiler(req.Seed))
	h.record(c.Request.Context(), "clip", 1, len(resp.Events), time.Since(start), err)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

type DurationsRequest struct {
	Pattern string  `json:"pattern" binding:"required"`
	Unit    float64 `json:"unit"`
}

type DurationsResponse struct {
	Durations []float64 `json:"durations"`
	Span      float64   `json:"span"`
}

// Durations returns the allocated duration of each sounding step of a pattern
func (h *EngineHandler) Durations(c *gin.Context) {
	var req DurationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := checkPatternLength(req.Pattern, h.maxPatternLength); err != nil {
		respondError(c, err)
		return
	}

	unit := clip.Spec{SubdivUnit: req.Unit}.WithDefaults(h.defaults).SubdivUnit

	tokens, err := pattern.Parse(req.Pattern)
	if err != nil {
		respondError(c, err)
		return
	}

	steps := pattern.Allocate(tokens, unit)
	durations := make([]float64, len(steps))
	for i, s := range steps {
		durations[i] = s.Duration
	}

	c.JSON(http.StatusOK, DurationsResponse{
		Durations: durations,
		Span:      pattern.Span(tokens, unit),
	})
}

type RenderWindowRequest struct {
	Clip clip.Spec `json:"clip"`
}

// RenderWindow returns how long a one-shot render of a clip must run
func (h *EngineHandler) RenderWindow(c *gin.Context) {
	defer h.renders.Begin()()

	var req RenderWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := checkPatternLength(req.Clip.Pattern, h.maxPatternLength); err != nil {
		respondError(c, err)
		return
	}

	window, err := render.ForClip(req.Clip.WithDefaults(h.defaults))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, window)
}

type ArrangementsRequest struct {
	Channels []string `json:"channels" binding:"required"`
}

type ArrangementsResponse struct {
	Channels []arrangement.Channel `json:"channels"`
}

// CompileArrangements compiles one arrangement string per channel
func (h *EngineHandler) CompileArrangements(c *gin.Context) {
	var req ArrangementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	for i, a := range req.Channels {
		if err := checkArrangementLength(a, h.maxPatternLength); err != nil {
			respondError(c, fmt.Errorf("channel %d: %w", i, err))
			return
		}
	}

	channels, err := arrangement.CompileChannels(req.Channels)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ArrangementsResponse{Channels: channels})
}

type DSLRequest struct {
	DSL  string  `json:"dsl" binding:"required"`
	Seed *uint64 `json:"seed,omitempty"`
}

type DSLResponse struct {
	Clips []ClipResponse `json:"clips"`
}

// CompileDSL parses Clip DSL code and compiles every clip in it
func (h *EngineHandler) CompileDSL(c *gin.Context) {
	defer h.renders.Begin()()

	var req DSLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	start := time.Now()
	specs, err := h.parser.Parse(c.Request.Context(), req.DSL)
	if err != nil {
		h.record(c.Request.Context(), "dsl", 0, 0, time.Since(start), err)
		respondError(c, err)
		return
	}

	compiler := h.compiler(req.Seed)
	resp := DSLResponse{Clips: make([]ClipResponse, 0, len(specs))}
	events := 0
	for _, spec := range specs {
		clipResp, err := h.compileClip(spec, compiler)
		if err != nil {
			h.record(c.Request.Context(), "dsl", 0, 0, time.Since(start), err)
			respondError(c, err)
			return
		}
		events += len(clipResp.Events)
		resp.Clips = append(resp.Clips, clipResp)
	}
	h.record(c.Request.Context(), "dsl", len(specs), events, time.Since(start), nil)

	c.JSON(http.StatusOK, resp)
}

type SongCompileRequest struct {
	song.Song
	Seed *uint64 `json:"seed,omitempty"`
}

// CompileSong compiles every channel of a song document
func (h *EngineHandler) CompileSong(c *gin.Context) {
	var req SongCompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	compiled, err := h.compileSong(c.Request.Context(), &req.Song, req.Seed)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, compiled)
}

func (h *EngineHandler) compileSong(ctx context.Context, s *song.Song, seed *uint64) (*song.Compiled, error) {
	defer h.renders.Begin()()

	clips := 0
	for i, ch := range s.Channels {
		if err := checkArrangementLength(ch.Arrangement, h.maxPatternLength); err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}
		for _, spec := range ch.Clips {
			if err := checkPatternLength(spec.Pattern, h.maxPatternLength); err != nil {
				return nil, err
			}
		}
		clips += len(ch.Clips)
	}

	opts := []song.Option{song.WithDefaults(h.defaults)}
	if seed != nil {
		opts = append(opts, song.WithSeed(*seed))
	}

	start := time.Now()
	compiled, err := song.Compile(ctx, s, opts...)
	events := 0
	if compiled != nil {
		events = compiled.EventCount()
	}
	h.record(ctx, "song", clips, events, time.Since(start), err)
	return compiled, err
}

func (h *EngineHandler) compileClip(spec clip.Spec, compiler *clip.Compiler) (ClipResponse, error) {
	if err := checkPatternLength(spec.Pattern, h.maxPatternLength); err != nil {
		return ClipResponse{}, err
	}

	compiled, err := compiler.Compile(spec)
	if err != nil {
		return ClipResponse{}, err
	}

	window, err := render.ForClip(compiled.Spec)
	if err != nil {
		return ClipResponse{}, err
	}

	return ClipResponse{
		Events:        compiled.Events,
		SoundingSteps: compiled.SoundingSteps,
		Span:          compiled.Span,
		TotalDuration: compiled.TotalDuration(),
		Window:        window,
	}, nil
}

// compiler builds a per-request compiler. A seed makes shuffle and random
// hits reproducible; without one the process-wide generator is used.
func (h *EngineHandler) compiler(seed *uint64) *clip.Compiler {
	opts := []clip.Option{clip.WithDefaults(h.defaults)}
	if seed != nil {
		opts = append(opts, clip.WithRand(rand.New(rand.NewPCG(*seed, 0))))
	}
	return clip.NewCompiler(opts...)
}

func (h *EngineHandler) record(ctx context.Context, target string, clips, events int, duration time.Duration, err error) {
	kind := ""
	if err != nil {
		kind = errorKind(err)
		if kind == "" {
			kind = kindInternal
		}
	} else {
		logger.LogCompile(ctx, target, duration, events, logger.Fields{"clips": clips})
	}

	h.sentryMetrics.RecordCompile(ctx, target, clips, events, duration, kind)
	if h.cw != nil {
		h.cw.RecordCompile(target, clips, events, duration, kind)
	}
}

package api

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Conceptual-Machines/magda-patterns/internal/api/handlers"
	"github.com/Conceptual-Machines/magda-patterns/internal/api/middleware"
	"github.com/Conceptual-Machines/magda-patterns/internal/config"
	"github.com/Conceptual-Machines/magda-patterns/internal/database"
	"github.com/Conceptual-Machines/magda-patterns/internal/dsl"
	"github.com/Conceptual-Machines/magda-patterns/internal/metrics"
)

// SetupRouter wires the HTTP API. db is nil when the song store is
// disabled; cw may be nil.
func SetupRouter(db *gorm.DB, cfg *config.Config, version string, cw *metrics.Client) (*gin.Engine, error) {
	parser, err := dsl.NewParser()
	if err != nil {
		return nil, fmt.Errorf("failed to create clip DSL parser: %w", err)
	}

	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(middleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(middleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(middleware.RequestTracking(cw))

	router.Use(middleware.CORS())

	// Health check
	var ping handlers.Pinger
	if db != nil {
		ping = func(ctx context.Context) error { return database.Ping(ctx, db) }
	}
	router.GET("/health", handlers.NewHealthHandler(ping).HealthCheck)

	// Keep the interface nil when there is no store
	var store handlers.SongStore
	if db != nil {
		store = database.NewSongRepository(db)
	}

	engineHandler := handlers.NewEngineHandler(cfg, parser, cw)
	songHandler := handlers.NewSongHandler(store, engineHandler)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, db != nil, cw != nil && cw.Enabled())
	metricsHandler.TrackRenders(engineHandler.Renders())
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg))
	{
		v1.POST("/clips/compile", engineHandler.CompileClip)
		v1.POST("/patterns/durations", engineHandler.Durations)
		v1.POST("/render/window", engineHandler.RenderWindow)
		v1.POST("/arrangements/compile", engineHandler.CompileArrangements)
		v1.POST("/dsl/compile", engineHandler.CompileDSL)
		v1.POST("/songs/compile", engineHandler.CompileSong)

		// Song store
		v1.POST("/songs", songHandler.Create)
		v1.GET("/songs", songHandler.List)
		v1.GET("/songs/:id", songHandler.Get)
		v1.GET("/songs/:id/compiled", songHandler.GetCompiled)
		v1.DELETE("/songs/:id", songHandler.Delete)
	}

	return router, nil
}

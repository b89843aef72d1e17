// Package http exposes the progress commands and queries as a JSON REST API.
// It is an optional surface: the CLI uses the application layer directly.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rn-academy/progress-hub/internal/application/command"
	"github.com/rn-academy/progress-hub/internal/application/query"
	"github.com/rn-academy/progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Host - address to bind (default: "127.0.0.1").
	Host string

	// Port - port to listen on (default: 8080).
	Port int

	// ReadTimeout - maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout - maximum duration for writing the response.
	WriteTimeout time.Duration

	// IdleTimeout - maximum duration for idle connections.
	IdleTimeout time.Duration

	// MaxHeaderBytes - maximum size of request headers.
	MaxHeaderBytes int

	// EnableCORS - enable CORS headers.
	EnableCORS bool

	// AllowedOrigins - allowed origins for CORS.
	AllowedOrigins []string

	// APIKeyHeader - header name for API key authentication.
	APIKeyHeader string

	// APIKeyHashes - bcrypt hashes of accepted API keys. Empty disables auth.
	APIKeyHashes []string
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           8080,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		APIKeyHeader:   "X-API-Key",
	}
}

// Address returns the server address string.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Dependencies contains everything the handlers call into.
type Dependencies struct {
	// Command side
	Progress *command.ProgressHandler
	Planner  *command.PlannerHandler

	// Query side
	Queries *query.Handler

	// Health checks; nil means always healthy.
	Health *HealthChecker

	// Metrics serves /metrics when set.
	Metrics http.Handler

	Logger *logger.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server represents the HTTP server.
type Server struct {
	config     Config
	deps       Dependencies
	engine     *gin.Engine
	httpServer *http.Server
	logger     *logger.Logger
	auth       *apiKeyAuth

	mu      sync.Mutex
	running bool
}

// NewServer creates a new HTTP server with the given configuration and dependencies.
func NewServer(config Config, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Health == nil {
		deps.Health = NewHealthChecker("")
	}

	s := &Server{
		config: config,
		deps:   deps,
		engine: gin.New(),
		logger: deps.Logger.With(logger.Component("http")),
		auth:   newAPIKeyAuth(config.APIKeyHeader, config.APIKeyHashes),
	}

	s.engine.Use(s.requestID(), s.recovery(), s.accessLog())
	if config.EnableCORS {
		s.engine.Use(s.cors())
	}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           config.Address(),
		Handler:        s.engine,
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		IdleTimeout:    config.IdleTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Health & Status Endpoints
	// ─────────────────────────────────────────────────────────────────────────
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/ready", s.handleReady)
	s.engine.GET("/live", s.handleLive)

	if s.deps.Metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.deps.Metrics))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// API v1 - one learner profile per path
	// ─────────────────────────────────────────────────────────────────────────
	p := s.engine.Group("/api/v1/profiles/:profile", s.auth.middleware())

	p.GET("/overview", s.handleOverview)
	p.GET("/achievements", s.handleListAchievements)
	p.POST("/achievements/check", s.handleCheckAchievements)

	p.POST("/lessons/:lessonID/complete", s.handleCompleteLesson)
	p.POST("/lessons/:lessonID/toggle", s.handleToggleLesson)
	p.POST("/quizzes", s.handleSubmitQuiz)
	p.POST("/projects/:projectID/steps/:stepID/toggle", s.handleToggleStep)
	p.POST("/videos/:videoID/toggle", s.handleToggleVideo)
	p.POST("/study", s.handleRecordStudy)
	p.PUT("/plan", s.handleUpdatePlan)

	p.GET("/goals", s.handleListGoals)
	p.POST("/goals", s.handleCreateGoal)
	p.PUT("/goals/:id", s.handleUpdateGoal)
	p.POST("/goals/:id/toggle", s.handleToggleGoal)
	p.POST("/goals/:id/milestones/:milestoneID/toggle", s.handleToggleMilestone)
	p.DELETE("/goals/:id", s.handleDeleteGoal)

	p.GET("/notes", s.handleListNotes)
	p.POST("/notes", s.handleCreateNote)
	p.PUT("/notes/:id", s.handleUpdateNote)
	p.DELETE("/notes/:id", s.handleDeleteNote)

	p.GET("/snippets", s.handleListSnippets)
	p.POST("/snippets", s.handleCreateSnippet)
	p.PUT("/snippets/:id", s.handleUpdateSnippet)
	p.DELETE("/snippets/:id", s.handleDeleteSnippet)
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", logger.String("address", s.config.Address()))

	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Package daemon implements the pacer daemon HTTP server. It wires
// the module catalog, the difficulty controller, attempt tracking, and
// the optional observation queue behind a small JSON API the CLI talks
// to.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/pacer/internal/adaptive"
	"github.com/felixgeelhaar/pacer/internal/catalog"
	"github.com/felixgeelhaar/pacer/internal/config"
	"github.com/felixgeelhaar/pacer/internal/domain"
	"github.com/felixgeelhaar/pacer/internal/queue"
	"github.com/felixgeelhaar/pacer/internal/session"
	"github.com/felixgeelhaar/pacer/internal/storage/local"
	"github.com/felixgeelhaar/pacer/internal/storage/postgres"
	"github.com/felixgeelhaar/pacer/internal/storage/sqlite"
)

// Version reported by the status endpoint.
const Version = "0.1.0"

// Server represents the pacer daemon HTTP server
type Server struct {
	cfg    *config.LocalConfig
	server *http.Server
	router *http.ServeMux

	// Services
	registry   *catalog.Registry
	controller *adaptive.Service
	attempts   *session.Service

	// Infrastructure owned by the server
	db        *sqlite.DB
	pool      *pgxpool.Pool
	queueConn *queue.Connection
	consumer  *queue.Consumer

	backend   string
	startedAt time.Time
}

// ServerConfig holds configuration for creating a new server
type ServerConfig struct {
	Config       *config.LocalConfig
	CatalogPath  string // overrides the configured catalog location
	SessionsPath string // overrides ~/.pacer/sessions
	DataPath     string // overrides ~/.pacer/data
	DatabaseURL  string // when set, persist to Postgres instead of local storage
}

// NewServer creates a new daemon server
func NewServer(ctx context.Context, cfg ServerConfig) (*Server, error) {
	s := &Server{
		cfg:       cfg.Config,
		router:    http.NewServeMux(),
		startedAt: time.Now(),
	}

	pacerDir, err := config.EnsurePacerDir()
	if err != nil {
		return nil, fmt.Errorf("ensure pacer dir: %w", err)
	}

	// Module catalog
	catalogPath := cfg.CatalogPath
	if catalogPath == "" {
		catalogPath = cfg.Config.Catalog.Path
		if !filepath.IsAbs(catalogPath) {
			catalogPath = filepath.Join(pacerDir, catalogPath)
		}
	}
	s.registry = catalog.NewRegistry(catalog.NewLoader(catalogPath))
	if err := s.registry.Load(); err != nil {
		slog.Warn("catalog load failed, starting with empty catalog",
			"path", catalogPath,
			"error", err,
		)
	}

	// Persistence backend for user models and adjustments
	dataPath := cfg.DataPath
	if dataPath == "" {
		dataPath = filepath.Join(pacerDir, "data")
	}
	store, err := s.openStore(ctx, cfg, dataPath)
	if err != nil {
		return nil, err
	}

	// Difficulty controller
	s.controller = adaptive.NewService(adaptive.Config{
		Bounds:  s.bounds(),
		Store:   store,
		Catalog: s.registry,
	})
	s.restoreModels(ctx, store)

	// Attempt tracking
	sessionsPath := cfg.SessionsPath
	if sessionsPath == "" {
		sessionsPath = filepath.Join(pacerDir, "sessions")
	}
	attemptStore, err := session.NewStore(sessionsPath)
	if err != nil {
		return nil, fmt.Errorf("create attempt store: %w", err)
	}
	s.attempts = session.NewService(attemptStore, s.registry, s.controller, nil)

	// Observation queue (optional)
	if cfg.Config.Queue.Enabled {
		conn, err := queue.NewConnection(cfg.Config.Queue.URL)
		if err != nil {
			slog.Warn("observation queue unavailable, continuing without it", "error", err)
		} else {
			s.queueConn = conn
			s.consumer = queue.NewConsumer(conn, s.controller, queue.DefaultConsumerConfig())
		}
	}

	// Setup routes
	s.setupRoutes()

	// Create HTTP server with middleware chain
	addr := fmt.Sprintf("%s:%d", cfg.Config.Daemon.Bind, cfg.Config.Daemon.Port)
	handler := recoveryMiddleware(loggingMiddleware(correlationIDMiddleware(s.router)))
	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// openStore selects the persistence backend: Postgres when a database
// URL is supplied, otherwise SQLite or plain JSON files per config.
func (s *Server) openStore(ctx context.Context, cfg ServerConfig, dataPath string) (adaptive.Store, error) {
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		s.pool = pool
		s.backend = "postgres"
		return postgres.NewResilientStore(postgres.NewStore(pool), nil), nil
	}

	switch cfg.Config.Storage.Backend {
	case "json":
		store, err := local.NewModelStore(dataPath)
		if err != nil {
			return nil, fmt.Errorf("create json store: %w", err)
		}
		s.backend = "json"
		return store, nil

	default: // sqlite
		dbPath := cfg.Config.Storage.Path
		if dbPath == "" {
			dbPath = filepath.Join(dataPath, "pacer.db")
		}
		db, err := sqlite.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		s.db = db
		s.backend = "sqlite"
		return sqlite.NewModelStore(db), nil
	}
}

// restoreModels loads persisted user models into the controller so a
// daemon restart does not reset learner traits.
func (s *Server) restoreModels(ctx context.Context, store adaptive.Store) {
	lister, ok := store.(interface {
		ListModels(ctx context.Context) ([]*domain.UserModel, error)
	})
	if !ok {
		return
	}

	models, err := lister.ListModels(ctx)
	if err != nil {
		slog.Warn("failed to restore user models", "error", err)
		return
	}
	for _, m := range models {
		s.controller.RestoreModel(m)
	}
	if len(models) > 0 {
		slog.Info("restored user models", "count", len(models))
	}
}

func (s *Server) bounds() domain.Bounds {
	return domain.Bounds{
		Min: s.cfg.Adaptive.MinDifficulty,
		Max: s.cfg.Adaptive.MaxDifficulty,
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health & status
	s.router.HandleFunc("GET /v1/health", s.handleHealth)
	s.router.HandleFunc("GET /v1/status", s.handleStatus)
	s.router.HandleFunc("GET /v1/config", s.handleGetConfig)

	// Catalog
	s.router.HandleFunc("GET /v1/modules", s.handleListModules)
	s.router.HandleFunc("GET /v1/modules/{id...}", s.handleGetModule)

	// Controller
	s.router.HandleFunc("POST /v1/observations", s.handleRecordObservation)
	s.router.HandleFunc("POST /v1/predictions", s.handlePredict)
	s.router.HandleFunc("GET /v1/users/{user}/model", s.handleGetModel)
	s.router.HandleFunc("GET /v1/users/{user}/progress", s.handleGetProgress)
	s.router.HandleFunc("GET /v1/users/{user}/difficulty/{module...}", s.handleGetDifficulty)
	s.router.HandleFunc("GET /v1/users/{user}/history/{module...}", s.handleGetHistory)

	// Attempts
	s.router.HandleFunc("POST /v1/attempts", s.handleStartAttempt)
	s.router.HandleFunc("GET /v1/attempts/{id}", s.handleGetAttempt)
	s.router.HandleFunc("POST /v1/attempts/{id}/runs", s.handleAttemptRun)
	s.router.HandleFunc("POST /v1/attempts/{id}/hints", s.handleAttemptHint)
	s.router.HandleFunc("POST /v1/attempts/{id}/complete", s.handleCompleteAttempt)
	s.router.HandleFunc("POST /v1/attempts/{id}/abandon", s.handleAbandonAttempt)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	if s.consumer != nil {
		if err := s.consumer.Start(context.Background()); err != nil {
			slog.Warn("failed to start observation consumer", "error", err)
		}
	}

	slog.Info("starting pacer daemon",
		"addr", s.server.Addr,
		"storage", s.backend,
		"modules", len(s.registry.List()),
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down daemon...")

	if s.consumer != nil {
		s.consumer.Stop()
	}
	if s.queueConn != nil {
		if err := s.queueConn.Close(); err != nil {
			slog.Warn("failed to close queue connection", "error", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Warn("failed to close sqlite", "error", err)
		}
	}
	if s.pool != nil {
		s.pool.Close()
	}

	return s.server.Shutdown(ctx)
}

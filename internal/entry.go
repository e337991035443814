// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/momwise/momwise/internal/api"
	"github.com/momwise/momwise/internal/artifactservice"
	"github.com/momwise/momwise/internal/assistant"
	"github.com/momwise/momwise/internal/auth"
	"github.com/momwise/momwise/internal/dailylog"
	"github.com/momwise/momwise/internal/llm"
	"github.com/momwise/momwise/internal/mcpserver"
	"github.com/momwise/momwise/internal/profile"
	"github.com/momwise/momwise/internal/sse"
	"github.com/momwise/momwise/internal/store"
)

// components are the services shared by the HTTP and MCP front ends.
type components struct {
	db        *store.DB
	artifacts *artifactservice.Service
	assistant *assistant.Service
	logs      *dailylog.Service
	profiles  *profile.Service
}

func (a *application) init() (*Config, *slog.Logger, *slog.LevelVar, error) {
	if a.config == nil {
		return nil, nil, nil, fmt.Errorf("config is required")
	}
	out := a.logOutput
	if out == nil {
		out = os.Stdout
	}

	// Initialize structured JSON logger.
	level := new(slog.LevelVar)
	level.Set(a.config.App.LogLevel)
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return a.config, logger, level, nil
}

func openStore(cfg *Config) (*store.DB, error) {
	if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	return db, nil
}

func newComponents(cfg *Config, logger *slog.Logger, opts ...artifactservice.Option) (*components, error) {
	db, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.LLM.APIKey == "" {
		logger.Warn("llm.api_key is not set; diet plan, timeline and chat requests will fail")
	}
	client := llm.NewClient(cfg.LLM.APIKey,
		llm.WithBaseURL(cfg.LLM.BaseURL),
		llm.WithModel(cfg.LLM.Model),
		llm.WithLogger(logger))

	opts = append([]artifactservice.Option{
		artifactservice.WithLogger(logger),
		artifactservice.WithTimeout(cfg.LLM.Timeout),
	}, opts...)

	return &components{
		db:        db,
		artifacts: artifactservice.New(db, client, opts...),
		assistant: assistant.New(client, logger, cfg.LLM.Timeout),
		logs:      dailylog.New(db, logger),
		profiles:  profile.New(db, logger),
	}, nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

// newRootRouter wraps the API with the standard middleware and
// unauthenticated health endpoints.
func newRootRouter(apiRouter http.Handler, db pinger, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(r.Context()); err != nil {
			logger.Warn("readiness check failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)
	return r
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	cfg, logger, level, err := app.init()
	if err != nil {
		return err
	}

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("llm_base_url", cfg.LLM.BaseURL),
		slog.String("llm_model", cfg.LLM.Model),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker.
	broker := sse.NewBroker(25 * time.Second)
	defer broker.Close()

	c, err := newComponents(cfg, logger, artifactservice.WithNotifier(broker))
	if err != nil {
		return err
	}
	defer c.db.Close()

	apiRouter := api.NewRouter(api.Deps{
		Artifacts:      c.artifacts,
		Assistant:      c.assistant,
		Logs:           c.logs,
		Profiles:       c.profiles,
		Verifier:       auth.NewVerifier(cfg.Auth.Secret),
		Events:         broker,
		RequestTimeout: cfg.App.HTTP.RequestTimeout,
	})

	r := newRootRouter(apiRouter, c.db, logger)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Apply log level changes from the config file.
	if app.configPath != "" {
		g.Go(func() error {
			if err := watchLogLevel(gCtx, app.configPath, level, logger); err != nil {
				logger.Warn("config watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Streams only end when the broker closes.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the config watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools on stdin/stdout on behalf of userID. Logs go to
// stderr unless WithLogOutput says otherwise, since stdout carries the protocol.
func RunMCP(ctx context.Context, userID string, opts ...Option) error {
	app := &application{logOutput: os.Stderr}

	for _, opt := range opts {
		opt(app)
	}

	cfg, logger, _, err := app.init()
	if err != nil {
		return err
	}

	c, err := newComponents(cfg, logger)
	if err != nil {
		return err
	}
	defer c.db.Close()

	logger.Info("MCP server starting", slog.String("user_id", userID))
	srv := mcpserver.New(c.artifacts, c.assistant, userID)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ServeStdio() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

// UpdateProfile stores the profile for userID. Accounts are provisioned
// outside the API, so this is how profiles get seeded.
func UpdateProfile(ctx context.Context, userID string, in profile.Input, opts ...Option) error {
	app := &application{logOutput: os.Stderr}

	for _, opt := range opts {
		opt(app)
	}

	cfg, logger, _, err := app.init()
	if err != nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return profile.New(db, logger).Update(ctx, userID, in)
}

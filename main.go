package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielhkuo/election-results/assistant"
	"github.com/danielhkuo/election-results/cliparse"
	"github.com/danielhkuo/election-results/db"
	"github.com/danielhkuo/election-results/handlers"
	"github.com/danielhkuo/election-results/live"
	"github.com/danielhkuo/election-results/metrics"
	"github.com/danielhkuo/election-results/middleware"
	"github.com/danielhkuo/election-results/parties"
	"github.com/danielhkuo/election-results/router"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	logger, levelOK := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	if !levelOK {
		slog.Warn("unknown log level, using info", "log_level", cfg.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(metrics.WithRuntimeCollectors(true))

	// Connect to the database
	pool, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL, db.WithQueryObserver(m.ObserveQuery))
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Create schema (tables)
	if err := pool.CreateSchema(ctx); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", pool.Type())

	registry := parties.NewRegistry(append(parties.Defaults(), cfg.Parties...))

	if cfg.SeedVoters > 0 {
		var names []string
		for _, p := range registry.All() {
			names = append(names, p.Name)
		}
		votes, err := pool.Seed(ctx, db.SeedOptions{
			Voters:     cfg.SeedVoters,
			Parties:    names,
			Provinces:  cfg.Provinces,
			Categories: cfg.Categories.All(),
		})
		if err != nil {
			slog.Error("seeding failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Seeded demo data", "voters", cfg.SeedVoters, "votes", votes)
	}

	// Assistant is optional
	var gen assistant.Generator
	gemini, err := assistant.NewGeminiClient(ctx, cfg.Assistant.APIKey, cfg.Assistant.Model)
	switch {
	case errors.Is(err, assistant.ErrNotConfigured):
		slog.Warn("assistant disabled, no API key configured")
	case err != nil:
		slog.Error("assistant setup failed", "error", err)
		os.Exit(1)
	default:
		gen = gemini
		slog.Info("Assistant ready", "model", cfg.Assistant.Model)
	}

	hub := live.NewHub(live.WithMetrics(m))

	deps := router.Deps{
		Pool:      pool,
		Config:    cfg,
		Parties:   registry,
		Metrics:   m,
		Hub:       hub,
		Assistant: assistant.New(gen),
	}
	mux := router.NewRouter(deps)

	// Push summary changes to stream subscribers
	summaries := handlers.NewElectionHandler(pool, cfg, registry, m)
	go hub.Run(ctx, summaries.LoadSummary, cfg.RefreshInterval)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              cfg.Addr(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * handlers.ChatTimeout,
		IdleTimeout:       60 * time.Second,
		// streams end with the process context
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		// Wait for Ctrl-C or SIGTERM
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// newLogger builds the process logger from the log level and format. An
// unknown level falls back to info and reports false.
func newLogger(w io.Writer, cfg cliparse.Config) (*slog.Logger, bool) {
	level := slog.LevelInfo
	ok := level.UnmarshalText([]byte(cfg.LogLevel)) == nil
	if !ok {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), ok
	}
	return slog.New(slog.NewTextHandler(w, opts)), ok
}

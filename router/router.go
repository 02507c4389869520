// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/election-results/assistant"
	"github.com/danielhkuo/election-results/cliparse"
	"github.com/danielhkuo/election-results/db"
	"github.com/danielhkuo/election-results/docs"
	"github.com/danielhkuo/election-results/handlers"
	"github.com/danielhkuo/election-results/live"
	"github.com/danielhkuo/election-results/metrics"
	"github.com/danielhkuo/election-results/middleware"
	"github.com/danielhkuo/election-results/parties"
)

// Deps are the shared services the handlers are built from. Metrics and
// Assistant may be nil.
type Deps struct {
	Pool      *db.Pool
	Config    cliparse.Config
	Parties   *parties.Registry
	Metrics   *metrics.Metrics
	Hub       *live.Hub
	Assistant *assistant.Assistant
}

func NewRouter(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(deps.Pool, deps.Config, deps.Parties, deps.Metrics)
	captureHandler := handlers.NewCaptureHandler(deps.Pool, deps.Config, deps.Parties, deps.Hub)
	streamHandler := handlers.NewStreamHandler(deps.Hub, electionHandler.LoadSummary)
	assistantHandler := handlers.NewAssistantHandler(deps.Assistant, deps.Metrics)

	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithMetrics(deps.Metrics, endpoint, middleware.WithLogging(h)))
	}

	// Health check
	mux.HandleFunc("GET /health", electionHandler.GetHealth)

	// Reports
	route("GET /api/election/summary", "summary", electionHandler.GetSummary)
	route("GET /api/election/statistics", "statistics", electionHandler.GetStatistics)
	route("GET /api/election/provincial", "provincial", electionHandler.GetProvincial)
	route("GET /api/election/regional", "regional", electionHandler.GetRegional)
	route("GET /api/election/seats", "seats", electionHandler.GetSeats)
	route("GET /api/election/seats/overview", "seats_overview", electionHandler.GetSeatOverview)
	route("GET /api/parties", "parties", electionHandler.GetParties)

	// Live updates
	route("GET /api/election/stream", "stream", streamHandler.Stream)

	// Capture
	route("POST /api/election/voters", "register_voter", captureHandler.RegisterVoter)
	route("POST /api/election/votes", "cast_vote", captureHandler.CastVote)

	// Assistant
	route("POST /api/assistant/chat", "assistant_chat", assistantHandler.Chat)

	// Operations
	mux.Handle("GET /metrics", deps.Metrics.Handler())
	mux.HandleFunc("GET /openapi.yaml", docs.Handler)

	// Root endpoint
	mux.HandleFunc("GET /{$}", electionHandler.GetRoot)

	return mux
}

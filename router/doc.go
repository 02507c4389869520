// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the election results API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{Pool: pool, Config: cfg, ...})

The caller wraps the mux with middleware.CORS for the dashboard.

# Endpoints

Health:

	GET /health
	GET /

Reports (public):

	GET /api/election/summary         - Headline figures
	GET /api/election/statistics      - Votes per party, today and total
	GET /api/election/provincial      - Leading party per province
	GET /api/election/regional        - Votes per region and candidate
	GET /api/election/seats           - Seat allocation
	GET /api/election/seats/overview  - Allocation with drift and shares
	GET /api/parties                  - Party colours and aliases
	GET /api/election/stream          - Live summary (server-sent events)

Capture:

	POST /api/election/voters - Register voter
	POST /api/election/votes  - Cast vote

Assistant:

	POST /api/assistant/chat

Operations:

	GET /metrics       - Prometheus metrics
	GET /openapi.yaml  - API description

# Middleware

API routes are wrapped with request logging and, when Deps.Metrics is set,
per-endpoint request metrics. The root, /health, /metrics and /openapi.yaml
routes are not.
*/
package router

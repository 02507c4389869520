// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics holds the Prometheus collectors of the election service.

Collectors are registered on their own registry, not the global default, so
tests can create as many instances as they need:

	m := metrics.New(metrics.WithRuntimeCollectors(true))
	mux.Handle("GET /metrics", m.Handler())

All recording methods are safe to call on a nil *Metrics, which records
nothing.

# Series

  - election_http_requests_total, election_http_request_duration_milliseconds
  - election_db_query_duration_milliseconds
  - election_seats_drift, election_seats_house_size
  - election_assistant_requests_total
  - election_live_subscribers, election_live_publishes_total
*/
package metrics

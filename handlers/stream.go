// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/election-results/live"
	"github.com/danielhkuo/election-results/middleware"
	"github.com/danielhkuo/election-results/models"
)

// KeepAliveInterval is how often an idle stream sends a comment frame.
const KeepAliveInterval = 15 * time.Second

type StreamHandler struct {
	hub       *live.Hub
	source    live.SummarySource
	keepAlive time.Duration
}

// NewStreamHandler creates the live summary stream. source supplies the
// first frame; later frames come from hub.
func NewStreamHandler(hub *live.Hub, source live.SummarySource) *StreamHandler {
	return &StreamHandler{hub: hub, source: source, keepAlive: KeepAliveInterval}
}

// Stream handles GET /api/election/stream
// Sends the summary as server-sent events until the client disconnects.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// subscribe before the first read so no change is missed in between
	updates, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	initial, err := h.source(ctx)
	if err != nil {
		slog.Error("failed to fetch election summary", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch election summary")
		return
	}

	rc := http.NewResponseController(w)
	// the server write timeout would end the stream
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeSummaryEvent(w, initial); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		slog.Warn("streaming not supported", "error", err)
		return
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-updates:
			if !ok {
				return
			}
			if err := writeSummaryEvent(w, s); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := io.WriteString(w, ": keep-alive\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeSummaryEvent(w io.Writer, s models.Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: summary\ndata: %s\n\n", data)
	return err
}

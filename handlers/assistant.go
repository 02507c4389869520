// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/election-results/assistant"
	"github.com/danielhkuo/election-results/metrics"
	"github.com/danielhkuo/election-results/middleware"
	"github.com/danielhkuo/election-results/models"
)

// ChatTimeout bounds a single upstream generation call.
const ChatTimeout = 30 * time.Second

type AssistantHandler struct {
	assistant *assistant.Assistant
	metrics   *metrics.Metrics
	timeout   time.Duration
}

func NewAssistantHandler(a *assistant.Assistant, m *metrics.Metrics) *AssistantHandler {
	return &AssistantHandler{assistant: a, metrics: m, timeout: ChatTimeout}
}

// Chat handles POST /api/assistant/chat
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		h.metrics.RecordAssistantRequest(metrics.OutcomeRejected)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	reply, err := h.assistant.Reply(ctx, req)
	switch {
	case errors.Is(err, assistant.ErrEmptyMessage):
		h.metrics.RecordAssistantRequest(metrics.OutcomeRejected)
		middleware.ErrorResponse(w, http.StatusBadRequest, "message is required")
		return
	case errors.Is(err, assistant.ErrNotConfigured):
		h.metrics.RecordAssistantRequest(metrics.OutcomeUnavailable)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Assistant is not configured")
		return
	case err != nil:
		slog.Error("assistant request failed", "error", err)
		h.metrics.RecordAssistantRequest(metrics.OutcomeUpstreamError)
		middleware.ErrorResponse(w, http.StatusBadGateway, assistant.Apology)
		return
	}

	h.metrics.RecordAssistantRequest(metrics.OutcomeOK)
	middleware.JSONResponse(w, http.StatusOK, models.ChatResponse{Reply: reply})
}

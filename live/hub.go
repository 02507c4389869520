// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/election-results/metrics"
	"github.com/danielhkuo/election-results/models"
)

// SummarySource reads the current election summary.
type SummarySource func(ctx context.Context) (models.Summary, error)

// Option configures a Hub.
type Option func(*Hub)

// WithMetrics reports subscriber counts and publishes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Hub) {
		h.metrics = m
	}
}

// Hub fans summary updates out to subscribers. Each subscriber has a buffer
// of one; a slow subscriber skips intermediate updates and receives the
// most recent one.
type Hub struct {
	mu        sync.Mutex
	subs      map[chan models.Summary]struct{}
	latest    models.Summary
	hasLatest bool
	notify    chan struct{}
	metrics   *metrics.Metrics
}

// NewHub returns an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		subs:   make(map[chan models.Summary]struct{}),
		notify: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers a subscriber. The returned function unsubscribes and
// closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan models.Summary, func()) {
	ch := make(chan models.Summary, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()
	h.metrics.SetLiveSubscribers(n)

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			n := len(h.subs)
			close(ch)
			h.mu.Unlock()
			h.metrics.SetLiveSubscribers(n)
		})
	}
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Latest returns the last published summary, if any.
func (h *Hub) Latest() (models.Summary, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest, h.hasLatest
}

// Publish delivers s to every subscriber without blocking.
func (h *Hub) Publish(s models.Summary) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = s
	h.hasLatest = true
	for ch := range h.subs {
		select {
		case ch <- s:
		default:
			// drop the stale update, keep the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
	h.metrics.RecordLivePublish()
}

// Notify asks Run to poll now instead of waiting for the next tick.
func (h *Hub) Notify() {
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

// Run polls source every interval, and whenever Notify is called, and
// publishes the summary when it differs from the last one published. It
// returns when ctx is done.
func (h *Hub) Run(ctx context.Context, source SummarySource, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		h.poll(ctx, source)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-h.notify:
		}
	}
}

func (h *Hub) poll(ctx context.Context, source SummarySource) {
	s, err := source(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("failed to refresh live summary", "error", err)
		}
		return
	}

	if latest, ok := h.Latest(); ok && latest == s {
		return
	}
	h.Publish(s)
}

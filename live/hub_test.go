// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smartystreets/goconvey/convey"

	"github.com/danielhkuo/election-results/live"
	"github.com/danielhkuo/election-results/metrics"
	"github.com/danielhkuo/election-results/models"
)

func receive(ch <-chan models.Summary) (models.Summary, bool) {
	select {
	case s, ok := <-ch:
		return s, ok
	case <-time.After(2 * time.Second):
		return models.Summary{}, false
	}
}

func TestHubPublish(t *testing.T) {
	convey.Convey("Given a hub with one subscriber", t, func() {
		hub := live.NewHub()
		ch, unsubscribe := hub.Subscribe()
		defer unsubscribe()

		convey.Convey("When a summary is published", func() {
			hub.Publish(models.Summary{VotesCast: 1})

			convey.Convey("Then the subscriber should receive it", func() {
				s, ok := receive(ch)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(s.VotesCast, convey.ShouldEqual, 1)
			})

			convey.Convey("Then it should be the latest summary", func() {
				latest, ok := hub.Latest()
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(latest.VotesCast, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When several summaries are published before the subscriber reads", func() {
			hub.Publish(models.Summary{VotesCast: 1})
			hub.Publish(models.Summary{VotesCast: 2})
			hub.Publish(models.Summary{VotesCast: 3})

			convey.Convey("Then only the newest should be delivered", func() {
				s, ok := receive(ch)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(s.VotesCast, convey.ShouldEqual, 3)
				convey.So(len(ch), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the subscriber unsubscribes twice", func() {
			unsubscribe()
			unsubscribe()

			convey.Convey("Then the channel should be closed and the hub empty", func() {
				_, ok := <-ch
				convey.So(ok, convey.ShouldBeFalse)
				convey.So(hub.Subscribers(), convey.ShouldEqual, 0)
				convey.So(func() { hub.Publish(models.Summary{}) }, convey.ShouldNotPanic)
			})
		})
	})
}

func TestHubRun(t *testing.T) {
	convey.Convey("Given a hub polling a source", t, func() {
		hub := live.NewHub()
		ch, unsubscribe := hub.Subscribe()
		defer unsubscribe()

		var votes atomic.Int64
		votes.Store(5)
		var polls atomic.Int64
		source := func(ctx context.Context) (models.Summary, error) {
			polls.Add(1)
			return models.Summary{VotesCast: votes.Load()}, nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		stopped := make(chan struct{})
		go func() {
			done <- hub.Run(ctx, source, 5*time.Millisecond)
			close(stopped)
		}()

		convey.Convey("Then the first poll should be published", func() {
			s, ok := receive(ch)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(s.VotesCast, convey.ShouldEqual, 5)

			convey.Convey("And unchanged polls should not be published", func() {
				for polls.Load() < 5 {
					time.Sleep(time.Millisecond)
				}
				convey.So(len(ch), convey.ShouldEqual, 0)
			})

			convey.Convey("And a change should be pushed after Notify", func() {
				votes.Store(6)
				hub.Notify()
				s, ok := receive(ch)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(s.VotesCast, convey.ShouldEqual, 6)
			})
		})

		convey.Reset(func() {
			cancel()
			<-stopped
		})

		convey.Convey("Then cancelling should stop Run", func() {
			cancel()
			err := <-done
			convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
		})
	})
}

func TestHubRun_SourceErrors(t *testing.T) {
	convey.Convey("Given a failing source", t, func() {
		hub := live.NewHub()
		var calls atomic.Int64
		source := func(ctx context.Context) (models.Summary, error) {
			calls.Add(1)
			return models.Summary{}, errors.New("database down")
		}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- hub.Run(ctx, source, time.Millisecond) }()

		for calls.Load() < 3 {
			time.Sleep(time.Millisecond)
		}
		cancel()
		<-done

		convey.Convey("Then nothing should be published and Run should keep polling", func() {
			_, ok := hub.Latest()
			convey.So(ok, convey.ShouldBeFalse)
			convey.So(calls.Load(), convey.ShouldBeGreaterThanOrEqualTo, 3)
		})
	})
}

func TestHubMetrics(t *testing.T) {
	convey.Convey("Given a hub with metrics", t, func() {
		registry := prometheus.NewRegistry()
		m := metrics.New(metrics.WithRegistry(registry))
		hub := live.NewHub(live.WithMetrics(m))

		_, unsubscribe := hub.Subscribe()
		_, second := hub.Subscribe()
		second()
		hub.Publish(models.Summary{VotesCast: 1})
		defer unsubscribe()

		convey.Convey("Then the subscriber gauge and publish counter should be exported", func() {
			expected := `
# HELP election_live_subscribers Number of connected result stream subscribers
# TYPE election_live_subscribers gauge
election_live_subscribers 1
# HELP election_live_publishes_total Number of summary changes pushed to subscribers
# TYPE election_live_publishes_total counter
election_live_publishes_total 1
`
			err := promtest.GatherAndCompare(registry, strings.NewReader(expected),
				"election_live_subscribers", "election_live_publishes_total")
			convey.So(err, convey.ShouldBeNil)
		})
	})
}

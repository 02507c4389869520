// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := New(WithRegistry(registry), WithNamespace("test"))

		Convey("When recording HTTP requests", func() {
			m.RecordHTTPRequest("summary", "GET", 200, 15*time.Millisecond)
			m.RecordHTTPRequest("summary", "GET", 200, 5*time.Millisecond)
			m.RecordHTTPRequest("summary", "GET", 500, time.Millisecond)

			Convey("Then requests should be counted per status code", func() {
				So(promtest.ToFloat64(m.httpRequests.WithLabelValues("summary", "GET", "200")), ShouldEqual, 2)
				So(promtest.ToFloat64(m.httpRequests.WithLabelValues("summary", "GET", "500")), ShouldEqual, 1)
			})
		})

		Convey("When publishing a seat allocation", func() {
			m.SetSeatAllocation(400, -1)

			Convey("Then the gauges should reflect it", func() {
				So(promtest.ToFloat64(m.houseSize), ShouldEqual, 400)
				So(promtest.ToFloat64(m.seatDrift), ShouldEqual, -1)
			})
		})

		Convey("When recording assistant outcomes", func() {
			m.RecordAssistantRequest(OutcomeOK)
			m.RecordAssistantRequest(OutcomeUpstreamError)
			m.RecordAssistantRequest(OutcomeOK)

			Convey("Then each outcome should be counted", func() {
				So(promtest.ToFloat64(m.assistantRequests.WithLabelValues(OutcomeOK)), ShouldEqual, 2)
				So(promtest.ToFloat64(m.assistantRequests.WithLabelValues(OutcomeUpstreamError)), ShouldEqual, 1)
			})
		})

		Convey("When recording live stream activity", func() {
			m.SetLiveSubscribers(3)
			m.RecordLivePublish()

			Convey("Then the gauge and counter should be updated", func() {
				So(promtest.ToFloat64(m.liveSubscribers), ShouldEqual, 3)
				So(promtest.ToFloat64(m.livePublishes), ShouldEqual, 1)
			})
		})

		Convey("When observing queries", func() {
			m.ObserveQuery("query", 2*time.Millisecond, nil)
			m.ObserveQuery("exec", 2*time.Millisecond, errors.New("boom"))

			Convey("Then both results should be collected", func() {
				So(promtest.CollectAndCount(m.queryDuration), ShouldEqual, 2)
			})
		})

		Convey("When scraping the handler", func() {
			m.SetSeatAllocation(400, 0)
			w := httptest.NewRecorder()
			m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			body, _ := io.ReadAll(w.Body)

			Convey("Then it should expose the namespaced metrics", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.Contains(string(body), "test_seats_house_size 400"), ShouldBeTrue)
			})
		})
	})
}

func TestNilMetrics(t *testing.T) {
	Convey("Given a nil metrics value", t, func() {
		var m *Metrics

		Convey("Then recording should not panic", func() {
			So(func() {
				m.RecordHTTPRequest("x", "GET", 200, time.Millisecond)
				m.ObserveQuery("query", time.Millisecond, nil)
				m.SetSeatAllocation(400, 0)
				m.RecordAssistantRequest(OutcomeOK)
				m.SetLiveSubscribers(1)
				m.RecordLivePublish()
			}, ShouldNotPanic)
			So(m.Registry(), ShouldBeNil)
		})

		Convey("Then the handler should return 404", func() {
			w := httptest.NewRecorder()
			m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

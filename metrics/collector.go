package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kbukum/retrokit/errors"
	"github.com/kbukum/retrokit/httpapi"
)

// Collector records request counts, latencies and failures per API. It is
// safe for concurrent use; a nil *Collector records nothing.
type Collector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec
	errorsTotal      *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewCollector creates a collector on the default registerer.
func NewCollector() *Collector {
	return newCollector(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewCollectorWithRegistry creates a collector on reg.
func NewCollectorWithRegistry(reg *prometheus.Registry) *Collector {
	return newCollector(reg, reg)
}

func newCollector(reg prometheus.Registerer, g prometheus.Gatherer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		requestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retrokit_requests_total",
				Help: "Total number of dispatched requests",
			},
			[]string{"api", "method", "status_code"},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "retrokit_request_duration_seconds",
				Help:    "Duration of dispatches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"api", "method"},
		),
		requestsInFlight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "retrokit_requests_in_flight",
				Help: "Number of dispatches currently in flight",
			},
			[]string{"api"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retrokit_errors_total",
				Help: "Failed dispatches by error code",
			},
			[]string{"api", "code"},
		),
		gatherer: g,
	}
}

// RecordRequest records a completed dispatch.
func (c *Collector) RecordRequest(api, method string, statusCode int, d time.Duration) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(api, method, strconv.Itoa(statusCode)).Inc()
	c.requestDuration.WithLabelValues(api, method).Observe(d.Seconds())
}

// RecordError records a failed dispatch.
func (c *Collector) RecordError(api, method string, code errors.ErrorCode, d time.Duration) {
	if c == nil {
		return
	}
	c.errorsTotal.WithLabelValues(api, string(code)).Inc()
	c.requestDuration.WithLabelValues(api, method).Observe(d.Seconds())
}

// Observer returns an httpapi.Observer that records every dispatch of api.
func (c *Collector) Observer(api string) httpapi.Observer {
	return httpapi.ObserverFunc(func(ctx context.Context, req *http.Request) (context.Context, httpapi.Finish) {
		if c == nil {
			return ctx, nil
		}
		start := time.Now()
		inFlight := c.requestsInFlight.WithLabelValues(api)
		inFlight.Inc()
		return ctx, func(resp *httpapi.Response, err error) {
			inFlight.Dec()
			if err != nil {
				c.RecordError(api, req.Method, errors.CodeOf(err), time.Since(start))
				return
			}
			c.RecordRequest(api, req.Method, resp.StatusCode, time.Since(start))
		}
	})
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

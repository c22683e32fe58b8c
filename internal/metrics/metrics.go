// Package metrics collects Prometheus metrics for the API and usage counters.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the service layer reports usage events through
type Recorder interface {
	RecordTokenConsumed()
	RecordAccessCodeRedeemed()
	RecordMessageCreated(role string)
}

type Collector struct {
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	tokensConsumed  prometheus.Counter
	codesRedeemed   prometheus.Counter
	messagesCreated *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lightprompt_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"method", "route", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lightprompt_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		tokensConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lightprompt_tokens_consumed_total",
			Help: "Chat tokens consumed across all users",
		}),
		codesRedeemed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lightprompt_access_codes_redeemed_total",
			Help: "Access codes successfully redeemed",
		}),
		messagesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lightprompt_messages_created_total",
			Help: "Chat messages stored by author role",
		}, []string{"role"}),
	}

	reg.MustRegister(
		c.requests,
		c.latency,
		c.tokensConsumed,
		c.codesRedeemed,
		c.messagesCreated,
	)

	return c
}

func (c *Collector) RecordTokenConsumed() {
	c.tokensConsumed.Inc()
}

func (c *Collector) RecordAccessCodeRedeemed() {
	c.codesRedeemed.Inc()
}

func (c *Collector) RecordMessageCreated(role string) {
	c.messagesCreated.WithLabelValues(role).Inc()
}

// Middleware records request counts and latency keyed by the chi route
// pattern, so /habits/{id} is one series rather than one per habit.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		c.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry for Prometheus scraping
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used where no registry is wired.
type Nop struct{}

func (Nop) RecordTokenConsumed()        {}
func (Nop) RecordAccessCodeRedeemed()   {}
func (Nop) RecordMessageCreated(string) {}

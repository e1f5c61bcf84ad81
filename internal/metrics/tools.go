// internal/metrics/tools.go

// Package metrics counts tool calls and their latency on a private
// Prometheus registry.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mwiater/toolbelt/internal/logging"
)

const namespace = "toolbelt"

// Call outcomes used as the "outcome" label.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"
	OutcomePanic    = "panic"
)

// Recorder owns the tool-call collectors. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New builds a Recorder with its own registry, including the Go and process
// collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool invocations by integration, tool and outcome.",
		}, []string{"integration", "tool", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Latency of tool invocations, including the vendor round trip.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"integration", "tool"}),
	}
	reg.MustRegister(
		r.calls,
		r.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Observe records one finished call.
func (r *Recorder) Observe(integration, tool, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.calls.WithLabelValues(integration, tool, outcome).Inc()
	if outcome != OutcomeNotFound {
		r.duration.WithLabelValues(integration, tool).Observe(elapsed.Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Router serves GET /metrics and a GET /healthz liveness probe.
func (r *Recorder) Router() http.Handler {
	router := chi.NewRouter()
	router.Method(http.MethodGet, "/metrics", r.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return router
}

// Serve exposes Router on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: r.Router(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logging.Logger().Info().Str("addr", addr).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Package metrics exposes Prometheus instrumentation of the unlock flow and
// of the gRPC surface, served over HTTP at /metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Unlock outcomes, used as the "outcome" label value.
const (
	OutcomeGranted      = "granted"
	OutcomeOwned        = "owned"
	OutcomeInsufficient = "insufficient"
	OutcomeNotFound     = "not_found"
	OutcomeError        = "error"
)

// Collector owns a private registry so that several instances (tests) do not
// collide on metric names.
type Collector struct {
	registry *prometheus.Registry

	unlocks        *prometheus.CounterVec
	unlockDuration prometheus.Histogram
	grpcRequests   *prometheus.CounterVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	c := &Collector{
		registry: registry,

		unlocks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "promptify_unlock_total",
			Help: "Unlock attempts by outcome",
		}, []string{"outcome"}),

		unlockDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "promptify_unlock_duration_seconds",
			Help:    "Time spent in the unlock transaction",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}),

		grpcRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "promptify_grpc_requests_total",
			Help: "Handled gRPC requests by method and status code",
		}, []string{"method", "code"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// ObserveUnlock records one unlock attempt.
func (c *Collector) ObserveUnlock(outcome string, d time.Duration) {
	c.unlocks.WithLabelValues(outcome).Inc()
	c.unlockDuration.Observe(d.Seconds())
}

// ObserveRequest records one handled gRPC call.
func (c *Collector) ObserveRequest(method, code string) {
	c.grpcRequests.WithLabelValues(method, code).Inc()
}

// Registry returns the registry metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	return mux
}

// Serve runs the metrics HTTP server on addr until ctx is done.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           c.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

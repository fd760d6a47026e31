// Package metrics holds the Prometheus instrumentation for the chartd
// host: engine tick timings, feed throughput and gateway fan-out.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the chart engine host.
type Metrics struct {
	FramesTotal   prometheus.Counter
	FrameDur      prometheus.Histogram
	SamplesTotal  prometheus.Counter
	RingOverflow  prometheus.Counter
	EmptyFrames   prometheus.Counter

	// Per-quantity structural transition starts (window, range, width,
	// mode, density).
	TransitionsTotal *prometheus.CounterVec

	ActiveClients  prometheus.Gauge
	BroadcastDrops prometheus.Counter
}

// New registers and returns the metric set on the default registry.
func New() *Metrics {
	m := &Metrics{
		FramesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartd_frames_total",
			Help: "Engine ticks executed.",
		}),
		FrameDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chartd_frame_duration_seconds",
			Help:    "Wall time of one engine tick.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
		}),
		SamplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartd_samples_total",
			Help: "Samples consumed from the feed.",
		}),
		RingOverflow: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartd_ring_overflow_total",
			Help: "Samples dropped because the feed ring was full.",
		}),
		EmptyFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartd_empty_frames_total",
			Help: "Frames suppressed for lack of visible data.",
		}),
		TransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chartd_transitions_total",
			Help: "Structural transitions started, by quantity.",
		}, []string{"quantity"}),
		ActiveClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chartd_ws_clients",
			Help: "Connected painter clients.",
		}),
		BroadcastDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartd_broadcast_drops_total",
			Help: "Frames dropped on slow client send buffers.",
		}),
	}
	prometheus.MustRegister(
		m.FramesTotal, m.FrameDur, m.SamplesTotal, m.RingOverflow,
		m.EmptyFrames, m.TransitionsTotal, m.ActiveClients, m.BroadcastDrops,
	)
	return m
}

// Server exposes /metrics and /healthz.
type Server struct {
	srv *http.Server
}

// NewServer creates the metrics HTTP server on addr.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return &Server{srv: &http.Server{Addr: addr, Handler: mux}}
}

// Start serves in a background goroutine.
func (s *Server) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server failed", "err", err)
		}
	}()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

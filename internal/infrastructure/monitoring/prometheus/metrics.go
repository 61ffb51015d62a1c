// Package prometheus exposes the pipeline's operational metrics and the
// optional exposition endpoint.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/monitoring/logging"
)

// ScreeningMetrics holds every metric the pipeline records.
type ScreeningMetrics struct {
	DockingsTotal       prometheus.Counter
	DockingFailures     prometheus.Counter
	DockingDuration     prometheus.Histogram
	TrainingDuration    prometheus.Histogram
	ScoringDuration     prometheus.Histogram
	CompoundsScored     prometheus.Counter
	SelectionSize       prometheus.Gauge
	LibrarySize         prometheus.Gauge
	FilteredLibrarySize prometheus.Gauge

	registry *prometheus.Registry
}

// NewScreeningMetrics registers the pipeline metrics on a fresh registry.
func NewScreeningMetrics() *ScreeningMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &ScreeningMetrics{
		DockingsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "molscreen_dockings_total",
			Help: "Ligands docked successfully.",
		}),
		DockingFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "molscreen_docking_failures_total",
			Help: "Ligands skipped after a docking failure.",
		}),
		DockingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "molscreen_docking_duration_seconds",
			Help:    "Wall time per docked ligand.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}),
		TrainingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "molscreen_training_duration_seconds",
			Help:    "Surrogate model training time.",
			Buckets: []float64{.1, .5, 1, 5, 15, 60, 300, 900},
		}),
		ScoringDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "molscreen_scoring_duration_seconds",
			Help:    "Full-library scoring time.",
			Buckets: []float64{.1, .5, 1, 5, 15, 60, 300, 900},
		}),
		CompoundsScored: factory.NewCounter(prometheus.CounterOpts{
			Name: "molscreen_compounds_scored_total",
			Help: "Compounds scored by the surrogate.",
		}),
		SelectionSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "molscreen_selection_size",
			Help: "Size of the most recent top-K selection.",
		}),
		LibrarySize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "molscreen_library_size",
			Help: "Records in the loaded library.",
		}),
		FilteredLibrarySize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "molscreen_filtered_library_size",
			Help: "Records surviving the physical-validity filter.",
		}),
		registry: reg,
	}
}

// Handler returns the exposition HTTP handler for the registry.
func (m *ScreeningMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *ScreeningMetrics) Registry() *prometheus.Registry { return m.registry }

// Serve runs the exposition endpoint on addr until ctx is cancelled.
func (m *ScreeningMetrics) Serve(ctx context.Context, addr string, log logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	log.Info("metrics endpoint listening", logging.String("addr", addr))
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

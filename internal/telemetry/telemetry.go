package telemetry

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerPrefix = "assetrefs."

var (
	// rebuildTotal counts rebuild passes by result
	rebuildTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assetrefs_rebuild_total",
		Help: "Total rebuild passes by result",
	}, []string{"result"})

	// rebuildDuration tracks rebuild latency
	rebuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "assetrefs_rebuild_duration_seconds",
		Help:    "Rebuild pass duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
	})

	// objectsVisited counts objects consumed from the visitation ledger
	objectsVisited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assetrefs_objects_visited_total",
		Help: "Total objects entered by the graph walker",
	})

	// assetsPerRoot tracks how many assets each root reports
	assetsPerRoot = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "assetrefs_assets_per_root",
		Help:    "Number of assets discovered per root",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
	})

	// graphEdges reports the edge count of the latest graph
	graphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "assetrefs_graph_edges",
		Help: "Edges in the most recent reference graph",
	})
)

// Tracer returns the tracer for a component.
func Tracer(component string) trace.Tracer {
	return otel.Tracer(tracerPrefix + component)
}

// RebuildStats summarizes one rebuild pass.
type RebuildStats struct {
	Duration    time.Duration
	Visited     int
	Edges       int
	AssetCounts []int
}

// RecordRebuild publishes the metrics of a finished pass.
func RecordRebuild(stats RebuildStats) {
	rebuildTotal.WithLabelValues("ok").Inc()
	rebuildDuration.Observe(stats.Duration.Seconds())
	objectsVisited.Add(float64(stats.Visited))
	graphEdges.Set(float64(stats.Edges))
	for _, count := range stats.AssetCounts {
		assetsPerRoot.Observe(float64(count))
	}
}

// RecordRebuildCancelled counts a pass that never started.
func RecordRebuildCancelled() {
	rebuildTotal.WithLabelValues("cancelled").Inc()
}

// MetricsHandler returns the handler for the /metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// Server exposes /metrics over HTTP.
type Server struct {
	srv *http.Server
	ln  net.Listener
	log *logrus.Entry
}

// Listen binds addr and serves metrics until Shutdown.
func Listen(addr string, log *logrus.Entry) (*Server, error) {
	if log == nil {
		log = logrus.WithField("component", "telemetry")
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %s", addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler())
	s := &Server{
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:  ln,
		log: log,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Warn("metrics server stopped")
		}
	}()
	s.log.WithField("addr", ln.Addr().String()).Info("serving metrics")
	return s, nil
}

// Addr returns the bound address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

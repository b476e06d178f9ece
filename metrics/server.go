package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Config holds the metrics server settings.
type Config struct {
	Enabled bool   `split_words:"true" default:"true"`
	Host    string `split_words:"true" default:"0.0.0.0"`
	Port    string `split_words:"true" default:"8088"`
}

// Server exposes /metrics.
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// StartMetricsServer registers the metrics of services and serves them in the
// background. It returns nil when metrics are disabled.
//
// Parameters:
// - cfg: the metrics server settings.
// - services: the metric groups to register.
// - logger: the logger for logging events.
//
// Returns:
// - *Server: the running server, or nil.
func StartMetricsServer(cfg Config, services []string, logger *logrus.Logger) *Server {
	if !cfg.Enabled {
		logger.Info("Metrics server disabled")
		return nil
	}

	RegisterMetrics(services, logger)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))

	s := &Server{
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}

	go func() {
		logger.WithField("addr", s.server.Addr).Info("Starting metrics server")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Metrics server failed")
		}
	}()

	return s
}

// Stop shuts the metrics server down.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "failed to stop metrics server")
	}
	return nil
}

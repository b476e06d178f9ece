package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ClipFinance/btc-bridge/bridge"
	"github.com/ClipFinance/btc-bridge/config"
	"github.com/ClipFinance/btc-bridge/orchestrator"
)

// Router holds the registered routes and groups.
type Router struct {
	Routes    []*echo.Route
	Root      *echo.Group
	APIBridge *echo.Group
}

// Server keeps the dependencies of the HTTP API.
type Server struct {
	Echo   *echo.Echo
	Router *Router

	Config     config.Server
	Requests   *bridge.RequestBuilder
	Bridge     orchestrator.BridgeService
	Classifier *bridge.Classifier
	Logger     *logrus.Logger
}

// NewServer creates the HTTP API and registers its routes.
//
// Parameters:
// - cfg: the listen address settings.
// - requests: the transfer request builder.
// - service: the remote bridge service.
// - classifier: the bridge reply classifier, used for logging only.
// - logger: the logger for logging events.
// - middlewares: extra middlewares, e.g. metrics.
//
// Returns:
// - *Server: the server, not yet listening.
func NewServer(
	cfg config.Server,
	requests *bridge.RequestBuilder,
	service orchestrator.BridgeService,
	classifier *bridge.Classifier,
	logger *logrus.Logger,
	middlewares ...echo.MiddlewareFunc,
) *Server {
	s := &Server{
		Config:     cfg,
		Requests:   requests,
		Bridge:     service,
		Classifier: classifier,
		Logger:     logger,
	}
	initRouter(s, middlewares)
	return s
}

// Start listens until ctx is done, then shuts down gracefully.
//
// Parameters:
// - ctx: the context controlling the server lifetime.
//
// Returns:
// - error: an error if the server fails to listen or to stop.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.Config.Host, s.Config.Port)
	errCh := make(chan error, 1)

	go func() {
		s.Logger.WithField("addr", addr).Info("BTC Bridge API listening")
		if err := s.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- errors.Wrap(err, "failed to start server")
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Echo.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down server")
	}
	return <-errCh
}

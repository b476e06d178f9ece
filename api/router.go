package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func initRouter(s *Server, middlewares []echo.MiddlewareFunc) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger(s.Logger))
	e.Use(middlewares...)

	s.Echo = e
	s.Router = &Router{
		Root: e.Group(""),
	}
	s.Router.APIBridge = s.Router.Root.Group("/api/bridge")

	s.Router.Routes = []*echo.Route{
		GetHealthRoute(s),
		PostCreateTransactionRoute(s),
	}
}

// requestLogger logs one line per request through logrus.
func requestLogger(logger *logrus.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("Request failed")
				return nil
			}
			entry.Debug("Request handled")
			return nil
		},
	})
}

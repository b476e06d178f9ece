package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func GetHealthRoute(s *Server) *echo.Route {
	return s.Router.Root.GET("/api/health", getHealthHandler(s))
}

func getHealthHandler(_ *Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, healthResponse{
			Success: true,
			Message: "BTC Bridge API is running",
		})
	}
}

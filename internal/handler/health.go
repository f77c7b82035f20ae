package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"inventory-service/internal/store"
)

// Health reports service and database liveness
func Health(s *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		sqlDB, err := s.DB().DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}
}

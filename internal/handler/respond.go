package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-service/internal/store"
)

// storeError translates a store failure into the matching HTTP response.
// Internal failures get a generic body; everything else surfaces the store
// message verbatim.
func storeError(c echo.Context, log *zap.Logger, err error) error {
	switch store.KindOf(err) {
	case store.KindNotFound:
		log.Warn("Resource not found", zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case store.KindConflict, store.KindInUse:
		log.Warn("Request conflicts with existing state", zap.Error(err))
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case store.KindNoOp, store.KindInvalid:
		log.Warn("Request rejected", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case store.KindUnauthorized:
		log.Warn("Request unauthorized", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	default:
		log.Error("Store operation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}

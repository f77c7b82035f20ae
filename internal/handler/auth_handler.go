package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-service/internal/store"
	"inventory-service/pkg/jwtutil"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"
)

// AuthHandler serves the login endpoint
type AuthHandler struct {
	store *store.Store
}

func NewAuthHandler(s *store.Store) *AuthHandler {
	return &AuthHandler{store: s}
}

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues a JWT carrying the user's role and
// resolved permission set. Unknown users, disabled accounts and wrong
// passwords all produce the same response.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	defer prometheus.TrackDBOperation("authenticate")(time.Now())
	user, err := h.store.Authenticate(req.Username, req.Password)
	if err != nil {
		prometheus.RecordAuthError("bad_credentials")
		return storeError(c, log.With(zap.String("username", req.Username)), err)
	}

	permissions := user.PermissionList()
	token, err := jwtutil.GenerateToken(user.Username, user.ID, user.Role, permissions)
	if err != nil {
		log.Error("Failed to generate token",
			zap.String("username", user.Username),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to generate token"})
	}

	log.Info("User logged in",
		zap.String("username", user.Username),
		zap.String("role", user.Role))
	return c.JSON(http.StatusOK, echo.Map{
		"token":       token,
		"username":    user.Username,
		"role":        user.Role,
		"permissions": permissions,
	})
}

package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-service/internal/store"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"
)

// UserHandler serves account management and self-service endpoints
type UserHandler struct {
	store *store.Store
}

func NewUserHandler(s *store.Store) *UserHandler {
	return &UserHandler{store: s}
}

// UserRequest defines the structure for user creation requests
type UserRequest struct {
	Username    string   `json:"username" validate:"required"`
	Password    string   `json:"password" validate:"required"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// UserUpdateRequest defines the structure for user update requests; omitted
// fields are left untouched
type UserUpdateRequest struct {
	Role        *string   `json:"role"`
	Permissions *[]string `json:"permissions"`
	Active      *bool     `json:"active"`
}

// PasswordRequest defines the structure for password change requests
type PasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// ListUsers retrieves all user accounts
func (h *UserHandler) ListUsers(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("list_users")(time.Now())
	users, err := h.store.ListUsers()
	if err != nil {
		return storeError(c, log, err)
	}

	log.Info("Users retrieved successfully", zap.Int("count", len(users)))
	return c.JSON(http.StatusOK, users)
}

// CreateUser adds a new account
func (h *UserHandler) CreateUser(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new user")

	var req UserRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	createdBy, _ := c.Get("username").(string)
	defer prometheus.TrackDBOperation("create_user")(time.Now())
	user, err := h.store.CreateUser(store.UserInput{
		Username:    req.Username,
		Password:    req.Password,
		Role:        req.Role,
		Permissions: req.Permissions,
		CreatedBy:   createdBy,
	})
	if err != nil {
		return storeError(c, log.With(zap.String("username", req.Username)), err)
	}

	log.Info("User created successfully",
		zap.String("username", user.Username),
		zap.String("role", user.Role),
		zap.String("created_by", createdBy))
	return c.JSON(http.StatusCreated, user)
}

// UpdateUser patches an account's role, permissions or active flag
func (h *UserHandler) UpdateUser(c echo.Context) error {
	log := logger.FromContext(c)
	username := c.Param("username")
	log.Info("Updating user", zap.String("username", username))

	var req UserUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data",
			zap.String("username", username),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	modifiedBy, _ := c.Get("username").(string)
	defer prometheus.TrackDBOperation("update_user")(time.Now())
	user, err := h.store.UpdateUser(username, store.UserUpdate{
		Role:        req.Role,
		Permissions: req.Permissions,
		Active:      req.Active,
		ModifiedBy:  modifiedBy,
	})
	if err != nil {
		return storeError(c, log.With(zap.String("username", username)), err)
	}

	log.Info("User updated successfully",
		zap.String("username", username),
		zap.String("modified_by", modifiedBy))
	return c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account. The admin account is protected.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	log := logger.FromContext(c)
	username := c.Param("username")
	log.Info("Deleting user", zap.String("username", username))

	defer prometheus.TrackDBOperation("delete_user")(time.Now())
	if err := h.store.DeleteUser(username); err != nil {
		return storeError(c, log.With(zap.String("username", username)), err)
	}

	log.Info("User deleted successfully", zap.String("username", username))
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}

// Profile retrieves the calling user's own account
func (h *UserHandler) Profile(c echo.Context) error {
	log := logger.FromContext(c)
	username, _ := c.Get("username").(string)

	defer prometheus.TrackDBOperation("get_user")(time.Now())
	user, err := h.store.GetUser(username)
	if err != nil {
		return storeError(c, log.With(zap.String("username", username)), err)
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword lets the calling user change their own password after
// confirming the current one
func (h *UserHandler) ChangePassword(c echo.Context) error {
	log := logger.FromContext(c)
	username, _ := c.Get("username").(string)

	var req PasswordRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	defer prometheus.TrackDBOperation("change_password")(time.Now())
	if err := h.store.ChangePassword(username, req.CurrentPassword, req.NewPassword); err != nil {
		return storeError(c, log.With(zap.String("username", username)), err)
	}

	log.Info("Password changed", zap.String("username", username))
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}

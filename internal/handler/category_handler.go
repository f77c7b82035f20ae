package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-service/internal/store"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"
)

// CategoryHandler serves category CRUD endpoints
type CategoryHandler struct {
	store *store.Store
}

func NewCategoryHandler(s *store.Store) *CategoryHandler {
	return &CategoryHandler{store: s}
}

// CategoryRequest defines the structure for category creation requests
type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// ListCategories retrieves all categories with their usage counts
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("list_categories")(time.Now())
	categories, err := h.store.ListCategories()
	if err != nil {
		return storeError(c, log, err)
	}

	log.Info("Categories retrieved successfully", zap.Int("count", len(categories)))
	return c.JSON(http.StatusOK, categories)
}

// CreateCategory adds a new category
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new category")

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	defer prometheus.TrackDBOperation("create_category")(time.Now())
	category, err := h.store.CreateCategory(req.Name, req.Description)
	if err != nil {
		return storeError(c, log.With(zap.String("name", req.Name)), err)
	}

	log.Info("Category created successfully",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name))
	return c.JSON(http.StatusCreated, category)
}

// DeleteCategory removes a category unless products still reference it
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Warn("Invalid category id", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid category id"})
	}
	log.Info("Deleting category", zap.Uint64("category_id", id))

	defer prometheus.TrackDBOperation("delete_category")(time.Now())
	if err := h.store.DeleteCategory(uint(id)); err != nil {
		return storeError(c, log.With(zap.Uint64("category_id", id)), err)
	}

	log.Info("Category deleted successfully", zap.Uint64("category_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted successfully"})
}

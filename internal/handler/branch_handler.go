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

// BranchHandler serves branch CRUD endpoints
type BranchHandler struct {
	store *store.Store
}

func NewBranchHandler(s *store.Store) *BranchHandler {
	return &BranchHandler{store: s}
}

// BranchRequest defines the structure for branch creation requests
type BranchRequest struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// BranchUpdateRequest defines the structure for branch update requests;
// omitted fields are left untouched
type BranchUpdateRequest struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
}

// ListBranches retrieves all branches with their live item counts
func (h *BranchHandler) ListBranches(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("list_branches")(time.Now())
	branches, err := h.store.ListBranches()
	if err != nil {
		return storeError(c, log, err)
	}

	log.Info("Branches retrieved successfully", zap.Int("count", len(branches)))
	return c.JSON(http.StatusOK, branches)
}

// GetBranch retrieves a single branch by ID
func (h *BranchHandler) GetBranch(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	defer prometheus.TrackDBOperation("get_branch")(time.Now())
	branch, err := h.store.GetBranch(id)
	if err != nil {
		return storeError(c, log.With(zap.String("branch_id", id)), err)
	}

	return c.JSON(http.StatusOK, branch)
}

// CreateBranch adds a new branch
func (h *BranchHandler) CreateBranch(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new branch")

	var req BranchRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	defer prometheus.TrackDBOperation("create_branch")(time.Now())
	branch, err := h.store.CreateBranch(req.ID, req.Name, req.Address, req.Description)
	if err != nil {
		return storeError(c, log.With(zap.String("branch_id", req.ID)), err)
	}

	log.Info("Branch created successfully",
		zap.String("branch_id", branch.ID),
		zap.String("name", branch.Name))
	return c.JSON(http.StatusCreated, branch)
}

// UpdateBranch patches an existing branch
func (h *BranchHandler) UpdateBranch(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	log.Info("Updating branch", zap.String("branch_id", id))

	var req BranchUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data",
			zap.String("branch_id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	defer prometheus.TrackDBOperation("update_branch")(time.Now())
	branch, err := h.store.UpdateBranch(id, store.BranchUpdate{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
	})
	if err != nil {
		return storeError(c, log.With(zap.String("branch_id", id)), err)
	}

	log.Info("Branch updated successfully",
		zap.String("branch_id", id),
		zap.String("name", branch.Name))
	return c.JSON(http.StatusOK, branch)
}

// DeleteBranch removes a branch unless it is the main branch, the last branch
// or still holds live items
func (h *BranchHandler) DeleteBranch(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	log.Info("Deleting branch", zap.String("branch_id", id))

	defer prometheus.TrackDBOperation("delete_branch")(time.Now())
	if err := h.store.DeleteBranch(id); err != nil {
		return storeError(c, log.With(zap.String("branch_id", id)), err)
	}

	log.Info("Branch deleted successfully", zap.String("branch_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Branch deleted successfully"})
}

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

// TransferHandler serves branch transfer endpoints
type TransferHandler struct {
	store *store.Store
}

func NewTransferHandler(s *store.Store) *TransferHandler {
	return &TransferHandler{store: s}
}

// TransferRequest defines the structure for transfer requests
type TransferRequest struct {
	TagID      string `json:"tag_id" validate:"required"`
	ToBranchID string `json:"to_branch_id" validate:"required"`
}

// Transfer moves one tagged item to another branch. Moving an item to the
// branch it is already in is rejected.
func (h *TransferHandler) Transfer(c echo.Context) error {
	log := logger.FromContext(c)

	var req TransferRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	log.Info("Transferring item",
		zap.String("tag_id", req.TagID),
		zap.String("to_branch_id", req.ToBranchID))

	defer prometheus.TrackDBOperation("transfer")(time.Now())
	transfer, err := h.store.Transfer(req.TagID, req.ToBranchID, nil)
	if err != nil {
		prometheus.RecordTagOperation("transfer", "error")
		return storeError(c, log.With(zap.String("tag_id", req.TagID)), err)
	}
	prometheus.RecordTagOperation("transfer", "success")

	log.Info("Item transferred successfully",
		zap.String("tag_id", transfer.TagID),
		zap.String("from_branch_id", transfer.FromBranchID),
		zap.String("to_branch_id", transfer.ToBranchID),
		zap.String("reference", transfer.Reference))
	return c.JSON(http.StatusCreated, transfer)
}

// ListTransfers retrieves the transfer log, most recent first
func (h *TransferHandler) ListTransfers(c echo.Context) error {
	log := logger.FromContext(c)

	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
			limit = v
		}
	}

	defer prometheus.TrackDBOperation("list_transfers")(time.Now())
	transfers, err := h.store.ListTransfers(limit)
	if err != nil {
		return storeError(c, log, err)
	}

	log.Info("Transfers retrieved successfully", zap.Int("count", len(transfers)))
	return c.JSON(http.StatusOK, transfers)
}

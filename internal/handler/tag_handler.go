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

// TagHandler serves the tag ledger endpoints: single assignment, lookup,
// listing and the two-step batch upload flow.
type TagHandler struct {
	store *store.Store
}

func NewTagHandler(s *store.Store) *TagHandler {
	return &TagHandler{store: s}
}

// AssignRequest defines the structure for single tag assignment requests
type AssignRequest struct {
	TagID     string `json:"tag_id" validate:"required"`
	ProductID string `json:"product_id" validate:"required"`
	BranchID  string `json:"branch_id"`
}

// BatchAssignRequest defines the structure for batch tag assignment requests
type BatchAssignRequest struct {
	TagIDs    []string `json:"tag_ids" validate:"required"`
	ProductID string   `json:"product_id" validate:"required"`
	BranchID  string   `json:"branch_id"`
}

// AssignTag links one tag to a product, placing the item in the given branch
// (the main branch when none is named)
func (h *TagHandler) AssignTag(c echo.Context) error {
	log := logger.FromContext(c)

	var req AssignRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	log.Info("Assigning tag",
		zap.String("tag_id", req.TagID),
		zap.String("product_id", req.ProductID),
		zap.String("branch_id", req.BranchID))

	defer prometheus.TrackDBOperation("assign_tag")(time.Now())
	tag, err := h.store.AssignTag(req.TagID, req.ProductID, req.BranchID, nil)
	if err != nil {
		prometheus.RecordTagOperation("assign", "error")
		return storeError(c, log.With(zap.String("tag_id", req.TagID)), err)
	}
	prometheus.RecordTagOperation("assign", "success")

	log.Info("Tag assigned successfully",
		zap.String("tag_id", tag.TagID),
		zap.String("product_id", tag.ProductID),
		zap.String("branch_id", tag.BranchID))
	return c.JSON(http.StatusCreated, tag)
}

// GetTag retrieves one tagged item with its product name resolved
func (h *TagHandler) GetTag(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	defer prometheus.TrackDBOperation("get_tag")(time.Now())
	tag, err := h.store.GetTag(id)
	if err != nil {
		return storeError(c, log.With(zap.String("tag_id", id)), err)
	}

	return c.JSON(http.StatusOK, tag)
}

// ListTags retrieves live tagged items with optional branch, category and
// product filtering
func (h *TagHandler) ListTags(c echo.Context) error {
	log := logger.FromContext(c)

	filter := store.TagFilter{
		BranchID:  c.QueryParam("branch_id"),
		Category:  c.QueryParam("category"),
		ProductID: c.QueryParam("product_id"),
	}

	defer prometheus.TrackDBOperation("list_tags")(time.Now())
	tags, err := h.store.ListTags(filter)
	if err != nil {
		return storeError(c, log, err)
	}

	log.Info("Tags retrieved successfully", zap.Int("count", len(tags)))
	return c.JSON(http.StatusOK, tags)
}

// UploadTags accepts an xlsx file of tag ids and reports, per row, whether the
// tag is new or already assigned. Nothing is written; assignment is the
// follow-up call.
func (h *TagHandler) UploadTags(c echo.Context) error {
	log := logger.FromContext(c)

	file, err := c.FormFile("file")
	if err != nil {
		log.Warn("Missing upload file", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "upload file is required"})
	}

	rows, err := readSheetRows(file)
	if err != nil {
		log.Error("Failed to parse upload file",
			zap.String("filename", file.Filename),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read spreadsheet"})
	}

	tagIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		if id := cell(row, 0); id != "" {
			tagIDs = append(tagIDs, id)
		}
	}

	log.Info("Checking uploaded tags",
		zap.String("filename", file.Filename),
		zap.Int("count", len(tagIDs)))

	defer prometheus.TrackDBOperation("check_tags")(time.Now())
	results := h.store.CheckTags(tagIDs)
	counts := map[string]int{}
	for _, r := range results {
		counts[r.Status]++
		prometheus.RecordBatchRow("tags", r.Status)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total":    len(results),
		"new":      counts[store.RowStatusNew],
		"existing": counts[store.RowStatusExisting],
		"errors":   counts[store.RowStatusError],
		"results":  results,
	})
}

// AssignTags links a batch of tags to one product. Rows fail independently;
// already-assigned tags are reported as existing and skipped.
func (h *TagHandler) AssignTags(c echo.Context) error {
	log := logger.FromContext(c)

	var req BatchAssignRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if len(req.TagIDs) == 0 || req.ProductID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tag_ids and product_id are required"})
	}

	log.Info("Assigning tag batch",
		zap.Int("count", len(req.TagIDs)),
		zap.String("product_id", req.ProductID),
		zap.String("branch_id", req.BranchID))

	defer prometheus.TrackDBOperation("assign_tags")(time.Now())
	results := h.store.AssignTags(req.TagIDs, req.ProductID, req.BranchID)
	counts := map[string]int{}
	for _, r := range results {
		counts[r.Status]++
		prometheus.RecordBatchRow("assign", r.Status)
	}

	log.Info("Tag batch processed",
		zap.Int("assigned", counts[store.RowStatusAssigned]),
		zap.Int("existing", counts[store.RowStatusExisting]),
		zap.Int("errors", counts[store.RowStatusError]))
	return c.JSON(http.StatusOK, echo.Map{
		"total":    len(results),
		"assigned": counts[store.RowStatusAssigned],
		"existing": counts[store.RowStatusExisting],
		"errors":   counts[store.RowStatusError],
		"results":  results,
	})
}

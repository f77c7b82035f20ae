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

// SaleHandler serves sale recording endpoints
type SaleHandler struct {
	store *store.Store
}

func NewSaleHandler(s *store.Store) *SaleHandler {
	return &SaleHandler{store: s}
}

// SaleRequest defines the structure for single sale requests. Price and date
// are optional; malformed values are treated as absent rather than rejected.
type SaleRequest struct {
	TagID     string `json:"tag_id" validate:"required"`
	SalePrice string `json:"sale_price"`
	SaleDate  string `json:"sale_date"`
}

// RecordSale sells one tagged item: the sale is logged and the item leaves
// the live inventory, freeing its tag for reuse
func (h *SaleHandler) RecordSale(c echo.Context) error {
	log := logger.FromContext(c)

	var req SaleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	price := parsePrice(req.SalePrice)
	date := parseDate(req.SaleDate)
	log.Info("Recording sale", zap.String("tag_id", req.TagID))

	defer prometheus.TrackDBOperation("record_sale")(time.Now())
	sale, err := h.store.Sell(req.TagID, price, date)
	if err != nil {
		prometheus.RecordTagOperation("sell", "error")
		return storeError(c, log.With(zap.String("tag_id", req.TagID)), err)
	}
	prometheus.RecordTagOperation("sell", "success")

	log.Info("Sale recorded successfully",
		zap.String("tag_id", sale.TagID),
		zap.String("product_id", sale.ProductID),
		zap.String("branch_id", sale.BranchID))
	return c.JSON(http.StatusCreated, sale)
}

// ListSales retrieves the sales log, most recent first
func (h *SaleHandler) ListSales(c echo.Context) error {
	log := logger.FromContext(c)

	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
			limit = v
		}
	}

	defer prometheus.TrackDBOperation("list_sales")(time.Now())
	sales, err := h.store.ListSales(limit)
	if err != nil {
		return storeError(c, log, err)
	}
	revenue, err := h.store.TotalRevenue()
	if err != nil {
		return storeError(c, log, err)
	}

	log.Info("Sales retrieved successfully", zap.Int("count", len(sales)))
	return c.JSON(http.StatusOK, echo.Map{
		"sales":         sales,
		"total_revenue": revenue,
	})
}

// UploadSales accepts an xlsx file of sold tags and processes each row
// independently. Columns are tag id, optional price, optional date.
func (h *SaleHandler) UploadSales(c echo.Context) error {
	log := logger.FromContext(c)

	file, err := c.FormFile("file")
	if err != nil {
		log.Warn("Missing upload file", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "upload file is required"})
	}

	sheetRows, err := readSheetRows(file)
	if err != nil {
		log.Error("Failed to parse upload file",
			zap.String("filename", file.Filename),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read spreadsheet"})
	}

	rows := make([]store.SaleRow, 0, len(sheetRows))
	for _, row := range sheetRows {
		tagID := cell(row, 0)
		if tagID == "" {
			continue
		}
		rows = append(rows, store.SaleRow{
			TagID:     tagID,
			SalePrice: parsePrice(cell(row, 1)),
			SaleDate:  parseDate(cell(row, 2)),
		})
	}

	log.Info("Processing sales upload",
		zap.String("filename", file.Filename),
		zap.Int("count", len(rows)))

	defer prometheus.TrackDBOperation("sell_rows")(time.Now())
	results := h.store.SellRows(rows)
	counts := map[string]int{}
	for _, r := range results {
		counts[r.Status]++
		prometheus.RecordBatchRow("sales", r.Status)
	}

	log.Info("Sales upload processed",
		zap.Int("sold", counts[store.RowStatusSold]),
		zap.Int("errors", counts[store.RowStatusError]))
	return c.JSON(http.StatusOK, echo.Map{
		"total":   len(results),
		"sold":    counts[store.RowStatusSold],
		"errors":  counts[store.RowStatusError],
		"results": results,
	})
}

// parsePrice reads an optional price field. Anything that is not a number is
// treated as no price.
func parsePrice(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseDate reads an optional date field, accepting RFC 3339 or plain dates.
// Anything else is treated as no date.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05", "01-02-06", "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

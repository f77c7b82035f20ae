package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"inventory-service/internal/model"
)

// Row statuses reported back for batch uploads
const (
	RowStatusNew      = "new"
	RowStatusExisting = "existing"
	RowStatusError    = "error"
	RowStatusAssigned = "assigned"
	RowStatusSold     = "sold"
)

// RowResult is the per-row outcome of a batch operation. Batches never abort:
// each row is processed independently and reports its own status.
type RowResult struct {
	TagID       string `json:"tag_id"`
	ProductName string `json:"product_name,omitempty"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

// SaleRow is one parsed row of a sales upload. Malformed optional fields are
// coerced to nil by the parser rather than rejecting the row.
type SaleRow struct {
	TagID     string
	SalePrice *float64
	SaleDate  *time.Time
}

// CheckTags classifies uploaded tag ids against the live ledger without
// mutating anything. Existing tags report the product currently holding them.
func (s *Store) CheckTags(tagIDs []string) []RowResult {
	results := make([]RowResult, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		if tagID == "" {
			results = append(results, RowResult{TagID: tagID, Status: RowStatusError, Message: "empty tag id"})
			continue
		}
		var tag model.Tag
		err := s.db.First(&tag, "tag_id = ?", tagID).Error
		switch {
		case err == nil:
			name := "Unknown"
			var product model.Product
			if s.db.First(&product, "id = ?", tag.ProductID).Error == nil {
				name = product.Name
			}
			results = append(results, RowResult{
				TagID:       tagID,
				ProductName: name,
				Status:      RowStatusExisting,
				Message:     "tag already exists for product " + name + " (ID: " + tag.ProductID + ")",
			})
		case errors.Is(err, gorm.ErrRecordNotFound):
			results = append(results, RowResult{TagID: tagID, Status: RowStatusNew, Message: "new tag"})
		default:
			results = append(results, RowResult{TagID: tagID, Status: RowStatusError, Message: err.Error()})
		}
	}
	return results
}

// AssignTags assigns each tag id to the product, continuing past per-row
// failures. Partial success is the designed behavior, not an error.
func (s *Store) AssignTags(tagIDs []string, productID, branchID string) []RowResult {
	results := make([]RowResult, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		tag, err := s.AssignTag(tagID, productID, branchID, nil)
		if err != nil {
			status := RowStatusError
			if KindOf(err) == KindConflict {
				status = RowStatusExisting
			}
			results = append(results, RowResult{TagID: tagID, Status: status, Message: err.Error()})
			continue
		}
		results = append(results, RowResult{TagID: tag.TagID, Status: RowStatusAssigned, Message: "tag assigned"})
	}
	return results
}

// SellRows processes a batch of sales row by row. Rows that fail report an
// error status; the batch continues.
func (s *Store) SellRows(rows []SaleRow) []RowResult {
	results := make([]RowResult, 0, len(rows))
	for _, row := range rows {
		sale, err := s.Sell(row.TagID, row.SalePrice, row.SaleDate)
		if err != nil {
			results = append(results, RowResult{
				TagID:       row.TagID,
				ProductName: "Unknown",
				Status:      RowStatusError,
				Message:     err.Error(),
			})
			continue
		}
		results = append(results, RowResult{
			TagID:       sale.TagID,
			ProductName: sale.ProductName,
			Status:      RowStatusSold,
			Message:     "marked as sold",
		})
	}
	return results
}

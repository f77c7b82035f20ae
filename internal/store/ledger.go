package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inventory-service/internal/model"
)

// TagDetail is a ledger entry joined with its product master data for display
type TagDetail struct {
	model.Tag
	ProductName string `json:"product_name"`
}

// AssignTag creates a live ledger entry for a new tag id. The product and
// branch must exist; the product's category is snapshotted onto the entry.
// An empty branchID defaults to the main branch. Fails with a conflict naming
// the holding product when the tag id is already live.
func (s *Store) AssignTag(tagID, productID, branchID string, ts *time.Time) (*model.Tag, error) {
	if tagID == "" {
		return nil, errf(KindInvalid, "tag id is required")
	}
	if branchID == "" {
		branchID = model.MainBranchID
	}

	var tag model.Tag
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Tag
		if err := tx.First(&existing, "tag_id = ?", tagID).Error; err == nil {
			return errf(KindConflict, "tag %s already exists for product %s", tagID, existing.ProductID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var product model.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "product %s not found", productID)
			}
			return err
		}

		var branch model.Branch
		if err := tx.First(&branch, "id = ?", branchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "branch %s does not exist", branchID)
			}
			return err
		}

		tag = model.Tag{
			TagID:     tagID,
			ProductID: product.ID,
			Category:  product.Category,
			BranchID:  branch.ID,
			AddedAt:   timeOrNow(ts),
		}
		if err := tx.Create(&tag).Error; err != nil {
			return err
		}

		return tx.Create(&model.Transaction{
			TagID:     tag.TagID,
			ProductID: tag.ProductID,
			BranchID:  tag.BranchID,
			Action:    model.ActionAdded,
			Timestamp: tag.AddedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetTag looks up a live ledger entry with its product name resolved
func (s *Store) GetTag(tagID string) (*TagDetail, error) {
	var tag model.Tag
	if err := s.db.First(&tag, "tag_id = ?", tagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errf(KindNotFound, "tag %s not found in inventory", tagID)
		}
		return nil, err
	}
	detail := TagDetail{Tag: tag, ProductName: "Unknown"}
	var product model.Product
	if err := s.db.First(&product, "id = ?", tag.ProductID).Error; err == nil {
		detail.ProductName = product.Name
	}
	return &detail, nil
}

// TagFilter narrows ListTags; zero values mean no filtering
type TagFilter struct {
	BranchID  string
	Category  string
	ProductID string
}

// ListTags returns live ledger entries matching the filter, newest first
func (s *Store) ListTags(filter TagFilter) ([]model.Tag, error) {
	q := s.db.Model(&model.Tag{})
	if filter.BranchID != "" {
		q = q.Where("branch_id = ?", filter.BranchID)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	var tags []model.Tag
	if err := q.Order("added_at DESC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Transfer moves a live tagged item to another branch. Transferring to the
// item's current branch is rejected as a no-op so the caller knows nothing
// happened. On success exactly one transfer record and one transaction record
// are written alongside the in-place branch change.
func (s *Store) Transfer(tagID, toBranchID string, ts *time.Time) (*model.Transfer, error) {
	var transfer model.Transfer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var tag model.Tag
		if err := tx.First(&tag, "tag_id = ?", tagID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "tag %s not found in inventory", tagID)
			}
			return err
		}

		var branch model.Branch
		if err := tx.First(&branch, "id = ?", toBranchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "branch %s does not exist", toBranchID)
			}
			return err
		}

		if tag.BranchID == toBranchID {
			return errf(KindNoOp, "item is already in branch %s", toBranchID)
		}

		productName := "Unknown"
		var product model.Product
		if err := tx.First(&product, "id = ?", tag.ProductID).Error; err == nil {
			productName = product.Name
		}

		fromBranchID := tag.BranchID
		when := timeOrNow(ts)

		if err := tx.Model(&model.Tag{}).Where("tag_id = ?", tagID).
			Update("branch_id", toBranchID).Error; err != nil {
			return err
		}

		transfer = model.Transfer{
			TagID:        tagID,
			ProductID:    tag.ProductID,
			ProductName:  productName,
			FromBranchID: fromBranchID,
			ToBranchID:   toBranchID,
			Reference:    uuid.New().String(),
			Timestamp:    when,
		}
		if err := tx.Create(&transfer).Error; err != nil {
			return err
		}

		return tx.Create(&model.Transaction{
			TagID:        tagID,
			ProductID:    tag.ProductID,
			FromBranchID: fromBranchID,
			ToBranchID:   toBranchID,
			Action:       model.ActionTransferred,
			Timestamp:    when,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// Sell retires a live tagged item: it writes the permanent sale record,
// appends a sold transaction, then deletes the ledger entry. The tag id is
// free for reassignment afterwards.
func (s *Store) Sell(tagID string, salePrice *float64, saleDate *time.Time) (*model.Sale, error) {
	var sale model.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var tag model.Tag
		if err := tx.First(&tag, "tag_id = ?", tagID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(KindNotFound, "tag %s not found in inventory", tagID)
			}
			return err
		}

		productName := "Unknown"
		var product model.Product
		if err := tx.First(&product, "id = ?", tag.ProductID).Error; err == nil {
			productName = product.Name
		}

		when := timeOrNow(saleDate)
		sale = model.Sale{
			TagID:       tagID,
			ProductID:   tag.ProductID,
			ProductName: productName,
			Category:    tag.Category,
			BranchID:    tag.BranchID,
			SalePrice:   salePrice,
			SaleDate:    when,
			Reference:   uuid.New().String(),
		}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		if err := tx.Create(&model.Transaction{
			TagID:     tagID,
			ProductID: tag.ProductID,
			BranchID:  tag.BranchID,
			Action:    model.ActionSold,
			Timestamp: when,
		}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Tag{}, "tag_id = ?", tagID).Error
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// TransferDetail is a transfer record with both branch names resolved for
// display
type TransferDetail struct {
	model.Transfer
	FromBranchName string `json:"from_branch_name"`
	ToBranchName   string `json:"to_branch_name"`
}

// ListTransfers returns the most recent transfer records, newest first. A
// branch deleted since the transfer falls back to its id.
func (s *Store) ListTransfers(limit int) ([]TransferDetail, error) {
	q := s.db.Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var transfers []model.Transfer
	if err := q.Find(&transfers).Error; err != nil {
		return nil, err
	}
	names := map[string]string{}
	details := make([]TransferDetail, 0, len(transfers))
	for _, transfer := range transfers {
		details = append(details, TransferDetail{
			Transfer:       transfer,
			FromBranchName: s.branchName(names, transfer.FromBranchID),
			ToBranchName:   s.branchName(names, transfer.ToBranchID),
		})
	}
	return details, nil
}

func (s *Store) branchName(cache map[string]string, id string) string {
	if name, ok := cache[id]; ok {
		return name
	}
	name := id
	var branch model.Branch
	if s.db.First(&branch, "id = ?", id).Error == nil {
		name = branch.Name
	}
	cache[id] = name
	return name
}

// ListSales returns the most recent sale records, newest first
func (s *Store) ListSales(limit int) ([]model.Sale, error) {
	q := s.db.Order("sale_date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var sales []model.Sale
	if err := q.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// TotalRevenue sums every recorded sale price
func (s *Store) TotalRevenue() (float64, error) {
	var total *float64
	err := s.db.Model(&model.Sale{}).
		Select("SUM(sale_price)").Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

package store

import (
	"errors"

	"gorm.io/gorm"

	"inventory-service/internal/model"
)

// BranchSummary is a branch with its live item count for listing views
type BranchSummary struct {
	model.Branch
	ItemCount int64 `json:"item_count"`
}

// CreateBranch registers a new branch. The id is caller-chosen and must be
// unique.
func (s *Store) CreateBranch(id, name, address, description string) (*model.Branch, error) {
	if id == "" || name == "" {
		return nil, errf(KindInvalid, "branch id and name are required")
	}
	var count int64
	if err := s.db.Model(&model.Branch{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errf(KindConflict, "branch ID %s already exists", id)
	}
	branch := model.Branch{ID: id, Name: name, Address: address, Description: description}
	if err := s.db.Create(&branch).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

// GetBranch fetches one branch by id
func (s *Store) GetBranch(id string) (*model.Branch, error) {
	var branch model.Branch
	if err := s.db.First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errf(KindNotFound, "branch %s does not exist", id)
		}
		return nil, err
	}
	return &branch, nil
}

// ListBranches returns every branch with its live item count
func (s *Store) ListBranches() ([]BranchSummary, error) {
	var branches []model.Branch
	if err := s.db.Order("created_at").Find(&branches).Error; err != nil {
		return nil, err
	}
	summaries := make([]BranchSummary, 0, len(branches))
	for _, branch := range branches {
		summary := BranchSummary{Branch: branch}
		if err := s.db.Model(&model.Tag{}).Where("branch_id = ?", branch.ID).
			Count(&summary.ItemCount).Error; err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// BranchUpdate patches a branch; nil fields are left untouched
type BranchUpdate struct {
	Name        *string
	Address     *string
	Description *string
}

// UpdateBranch applies only the supplied fields
func (s *Store) UpdateBranch(id string, update BranchUpdate) (*model.Branch, error) {
	var branch model.Branch
	if err := s.db.First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errf(KindNotFound, "branch %s does not exist", id)
		}
		return nil, err
	}
	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Address != nil {
		fields["address"] = *update.Address
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if len(fields) == 0 {
		return &branch, nil
	}
	if err := s.db.Model(&branch).Updates(fields).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

// DeleteBranch removes a branch. The main branch is never deletable, the
// registry must keep at least one branch, and a branch holding live items
// cannot be removed.
func (s *Store) DeleteBranch(id string) error {
	if id == model.MainBranchID {
		return errf(KindInUse, "branch %s is the main branch and cannot be deleted", id)
	}
	var branch model.Branch
	if err := s.db.First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errf(KindNotFound, "branch %s does not exist", id)
		}
		return err
	}
	var total int64
	if err := s.db.Model(&model.Branch{}).Count(&total).Error; err != nil {
		return err
	}
	if total <= 1 {
		return errf(KindInUse, "cannot delete the last remaining branch")
	}
	var items int64
	if err := s.db.Model(&model.Tag{}).Where("branch_id = ?", id).Count(&items).Error; err != nil {
		return err
	}
	if items > 0 {
		return errf(KindInUse, "cannot delete branch %s: %d tagged items are located at it", id, items)
	}
	return s.db.Delete(&branch).Error
}

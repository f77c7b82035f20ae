package model

import "time"

// Transaction actions, one per ledger lifecycle event
const (
	ActionAdded       = "added"
	ActionTransferred = "transferred"
	ActionSold        = "sold"
)

// Transaction is an append-only audit record of a ledger lifecycle event.
// Rows are never updated or deleted. FromBranchID/ToBranchID are only set for
// transfers; BranchID holds the branch the event happened at otherwise.
type Transaction struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	TagID        string    `json:"tag_id" gorm:"type:varchar(100);not null;index"`
	ProductID    string    `json:"product_id" gorm:"type:varchar(64);not null;index"`
	BranchID     string    `json:"branch_id" gorm:"type:varchar(50);index"`
	FromBranchID string    `json:"from_branch_id,omitempty" gorm:"type:varchar(50)"`
	ToBranchID   string    `json:"to_branch_id,omitempty" gorm:"type:varchar(50)"`
	Action       string    `json:"action" gorm:"type:varchar(20);not null;index"`
	Timestamp    time.Time `json:"timestamp" gorm:"index"`
}

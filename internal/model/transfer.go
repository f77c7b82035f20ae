package model

import "time"

// Transfer is an append-only record of a tagged item moving between branches,
// written exactly when a ledger entry's branch changes.
type Transfer struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	TagID        string    `json:"tag_id" gorm:"type:varchar(100);not null;index"`
	ProductID    string    `json:"product_id" gorm:"type:varchar(64);not null"`
	ProductName  string    `json:"product_name" gorm:"type:varchar(255)"`
	FromBranchID string    `json:"from_branch_id" gorm:"type:varchar(50);not null"`
	ToBranchID   string    `json:"to_branch_id" gorm:"type:varchar(50);not null"`
	Reference    string    `json:"reference" gorm:"type:varchar(64)"`
	Timestamp    time.Time `json:"timestamp" gorm:"index"`
}

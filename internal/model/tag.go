package model

import "time"

// Tag is a live ledger entry: one physically tagged item currently held at a
// branch. The tag id is globally unique while the entry is live. Rows are hard
// deleted on sale so a sold tag id becomes assignable again.
type Tag struct {
	TagID     string    `json:"tag_id" gorm:"primaryKey;type:varchar(100)"`
	ProductID string    `json:"product_id" gorm:"type:varchar(64);not null;index"`
	Category  string    `json:"category" gorm:"type:varchar(100);index"` // snapshot of the product category at assignment time
	BranchID  string    `json:"branch_id" gorm:"type:varchar(50);not null;index"`
	AddedAt   time.Time `json:"added_at"`
}

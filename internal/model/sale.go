package model

import "time"

// Sale is the permanent record of a sold tagged item. It snapshots the
// product name, category and branch at the time of sale because the live
// ledger entry is deleted by the sale.
type Sale struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	TagID       string    `json:"tag_id" gorm:"type:varchar(100);not null;index"`
	ProductID   string    `json:"product_id" gorm:"type:varchar(64);not null;index"`
	ProductName string    `json:"product_name" gorm:"type:varchar(255)"`
	Category    string    `json:"category" gorm:"type:varchar(100);index"`
	BranchID    string    `json:"branch_id" gorm:"type:varchar(50);index"`
	SalePrice   *float64  `json:"sale_price,omitempty"`
	SaleDate    time.Time `json:"sale_date" gorm:"index"`
	Reference   string    `json:"reference" gorm:"type:varchar(64)"`
}

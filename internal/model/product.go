package model

import "time"

// Product represents the product master data. The ID is externally assigned
// (the code printed on the product), not auto-generated.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Category    string    `json:"category" gorm:"type:varchar(100);not null;index"`
	Price       *float64  `json:"price,omitempty"`
	Barcode     string    `json:"barcode" gorm:"type:varchar(100)"`
	ImagePath   string    `json:"image_path" gorm:"type:varchar(500)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

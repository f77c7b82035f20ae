package model

import "time"

// MainBranchID is the distinguished branch created at first run. It can never
// be deleted and acts as the default branch context for ledger operations.
const MainBranchID = "main"

// Branch represents a physical location/warehouse that holds tagged inventory
type Branch struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(50)"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Address     string    `json:"address" gorm:"type:varchar(500)"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

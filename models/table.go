package models

import "time"

// Table statuses. "disabled" is staff-only; guest seating flows never touch it.
const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
	TableDisabled  = "disabled"
)

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber int       `gorm:"not null;uniqueIndex" json:"table_number"`
	Zone        *string   `gorm:"type:varchar(50);index" json:"zone"`
	Capacity    int       `gorm:"not null;default:4" json:"capacity"`
	Status      string    `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

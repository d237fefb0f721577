package models

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Role      string    `gorm:"type:varchar(20);not null;default:'guest'" json:"role"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

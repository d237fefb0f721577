package models

import "time"

type OrderItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OrderID      uint      `gorm:"not null;index" json:"order_id"`
	MenuItemID   uint      `gorm:"not null" json:"menu_item_id"`
	MenuItem     MenuItem  `gorm:"foreignKey:MenuItemID" json:"menu_item"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	PriceAtOrder float64   `gorm:"type:decimal(10,2);not null" json:"price_at_order"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

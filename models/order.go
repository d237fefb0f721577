package models

import "time"

// Order statuses.
const (
	OrderDraft  = "draft"
	OrderPlaced = "placed"
)

// Payment statuses on an order.
const (
	PaymentUnpaid  = "unpaid"
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

type Order struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	SessionID     uint         `gorm:"not null;index" json:"session_id"`
	Session       GuestSession `gorm:"foreignKey:SessionID" json:"-"`
	TableNumber   *int         `json:"table_number"`
	Status        string       `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	PaymentStatus string       `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	TotalAmount   float64      `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	Items         []OrderItem  `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

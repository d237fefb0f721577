package models

import "time"

// GuestSession is a short-lived guest identity created when a guest scans a
// QR code. It is never hard-deleted: releasing a table soft-ends the session
// by moving ExpiresAt to the present instant.
type GuestSession struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	SessionKey         string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"session_key"`
	UserID             uint       `gorm:"not null;index" json:"user_id"`
	User               User       `gorm:"foreignKey:UserID" json:"-"`
	TableNumber        *int       `gorm:"index" json:"table_number"`
	GuestCount         *int       `json:"guest_count"`
	ExpiresAt          time.Time  `gorm:"not null" json:"expires_at"`
	SeatedAt           *time.Time `json:"seated_at,omitempty"`
	EndedAt            *time.Time `json:"ended_at,omitempty"`
	PaymentCompletedAt *time.Time `json:"payment_completed_at,omitempty"`
	CreatedAt          time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"not null" json:"updated_at"`
}

// ActiveAt reports whether the session may still be used for seating or
// order mutation at the given instant.
func (s *GuestSession) ActiveAt(now time.Time) bool {
	return s.EndedAt == nil && s.ExpiresAt.After(now)
}

package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var JWTSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Default secret for local development only.
		secret = "DineInDevSecret2024"
	}
	JWTSecret = []byte(secret)
}

// SessionClaims carries the guest/admin identity plus optional seating hints
// encoded at session creation. The core only trusts the database row; the
// hints exist so the frontend can pre-fill the seating step.
type SessionClaims struct {
	SessionID   uint   `json:"session_id"`
	UserID      uint   `json:"user_id"`
	Role        string `json:"role"`
	TableNumber *int   `json:"table_number,omitempty"`
	GuestCount  *int   `json:"guest_count,omitempty"`
	jwt.RegisteredClaims
}

func GenerateSessionToken(sessionID, userID uint, role string, tableNumber, guestCount *int, expiresAt time.Time) (string, error) {
	claims := &SessionClaims{
		SessionID:   sessionID,
		UserID:      userID,
		Role:        role,
		TableNumber: tableNumber,
		GuestCount:  guestCount,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "dinein-app",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret)
}

func ParseSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

package services

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yogapratama/dinein-app/models"
	"github.com/yogapratama/dinein-app/utils"
)

// DefaultSessionTTL keeps a guest session valid for an entire visit with a
// wide margin; release moves the expiry forward when the table is freed.
const DefaultSessionTTL = 7 * 24 * time.Hour

// SessionService creates guest identities and answers the activity check the
// allocator, release protocol, and order flows all gate on.
type SessionService struct {
	DB  *gorm.DB
	TTL time.Duration
	Now func() time.Time
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db, TTL: sessionTTLFromEnv(), Now: time.Now}
}

func sessionTTLFromEnv() time.Duration {
	if raw := os.Getenv("SESSION_TTL_HOURS"); raw != "" {
		if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return DefaultSessionTTL
}

type CreateGuestSessionParams struct {
	// TableNumber is a walk-up hint recorded on the session; it does not
	// claim the table. Claiming always goes through SeatingService.
	TableNumber *int
	GuestCount  *int
}

type GuestSessionResult struct {
	Token   string               `json:"token"`
	Session *models.GuestSession `json:"session"`
}

// CreateGuestSession creates an anonymous user plus a session row and signs
// a token carrying the session identity and optional seating hints.
func (s *SessionService) CreateGuestSession(params CreateGuestSessionParams) (*GuestSessionResult, error) {
	var guestCount *int
	if params.GuestCount != nil && *params.GuestCount >= MinGuestCount && *params.GuestCount <= MaxGuestCount {
		guestCount = params.GuestCount
	}

	user := models.User{Role: "guest"}
	session := models.GuestSession{
		SessionKey:  uuid.NewString(),
		TableNumber: params.TableNumber,
		GuestCount:  guestCount,
		ExpiresAt:   s.Now().Add(s.TTL),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		session.UserID = user.ID
		return tx.Create(&session).Error
	})
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateSessionToken(session.ID, user.ID, "guest", params.TableNumber, guestCount, session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	return &GuestSessionResult{Token: token, Session: &session}, nil
}

// ActiveSession returns the session iff it exists, has not ended, and has
// not expired. Expiry is evaluated lazily here; nothing sweeps old rows.
func (s *SessionService) ActiveSession(sessionID uint) (*models.GuestSession, error) {
	var session models.GuestSession
	if err := s.DB.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if !session.ActiveAt(s.Now()) {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// IsActive is the boolean form of ActiveSession.
func (s *SessionService) IsActive(sessionID uint) bool {
	_, err := s.ActiveSession(sessionID)
	return err == nil
}

// ListActiveSessions returns seated sessions for the staff occupancy view,
// newest first.
func (s *SessionService) ListActiveSessions() ([]models.GuestSession, error) {
	var sessions []models.GuestSession
	err := s.DB.
		Where("ended_at IS NULL AND expires_at > ? AND table_number IS NOT NULL", s.Now()).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

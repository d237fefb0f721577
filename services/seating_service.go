package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yogapratama/dinein-app/models"
)

// Guest counts outside this range fall back to a minimum capacity of 1.
const (
	MinGuestCount = 1
	MaxGuestCount = 10
)

// candidateLimit bounds how many eligible tables one assignment attempt will
// try to claim before reporting no availability.
const candidateLimit = 5

// SeatingService owns every table-status transition on the guest path:
// claiming a table for a session and releasing it when the session ends.
// Staff disabling/enabling tables happens in the table controller; those
// states are never touched here.
type SeatingService struct {
	DB *gorm.DB
	// Now is injectable so tests can simulate session expiry.
	Now func() time.Time
}

func NewSeatingService(db *gorm.DB) *SeatingService {
	return &SeatingService{DB: db, Now: time.Now}
}

type AssignTableParams struct {
	SessionID uint
	// Zone filters auto-assignment. nil means any zone; "main" or "" means
	// the default (null) zone.
	Zone       *string
	GuestCount *int
	// RequestedTableNumber pins the assignment to one table, as encoded in
	// a per-table QR code. RequestedZone must then match that table's zone.
	RequestedTableNumber *int
	RequestedZone        *string
}

type TableAssignment struct {
	TableNumber int     `json:"table_number"`
	Zone        *string `json:"zone"`
	Status      string  `json:"status"`
}

// NormalizeZone maps the "main"/empty markers to the canonical nil zone so
// comparisons inside the service never deal with the string duality.
func NormalizeZone(zone string) *string {
	z := strings.TrimSpace(zone)
	if z == "" || strings.EqualFold(z, "main") {
		return nil
	}
	return &z
}

func normalizeZonePtr(zone *string) *string {
	if zone == nil {
		return nil
	}
	return NormalizeZone(*zone)
}

// activeSession loads the session and enforces the activity guard: a session
// that is missing, ended, or past its expiry is treated as not found.
func (s *SeatingService) activeSession(tx *gorm.DB, sessionID uint) (*models.GuestSession, error) {
	var session models.GuestSession
	if err := tx.First(&session, sessionID).Error; err != nil {
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

func effectiveMinCapacity(guestCount *int) int {
	if guestCount != nil && *guestCount >= MinGuestCount && *guestCount <= MaxGuestCount {
		return *guestCount
	}
	return MinGuestCount
}

// lockForClaim adds FOR UPDATE SKIP LOCKED on databases that support it, so
// concurrent assignments racing for the same capacity class skip each
// other's candidate rows instead of serializing. The conditional claim in
// claimTable keeps the sqlite test rig correct without it.
func lockForClaim(tx *gorm.DB, q *gorm.DB) *gorm.DB {
	switch tx.Dialector.Name() {
	case "mysql", "postgres":
		return q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
	default:
		return q
	}
}

// claimTable flips one table available -> occupied. The WHERE on the current
// status makes the claim atomic: a row another transaction already took
// reports zero affected rows instead of being double-booked.
func claimTable(tx *gorm.DB, tableID uint) (bool, error) {
	res := tx.Model(&models.Table{}).
		Where("id = ? AND status = ?", tableID, models.TableAvailable).
		Update("status", models.TableOccupied)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// AssignTable atomically selects and binds exactly one table to the session.
//
// With RequestedTableNumber set it resolves that exact table and fails with
// ErrTableNotAvailable when the table is missing, not available, or too
// small. Otherwise it auto-assigns best-fit: smallest sufficient capacity,
// ties broken by lowest table number, failing with ErrNoTableAvailable when
// nothing is eligible.
//
// Calling it again for an already-seated session is a no-op that returns the
// bound table, so page refreshes and webhook retries are safe.
func (s *SeatingService) AssignTable(params AssignTableParams) (*TableAssignment, error) {
	session, err := s.activeSession(s.DB, params.SessionID)
	if err != nil {
		return nil, err
	}

	if session.TableNumber != nil {
		var existing models.Table
		err := s.DB.Where("table_number = ?", *session.TableNumber).First(&existing).Error
		if err == nil && existing.Status != models.TableDisabled {
			return &TableAssignment{
				TableNumber: existing.TableNumber,
				Zone:        existing.Zone,
				Status:      existing.Status,
			}, nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	minCapacity := effectiveMinCapacity(params.GuestCount)

	var claimed models.Table
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var claimErr error
		if params.RequestedTableNumber != nil {
			claimed, claimErr = s.claimRequestedTable(tx, *params.RequestedTableNumber, params.RequestedZone, minCapacity)
		} else {
			claimed, claimErr = s.claimBestFit(tx, params.Zone, minCapacity)
		}
		if claimErr != nil {
			return claimErr
		}
		return s.bindSession(tx, session.ID, claimed.TableNumber, params.GuestCount)
	})
	if err != nil {
		return nil, err
	}

	return &TableAssignment{
		TableNumber: claimed.TableNumber,
		Zone:        claimed.Zone,
		Status:      models.TableOccupied,
	}, nil
}

// claimRequestedTable resolves a per-table QR request. Every failure mode is
// ErrTableNotAvailable: the guest scanned a specific code, so there is no
// point retrying a different table automatically.
func (s *SeatingService) claimRequestedTable(tx *gorm.DB, tableNumber int, requestedZone *string, minCapacity int) (models.Table, error) {
	q := tx.Where("table_number = ?", tableNumber)
	if z := normalizeZonePtr(requestedZone); z != nil {
		q = q.Where("zone = ?", *z)
	} else {
		q = q.Where("zone IS NULL")
	}

	var table models.Table
	if err := lockForClaim(tx, q).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Table{}, ErrTableNotAvailable
		}
		return models.Table{}, err
	}

	if table.Status != models.TableAvailable || table.Capacity < minCapacity {
		return models.Table{}, ErrTableNotAvailable
	}

	ok, err := claimTable(tx, table.ID)
	if err != nil {
		return models.Table{}, err
	}
	if !ok {
		// Lost the race for this exact table: it is occupied now.
		return models.Table{}, ErrTableNotAvailable
	}
	return table, nil
}

// claimBestFit picks the smallest available table that seats the party,
// lowest table number first, and claims the first candidate that is not
// taken by a concurrent assignment.
func (s *SeatingService) claimBestFit(tx *gorm.DB, zone *string, minCapacity int) (models.Table, error) {
	q := tx.Where("status = ? AND capacity >= ?", models.TableAvailable, minCapacity)
	if zone != nil {
		if z := NormalizeZone(*zone); z != nil {
			q = q.Where("zone = ?", *z)
		} else {
			q = q.Where("zone IS NULL")
		}
	}
	q = q.Order("capacity ASC, table_number ASC").Limit(candidateLimit)

	var candidates []models.Table
	if err := lockForClaim(tx, q).Find(&candidates).Error; err != nil {
		return models.Table{}, err
	}

	for _, candidate := range candidates {
		ok, err := claimTable(tx, candidate.ID)
		if err != nil {
			return models.Table{}, err
		}
		if ok {
			return candidate, nil
		}
	}
	return models.Table{}, ErrNoTableAvailable
}

func (s *SeatingService) bindSession(tx *gorm.DB, sessionID uint, tableNumber int, guestCount *int) error {
	now := s.Now()
	updates := map[string]interface{}{
		"table_number": tableNumber,
		"seated_at":    now,
	}
	if guestCount != nil && *guestCount >= MinGuestCount && *guestCount <= MaxGuestCount {
		updates["guest_count"] = *guestCount
	}
	return tx.Model(&models.GuestSession{}).
		Where("id = ?", sessionID).
		Updates(updates).Error
}

// ReleaseTable frees the session's table and soft-ends the session: the
// binding is cleared and the expiry is moved to now, so the history row
// survives but no further seating or cart operations can use it.
//
// A session with no bound table releases as a no-op, which makes the second
// of two concurrent releases safe. A disabled table stays disabled: staff
// disabling a table mid-visit must win over the guest leaving.
func (s *SeatingService) ReleaseTable(sessionID uint) error {
	var session models.GuestSession
	if err := s.DB.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	if session.TableNumber == nil {
		return nil
	}

	if !session.ActiveAt(s.Now()) {
		return ErrSessionNotFound
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Table{}).
			Where("table_number = ? AND status = ?", *session.TableNumber, models.TableOccupied).
			Update("status", models.TableAvailable).Error
		if err != nil {
			return err
		}

		now := s.Now()
		return tx.Model(&models.GuestSession{}).
			Where("id = ?", session.ID).
			Updates(map[string]interface{}{
				"table_number": nil,
				"guest_count":  nil,
				"expires_at":   now,
				"ended_at":     now,
			}).Error
	})
}

// EndSession is the staff-initiated variant of ReleaseTable; both converge
// on the same transition.
func (s *SeatingService) EndSession(sessionID uint) error {
	return s.ReleaseTable(sessionID)
}

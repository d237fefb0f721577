package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yogapratama/dinein-app/models"
	"github.com/yogapratama/dinein-app/utils"
)

// fallbackGuestCount is assumed when a paying session never stated its
// party size.
const fallbackGuestCount = 2

// PaymentService is the bridge between the external payment processor and
// the allocator. The processor itself is a black box; the only thing that
// reaches this service is a confirmed "paid" event carrying order/session
// identifiers and optional seating hints in its metadata.
type PaymentService struct {
	DB      *gorm.DB
	Seating *SeatingService
	Now     func() time.Time
}

func NewPaymentService(db *gorm.DB, seating *SeatingService) *PaymentService {
	return &PaymentService{DB: db, Seating: seating, Now: time.Now}
}

type FinalizeOrderParams struct {
	OrderID              uint
	SessionID            uint
	RequestedTableNumber *int
	RequestedZone        *string
}

// FinalizePaidOrder seats the session and marks the order placed and paid.
//
// It is invoked once from the payment-confirmation endpoint and possibly
// again from a webhook retry for the same event, so it must be idempotent:
// an order that is already placed and paid returns success without side
// effects. Allocator failures propagate unchanged, leaving the order draft
// and unpaid so the caller can retry seating manually.
func (p *PaymentService) FinalizePaidOrder(params FinalizeOrderParams) error {
	var order models.Order
	err := p.DB.Preload("Session").
		Where("id = ? AND session_id = ?", params.OrderID, params.SessionID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewAppError(KindOrderNotFound, "order not found")
		}
		return err
	}

	if order.Status == models.OrderPlaced && order.PaymentStatus == models.PaymentPaid {
		// Duplicate delivery of the same payment event.
		utils.InfoLogger.Printf("Order %d already finalized, skipping duplicate confirmation", order.ID)
		return nil
	}

	session := order.Session
	if !session.ExpiresAt.After(p.Now()) {
		return ErrSessionNotFound
	}
	if session.EndedAt != nil {
		return ErrSessionEnded
	}

	guestCount := fallbackGuestCount
	if session.GuestCount != nil {
		guestCount = *session.GuestCount
	}

	assignment, err := p.Seating.AssignTable(AssignTableParams{
		SessionID:            session.ID,
		GuestCount:           &guestCount,
		RequestedTableNumber: params.RequestedTableNumber,
		RequestedZone:        params.RequestedZone,
	})
	if err != nil {
		return err
	}

	return p.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"status":         models.OrderPlaced,
				"payment_status": models.PaymentPaid,
				"table_number":   assignment.TableNumber,
			}).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.GuestSession{}).
			Where("id = ?", session.ID).
			Update("payment_completed_at", p.Now()).Error
	})
}

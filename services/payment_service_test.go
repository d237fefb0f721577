package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yogapratama/dinein-app/models"
)

func seedDraftOrder(t *testing.T, db *gorm.DB, sessionID uint) models.Order {
	t.Helper()
	order := models.Order{SessionID: sessionID, Status: models.OrderDraft, PaymentStatus: models.PaymentUnpaid}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestFinalizePaidOrder(t *testing.T) {
	db := setupServiceDB(t)
	seating := NewSeatingService(db)
	svc := NewPaymentService(db, seating)

	seedTable(t, db, 1, nil, 2, models.TableAvailable)
	seedTable(t, db, 2, nil, 4, models.TableAvailable)

	session := seedSession(t, db, time.Hour)
	require.NoError(t, db.Model(&models.GuestSession{}).
		Where("id = ?", session.ID).Update("guest_count", 3).Error)
	order := seedDraftOrder(t, db, session.ID)

	require.NoError(t, svc.FinalizePaidOrder(FinalizeOrderParams{
		OrderID:   order.ID,
		SessionID: session.ID,
	}))

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderPlaced, reloaded.Status)
	assert.Equal(t, models.PaymentPaid, reloaded.PaymentStatus)
	require.NotNil(t, reloaded.TableNumber)
	// guest_count=3 rules out the 2-seater: best fit is #2.
	assert.Equal(t, 2, *reloaded.TableNumber)

	var sess models.GuestSession
	require.NoError(t, db.First(&sess, session.ID).Error)
	assert.NotNil(t, sess.PaymentCompletedAt)
}

func TestFinalizePaidOrderIdempotent(t *testing.T) {
	db := setupServiceDB(t)
	seating := NewSeatingService(db)
	svc := NewPaymentService(db, seating)

	seedTable(t, db, 1, nil, 4, models.TableAvailable)
	seedTable(t, db, 2, nil, 4, models.TableAvailable)

	session := seedSession(t, db, time.Hour)
	order := seedDraftOrder(t, db, session.ID)

	params := FinalizeOrderParams{OrderID: order.ID, SessionID: session.ID}
	require.NoError(t, svc.FinalizePaidOrder(params))

	// Webhook redelivery of the same event: success, no side effects.
	require.NoError(t, svc.FinalizePaidOrder(params))

	var occupied int64
	db.Model(&models.Table{}).Where("status = ?", models.TableOccupied).Count(&occupied)
	assert.EqualValues(t, 1, occupied)
}

func TestFinalizePaidOrderAllocatorFailurePropagates(t *testing.T) {
	db := setupServiceDB(t)
	seating := NewSeatingService(db)
	svc := NewPaymentService(db, seating)

	// Nothing seatable: payment confirmed but seating must fail loudly.
	seedTable(t, db, 1, nil, 4, models.TableOccupied)

	session := seedSession(t, db, time.Hour)
	order := seedDraftOrder(t, db, session.ID)

	err := svc.FinalizePaidOrder(FinalizeOrderParams{OrderID: order.ID, SessionID: session.ID})
	assert.ErrorIs(t, err, ErrNoTableAvailable)

	// Order untouched so it can be retried manually.
	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderDraft, reloaded.Status)
	assert.Equal(t, models.PaymentUnpaid, reloaded.PaymentStatus)
}

func TestFinalizePaidOrderGuards(t *testing.T) {
	db := setupServiceDB(t)
	seating := NewSeatingService(db)
	svc := NewPaymentService(db, seating)

	seedTable(t, db, 1, nil, 4, models.TableAvailable)

	// Unknown order.
	session := seedSession(t, db, time.Hour)
	err := svc.FinalizePaidOrder(FinalizeOrderParams{OrderID: 999, SessionID: session.ID})
	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, KindOrderNotFound, appErr.Kind)

	// Order belonging to a different session.
	other := seedSession(t, db, time.Hour)
	order := seedDraftOrder(t, db, other.ID)
	err = svc.FinalizePaidOrder(FinalizeOrderParams{OrderID: order.ID, SessionID: session.ID})
	appErr, ok = AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, KindOrderNotFound, appErr.Kind)

	// Expired session.
	expired := seedSession(t, db, -time.Hour)
	expOrder := seedDraftOrder(t, db, expired.ID)
	err = svc.FinalizePaidOrder(FinalizeOrderParams{OrderID: expOrder.ID, SessionID: expired.ID})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Ended session.
	ended := seedSession(t, db, time.Hour)
	require.NoError(t, db.Model(&models.GuestSession{}).
		Where("id = ?", ended.ID).Update("ended_at", time.Now()).Error)
	endOrder := seedDraftOrder(t, db, ended.ID)
	err = svc.FinalizePaidOrder(FinalizeOrderParams{OrderID: endOrder.ID, SessionID: ended.ID})
	assert.ErrorIs(t, err, ErrSessionEnded)
}

func TestFinalizePaidOrderWithRequestedTable(t *testing.T) {
	db := setupServiceDB(t)
	seating := NewSeatingService(db)
	svc := NewPaymentService(db, seating)

	seedTable(t, db, 1, nil, 4, models.TableAvailable)
	seedTable(t, db, 7, strPtr("B"), 6, models.TableAvailable)

	session := seedSession(t, db, time.Hour)
	order := seedDraftOrder(t, db, session.ID)

	require.NoError(t, svc.FinalizePaidOrder(FinalizeOrderParams{
		OrderID:              order.ID,
		SessionID:            session.ID,
		RequestedTableNumber: intPtr(7),
		RequestedZone:        strPtr("B"),
	}))

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.NotNil(t, reloaded.TableNumber)
	assert.Equal(t, 7, *reloaded.TableNumber)
}

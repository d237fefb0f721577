package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yogapratama/dinein-app/models"
)

func newOrderService(db *gorm.DB) *OrderService {
	seating := NewSeatingService(db)
	sessions := NewSessionService(db)
	return NewOrderService(db, sessions, seating)
}

func seedMenuItem(t *testing.T, db *gorm.DB, name string, price float64, active bool) models.MenuItem {
	t.Helper()
	item := models.MenuItem{Name: name, Price: price, IsActive: active}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func TestDraftOrderLifecycle(t *testing.T) {
	db := setupServiceDB(t)
	svc := newOrderService(db)

	session := seedSession(t, db, time.Hour)
	noodles := seedMenuItem(t, db, "Fried Noodles", 6.50, true)
	tea := seedMenuItem(t, db, "Iced Tea", 2.00, true)

	order, err := svc.CreateOrGetDraft(session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderDraft, order.Status)

	// Reopening the cart returns the same draft.
	again, err := svc.CreateOrGetDraft(session.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, again.ID)

	_, err = svc.UpsertItem(order.ID, session.ID, noodles.ID, 2)
	require.NoError(t, err)
	teaLine, err := svc.UpsertItem(order.ID, session.ID, tea.ID, 1)
	require.NoError(t, err)

	// Changing a quantity updates the line, not a duplicate row.
	_, err = svc.UpsertItem(order.ID, session.ID, noodles.ID, 3)
	require.NoError(t, err)

	var reloaded models.Order
	require.NoError(t, db.Preload("Items").First(&reloaded, order.ID).Error)
	assert.Len(t, reloaded.Items, 2)
	assert.InDelta(t, 3*6.50+2.00, reloaded.TotalAmount, 0.001)

	require.NoError(t, svc.RemoveItem(teaLine.ID, session.ID))
	require.NoError(t, db.Preload("Items").First(&reloaded, order.ID).Error)
	assert.Len(t, reloaded.Items, 1)
	assert.InDelta(t, 3*6.50, reloaded.TotalAmount, 0.001)
}

func TestUpsertItemValidation(t *testing.T) {
	db := setupServiceDB(t)
	svc := newOrderService(db)

	session := seedSession(t, db, time.Hour)
	inactive := seedMenuItem(t, db, "Retired Dish", 9.00, false)

	order, err := svc.CreateOrGetDraft(session.ID)
	require.NoError(t, err)

	_, err = svc.UpsertItem(order.ID, session.ID, inactive.ID, 1)
	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidationFailed, appErr.Kind)

	active := seedMenuItem(t, db, "Soup", 4.00, true)
	_, err = svc.UpsertItem(order.ID, session.ID, active.ID, 0)
	appErr, ok = AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidationFailed, appErr.Kind)
}

func TestPlaceOrderRequiresSeatedSession(t *testing.T) {
	db := setupServiceDB(t)
	svc := newOrderService(db)

	session := seedSession(t, db, time.Hour)
	dish := seedMenuItem(t, db, "Satay", 8.00, true)

	order, err := svc.CreateOrGetDraft(session.ID)
	require.NoError(t, err)
	_, err = svc.UpsertItem(order.ID, session.ID, dish.ID, 1)
	require.NoError(t, err)

	_, err = svc.PlaceOrder(order.ID, session.ID)
	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidationFailed, appErr.Kind)

	// Seat the session, then placing works and stamps the table.
	seedTable(t, db, 4, nil, 4, models.TableAvailable)
	_, err = svc.Seating.AssignTable(AssignTableParams{SessionID: session.ID})
	require.NoError(t, err)

	placed, err := svc.PlaceOrder(order.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPlaced, placed.Status)
	require.NotNil(t, placed.TableNumber)
	assert.Equal(t, 4, *placed.TableNumber)

	// Placing twice is rejected.
	_, err = svc.PlaceOrder(order.ID, session.ID)
	appErr, ok = AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, KindOrderNotPayable, appErr.Kind)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := setupServiceDB(t)
	svc := newOrderService(db)

	session := seedSession(t, db, time.Hour)
	seedTable(t, db, 1, nil, 4, models.TableAvailable)
	_, err := svc.Seating.AssignTable(AssignTableParams{SessionID: session.ID})
	require.NoError(t, err)

	order, err := svc.CreateOrGetDraft(session.ID)
	require.NoError(t, err)

	_, err = svc.PlaceOrder(order.ID, session.ID)
	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidationFailed, appErr.Kind)
}

func TestCreateOnsiteOrder(t *testing.T) {
	db := setupServiceDB(t)
	svc := newOrderService(db)

	seedTable(t, db, 6, strPtr("A"), 4, models.TableAvailable)
	dish := seedMenuItem(t, db, "Grilled Fish", 12.00, true)

	result, err := svc.CreateOnsiteOrder(CreateOnsiteOrderParams{
		TableNumber: intPtr(6),
		Zone:        strPtr("A"),
		GuestCount:  intPtr(2),
		Items:       []OnsiteOrderItem{{MenuItemID: dish.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionKey)

	// Walk-up mode seats synchronously at order creation.
	var table models.Table
	require.NoError(t, db.Where("table_number = ?", 6).First(&table).Error)
	assert.Equal(t, models.TableOccupied, table.Status)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, result.OrderID).Error)
	assert.Equal(t, models.OrderDraft, order.Status)
	assert.Len(t, order.Items, 1)
	assert.InDelta(t, 24.00, order.TotalAmount, 0.001)
}

func TestCreateOnsiteOrderValidation(t *testing.T) {
	db := setupServiceDB(t)
	svc := newOrderService(db)

	_, err := svc.CreateOnsiteOrder(CreateOnsiteOrderParams{})
	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidationFailed, appErr.Kind)

	seedTable(t, db, 1, nil, 4, models.TableAvailable)
	_, err = svc.CreateOnsiteOrder(CreateOnsiteOrderParams{
		TableNumber: intPtr(1),
		Items:       []OnsiteOrderItem{{MenuItemID: 777, Quantity: 1}},
	})
	appErr, ok = AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidationFailed, appErr.Kind)
}

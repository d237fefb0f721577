package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yogapratama/dinein-app/models"
)

// OrderService owns the draft-cart lifecycle. It never writes table status;
// seating is delegated to SeatingService at the walk-up and payment
// boundaries.
type OrderService struct {
	DB       *gorm.DB
	Sessions *SessionService
	Seating  *SeatingService
	Now      func() time.Time
}

func NewOrderService(db *gorm.DB, sessions *SessionService, seating *SeatingService) *OrderService {
	return &OrderService{DB: db, Sessions: sessions, Seating: seating, Now: time.Now}
}

// CreateOrGetDraft returns the session's draft order, creating one if none
// exists. Repeated calls from a guest reopening the cart are safe.
func (o *OrderService) CreateOrGetDraft(sessionID uint) (*models.Order, error) {
	session, err := o.Sessions.ActiveSession(sessionID)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = o.DB.Preload("Items.MenuItem").
		Where("session_id = ? AND status = ?", sessionID, models.OrderDraft).
		First(&order).Error
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	order = models.Order{
		SessionID:   sessionID,
		TableNumber: session.TableNumber,
		Status:      models.OrderDraft,
	}
	if err := o.DB.Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpsertItem sets the quantity for a menu item on a draft order, adding the
// line if it is new. The menu item's current price is captured on the line.
func (o *OrderService) UpsertItem(orderID, sessionID, menuItemID uint, quantity int) (*models.OrderItem, error) {
	if _, err := o.Sessions.ActiveSession(sessionID); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, NewAppError(KindValidationFailed, "quantity must be at least 1")
	}

	var order models.Order
	err := o.DB.Where("id = ? AND session_id = ? AND status = ?", orderID, sessionID, models.OrderDraft).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewAppError(KindOrderNotFound, "order not found or already placed")
		}
		return nil, err
	}

	var menuItem models.MenuItem
	if err := o.DB.Where("id = ? AND is_active = ?", menuItemID, true).First(&menuItem).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewAppError(KindValidationFailed, "invalid or inactive menu item")
		}
		return nil, err
	}

	var item models.OrderItem
	err = o.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("order_id = ? AND menu_item_id = ?", orderID, menuItemID).First(&item).Error
		switch {
		case err == nil:
			item.Quantity = quantity
			item.PriceAtOrder = menuItem.Price
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.OrderItem{
				OrderID:      orderID,
				MenuItemID:   menuItemID,
				Quantity:     quantity,
				PriceAtOrder: menuItem.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		default:
			return err
		}
		return o.refreshTotal(tx, orderID)
	})
	if err != nil {
		return nil, err
	}

	item.MenuItem = menuItem
	return &item, nil
}

// RemoveItem deletes a line from the session's draft order.
func (o *OrderService) RemoveItem(orderItemID, sessionID uint) error {
	if _, err := o.Sessions.ActiveSession(sessionID); err != nil {
		return err
	}

	var item models.OrderItem
	err := o.DB.
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.id = ? AND orders.session_id = ? AND orders.status = ?",
			orderItemID, sessionID, models.OrderDraft).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewAppError(KindOrderNotFound, "item not found or order already placed")
		}
		return err
	}

	return o.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.OrderItem{}, item.ID).Error; err != nil {
			return err
		}
		return o.refreshTotal(tx, item.OrderID)
	})
}

// PlaceOrder is the walk-up/no-payment path: the guest must already be
// seated, so the order is stamped with the session's table and placed
// without touching the allocator.
func (o *OrderService) PlaceOrder(orderID, sessionID uint) (*models.Order, error) {
	session, err := o.Sessions.ActiveSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.TableNumber == nil {
		return nil, NewAppError(KindValidationFailed, "no table assigned, complete seating first")
	}

	var order models.Order
	err = o.DB.Preload("Items").
		Where("id = ? AND session_id = ?", orderID, sessionID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewAppError(KindOrderNotFound, "order not found")
		}
		return nil, err
	}
	if order.Status != models.OrderDraft {
		return nil, NewAppError(KindOrderNotPayable, "order already placed")
	}
	if len(order.Items) == 0 {
		return nil, NewAppError(KindValidationFailed, "add at least one item to place order")
	}

	err = o.DB.Model(&order).Updates(map[string]interface{}{
		"status":       models.OrderPlaced,
		"table_number": *session.TableNumber,
	}).Error
	if err != nil {
		return nil, err
	}

	o.DB.Preload("Items.MenuItem").First(&order, order.ID)
	return &order, nil
}

type OnsiteOrderItem struct {
	MenuItemID uint `json:"menu_item_id"`
	Quantity   int  `json:"quantity"`
}

type CreateOnsiteOrderParams struct {
	// Either SessionID (guest already seated) or TableNumber (staff seats
	// the party at a specific table) must be provided.
	SessionID   *uint
	TableNumber *int
	Zone        *string
	GuestCount  *int
	Items       []OnsiteOrderItem
}

type OnsiteOrderResult struct {
	OrderID    uint   `json:"order_id"`
	SessionID  uint   `json:"session_id"`
	SessionKey string `json:"session_key"`
}

// CreateOnsiteOrder is the staff walk-up flow: resolve or create a session,
// seat it synchronously at the requested table, and build the draft order.
// Unlike the online flow, allocation happens here at order creation, not at
// payment confirmation.
func (o *OrderService) CreateOnsiteOrder(params CreateOnsiteOrderParams) (*OnsiteOrderResult, error) {
	if len(params.Items) == 0 {
		return nil, NewAppError(KindValidationFailed, "add at least one item")
	}

	var session *models.GuestSession
	switch {
	case params.SessionID != nil:
		var err error
		session, err = o.Sessions.ActiveSession(*params.SessionID)
		if err != nil {
			return nil, err
		}
	case params.TableNumber != nil && *params.TableNumber >= 1:
		guestCount := fallbackGuestCount
		if params.GuestCount != nil {
			guestCount = clampGuestCount(*params.GuestCount)
		}
		created, err := o.Sessions.CreateGuestSession(CreateGuestSessionParams{GuestCount: &guestCount})
		if err != nil {
			return nil, err
		}
		session = created.Session
		_, err = o.Seating.AssignTable(AssignTableParams{
			SessionID:            session.ID,
			GuestCount:           &guestCount,
			RequestedTableNumber: params.TableNumber,
			RequestedZone:        params.Zone,
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, NewAppError(KindValidationFailed, "provide tableNumber or sessionId")
	}

	var order models.Order
	err := o.DB.Transaction(func(tx *gorm.DB) error {
		order = models.Order{SessionID: session.ID, Status: models.OrderDraft}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, line := range params.Items {
			if line.MenuItemID == 0 || line.Quantity < 1 {
				continue
			}
			var menuItem models.MenuItem
			if err := tx.First(&menuItem, line.MenuItemID).Error; err != nil || !menuItem.IsActive {
				return NewAppError(KindValidationFailed,
					fmt.Sprintf("invalid or inactive menu item: %d", line.MenuItemID))
			}
			item := models.OrderItem{
				OrderID:      order.ID,
				MenuItemID:   menuItem.ID,
				Quantity:     line.Quantity,
				PriceAtOrder: menuItem.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		var itemCount int64
		if err := tx.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error; err != nil {
			return err
		}
		if itemCount == 0 {
			return NewAppError(KindValidationFailed, "add at least one valid item")
		}
		return o.refreshTotal(tx, order.ID)
	})
	if err != nil {
		return nil, err
	}

	return &OnsiteOrderResult{
		OrderID:    order.ID,
		SessionID:  session.ID,
		SessionKey: session.SessionKey,
	}, nil
}

// refreshTotal recomputes the order total from its lines.
func (o *OrderService) refreshTotal(tx *gorm.DB, orderID uint) error {
	var total float64
	err := tx.Model(&models.OrderItem{}).
		Where("order_id = ?", orderID).
		Select("COALESCE(SUM(quantity * price_at_order), 0)").
		Scan(&total).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.Order{}).Where("id = ?", orderID).Update("total_amount", total).Error
}

func clampGuestCount(n int) int {
	if n < MinGuestCount {
		return MinGuestCount
	}
	if n > MaxGuestCount {
		return MaxGuestCount
	}
	return n
}

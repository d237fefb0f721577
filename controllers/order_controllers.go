package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yogapratama/dinein-app/floor"
	"github.com/yogapratama/dinein-app/services"
	"github.com/yogapratama/dinein-app/utils"
)

type OrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB, orders *services.OrderService) *OrderController {
	return &OrderController{DB: db, Orders: orders}
}

// CreateOrGetDraft -> open the session's cart (creates the draft on first call)
func (oc *OrderController) CreateOrGetDraft(c *gin.Context) {
	var req struct {
		SessionID *uint `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	sessionID, ok := sessionIDFrom(c, req.SessionID)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("session_id is required"))
		return
	}

	order, err := oc.Orders.CreateOrGetDraft(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Draft order", order)
}

// UpsertItem -> add a menu item to the draft or change its quantity
func (oc *OrderController) UpsertItem(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var req struct {
		SessionID  *uint `json:"session_id"`
		MenuItemID uint  `json:"menu_item_id" binding:"required"`
		Quantity   int   `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	sessionID, ok := sessionIDFrom(c, req.SessionID)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("session_id is required"))
		return
	}

	item, err := oc.Orders.UpsertItem(uint(orderID), sessionID, req.MenuItemID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item saved", item)
}

// RemoveItem -> drop a line from the draft
func (oc *OrderController) RemoveItem(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item id"))
		return
	}

	var req struct {
		SessionID *uint `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	sessionID, ok := sessionIDFrom(c, req.SessionID)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("session_id is required"))
		return
	}

	if err := oc.Orders.RemoveItem(uint(itemID), sessionID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed", gin.H{"item_id": itemID})
}

// PlaceOrder -> walk-up/no-payment mode: guest is already seated
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var req struct {
		SessionID *uint `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	sessionID, ok := sessionIDFrom(c, req.SessionID)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("session_id is required"))
		return
	}

	order, err := oc.Orders.PlaceOrder(uint(orderID), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d placed for session %d", order.ID, sessionID)
	utils.RespondJSON(c, http.StatusOK, "Order placed", order)
}

// CreateOnsiteOrder -> staff walk-up flow: session + table + draft order in
// one call, seated synchronously
func (oc *OrderController) CreateOnsiteOrder(c *gin.Context) {
	var req struct {
		SessionID   *uint                      `json:"session_id"`
		TableNumber *int                       `json:"table_number"`
		Zone        *string                    `json:"zone"`
		GuestCount  *int                       `json:"guest_count"`
		Items       []services.OnsiteOrderItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := oc.Orders.CreateOnsiteOrder(services.CreateOnsiteOrderParams{
		SessionID:   req.SessionID,
		TableNumber: req.TableNumber,
		Zone:        req.Zone,
		GuestCount:  req.GuestCount,
		Items:       req.Items,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	floor.BroadcastOccupancy()

	utils.InfoLogger.Printf("Onsite order %d created for session %d", result.OrderID, result.SessionID)
	utils.RespondJSON(c, http.StatusCreated, "Onsite order created", result)
}

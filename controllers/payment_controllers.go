package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yogapratama/dinein-app/floor"
	"github.com/yogapratama/dinein-app/services"
	"github.com/yogapratama/dinein-app/utils"
)

// PaymentController exposes the two entry points of the payment bridge. The
// processor itself is external; both the guest return URL and the processor
// webhook end up in the same idempotent finalize call.
type PaymentController struct {
	DB       *gorm.DB
	Payments *services.PaymentService
}

func NewPaymentController(db *gorm.DB, payments *services.PaymentService) *PaymentController {
	return &PaymentController{DB: db, Payments: payments}
}

// ConfirmPayment -> called when the guest lands back from the processor
// with a confirmed payment
func (pc *PaymentController) ConfirmPayment(c *gin.Context) {
	var req struct {
		OrderID              uint    `json:"order_id" binding:"required"`
		SessionID            uint    `json:"session_id" binding:"required"`
		RequestedTableNumber *int    `json:"requested_table_number"`
		RequestedZone        *string `json:"requested_zone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	err := pc.Payments.FinalizePaidOrder(services.FinalizeOrderParams{
		OrderID:              req.OrderID,
		SessionID:            req.SessionID,
		RequestedTableNumber: req.RequestedTableNumber,
		RequestedZone:        req.RequestedZone,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	floor.BroadcastOccupancy()
	utils.RespondJSON(c, http.StatusOK, "Payment confirmed", gin.H{"order_id": req.OrderID})
}

// webhookEvent is the envelope the processor posts. Only paid events with
// order/session metadata matter; everything else is acknowledged and dropped.
type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		PaymentStatus string `json:"payment_status"`
		Metadata      struct {
			OrderID              uint    `json:"order_id"`
			SessionID            uint    `json:"session_id"`
			RequestedTableNumber *int    `json:"requested_table_number"`
			RequestedZone        *string `json:"requested_zone"`
		} `json:"metadata"`
	} `json:"data"`
}

// HandleWebhook -> processor-initiated confirmation, possibly a redelivery
// of an event the confirm endpoint already handled
func (pc *PaymentController) HandleWebhook(c *gin.Context) {
	var event webhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if event.Type != "checkout.completed" || event.Data.PaymentStatus != "paid" {
		utils.RespondJSON(c, http.StatusOK, "Event ignored", nil)
		return
	}

	meta := event.Data.Metadata
	if meta.OrderID == 0 || meta.SessionID == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("missing order/session metadata"))
		return
	}

	err := pc.Payments.FinalizePaidOrder(services.FinalizeOrderParams{
		OrderID:              meta.OrderID,
		SessionID:            meta.SessionID,
		RequestedTableNumber: meta.RequestedTableNumber,
		RequestedZone:        meta.RequestedZone,
	})
	if err != nil {
		// The processor retries on non-2xx, so seating failures surface
		// with their real status instead of being swallowed.
		utils.ErrorLogger.Printf("webhook finalize failed for order %d: %v", meta.OrderID, err)
		respondServiceError(c, err)
		return
	}

	floor.BroadcastOccupancy()
	utils.RespondJSON(c, http.StatusOK, "Payment finalized", gin.H{"order_id": meta.OrderID})
}

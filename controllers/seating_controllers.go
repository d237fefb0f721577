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

type SeatingController struct {
	DB      *gorm.DB
	Seating *services.SeatingService
}

func NewSeatingController(db *gorm.DB, seating *services.SeatingService) *SeatingController {
	return &SeatingController{DB: db, Seating: seating}
}

// sessionIDFrom resolves the acting session: explicit body value first,
// then the session claim a guest token middleware may have stored.
func sessionIDFrom(c *gin.Context, bodyID *uint) (uint, bool) {
	if bodyID != nil && *bodyID != 0 {
		return *bodyID, true
	}
	if v, exists := c.Get("session_id"); exists {
		if id, ok := v.(uint); ok && id != 0 {
			return id, true
		}
	}
	return 0, false
}

// AssignTable -> seat a session, either auto (best-fit) or at a QR-pinned table
func (sc *SeatingController) AssignTable(c *gin.Context) {
	var req struct {
		SessionID            *uint   `json:"session_id"`
		Zone                 *string `json:"zone"`
		GuestCount           *int    `json:"guest_count"`
		RequestedTableNumber *int    `json:"requested_table_number"`
		RequestedZone        *string `json:"requested_zone"`
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

	assignment, err := sc.Seating.AssignTable(services.AssignTableParams{
		SessionID:            sessionID,
		Zone:                 req.Zone,
		GuestCount:           req.GuestCount,
		RequestedTableNumber: req.RequestedTableNumber,
		RequestedZone:        req.RequestedZone,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Session %d seated at table %d", sessionID, assignment.TableNumber)
	floor.BroadcastOccupancy()

	utils.RespondJSON(c, http.StatusOK, "Table assigned", assignment)
}

// ReleaseTable -> free the session's table and soft-end the session
func (sc *SeatingController) ReleaseTable(c *gin.Context) {
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

	if err := sc.Seating.ReleaseTable(sessionID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Session %d released its table", sessionID)
	floor.BroadcastOccupancy()

	utils.RespondJSON(c, http.StatusOK, "Table released", gin.H{"session_id": sessionID})
}

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

// AdminSessionController covers the staff side of session management: ending
// a guest's visit, which converges on the same release transition the guest
// path uses.
type AdminSessionController struct {
	DB      *gorm.DB
	Seating *services.SeatingService
}

func NewAdminSessionController(db *gorm.DB, seating *services.SeatingService) *AdminSessionController {
	return &AdminSessionController{DB: db, Seating: seating}
}

// EndSession -> staff end a seating session and free its table
func (ac *AdminSessionController) EndSession(c *gin.Context) {
	sessionID, err := strconv.ParseUint(c.Param("session_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid session id"))
		return
	}

	if err := ac.Seating.EndSession(uint(sessionID)); err != nil {
		respondServiceError(c, err)
		return
	}

	floor.BroadcastOccupancy()

	utils.InfoLogger.Printf("Session %d ended by staff", sessionID)
	utils.RespondJSON(c, http.StatusOK, "Session ended", gin.H{"session_id": sessionID})
}

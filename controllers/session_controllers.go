package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yogapratama/dinein-app/services"
	"github.com/yogapratama/dinein-app/utils"
)

type SessionController struct {
	DB       *gorm.DB
	Sessions *services.SessionService
}

func NewSessionController(db *gorm.DB, sessions *services.SessionService) *SessionController {
	return &SessionController{DB: db, Sessions: sessions}
}

// CreateGuestSession -> anonymous guest entry, no auth required
func (sc *SessionController) CreateGuestSession(c *gin.Context) {
	var req struct {
		TableNumber *int `json:"table_number"`
		GuestCount  *int `json:"guest_count"`
	}
	// Body is optional: a plain QR scan carries no hints.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}

	result, err := sc.Sessions.CreateGuestSession(services.CreateGuestSessionParams{
		TableNumber: req.TableNumber,
		GuestCount:  req.GuestCount,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Guest session %d created (key=%s)", result.Session.ID, result.Session.SessionKey)
	utils.RespondJSON(c, http.StatusCreated, "Guest session created", gin.H{
		"token": result.Token,
		"session": gin.H{
			"id":           result.Session.ID,
			"session_key":  result.Session.SessionKey,
			"table_number": result.Session.TableNumber,
			"guest_count":  result.Session.GuestCount,
			"expires_at":   result.Session.ExpiresAt,
		},
	})
}

// ListActiveSessions -> staff occupancy view (seated sessions only)
func (sc *SessionController) ListActiveSessions(c *gin.Context) {
	sessions, err := sc.Sessions.ListActiveSessions()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]gin.H, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, gin.H{
			"id":           s.ID,
			"table_number": s.TableNumber,
			"guest_count":  s.GuestCount,
			"seated_at":    s.SeatedAt,
			"created_at":   s.CreatedAt,
		})
	}
	utils.RespondJSON(c, http.StatusOK, "Active sessions", out)
}

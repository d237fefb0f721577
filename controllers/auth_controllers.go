package controllers

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yogapratama/dinein-app/utils"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// AdminLogin -> env-credential check, no admin user row required.
// ADMIN_PASSWORD_HASH (bcrypt) wins over plain ADMIN_PASSWORD when both set.
func (ac *AuthController) AdminLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	envEmail := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	if envEmail == "" || email != envEmail || !adminPasswordMatches(req.Password) {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateSessionToken(0, 0, "admin", nil, nil, time.Now().Add(24*time.Hour))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Admin login: %s", email)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  gin.H{"role": "admin"},
	})
}

func adminPasswordMatches(password string) bool {
	if hash := os.Getenv("ADMIN_PASSWORD_HASH"); hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	plain := os.Getenv("ADMIN_PASSWORD")
	return plain != "" && password == plain
}

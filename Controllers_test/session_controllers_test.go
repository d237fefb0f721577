package Controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yogapratama/dinein-app/controllers"
	"github.com/yogapratama/dinein-app/services"
	"github.com/yogapratama/dinein-app/utils"
)

func setupSessionRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	sessionCtrl := controllers.NewSessionController(db, services.NewSessionService(db))
	r.POST("/sessions/guest", sessionCtrl.CreateGuestSession)
	return r
}

func TestCreateGuestSessionEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := setupSessionRouter(db)

	w := postJSON(t, r, "/sessions/guest", map[string]interface{}{
		"guest_count": 3,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})

	token, ok := data["token"].(string)
	require.True(t, ok)
	claims, err := utils.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "guest", claims.Role)

	session := data["session"].(map[string]interface{})
	assert.NotEmpty(t, session["session_key"])
	assert.EqualValues(t, 3, session["guest_count"])
}

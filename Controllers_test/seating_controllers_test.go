package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yogapratama/dinein-app/controllers"
	"github.com/yogapratama/dinein-app/models"
	"github.com/yogapratama/dinein-app/services"
	"github.com/yogapratama/dinein-app/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.GuestSession{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func setupSeatingRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	seatingCtrl := controllers.NewSeatingController(db, services.NewSeatingService(db))
	r.POST("/seating/assign", seatingCtrl.AssignTable)
	r.POST("/seating/release", seatingCtrl.ReleaseTable)
	return r
}

func createTestSession(t *testing.T, db *gorm.DB) models.GuestSession {
	t.Helper()
	user := models.User{Role: "guest"}
	require.NoError(t, db.Create(&user).Error)
	session := models.GuestSession{
		SessionKey: uuid.NewString(),
		UserID:     user.ID,
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(&session).Error)
	return session
}

func postJSON(t *testing.T, r *gin.Engine, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAssignTableEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := setupSeatingRouter(db)

	zone := "A"
	db.Create(&models.Table{TableNumber: 1, Zone: &zone, Capacity: 4, Status: models.TableAvailable})
	session := createTestSession(t, db)

	w := postJSON(t, r, "/seating/assign", map[string]interface{}{
		"session_id":  session.ID,
		"zone":        "A",
		"guest_count": 2,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Table assigned", response["message"])
	data := response["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["table_number"])
	assert.Equal(t, "occupied", data["status"])
}

func TestAssignTableEndpointNoCapacity(t *testing.T) {
	db := setupTestDB(t)
	r := setupSeatingRouter(db)

	session := createTestSession(t, db)

	// Empty floor: retryable 409.
	w := postJSON(t, r, "/seating/assign", map[string]interface{}{
		"session_id": session.ID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "no_table_available", response["kind"])
}

func TestAssignTableEndpointRequestedTableGone(t *testing.T) {
	db := setupTestDB(t)
	r := setupSeatingRouter(db)

	zone := "B"
	db.Create(&models.Table{TableNumber: 5, Zone: &zone, Capacity: 6, Status: models.TableAvailable})
	session := createTestSession(t, db)

	// Undersized specific request: terminal 410.
	w := postJSON(t, r, "/seating/assign", map[string]interface{}{
		"session_id":             session.ID,
		"requested_table_number": 5,
		"requested_zone":         "B",
		"guest_count":            8,
	})
	assert.Equal(t, http.StatusGone, w.Code)
}

func TestAssignTableEndpointUnknownSession(t *testing.T) {
	db := setupTestDB(t)
	r := setupSeatingRouter(db)

	w := postJSON(t, r, "/seating/assign", map[string]interface{}{
		"session_id": 9999,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReleaseTableEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := setupSeatingRouter(db)

	db.Create(&models.Table{TableNumber: 1, Capacity: 4, Status: models.TableAvailable})
	session := createTestSession(t, db)

	w := postJSON(t, r, "/seating/assign", map[string]interface{}{"session_id": session.ID})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/seating/release", map[string]interface{}{"session_id": session.ID})
	assert.Equal(t, http.StatusOK, w.Code)

	var table models.Table
	require.NoError(t, db.Where("table_number = ?", 1).First(&table).Error)
	assert.Equal(t, models.TableAvailable, table.Status)

	// Releasing again is still a success.
	w = postJSON(t, r, "/seating/release", map[string]interface{}{"session_id": session.ID})
	assert.Equal(t, http.StatusOK, w.Code)
}

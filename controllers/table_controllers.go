package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yogapratama/dinein-app/floor"
	"github.com/yogapratama/dinein-app/models"
	"github.com/yogapratama/dinein-app/services"
	"github.com/yogapratama/dinein-app/utils"
)

// defaultCapacity is used when staff create a table without stating one.
const defaultCapacity = 4

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable -> staff add a new table to the registry
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber int     `json:"table_number" binding:"required,min=1"`
		Zone        *string `json:"zone"`
		Capacity    int     `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	capacity := req.Capacity
	if capacity < 1 || capacity > 20 {
		capacity = defaultCapacity
	}

	var zone *string
	if req.Zone != nil {
		zone = services.NormalizeZone(*req.Zone)
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Zone:        zone,
		Capacity:    capacity,
		Status:      models.TableAvailable,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	floor.BroadcastTableUpdate(table)
	floor.BroadcastOccupancy()

	utils.InfoLogger.Printf("New table created: #%d (capacity=%d)", table.TableNumber, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> full registry, zone then number order; ?status= filters
func (tc *TableController) GetAllTables(c *gin.Context) {
	q := tc.DB.Order("zone ASC, table_number ASC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var tables []models.Table
	if err := q.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail of one table
func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTableStatus -> staff change a table's status. This is the only write
// path to "disabled"; the seating service never touches that state.
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	tableID := c.Param("table_id")
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	switch body.Status {
	case models.TableAvailable, models.TableOccupied, models.TableDisabled:
	default:
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("status must be one of: %s, %s, %s",
				models.TableAvailable, models.TableOccupied, models.TableDisabled))
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	// Freeing a table that an active session still holds would double-book
	// the next guest; the session has to be ended first.
	if body.Status == models.TableAvailable {
		var activeCount int64
		tc.DB.Model(&models.GuestSession{}).
			Where("table_number = ? AND ended_at IS NULL AND expires_at > ?", table.TableNumber, time.Now()).
			Count(&activeCount)
		if activeCount > 0 {
			utils.RespondError(c, http.StatusBadRequest,
				errors.New("table is assigned to an active session, end the session first"))
			return
		}
	}

	table.Status = body.Status
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	floor.BroadcastTableUpdate(table)
	floor.BroadcastOccupancy()

	utils.InfoLogger.Printf("Table #%d status changed to %s", table.TableNumber, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

// DeleteTable -> remove a table from the registry
func (tc *TableController) DeleteTable(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	floor.BroadcastOccupancy()

	utils.InfoLogger.Printf("Table #%d deleted", table.TableNumber)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}

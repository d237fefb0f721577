package floor

import (
	"sync"

	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/yogapratama/dinein-app/models"
	"github.com/yogapratama/dinein-app/utils"
)

// Event types pushed to the staff floor view.
const (
	EventTableUpdate     = "table_update"
	EventOccupancyUpdate = "occupancy_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// FloorHub holds the staff clients watching live table occupancy.
type FloorHub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var floorHub = FloorHub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection with its role to the hub.
func RegisterClient(conn *websocket.Conn, role string) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	floorHub.clients[conn] = role
}

// UnregisterClient drops the connection and closes it.
func UnregisterClient(conn *websocket.Conn) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	delete(floorHub.clients, conn)
	conn.Close()
}

// BroadcastTableUpdate pushes a single table's new state.
func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{
		Event: EventTableUpdate,
		Data:  table,
	})
}

// BroadcastOccupancy recomputes and pushes the floor-wide status counts.
// It reads through the shared handle registered at startup and is a no-op
// before that handle exists.
func BroadcastOccupancy() {
	db := utils.GetDB()
	if db == nil {
		return
	}
	broadcast(Message{
		Event: EventOccupancyUpdate,
		Data:  OccupancyStats(db),
	})
}

// OccupancyStats counts tables per status for the staff dashboard.
func OccupancyStats(db *gorm.DB) map[string]interface{} {
	var availableCount, occupiedCount, disabledCount int64

	db.Model(&models.Table{}).Where("status = ?", models.TableAvailable).Count(&availableCount)
	db.Model(&models.Table{}).Where("status = ?", models.TableOccupied).Count(&occupiedCount)
	db.Model(&models.Table{}).Where("status = ?", models.TableDisabled).Count(&disabledCount)

	return map[string]interface{}{
		"available": availableCount,
		"occupied":  occupiedCount,
		"disabled":  disabledCount,
		"total":     availableCount + occupiedCount + disabledCount,
	}
}

func broadcast(msg Message) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()

	for conn := range floorHub.clients {
		if err := conn.WriteJSON(msg); err != nil {
			if utils.ErrorLogger != nil {
				utils.ErrorLogger.Printf("floor broadcast failed, dropping client: %v", err)
			}
			delete(floorHub.clients, conn)
			conn.Close()
		}
	}
}

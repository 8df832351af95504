package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-site/utils"
)

// Event types
const (
	EventCategoryCreated     = "category_created"
	EventCategoryUpdated     = "category_updated"
	EventCategoryDeleted     = "category_deleted"
	EventCategoriesReordered = "categories_reordered"
	EventMenuItemCreated     = "menu_item_created"
	EventMenuItemUpdated     = "menu_item_updated"
	EventMenuItemDeleted     = "menu_item_deleted"
	EventPromoCreated        = "promo_created"
	EventPromoUpdated        = "promo_updated"
	EventPromoDeleted        = "promo_deleted"
	EventPosterCreated       = "poster_created"
	EventPosterUpdated       = "poster_updated"
	EventPosterDeleted       = "poster_deleted"
	EventScheduleChanged     = "schedule_changed"
)

// writeWait bounds how long a single dashboard may hold up a broadcast.
const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub fans content events out to every connected admin dashboard.
type Hub struct {
	clients map[Conn]uint // conn -> admin id
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[Conn]uint)}
}

func (h *Hub) Register(conn Conn, adminID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = adminID
}

func (h *Hub) Unregister(conn Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	conn.Close()
}

// Clients is the number of connected dashboards.
func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast sends an event to every client. Clients that fail or time out a
// write are dropped.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling %s event: %v", event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, adminID := range h.clients {
		err := conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err == nil {
			err = conn.WriteMessage(websocket.TextMessage, payload)
		}
		if err != nil {
			utils.ErrorLogger.Printf("Dropping dashboard client of admin %d: %v", adminID, err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

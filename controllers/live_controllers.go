package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-site/live"
	"github.com/yeremiapane/restaurant-site/middlewares"
	"github.com/yeremiapane/restaurant-site/utils"
)

type LiveController struct {
	Hub      *live.Hub
	Upgrader websocket.Upgrader
}

func NewLiveController(hub *live.Hub) *LiveController {
	return &LiveController{
		Hub: hub,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket keeps a dashboard connected to the hub until it disconnects.
// Incoming messages are ignored.
func (lc *LiveController) HandleWebSocket(c *gin.Context) {
	conn, err := lc.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	adminID := c.GetUint(middlewares.ContextAdminID)
	lc.Hub.Register(conn, adminID)
	utils.InfoLogger.Printf("Dashboard connected for admin %d (%d clients)", adminID, lc.Hub.Clients())

	defer func() {
		lc.Hub.Unregister(conn)
		utils.InfoLogger.Printf("Dashboard disconnected for admin %d", adminID)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				utils.ErrorLogger.Printf("WebSocket read error: %v", err)
			}
			return
		}
	}
}

// LiveStatus reports how many dashboards are connected.
func (lc *LiveController) LiveStatus(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Live status", gin.H{"clients": lc.Hub.Clients()})
}

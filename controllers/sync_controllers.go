package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/autoservice-app/hub"
	"github.com/yeremiapane/autoservice-app/middlewares"
	"github.com/yeremiapane/autoservice-app/models"
)

type SyncController struct {
	Hub      *hub.Hub
	upgrader websocket.Upgrader
}

// NewSyncController accepts websocket handshakes only from the configured origins.
func NewSyncController(h *hub.Hub, allowedOrigins []string) *SyncController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &SyncController{
		Hub: h,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// SyncHandler -> GET /ws/sync?token=, pushes invalidate and stock_alert events
func (sc *SyncController) SyncHandler(c *gin.Context) {
	role := middlewares.CurrentRole(c)
	if !models.Can(role, models.ActionSubscribeSync) {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := sc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	sc.Hub.Register(ws, string(role))
	_ = sc.Hub.Send(ws, hub.EventConnected, gin.H{"user_id": middlewares.CurrentUserID(c), "role": role})

	// clients only listen; reading detects the disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	sc.Hub.Unregister(ws)
}

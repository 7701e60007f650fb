package hub

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/autoservice-app/utils"
)

// Event types
const (
	EventInvalidate = "invalidate"
	EventStockAlert = "stock_alert"
	EventConnected  = "connected"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub holds every subscribed browser session together with its user role.
type Hub struct {
	clients map[Conn]string
	mutex   sync.Mutex
}

func New() *Hub {
	return &Hub{clients: make(map[Conn]string)}
}

func (h *Hub) Register(conn Conn, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
}

// Unregister drops and closes the connection.
func (h *Hub) Unregister(conn Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	conn.Close()
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast sends one event to every client. A connection that fails a
// write is dropped; the browser reconnects and refetches.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling %s message: %v", event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, role := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.InfoLogger.WithFields(logrus.Fields{
				"event": event,
				"role":  role,
			}).Warnf("Dropping sync client: %v", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// Send writes to a single connection, used for the greeting after upgrade.
func (h *Hub) Send(conn Conn, event string, data interface{}) error {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		return err
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return conn.WriteMessage(websocket.TextMessage, payload)
}

// Package realtime delivers chat messages and recharge-status events over
// websockets. One room per user plus a shared admin room; the hub is passed
// to handlers as an explicit dependency.
package realtime

import (
	"net/http" // HTTP status codes
	"sync"     // Mutex guarding the room maps
	"time"     // Write deadlines

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/gorilla/websocket" // Websocket transport
	"github.com/sirupsen/logrus"   // Logging library
)

// Event names published by the backend
const (
	EventChatMessage        = "chat_message"        // New message in a conversation
	EventRechargeStatus     = "recharge_status"     // A request was approved or rejected
	EventRechargePending    = "recharge_pending"    // New pending request, admin room only
	EventUnreadConversation = "unread_conversation" // A conversation gained unread messages, admin room only
)

const writeWait = 10 * time.Second // Deadline for a single websocket write

// Event is the wire format pushed to connected clients
type Event struct {
	Name string `json:"event"` // Event name
	Data any    `json:"data"`  // Event payload
}

// client is one websocket connection attached to the hub
type client struct {
	conn   *websocket.Conn // Underlying connection
	send   chan Event      // Buffered outbound queue
	userID uint            // Owning user
	admin  bool            // Member of the admin room
}

// Hub fans events out to per-user rooms and the admin room
type Hub struct {
	mu     sync.RWMutex               // Guards both room maps
	users  map[uint]map[*client]bool  // Connections per user id
	admins map[*client]bool           // Admin room connections
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		users:  make(map[uint]map[*client]bool), // Per-user rooms
		admins: make(map[*client]bool),          // Admin room
	}
}

// register attaches a client to its rooms
func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[c.userID] == nil {
		h.users[c.userID] = make(map[*client]bool) // First connection for this user
	}
	h.users[c.userID][c] = true
	if c.admin {
		h.admins[c] = true // Admins also join the shared room
	}
}

// unregister detaches a client and closes its outbound queue
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room := h.users[c.userID]; room != nil {
		delete(room, c)
		if len(room) == 0 {
			delete(h.users, c.userID) // Drop empty rooms
		}
	}
	delete(h.admins, c)
	close(c.send)
}

// NotifyUser pushes an event to every connection in the user's room
func (h *Hub) NotifyUser(userID uint, name string, data any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.users[userID] {
		select {
		case c.send <- Event{Name: name, Data: data}: // Queued
		default: // Slow consumer, drop rather than block the caller
		}
	}
}

// NotifyAdmins pushes an event to every connection in the admin room
func (h *Hub) NotifyAdmins(name string, data any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.admins {
		select {
		case c.send <- Event{Name: name, Data: data}: // Queued
		default: // Slow consumer, drop rather than block the caller
		}
	}
}

// Upgrader for incoming websocket requests
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,                                 // Read buffer size
	WriteBufferSize: 1024,                                 // Write buffer size
	CheckOrigin:     func(r *http.Request) bool { return true }, // Token auth already ran, origin is not checked
}

// ServeWS upgrades an authenticated request to a websocket and joins the
// caller's rooms. Runs behind the JWT middleware, which sets userID and
// userRole in the gin context.
func (h *Hub) ServeWS() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		role, _ := c.Get("userRole") // Role decides admin room membership
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.WithField("error", err.Error()).Warn("Websocket upgrade failed")
			return
		}
		cl := &client{
			conn:   conn,              // Upgraded connection
			send:   make(chan Event, 32), // Outbound queue
			userID: userID.(uint),     // Room key
			admin:  role == "admin",   // Admin room membership
		}
		h.register(cl)
		go cl.writePump()  // Writer goroutine, one per connection
		go cl.readPump(h)  // Reader goroutine detects disconnects
	}
}

// writePump drains the outbound queue onto the connection
func (c *client) writePump() {
	for ev := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(ev); err != nil {
			break // Connection gone, readPump will unregister
		}
	}
	_ = c.conn.Close()
}

// readPump discards inbound frames and unregisters on disconnect. Clients
// only listen; all state changes go through the HTTP API.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return // Closed or errored connection
		}
	}
}

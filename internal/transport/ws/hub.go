package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Operator feed event types
const (
	MsgScreeningCompleted = "screening_completed"
	MsgReportFiled        = "report_filed"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans live events out to connected operator dashboards
type Hub struct {
	operators map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *Message
}

// Connection represents one operator WebSocket connection
type Connection struct {
	OperatorID string
	Send       chan []byte
	Hub        *Hub
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		operators:  make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *Message, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.operators[conn] = true
			h.mu.Unlock()
			log.Printf("Operator %s connected to live feed", conn.OperatorID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if h.operators[conn] {
				delete(h.operators, conn)
				close(conn.Send)
				log.Printf("Operator %s disconnected from live feed", conn.OperatorID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg)
			for conn := range h.operators {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToOperators sends an event to every connected operator
// (implements service.Broadcaster)
func (h *Hub) BroadcastToOperators(event string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &Message{
		Type:    event,
		Payload: data,
	}
}

package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Message is the feed envelope format.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans live game updates out to connected clients: one operator
// connection per game plus any number of watchers (scoreboards, marshals'
// tablets).
type Hub struct {
	operatorConns map[string]*Connection
	watcherConns  map[string]map[string]*Connection // gameID -> watcherID -> conn

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *broadcastMessage
}

// Connection is one client attached to a game feed.
type Connection struct {
	GameID     string
	WatcherID  string // empty for the operator connection
	IsOperator bool
	Send       chan []byte
}

type broadcastMessage struct {
	gameID     string
	toOperator bool
	message    *Message
}

func NewHub() *Hub {
	h := &Hub{
		operatorConns: make(map[string]*Connection),
		watcherConns:  make(map[string]map[string]*Connection),
		register:      make(chan *Connection),
		unregister:    make(chan *Connection),
		broadcast:     make(chan *broadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsOperator {
				h.operatorConns[conn.GameID] = conn
				log.Printf("operator connected to game %s feed", conn.GameID)
			} else {
				if h.watcherConns[conn.GameID] == nil {
					h.watcherConns[conn.GameID] = make(map[string]*Connection)
				}
				h.watcherConns[conn.GameID][conn.WatcherID] = conn
				log.Printf("watcher %s connected to game %s feed", conn.WatcherID, conn.GameID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.IsOperator {
				if existing, ok := h.operatorConns[conn.GameID]; ok && existing == conn {
					delete(h.operatorConns, conn.GameID)
					close(conn.Send)
					log.Printf("operator disconnected from game %s feed", conn.GameID)
				}
			} else {
				if watchers, ok := h.watcherConns[conn.GameID]; ok {
					if existing, ok := watchers[conn.WatcherID]; ok && existing == conn {
						delete(watchers, conn.WatcherID)
						close(conn.Send)
						log.Printf("watcher %s disconnected from game %s feed", conn.WatcherID, conn.GameID)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.message)

			if msg.toOperator {
				if conn, ok := h.operatorConns[msg.gameID]; ok {
					select {
					case conn.Send <- data:
					default:
						// Drop when the buffer is full.
					}
				}
			} else {
				for _, conn := range h.watcherConns[msg.gameID] {
					select {
					case conn.Send <- data:
					default:
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection from the hub.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToOperator sends a message to the game's operator connection
// (implements service.Broadcaster).
func (h *Hub) BroadcastToOperator(gameID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &broadcastMessage{
		gameID:     gameID,
		toOperator: true,
		message:    &Message{Type: msgType, Payload: data},
	}
}

// BroadcastToWatchers sends a message to every watcher of the game
// (implements service.Broadcaster).
func (h *Hub) BroadcastToWatchers(gameID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &broadcastMessage{
		gameID:  gameID,
		message: &Message{Type: msgType, Payload: data},
	}
}

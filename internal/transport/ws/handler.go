package ws

import (
	"log"
	"net/http"
	"strikeops/internal/cache"
	"strikeops/internal/service"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades feed connections.
type Handler struct {
	hub       *Hub
	authSvc   *service.AuthService
	gameCache cache.GameCache
}

func NewHandler(hub *Hub, authSvc *service.AuthService, gameCache cache.GameCache) *Handler {
	return &Handler{hub: hub, authSvc: authSvc, gameCache: gameCache}
}

// OperatorFeed handles GET /v1/ws/games/{id}/operator.
func (h *Handler) OperatorFeed(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	claims, err := h.authSvc.ValidateOperatorToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if !h.gameKnown(r, gameID) {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		GameID:     gameID,
		IsOperator: true,
		Send:       make(chan []byte, 256),
	}
	h.hub.Register(conn)

	log.Printf("operator %s attached to game %s feed", claims.OperatorID, gameID)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

// WatcherFeed handles GET /v1/ws/games/{id}/feed.
func (h *Handler) WatcherFeed(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	claims, err := h.authSvc.ValidateFeedToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if claims.GameID != gameID {
		http.Error(w, "token not valid for this game", http.StatusForbidden)
		return
	}
	if !h.gameKnown(r, gameID) {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		GameID:    gameID,
		WatcherID: claims.WatcherID,
		Send:      make(chan []byte, 256),
	}
	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) gameKnown(r *http.Request, gameID string) bool {
	status, err := h.gameCache.GetStatus(r.Context(), gameID)
	if err != nil {
		log.Printf("game status cache: %v", err)
		// Cache trouble should not kill the feed.
		return true
	}
	return status != ""
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}
		// The feed is one-way; client frames only keep the connection alive.
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package service

// Broadcaster pushes live updates to WebSocket clients (avoids importing the
// ws package from services).
type Broadcaster interface {
	BroadcastToOperator(gameID string, msgType string, payload interface{})
	BroadcastToWatchers(gameID string, msgType string, payload interface{})
}

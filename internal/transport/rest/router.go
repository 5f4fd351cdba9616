package rest

import (
	"net/http"
	"strikeops/internal/service"
	"strikeops/internal/transport/rest/handler"
	"strikeops/internal/transport/rest/middleware"
	"strikeops/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router.
type Container struct {
	CORSAllowedOrigins string

	AuthService    *service.AuthService
	GameService    *service.GameService
	RosterService  *service.RosterService
	LedgerService  *service.LedgerService
	GroupService   *service.GroupService
	ResultService  *service.ResultService
	CatalogService *service.CatalogService
	WSHandler      *ws.Handler
}

// NewRouter creates the API router with all endpoints.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService, c.GameService)
	gameHandler := handler.NewGameHandler(c.GameService)
	rosterHandler := handler.NewRosterHandler(c.RosterService)
	deviceHandler := handler.NewDeviceHandler(c.LedgerService)
	groupHandler := handler.NewGroupHandler(c.GroupService)
	resultHandler := handler.NewResultHandler(c.ResultService)
	catalogHandler := handler.NewCatalogHandler(c.CatalogService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware(c.CORSAllowedOrigins))

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket feed (token in query param)
	v1.HandleFunc("/ws/games/{id}/operator", c.WSHandler.OperatorFeed).Methods("GET")
	v1.HandleFunc("/ws/games/{id}/feed", c.WSHandler.WatcherFeed).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Operator routes
	op := v1.NewRoute().Subrouter()
	op.Use(authMW.RequireOperator)

	// Game lifecycle
	op.HandleFunc("/games", gameHandler.Create).Methods("POST", "OPTIONS")
	op.HandleFunc("/games", gameHandler.List).Methods("GET", "OPTIONS")
	op.HandleFunc("/games/{id}", gameHandler.Get).Methods("GET", "OPTIONS")
	op.HandleFunc("/games/{id}", gameHandler.Delete).Methods("DELETE", "OPTIONS")
	op.HandleFunc("/games/{id}/start", gameHandler.Start).Methods("POST", "OPTIONS")
	op.HandleFunc("/games/{id}/complete", gameHandler.Complete).Methods("POST", "OPTIONS")
	op.HandleFunc("/games/{id}/cancel", gameHandler.Cancel).Methods("POST", "OPTIONS")
	op.HandleFunc("/games/{id}/feed-token", authHandler.FeedToken).Methods("POST", "OPTIONS")

	// Participant registry
	op.HandleFunc("/games/{id}/participants", rosterHandler.Register).Methods("POST", "OPTIONS")
	op.HandleFunc("/games/{id}/participants/{playerId}", rosterHandler.Unregister).Methods("DELETE", "OPTIONS")
	op.HandleFunc("/games/{id}/participants/{playerId}/presence", rosterHandler.TogglePresence).Methods("POST", "OPTIONS")

	// Device ledger
	op.HandleFunc("/games/{id}/devices", deviceHandler.Assign).Methods("POST", "OPTIONS")
	op.HandleFunc("/games/{id}/devices/{deviceId}", deviceHandler.Unassign).Methods("DELETE", "OPTIONS")
	op.HandleFunc("/games/{id}/devices/{deviceId}/returned", deviceHandler.SetReturned).Methods("PUT", "OPTIONS")

	// Group hierarchy
	op.HandleFunc("/games/{id}/groups", groupHandler.List).Methods("GET", "OPTIONS")
	op.HandleFunc("/games/{id}/groups/{groupId}/players", groupHandler.AddPlayers).Methods("POST", "OPTIONS")
	op.HandleFunc("/games/{id}/groups/{groupId}/players/{playerId}", groupHandler.RemovePlayer).Methods("DELETE", "OPTIONS")
	op.HandleFunc("/games/{id}/groups/{groupId}/players/{playerId}/devices/{deviceId}/return", groupHandler.ToggleDeviceReturn).Methods("POST", "OPTIONS")

	// Results and ranking
	op.HandleFunc("/games/{id}/results", resultHandler.Record).Methods("POST", "OPTIONS")
	op.HandleFunc("/games/{id}/ranking", resultHandler.Ranking).Methods("GET", "OPTIONS")
	op.HandleFunc("/games/{id}/leaderboard", resultHandler.Leaderboard).Methods("GET", "OPTIONS")

	// Catalogs
	op.HandleFunc("/players", catalogHandler.CreatePlayer).Methods("POST", "OPTIONS")
	op.HandleFunc("/players", catalogHandler.ListPlayers).Methods("GET", "OPTIONS")
	op.HandleFunc("/players/{id}", catalogHandler.GetPlayer).Methods("GET", "OPTIONS")
	op.HandleFunc("/devices", catalogHandler.CreateDevice).Methods("POST", "OPTIONS")
	op.HandleFunc("/devices", catalogHandler.ListDevices).Methods("GET", "OPTIONS")
	op.HandleFunc("/devices/{id}", catalogHandler.GetDevice).Methods("GET", "OPTIONS")
	op.HandleFunc("/fieldmaps", catalogHandler.CreateFieldMap).Methods("POST", "OPTIONS")
	op.HandleFunc("/fieldmaps", catalogHandler.ListFieldMaps).Methods("GET", "OPTIONS")
	op.HandleFunc("/fieldmaps/{id}", catalogHandler.GetFieldMap).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

package handler

import (
	"encoding/json"
	"net/http"
	"strikeops/internal/model"
	"strikeops/internal/service"
	"time"

	"github.com/gorilla/mux"
)

// GameHandler handles game lifecycle endpoints.
type GameHandler struct {
	gameSvc *service.GameService
}

func NewGameHandler(gameSvc *service.GameService) *GameHandler {
	return &GameHandler{gameSvc: gameSvc}
}

// CreateGameRequest is the request body for creating a game.
type CreateGameRequest struct {
	Name       string         `json:"name"`
	Mode       model.GameMode `json:"mode"`
	FieldMapID string         `json:"fieldMapId"`
	Date       *time.Time     `json:"date,omitempty"`
}

// Create handles POST /v1/games.
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	game, err := h.gameSvc.CreateGame(r.Context(), req.Name, req.Mode, req.FieldMapID, req.Date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, game)
}

// List handles GET /v1/games.
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameSvc.ListGames(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"games": games})
}

// Get handles GET /v1/games/{id}.
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.gameSvc.GetGame(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// Delete handles DELETE /v1/games/{id}.
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.gameSvc.DeleteGame(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Start handles POST /v1/games/{id}/start.
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, model.GameStatusInProgress)
}

// Complete handles POST /v1/games/{id}/complete.
func (h *GameHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, model.GameStatusCompleted)
}

// Cancel handles POST /v1/games/{id}/cancel.
func (h *GameHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, model.GameStatusCancelled)
}

func (h *GameHandler) transition(w http.ResponseWriter, r *http.Request, to model.GameStatus) {
	game, err := h.gameSvc.Transition(r.Context(), mux.Vars(r)["id"], to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

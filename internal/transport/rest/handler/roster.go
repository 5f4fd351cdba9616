package handler

import (
	"encoding/json"
	"net/http"
	"strikeops/internal/service"

	"github.com/gorilla/mux"
)

// RosterHandler handles participant registry endpoints.
type RosterHandler struct {
	rosterSvc *service.RosterService
}

func NewRosterHandler(rosterSvc *service.RosterService) *RosterHandler {
	return &RosterHandler{rosterSvc: rosterSvc}
}

// RegisterRequest is the request body for registering a player.
type RegisterRequest struct {
	PlayerID string `json:"playerId"`
}

// Register handles POST /v1/games/{id}/participants.
func (h *RosterHandler) Register(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "playerId is required")
		return
	}

	p, err := h.rosterSvc.Register(r.Context(), gameID, req.PlayerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// Unregister handles DELETE /v1/games/{id}/participants/{playerId}.
func (h *RosterHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.rosterSvc.Unregister(r.Context(), vars["id"], vars["playerId"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TogglePresence handles POST /v1/games/{id}/participants/{playerId}/presence.
func (h *RosterHandler) TogglePresence(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	p, err := h.rosterSvc.TogglePresence(r.Context(), vars["id"], vars["playerId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

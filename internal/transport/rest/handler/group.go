package handler

import (
	"encoding/json"
	"net/http"
	"strikeops/internal/model"
	"strikeops/internal/service"

	"github.com/gorilla/mux"
)

// GroupHandler handles group hierarchy endpoints.
type GroupHandler struct {
	groupSvc *service.GroupService
}

func NewGroupHandler(groupSvc *service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// List handles GET /v1/games/{id}/groups.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.groupSvc.GroupViews(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": views})
}

// AddPlayersRequest is the request body for adding players to a group.
type AddPlayersRequest struct {
	PlayerIDs  []string         `json:"playerIds"`
	PlayerType model.PlayerType `json:"playerType,omitempty"`
}

// AddPlayers handles POST /v1/games/{id}/groups/{groupId}/players.
func (h *GroupHandler) AddPlayers(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req AddPlayersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.PlayerIDs) == 0 {
		writeError(w, http.StatusBadRequest, "playerIds is required")
		return
	}

	added, err := h.groupSvc.AddPlayersToGroup(r.Context(), vars["id"], vars["groupId"], req.PlayerIDs, req.PlayerType)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"addedCount": added})
}

// RemovePlayer handles DELETE /v1/games/{id}/groups/{groupId}/players/{playerId}.
func (h *GroupHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.groupSvc.RemovePlayerFromGroup(r.Context(), vars["id"], vars["groupId"], vars["playerId"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleDeviceReturn handles
// POST /v1/games/{id}/groups/{groupId}/players/{playerId}/devices/{deviceId}/return.
func (h *GroupHandler) ToggleDeviceReturn(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	nd, err := h.groupSvc.ToggleDeviceReturn(r.Context(), vars["id"], vars["groupId"], vars["playerId"], vars["deviceId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nd)
}

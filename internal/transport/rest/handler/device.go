package handler

import (
	"encoding/json"
	"net/http"
	"strikeops/internal/service"

	"github.com/gorilla/mux"
)

// DeviceHandler handles device ledger endpoints.
type DeviceHandler struct {
	ledgerSvc *service.LedgerService
}

func NewDeviceHandler(ledgerSvc *service.LedgerService) *DeviceHandler {
	return &DeviceHandler{ledgerSvc: ledgerSvc}
}

// AssignRequest is the request body for assigning a device to a game.
type AssignRequest struct {
	DeviceID string `json:"deviceId"`
}

// Assign handles POST /v1/games/{id}/devices.
func (h *DeviceHandler) Assign(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DeviceID == "" {
		writeError(w, http.StatusBadRequest, "deviceId is required")
		return
	}

	gd, err := h.ledgerSvc.AssignToGame(r.Context(), gameID, req.DeviceID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, gd)
}

// Unassign handles DELETE /v1/games/{id}/devices/{deviceId}.
func (h *DeviceHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.ledgerSvc.UnassignFromGame(r.Context(), vars["id"], vars["deviceId"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReturnedRequest is the request body for marking a device returned.
type ReturnedRequest struct {
	Returned bool `json:"returned"`
}

// SetReturned handles PUT /v1/games/{id}/devices/{deviceId}/returned.
func (h *DeviceHandler) SetReturned(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req ReturnedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.ledgerSvc.SetReturned(r.Context(), vars["id"], vars["deviceId"], req.Returned); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"returned": req.Returned})
}

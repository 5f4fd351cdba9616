package handler

import (
	"encoding/json"
	"net/http"
	"strikeops/internal/model"
	"strikeops/internal/service"

	"github.com/gorilla/mux"
)

// CatalogHandler handles the player/device/field-map catalog endpoints.
type CatalogHandler struct {
	catalogSvc *service.CatalogService
}

func NewCatalogHandler(catalogSvc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// CreatePlayerRequest is the request body for creating a roster player.
type CreatePlayerRequest struct {
	Name     string `json:"name"`
	Callsign string `json:"callsign,omitempty"`
}

// CreatePlayer handles POST /v1/players.
func (h *CatalogHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	player, err := h.catalogSvc.CreatePlayer(r.Context(), req.Name, req.Callsign)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, player)
}

// GetPlayer handles GET /v1/players/{id}.
func (h *CatalogHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.catalogSvc.GetPlayer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

// ListPlayers handles GET /v1/players.
func (h *CatalogHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.catalogSvc.ListPlayers(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"players": players})
}

// CreateDevice handles POST /v1/devices.
func (h *CatalogHandler) CreateDevice(w http.ResponseWriter, r *http.Request) {
	var in service.CreateDeviceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	device, err := h.catalogSvc.CreateDevice(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, device)
}

// GetDevice handles GET /v1/devices/{id}.
func (h *CatalogHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	device, err := h.catalogSvc.GetDevice(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, device)
}

// ListDevices handles GET /v1/devices with optional type and tag filters.
func (h *CatalogHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	deviceType := model.DeviceType(r.URL.Query().Get("type"))
	tag := r.URL.Query().Get("tag")

	devices, err := h.catalogSvc.ListDevices(r.Context(), deviceType, tag)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"devices": devices})
}

// CreateFieldMapRequest is the request body for registering a field map.
type CreateFieldMapRequest struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

// CreateFieldMap handles POST /v1/fieldmaps.
func (h *CatalogHandler) CreateFieldMap(w http.ResponseWriter, r *http.Request) {
	var req CreateFieldMapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fm, err := h.catalogSvc.CreateFieldMap(r.Context(), req.Name, req.Location)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fm)
}

// GetFieldMap handles GET /v1/fieldmaps/{id}.
func (h *CatalogHandler) GetFieldMap(w http.ResponseWriter, r *http.Request) {
	fm, err := h.catalogSvc.GetFieldMap(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fm)
}

// ListFieldMaps handles GET /v1/fieldmaps.
func (h *CatalogHandler) ListFieldMaps(w http.ResponseWriter, r *http.Request) {
	maps, err := h.catalogSvc.ListFieldMaps(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"fieldMaps": maps})
}

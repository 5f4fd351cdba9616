package handler

import (
	"encoding/json"
	"net/http"
	"strikeops/internal/model"
	"strikeops/internal/service"

	"github.com/gorilla/mux"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authSvc *service.AuthService
	gameSvc *service.GameService
}

func NewAuthHandler(authSvc *service.AuthService, gameSvc *service.GameService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, gameSvc: gameSvc}
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// FeedToken handles POST /v1/games/{id}/feed-token, issuing a game-scoped
// token for live feed watchers.
func (h *AuthHandler) FeedToken(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	if _, err := h.gameSvc.GetGame(r.Context(), gameID); err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := h.authSvc.GenerateFeedToken(gameID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

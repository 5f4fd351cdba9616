package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strikeops/internal/service"

	"github.com/gorilla/mux"
)

// ResultHandler handles match event and ranking endpoints.
type ResultHandler struct {
	resultSvc *service.ResultService
}

func NewResultHandler(resultSvc *service.ResultService) *ResultHandler {
	return &ResultHandler{resultSvc: resultSvc}
}

// Record handles POST /v1/games/{id}/results.
func (h *ResultHandler) Record(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var in service.RecordEventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.resultSvc.RecordEvent(r.Context(), gameID, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

// Ranking handles GET /v1/games/{id}/ranking.
func (h *ResultHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	lines, err := h.resultSvc.ComputeRanking(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ranking": lines})
}

// Leaderboard handles GET /v1/games/{id}/leaderboard.
func (h *ResultHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	top := 20
	if s := r.URL.Query().Get("top"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			top = n
		}
	}

	entries, err := h.resultSvc.Leaderboard(r.Context(), gameID, top)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

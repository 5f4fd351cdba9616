package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strikeops/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeDomainError maps the domain error taxonomy onto transport codes.
// Non-domain errors are internal and their details stay out of the response.
func writeDomainError(w http.ResponseWriter, err error) {
	kind := model.KindOf(err)
	switch kind {
	case model.KindNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case model.KindConflict:
		writeError(w, http.StatusConflict, err.Error())
	case model.KindInvalidTransition:
		writeError(w, http.StatusConflict, err.Error())
	case model.KindValidation:
		writeError(w, http.StatusBadRequest, err.Error())
	case model.KindPreconditionFailed, model.KindInsufficientResources:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

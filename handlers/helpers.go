package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"slimSquadAPI/pkg/utilities"
	"slimSquadAPI/services"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			utilities.Log.Errorw("failed to encode response", "error", err)
		}
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps service errors onto HTTP statuses.
// Storage faults deliberately collapse into a generic 500; the contract
// does not distinguish "disk error" from "corrupt data" for callers.
func respondWithServiceError(w http.ResponseWriter, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		respondWithError(w, http.StatusBadRequest, ve.Reason)
	case errors.Is(err, services.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrEntryNotFound),
		errors.Is(err, services.ErrChallengeNotFound),
		errors.Is(err, services.ErrTargetNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrChallengeActive):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		utilities.Log.Errorw("request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

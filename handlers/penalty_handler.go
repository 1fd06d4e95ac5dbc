package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"slimSquadAPI/internal/types/challenge"
	"slimSquadAPI/middleware"
	"slimSquadAPI/services"
)

type PenaltyHandler struct {
	penaltyService *services.PenaltyService
}

func NewPenaltyHandler(penaltyService *services.PenaltyService) *PenaltyHandler {
	return &PenaltyHandler{penaltyService: penaltyService}
}

type setPenaltyRequest struct {
	UserID string  `json:"userId"`
	Status string  `json:"status"`
	Note   *string `json:"note,omitempty"`
}

// SetPenaltyStatus records a member's penalty outcome for an ended
// challenge. Any authenticated member may record any member's status;
// the squad settles money face to face, this is just bookkeeping.
func (h *PenaltyHandler) SetPenaltyStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, ok := middleware.GetUserID(ctx); !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req setPenaltyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		respondWithError(w, http.StatusBadRequest, "userId is required")
		return
	}

	target, err := h.penaltyService.SetPenaltyStatus(
		ctx,
		mux.Vars(r)["challengeId"],
		req.UserID,
		challenge.PenaltyStatus(req.Status),
		req.Note,
	)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, target)
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"slimSquadAPI/internal/progress"
	"slimSquadAPI/middleware"
	"slimSquadAPI/services"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
}

func NewChallengeHandler(challengeService *services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

func (h *ChallengeHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	challenges, err := h.challengeService.ListChallenges(ctx)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, challenges)
}

type challengeResponse struct {
	Context *progress.Context     `json:"context"`
	Summary []progress.SummaryRow `json:"summary"`
}

func (h *ChallengeHandler) getChallenge(w http.ResponseWriter, r *http.Request, challengeID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.challengeService.GetChallengeContext(ctx, challengeID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, challengeResponse{
		Context: c,
		Summary: progress.BuildSummary(c),
	})
}

func (h *ChallengeHandler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	h.getChallenge(w, r, mux.Vars(r)["challengeId"])
}

// GetActiveChallenge resolves the challenge whose window contains today,
// falling back to the most recently started one.
func (h *ChallengeHandler) GetActiveChallenge(w http.ResponseWriter, r *http.Request) {
	h.getChallenge(w, r, "")
}

func (h *ChallengeHandler) GetPrizePool(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool, err := h.challengeService.GetPrizePool(ctx, mux.Vars(r)["challengeId"])
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, pool)
}

func (h *ChallengeHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	dashboard, err := h.challengeService.GetDashboard(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, dashboard)
}

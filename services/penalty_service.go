package services

import (
	"context"
	"time"

	"slimSquadAPI/internal/progress"
	"slimSquadAPI/internal/store"
	"slimSquadAPI/internal/types/challenge"
	"slimSquadAPI/pkg/utilities"
)

type PenaltyService struct {
	store *store.Store
	now   func() time.Time
}

func NewPenaltyService(st *store.Store) *PenaltyService {
	return &PenaltyService{store: st, now: time.Now}
}

// SetPenaltyStatus records the penalty outcome for one (challenge,
// member) pair. Only the latest state survives: status, note and the
// recorded-at timestamp are overwritten wholesale. Rejected while the
// challenge is still running, because "achieved" can still change.
func (s *PenaltyService) SetPenaltyStatus(ctx context.Context, challengeID, userID string, status challenge.PenaltyStatus, note *string) (*challenge.Target, error) {
	if !status.Valid() {
		return nil, NewValidationError("penalty status must be PENDING, COMPLETED or WAIVED")
	}

	now := s.now()
	var updated challenge.Target

	err := s.store.Update(ctx, func(db *store.Database) error {
		var c *challenge.Challenge
		for i := range db.Challenges {
			if db.Challenges[i].ID == challengeID {
				c = &db.Challenges[i]
				break
			}
		}
		if c == nil {
			return ErrChallengeNotFound
		}
		if now.Format(progress.DateLayout) <= c.EndOn {
			return ErrChallengeActive
		}

		for i := range db.Targets {
			t := &db.Targets[i]
			if t.ChallengeID != challengeID || t.UserID != userID {
				continue
			}
			t.PenaltyStatus = status
			t.PenaltyNote = nil
			if note != nil {
				t.PenaltyNote = trimmedOrNil(*note)
			}
			recordedAt := now
			t.PenaltyRecordedAt = &recordedAt
			updated = t.Clone()
			return nil
		}
		return ErrTargetNotFound
	})
	if err != nil {
		return nil, err
	}

	utilities.Log.Infow("penalty status recorded",
		"challengeId", challengeID, "userId", userID, "status", status)
	return &updated, nil
}

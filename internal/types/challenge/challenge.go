package challenge

import "time"

// PenaltyStatus is manual bookkeeping for the missed-target penalty.
// Only the latest state is kept; there is no history.
type PenaltyStatus string

const (
	PenaltyPending   PenaltyStatus = "PENDING"
	PenaltyCompleted PenaltyStatus = "COMPLETED"
	PenaltyWaived    PenaltyStatus = "WAIVED"
)

func (s PenaltyStatus) Valid() bool {
	switch s {
	case PenaltyPending, PenaltyCompleted, PenaltyWaived:
		return true
	}
	return false
}

// Challenge is one weekly competition period. StartOn and EndOn are
// inclusive calendar dates (YYYY-MM-DD). Challenges are immutable once
// seeded.
type Challenge struct {
	ID              string   `json:"id"`
	Label           string   `json:"label"`
	StartOn         string   `json:"startOn"`
	EndOn           string   `json:"endOn"`
	Rules           string   `json:"rules"`
	Penalty         string   `json:"penalty"`
	PrizePoolAmount *float64 `json:"prizePoolAmount,omitempty"`
	PenaltyAmount   *float64 `json:"penaltyAmount,omitempty"`
}

func (c *Challenge) Clone() Challenge {
	out := *c
	out.PrizePoolAmount = cloneFloat(c.PrizePoolAmount)
	out.PenaltyAmount = cloneFloat(c.PenaltyAmount)
	return out
}

// Target links one member to one challenge with a weight-loss goal in
// kilograms. At most one target exists per (challengeId, userId) pair.
type Target struct {
	ID                string        `json:"id"`
	ChallengeID       string        `json:"challengeId"`
	UserID            string        `json:"userId"`
	TargetDeltaKg     float64       `json:"targetDeltaKg"`
	PenaltyStatus     PenaltyStatus `json:"penaltyStatus"`
	PenaltyNote       *string       `json:"penaltyNote,omitempty"`
	PenaltyRecordedAt *time.Time    `json:"penaltyRecordedAt,omitempty"`
}

func (t *Target) Clone() Target {
	out := *t
	if t.PenaltyNote != nil {
		v := *t.PenaltyNote
		out.PenaltyNote = &v
	}
	if t.PenaltyRecordedAt != nil {
		v := *t.PenaltyRecordedAt
		out.PenaltyRecordedAt = &v
	}
	return out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

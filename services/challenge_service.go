package services

import (
	"context"
	"sort"
	"time"

	"slimSquadAPI/internal/progress"
	"slimSquadAPI/internal/store"
	"slimSquadAPI/internal/types/challenge"
)

// streakLookbackDays bounds how far back the logging streak scans.
const streakLookbackDays = 14

type ChallengeService struct {
	store *store.Store
	now   func() time.Time
}

func NewChallengeService(st *store.Store) *ChallengeService {
	return &ChallengeService{store: st, now: time.Now}
}

// ListChallenges returns every challenge, most recently started first.
func (s *ChallengeService) ListChallenges(ctx context.Context) ([]challenge.Challenge, error) {
	db, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	out := db.Challenges
	sort.Slice(out, func(i, j int) bool { return out[i].StartOn > out[j].StartOn })
	return out, nil
}

// GetChallengeContext resolves a challenge (by id, or the active one
// when challengeID is empty) and builds its full read model.
func (s *ChallengeService) GetChallengeContext(ctx context.Context, challengeID string) (*progress.Context, error) {
	db, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	var resolved *challenge.Challenge
	if challengeID != "" {
		for i := range db.Challenges {
			if db.Challenges[i].ID == challengeID {
				resolved = &db.Challenges[i]
				break
			}
		}
	} else {
		resolved = progress.ActiveChallengeAt(db.Challenges, s.now())
	}
	if resolved == nil {
		return nil, ErrChallengeNotFound
	}

	return progress.BuildContext(*resolved, db.Users, db.Targets, db.Entries), nil
}

// GetSummary flattens a challenge context into per-member rows.
func (s *ChallengeService) GetSummary(ctx context.Context, challengeID string) ([]progress.SummaryRow, error) {
	c, err := s.GetChallengeContext(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	return progress.BuildSummary(c), nil
}

// PrizePool is the money-at-stake rollup for a challenge: configured
// pool, what has already been forfeited, who has logged today, and the
// countdown to today's midnight deadline.
type PrizePool struct {
	ChallengeID          string  `json:"challengeId"`
	PoolAmount           float64 `json:"poolAmount"`
	TotalPenalized       float64 `json:"totalPenalized"`
	RemainingPool        float64 `json:"remainingPool"`
	TotalMembers         int     `json:"totalMembers"`
	LoggedToday          int     `json:"loggedToday"`
	HoursUntilDeadline   int     `json:"hoursUntilDeadline"`
	MinutesUntilDeadline int     `json:"minutesUntilDeadline"`
	ChallengeEnded       bool    `json:"challengeEnded"`
}

// GetPrizePool computes the rollup. A completed penalty forfeits the
// challenge's per-miss amount; challenges without configured amounts
// report a zero pool.
func (s *ChallengeService) GetPrizePool(ctx context.Context, challengeID string) (*PrizePool, error) {
	c, err := s.GetChallengeContext(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	todayKey := now.Format(progress.DateLayout)

	pool := 0.0
	if c.Challenge.PrizePoolAmount != nil {
		pool = *c.Challenge.PrizePoolAmount
	}
	perMiss := 0.0
	if c.Challenge.PenaltyAmount != nil {
		perMiss = *c.Challenge.PenaltyAmount
	}

	penalized := 0.0
	logged := 0
	for _, target := range c.Targets {
		if target.PenaltyStatus == challenge.PenaltyCompleted {
			penalized += perMiss
		}
		for _, e := range c.ProgressByUser[target.UserID].Entries {
			if e.Date == todayKey {
				logged++
				break
			}
		}
	}

	remaining := pool - penalized
	if remaining < 0 {
		remaining = 0
	}

	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	left := endOfDay.Sub(now)
	if left < 0 {
		left = 0
	}

	return &PrizePool{
		ChallengeID:          c.Challenge.ID,
		PoolAmount:           pool,
		TotalPenalized:       penalized,
		RemainingPool:        remaining,
		TotalMembers:         len(c.Targets),
		LoggedToday:          logged,
		HoursUntilDeadline:   int(left.Hours()),
		MinutesUntilDeadline: int(left.Minutes()) % 60,
		ChallengeEnded:       todayKey > c.Challenge.EndOn,
	}, nil
}

// Dashboard is the personal landing-page payload: own standing, the
// teammates' rows, and the daily logging streak.
type Dashboard struct {
	Challenge      challenge.Challenge   `json:"challenge"`
	Personal       *progress.SummaryRow  `json:"personal,omitempty"`
	Teammates      []progress.SummaryRow `json:"teammates"`
	Streak         int                   `json:"streak"`
	LoggedToday    bool                  `json:"loggedToday"`
	ChallengeEnded bool                  `json:"challengeEnded"`
	DaysLeft       int                   `json:"daysLeft"`
	TotalDays      int                   `json:"totalDays"`
}

func (s *ChallengeService) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	db, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	active := progress.ActiveChallengeAt(db.Challenges, now)
	if active == nil {
		return nil, ErrChallengeNotFound
	}

	c := progress.BuildContext(*active, db.Users, db.Targets, db.Entries)
	summary := progress.BuildSummary(c)

	d := &Dashboard{
		Challenge: c.Challenge,
		Teammates: make([]progress.SummaryRow, 0, len(summary)),
		Streak:    progress.StreakLength(db.Entries, userID, now, streakLookbackDays),
	}

	todayKey := now.Format(progress.DateLayout)
	for i := range summary {
		row := summary[i]
		if row.Target.UserID == userID {
			d.Personal = &row
			for _, e := range row.Progress.Entries {
				if e.Date == todayKey {
					d.LoggedToday = true
					break
				}
			}
			continue
		}
		d.Teammates = append(d.Teammates, row)
	}

	start, err := progress.ParseDate(c.Challenge.StartOn)
	if err == nil {
		if end, err := progress.ParseDate(c.Challenge.EndOn); err == nil {
			d.TotalDays = int(end.Sub(start).Hours()/24) + 1
			today, _ := progress.ParseDate(todayKey)
			daysLeft := int(end.Sub(today).Hours() / 24)
			if daysLeft < 0 {
				daysLeft = 0
			}
			d.DaysLeft = daysLeft
		}
	}
	d.ChallengeEnded = todayKey > c.Challenge.EndOn

	return d, nil
}

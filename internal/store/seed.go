package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"slimSquadAPI/internal/types/challenge"
	"slimSquadAPI/internal/types/entry"
	"slimSquadAPI/internal/types/user"
)

// The fixed private group. Passwords must be rotated after first login;
// the seed only exists so a fresh deployment is immediately usable.
var seedMembers = []struct {
	username    string
	displayName string
	colorHex    string
}{
	{"sang", "Sang", "#FF8A5C"},
	{"gua", "Gua", "#46A0FF"},
	{"bi", "Bi", "#5BC49F"},
}

const seedPassword = "changeme"

// defaultDatabase builds the bundled template used when no database file
// exists yet: the three members, one challenge covering the current
// week, and a 2 kg target for everyone.
func defaultDatabase() (*Database, error) {
	now := time.Now()
	db := &Database{
		Users:      make([]user.User, 0, len(seedMembers)),
		Challenges: []challenge.Challenge{},
		Targets:    []challenge.Target{},
		Entries:    []entry.Entry{},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	for _, m := range seedMembers {
		db.Users = append(db.Users, user.User{
			ID:           uuid.New().String(),
			Username:     m.username,
			DisplayName:  m.displayName,
			PasswordHash: string(hash),
			ColorHex:     m.colorHex,
			Preferences: user.Preferences{
				Metrics:              []string{user.MetricWeight, user.MetricExerciseMinutes},
				SharePhotosByDefault: false,
			},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	monday := now.AddDate(0, 0, -mondayOffset(now.Weekday()))
	sunday := monday.AddDate(0, 0, 6)
	pool := 210.0
	perMiss := 70.0
	c := challenge.Challenge{
		ID:              uuid.New().String(),
		Label:           fmt.Sprintf("Week of %s", monday.Format("Jan 2")),
		StartOn:         monday.Format("2006-01-02"),
		EndOn:           sunday.Format("2006-01-02"),
		Rules:           "Log your weight every day before midnight.",
		Penalty:         "Miss your target and your share of the pool is forfeit.",
		PrizePoolAmount: &pool,
		PenaltyAmount:   &perMiss,
	}
	db.Challenges = append(db.Challenges, c)

	for _, u := range db.Users {
		db.Targets = append(db.Targets, challenge.Target{
			ID:            uuid.New().String(),
			ChallengeID:   c.ID,
			UserID:        u.ID,
			TargetDeltaKg: 2.0,
			PenaltyStatus: challenge.PenaltyPending,
		})
	}

	return db, nil
}

func mondayOffset(d time.Weekday) int {
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}

package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"slimSquadAPI/internal/store"
	"slimSquadAPI/internal/types/challenge"
	"slimSquadAPI/internal/types/entry"
	"slimSquadAPI/internal/types/user"
)

const (
	aliceID = "u-alice"
	bobID   = "u-bob"

	// c0 ended long before testNow; c1 contains it.
	endedChallengeID  = "c0"
	activeChallengeID = "c1"

	testPassword = "password123"
)

// testNow sits inside c1's window (2025-06-02 .. 2025-06-08).
var testNow = time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	t.Cleanup(st.Close)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	pool := 210.0
	perMiss := 70.0

	err = st.Update(context.Background(), func(db *store.Database) error {
		*db = store.Database{
			Users: []user.User{
				{
					ID: aliceID, Username: "alice", DisplayName: "Alice",
					PasswordHash: string(hash), ColorHex: "#FF8A5C",
					Preferences: user.Preferences{Metrics: []string{user.MetricWeight}},
					CreatedAt:   created, UpdatedAt: created,
				},
				{
					ID: bobID, Username: "bob", DisplayName: "Bob",
					PasswordHash: string(hash), ColorHex: "#46A0FF",
					Preferences: user.Preferences{Metrics: []string{user.MetricWeight}},
					CreatedAt:   created, UpdatedAt: created,
				},
			},
			Challenges: []challenge.Challenge{
				{
					ID: endedChallengeID, Label: "January Week",
					StartOn: "2025-01-06", EndOn: "2025-01-12",
				},
				{
					ID: activeChallengeID, Label: "June Week",
					StartOn: "2025-06-02", EndOn: "2025-06-08",
					PrizePoolAmount: &pool, PenaltyAmount: &perMiss,
				},
			},
			Targets: []challenge.Target{
				{ID: "t0", ChallengeID: endedChallengeID, UserID: aliceID, TargetDeltaKg: 2.0, PenaltyStatus: challenge.PenaltyPending},
				{ID: "t1", ChallengeID: activeChallengeID, UserID: aliceID, TargetDeltaKg: 2.0, PenaltyStatus: challenge.PenaltyPending},
				{ID: "t2", ChallengeID: activeChallengeID, UserID: bobID, TargetDeltaKg: 1.5, PenaltyStatus: challenge.PenaltyPending},
			},
			Entries: []entry.Entry{},
		}
		return nil
	})
	require.NoError(t, err)
	return st
}

func strPtr(s string) *string { return &s }

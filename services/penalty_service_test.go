package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slimSquadAPI/internal/types/challenge"
)

func newPenaltyService(t *testing.T) *PenaltyService {
	t.Helper()
	svc := NewPenaltyService(newTestStore(t))
	svc.now = fixedNow
	return svc
}

func TestSetPenaltyStatusOverwritesLatestState(t *testing.T) {
	svc := newPenaltyService(t)
	ctx := context.Background()

	target, err := svc.SetPenaltyStatus(ctx, endedChallengeID, aliceID, challenge.PenaltyCompleted, strPtr("paid in cash"))
	require.NoError(t, err)
	assert.Equal(t, challenge.PenaltyCompleted, target.PenaltyStatus)
	require.NotNil(t, target.PenaltyNote)
	assert.Equal(t, "paid in cash", *target.PenaltyNote)
	require.NotNil(t, target.PenaltyRecordedAt)
	assert.True(t, target.PenaltyRecordedAt.Equal(testNow))

	// Only the latest state survives; the note does not accumulate.
	target, err = svc.SetPenaltyStatus(ctx, endedChallengeID, aliceID, challenge.PenaltyWaived, nil)
	require.NoError(t, err)
	assert.Equal(t, challenge.PenaltyWaived, target.PenaltyStatus)
	assert.Nil(t, target.PenaltyNote)
}

func TestSetPenaltyStatusRejectedWhileChallengeRuns(t *testing.T) {
	svc := newPenaltyService(t)

	// testNow is inside the active challenge's window: "achieved" can
	// still change, so bookkeeping is premature.
	_, err := svc.SetPenaltyStatus(context.Background(), activeChallengeID, aliceID, challenge.PenaltyCompleted, nil)
	assert.ErrorIs(t, err, ErrChallengeActive)
}

func TestSetPenaltyStatusValidation(t *testing.T) {
	svc := newPenaltyService(t)
	ctx := context.Background()

	_, err := svc.SetPenaltyStatus(ctx, endedChallengeID, aliceID, challenge.PenaltyStatus("SETTLED"), nil)
	assert.True(t, IsValidation(err))

	_, err = svc.SetPenaltyStatus(ctx, "c-missing", aliceID, challenge.PenaltyCompleted, nil)
	assert.ErrorIs(t, err, ErrChallengeNotFound)

	// Bob has no target in the ended challenge.
	_, err = svc.SetPenaltyStatus(ctx, endedChallengeID, bobID, challenge.PenaltyCompleted, nil)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

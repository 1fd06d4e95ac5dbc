package services

import (
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntryService(t *testing.T) *EntryService {
	t.Helper()
	return NewEntryService(newTestStore(t), NewPhotoService(t.TempDir()))
}

func TestSaveEntryInsertsThenUpdates(t *testing.T) {
	svc := newEntryService(t)
	ctx := context.Background()

	first, err := svc.SaveEntry(ctx, aliceID, SaveEntryInput{Date: "2025-06-03", WeightKg: 80.0}, nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	// Same (user, date): this is an update, never a duplicate.
	second, err := svc.SaveEntry(ctx, aliceID, SaveEntryInput{Date: "2025-06-03", WeightKg: 79.5}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt), "createdAt must survive an update")
	assert.Equal(t, 79.5, second.WeightKg)

	entries, err := svc.ListEntriesForUser(ctx, aliceID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 79.5, entries[0].WeightKg)
}

func TestSaveEntryRetainsOmittedFields(t *testing.T) {
	svc := newEntryService(t)
	ctx := context.Background()

	minutes := 30
	_, err := svc.SaveEntry(ctx, aliceID, SaveEntryInput{
		Date:            "2025-06-03",
		WeightKg:        80.0,
		ExerciseMinutes: &minutes,
		Note:            strPtr("felt great"),
		Breakfast:       strPtr("eggs"),
		Lunch:           strPtr("salad"),
	}, nil, nil)
	require.NoError(t, err)

	// Resubmit with only the required fields: the optional ones survive.
	saved, err := svc.SaveEntry(ctx, aliceID, SaveEntryInput{Date: "2025-06-03", WeightKg: 79.8}, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, saved.ExerciseMinutes)
	assert.Equal(t, 30, *saved.ExerciseMinutes)
	require.NotNil(t, saved.Note)
	assert.Equal(t, "felt great", *saved.Note)
	require.NotNil(t, saved.Meals)
	require.NotNil(t, saved.Meals.Breakfast)
	assert.Equal(t, "eggs", *saved.Meals.Breakfast)

	// An explicitly empty note clears it.
	saved, err = svc.SaveEntry(ctx, aliceID, SaveEntryInput{Date: "2025-06-03", WeightKg: 79.8, Note: strPtr("  ")}, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, saved.Note)
}

func TestPhotoShareFlagsAreIndependent(t *testing.T) {
	svc := newEntryService(t)
	ctx := context.Background()

	shared := true
	saved, err := svc.SaveEntry(ctx, aliceID, SaveEntryInput{Date: "2025-06-03", WeightKg: 80, PhotoShared: &shared}, nil, nil)
	require.NoError(t, err)
	assert.True(t, saved.PhotoShared)
	assert.False(t, saved.MealPhotoShared)

	// Flipping one flag leaves the other untouched.
	mealShared := true
	saved, err = svc.SaveEntry(ctx, aliceID, SaveEntryInput{Date: "2025-06-03", WeightKg: 80, MealPhotoShared: &mealShared}, nil, nil)
	require.NoError(t, err)
	assert.True(t, saved.PhotoShared)
	assert.True(t, saved.MealPhotoShared)

	// Both flags survive a resubmit that omits them.
	saved, err = svc.SaveEntry(ctx, aliceID, SaveEntryInput{Date: "2025-06-03", WeightKg: 79.5}, nil, nil)
	require.NoError(t, err)
	assert.True(t, saved.PhotoShared)
	assert.True(t, saved.MealPhotoShared)
}

func TestSaveEntryValidatesWeightBounds(t *testing.T) {
	svc := newEntryService(t)
	ctx := context.Background()

	for _, weight := range []float64{19.9, 200.1, -5, 0} {
		_, err := svc.SaveEntry(ctx, aliceID, SaveEntryInput{Date: "2025-06-03", WeightKg: weight}, nil, nil)
		assert.True(t, IsValidation(err), "weight %v must be rejected", weight)
	}

	for _, weight := range []float64{20, 200, 75.5} {
		_, err := svc.SaveEntry(ctx, aliceID, SaveEntryInput{Date: "2025-06-03", WeightKg: weight}, nil, nil)
		assert.NoError(t, err, "weight %v is plausible", weight)
	}
}

func TestSaveEntryRejectsBadDate(t *testing.T) {
	svc := newEntryService(t)

	_, err := svc.SaveEntry(context.Background(), aliceID, SaveEntryInput{Date: "03/06/2025", WeightKg: 80}, nil, nil)
	assert.True(t, IsValidation(err))
}

func TestSaveEntryRejectsDateOutsideChallengeWindow(t *testing.T) {
	svc := newEntryService(t)
	ctx := context.Background()

	// 2025-07-01 falls in no window; the fallback challenge is c1 and
	// the date is outside its period.
	_, err := svc.SaveEntry(ctx, aliceID, SaveEntryInput{Date: "2025-07-01", WeightKg: 80}, nil, nil)
	require.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "challenge period")

	// Boundary days are inside.
	_, err = svc.SaveEntry(ctx, aliceID, SaveEntryInput{Date: "2025-06-08", WeightKg: 80}, nil, nil)
	assert.NoError(t, err)
}

func TestSaveEntryRejectsOversizedPhoto(t *testing.T) {
	svc := newEntryService(t)

	big := &multipart.FileHeader{Filename: "huge.jpg", Size: MaxPhotoBytes + 1}
	_, err := svc.SaveEntry(context.Background(), aliceID, SaveEntryInput{Date: "2025-06-03", WeightKg: 80}, big, nil)
	assert.True(t, IsValidation(err))

	entries, err := svc.ListEntriesForUser(context.Background(), aliceID)
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial state may persist on validation failure")
}

func TestSaveEntryOversizedMealPhotoLeavesPriorPhotoIntact(t *testing.T) {
	dir := t.TempDir()
	svc := NewEntryService(newTestStore(t), NewPhotoService(dir))
	ctx := context.Background()

	first, err := svc.SaveEntry(ctx, aliceID, SaveEntryInput{Date: "2025-06-03", WeightKg: 80},
		uploadHeader(t, "photo", "day1.jpg", []byte("one")), nil)
	require.NoError(t, err)
	require.NotNil(t, first.PhotoPath)
	firstFile := filepath.Join(dir, strings.TrimPrefix(*first.PhotoPath, "/uploads/"))

	// A valid replacement photo paired with an oversized meal photo must
	// fail as a unit: no file written, none deleted.
	big := &multipart.FileHeader{Filename: "huge.jpg", Size: MaxPhotoBytes + 1}
	_, err = svc.SaveEntry(ctx, aliceID, SaveEntryInput{Date: "2025-06-03", WeightKg: 79},
		uploadHeader(t, "photo", "day2.jpg", []byte("two")), big)
	require.True(t, IsValidation(err))

	_, err = os.Stat(firstFile)
	require.NoError(t, err, "the prior photo must survive the rejected submission")

	stored, err := svc.FindEntryByUserAndDate(ctx, aliceID, "2025-06-03")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, first.PhotoPath, stored.PhotoPath)
	assert.Equal(t, 80.0, stored.WeightKg)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1, "no orphan file may be left behind")
}

func TestDeleteEntryIsOwnerOnly(t *testing.T) {
	svc := newEntryService(t)
	ctx := context.Background()

	saved, err := svc.SaveEntry(ctx, aliceID, SaveEntryInput{Date: "2025-06-03", WeightKg: 80}, nil, nil)
	require.NoError(t, err)

	// Bob cannot delete Alice's entry; he cannot even learn it exists.
	err = svc.DeleteEntry(ctx, saved.ID, bobID)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	err = svc.DeleteEntry(ctx, saved.ID, aliceID)
	require.NoError(t, err)

	entries, err := svc.ListEntriesForUser(ctx, aliceID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	err = svc.DeleteEntry(ctx, saved.ID, aliceID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestListEntriesForUserNewestFirst(t *testing.T) {
	svc := newEntryService(t)
	ctx := context.Background()

	for _, date := range []string{"2025-06-03", "2025-06-05", "2025-06-04"} {
		_, err := svc.SaveEntry(ctx, aliceID, SaveEntryInput{Date: date, WeightKg: 80}, nil, nil)
		require.NoError(t, err)
	}

	entries, err := svc.ListEntriesForUser(ctx, aliceID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2025-06-05", entries[0].Date)
	assert.Equal(t, "2025-06-03", entries[2].Date)
}

package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"slimSquadAPI/internal/progress"
	"slimSquadAPI/internal/store"
	"slimSquadAPI/internal/types/entry"
	"slimSquadAPI/pkg/utilities"
)

// Plausible human weight bounds; anything outside is a typo.
const (
	MinWeightKg = 20.0
	MaxWeightKg = 200.0
)

type EntryService struct {
	store  *store.Store
	photos *PhotoService
}

func NewEntryService(st *store.Store, photos *PhotoService) *EntryService {
	return &EntryService{store: st, photos: photos}
}

// SaveEntryInput carries one day's submission. Nil pointers mean "field
// not submitted": the previous value, if any, is retained. A pointer to
// an empty string clears the field.
type SaveEntryInput struct {
	Date            string
	WeightKg        float64
	ExerciseMinutes *int
	ActivityType    *string
	Breakfast       *string
	Lunch           *string
	Dinner          *string
	Note            *string
	PhotoShared     *bool
	MealPhotoShared *bool
}

// SaveEntry validates and upserts a single day's record for one member.
// The (userID, date) pair is the identity: an existing record is updated
// in place, keeping its id and createdAt. The date must fall inside the
// challenge active at that date.
func (s *EntryService) SaveEntry(ctx context.Context, userID string, input SaveEntryInput, photo, mealPhoto *multipart.FileHeader) (*entry.Entry, error) {
	if input.WeightKg < MinWeightKg || input.WeightKg > MaxWeightKg {
		return nil, NewValidationError(fmt.Sprintf("weight must be between %.0f and %.0f kg", MinWeightKg, MaxWeightKg))
	}
	date, err := progress.ParseDate(input.Date)
	if err != nil {
		return nil, NewValidationError("date must be in YYYY-MM-DD format")
	}
	// Both uploads are size-checked up front so a bad second file cannot
	// leave the first one half-applied.
	if err := CheckSize(photo); err != nil {
		return nil, err
	}
	if err := CheckSize(mealPhoto); err != nil {
		return nil, err
	}

	db, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	active := progress.ActiveChallengeAt(db.Challenges, date)
	if active == nil {
		return nil, NewValidationError("no challenge period is configured")
	}
	if !progress.InWindow(input.Date, *active) {
		return nil, NewValidationError("date is outside the current challenge period")
	}

	// Photo files are written before the document transaction; the
	// record only ever references files that exist.
	var photoPath, mealPhotoPath *string
	if prev := findEntry(db.Entries, userID, input.Date); prev != nil {
		photoPath = prev.PhotoPath
		mealPhotoPath = prev.MealPhotoPath
	}
	photoPath, err = s.photos.Save(photo, photoPath)
	if err != nil {
		return nil, err
	}
	mealPhotoPath, err = s.photos.Save(mealPhoto, mealPhotoPath)
	if err != nil {
		return nil, err
	}

	var saved entry.Entry
	err = s.store.Update(ctx, func(db *store.Database) error {
		idx := -1
		for i := range db.Entries {
			if db.Entries[i].UserID == userID && db.Entries[i].Date == input.Date {
				idx = i
				break
			}
		}

		var previous *entry.Entry
		if idx >= 0 {
			previous = &db.Entries[idx]
		}
		merged := mergeEntry(previous, userID, input, photoPath, mealPhotoPath, time.Now())

		if idx >= 0 {
			db.Entries[idx] = merged
		} else {
			db.Entries = append(db.Entries, merged)
		}
		saved = merged.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	utilities.Log.Infow("entry saved", "userId", userID, "date", saved.Date, "weightKg", saved.WeightKg)
	return &saved, nil
}

// DeleteEntry removes a member's own entry. An unknown id and a foreign
// entry both come back as ErrEntryNotFound; the caller learns nothing
// about records it does not own. Referenced photos are removed
// best-effort after the document write succeeds.
func (s *EntryService) DeleteEntry(ctx context.Context, entryID, userID string) error {
	var removedPhotos []string

	err := s.store.Update(ctx, func(db *store.Database) error {
		idx := -1
		for i := range db.Entries {
			if db.Entries[i].ID == entryID {
				idx = i
				break
			}
		}
		if idx < 0 || db.Entries[idx].UserID != userID {
			return ErrEntryNotFound
		}

		e := db.Entries[idx]
		if e.PhotoPath != nil {
			removedPhotos = append(removedPhotos, *e.PhotoPath)
		}
		if e.MealPhotoPath != nil {
			removedPhotos = append(removedPhotos, *e.MealPhotoPath)
		}
		db.Entries = append(db.Entries[:idx], db.Entries[idx+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	for _, p := range removedPhotos {
		s.photos.Remove(p)
	}
	utilities.Log.Infow("entry deleted", "userId", userID, "entryId", entryID)
	return nil
}

// ListEntriesForUser returns a member's full history, newest first.
func (s *EntryService) ListEntriesForUser(ctx context.Context, userID string) ([]entry.Entry, error) {
	db, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entry.Entry, 0)
	for i := range db.Entries {
		if db.Entries[i].UserID == userID {
			out = append(out, db.Entries[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// FindEntryByUserAndDate returns nil when no entry exists for the pair.
func (s *EntryService) FindEntryByUserAndDate(ctx context.Context, userID, date string) (*entry.Entry, error) {
	db, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	if e := findEntry(db.Entries, userID, date); e != nil {
		out := e.Clone()
		return &out, nil
	}
	return nil, nil
}

func findEntry(entries []entry.Entry, userID, date string) *entry.Entry {
	for i := range entries {
		if entries[i].UserID == userID && entries[i].Date == date {
			return &entries[i]
		}
	}
	return nil
}

// mergeEntry folds a submission over the previous record. Identity and
// createdAt survive an update; omitted optional fields keep their prior
// values.
func mergeEntry(previous *entry.Entry, userID string, input SaveEntryInput, photoPath, mealPhotoPath *string, now time.Time) entry.Entry {
	e := entry.Entry{
		ID:            uuid.New().String(),
		UserID:        userID,
		Date:          input.Date,
		WeightKg:      input.WeightKg,
		PhotoPath:     photoPath,
		MealPhotoPath: mealPhotoPath,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if previous != nil {
		e.ID = previous.ID
		e.CreatedAt = previous.CreatedAt
		e.ExerciseMinutes = previous.ExerciseMinutes
		e.ActivityType = previous.ActivityType
		e.Meals = previous.Meals.Clone()
		e.Note = previous.Note
		e.PhotoShared = previous.PhotoShared
		e.MealPhotoShared = previous.MealPhotoShared
	}

	if input.ExerciseMinutes != nil {
		e.ExerciseMinutes = input.ExerciseMinutes
	}
	if input.ActivityType != nil {
		e.ActivityType = trimmedOrNil(*input.ActivityType)
	}
	if input.Breakfast != nil || input.Lunch != nil || input.Dinner != nil {
		meals := &entry.Meals{}
		if input.Breakfast != nil {
			meals.Breakfast = trimmedOrNil(*input.Breakfast)
		}
		if input.Lunch != nil {
			meals.Lunch = trimmedOrNil(*input.Lunch)
		}
		if input.Dinner != nil {
			meals.Dinner = trimmedOrNil(*input.Dinner)
		}
		if meals.Breakfast == nil && meals.Lunch == nil && meals.Dinner == nil {
			meals = nil
		}
		e.Meals = meals
	}
	if input.Note != nil {
		e.Note = trimmedOrNil(*input.Note)
	}
	if input.PhotoShared != nil {
		e.PhotoShared = *input.PhotoShared
	}
	if input.MealPhotoShared != nil {
		e.MealPhotoShared = *input.MealPhotoShared
	}
	return e
}

func trimmedOrNil(s string) *string {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	return &t
}

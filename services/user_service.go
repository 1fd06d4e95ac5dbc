package services

import (
	"context"
	"fmt"
	"time"

	"slimSquadAPI/internal/store"
	"slimSquadAPI/internal/types/user"
	"slimSquadAPI/pkg/utilities"
)

type UserService struct {
	store *store.Store
}

func NewUserService(st *store.Store) *UserService {
	return &UserService{store: st}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	db, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range db.Users {
		if db.Users[i].ID == userID {
			return db.Users[i].Profile(), nil
		}
	}
	return nil, ErrUserNotFound
}

// UpdatePreferences replaces a member's display preferences. The weight
// metric is mandatory; unknown metric keys are rejected.
func (s *UserService) UpdatePreferences(ctx context.Context, userID string, req user.UpdatePreferencesRequest) (*user.Profile, error) {
	hasWeight := false
	for _, m := range req.Metrics {
		if !isKnownMetric(m) {
			return nil, NewValidationError(fmt.Sprintf("unknown metric %q", m))
		}
		if m == user.MetricWeight {
			hasWeight = true
		}
	}
	if !hasWeight {
		return nil, NewValidationError("the weight metric is required")
	}

	var updated *user.Profile
	err := s.store.Update(ctx, func(db *store.Database) error {
		for i := range db.Users {
			u := &db.Users[i]
			if u.ID != userID {
				continue
			}
			u.Preferences.Metrics = append([]string(nil), req.Metrics...)
			u.Preferences.SharePhotosByDefault = req.SharePhotosByDefault
			u.UpdatedAt = time.Now()
			updated = u.Profile()
			return nil
		}
		return ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}

	utilities.Log.Infow("preferences updated", "userId", userID, "metrics", req.Metrics)
	return updated, nil
}

func isKnownMetric(key string) bool {
	for _, k := range user.KnownMetrics {
		if k == key {
			return true
		}
	}
	return false
}

package services

import (
	"context"
	"sort"

	"golang.org/x/crypto/bcrypt"

	"slimSquadAPI/internal/store"
	"slimSquadAPI/internal/types/user"
	"slimSquadAPI/pkg/utilities"
)

type AuthService struct {
	store *store.Store
}

func NewAuthService(st *store.Store) *AuthService {
	return &AuthService{store: st}
}

// Authenticate checks a username/password pair against the roster.
// Unknown user and wrong password are deliberately the same error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*user.Profile, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	db, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	for i := range db.Users {
		u := &db.Users[i]
		if u.Username != username {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
			utilities.Log.Infow("password mismatch", "username", username)
			return nil, ErrInvalidCredentials
		}
		return u.Profile(), nil
	}

	return nil, ErrInvalidCredentials
}

func (s *AuthService) FindUserByID(ctx context.Context, userID string) (*user.Profile, error) {
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

// ListMembers returns the fixed roster for the login screen, sorted by
// username so the order is stable.
func (s *AuthService) ListMembers(ctx context.Context) ([]user.Member, error) {
	db, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	members := make([]user.Member, 0, len(db.Users))
	for i := range db.Users {
		members = append(members, db.Users[i].Member())
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Username < members[j].Username })
	return members, nil
}

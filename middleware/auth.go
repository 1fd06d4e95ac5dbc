package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"slimSquadAPI/pkg/utilities"
)

type contextKey string

// UserIDKey carries the authenticated member id through the request
// context.
const UserIDKey contextKey = "userID"

// SessionCookieName is the httpOnly cookie holding the session token.
const SessionCookieName = "slimsquad_session"

const (
	// SessionTTL is used when "remember me" is checked.
	SessionTTL = 7 * 24 * time.Hour
	// ShortSessionTTL backs plain (non-remembered) logins.
	ShortSessionTTL = 24 * time.Hour
)

// IssueSessionToken mints the HS256 session JWT for a member.
func IssueSessionToken(secret []byte, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// VerifySessionToken returns the member id a session token was issued
// for.
func VerifySessionToken(secret []byte, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("session token has no subject")
	}
	return sub, nil
}

// SessionAuthMiddleware resolves the current member from the session
// cookie and gates every mutating route behind it.
func SessionAuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "Login required")
				return
			}

			userID, err := VerifySessionToken(secret, cookie.Value)
			if err != nil {
				utilities.Log.Infow("session verification failed", "error", err)
				respondWithError(w, http.StatusUnauthorized, "Session is invalid or expired")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated member id from context.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(fmt.Sprintf(`{"error": %q}`, message)))
}

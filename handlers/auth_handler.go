package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"slimSquadAPI/middleware"
	"slimSquadAPI/services"
)

type AuthHandler struct {
	authService  *services.AuthService
	secret       []byte
	secureCookie bool
}

func NewAuthHandler(authService *services.AuthService, secret []byte, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secret:       secret,
		secureCookie: secureCookie,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.authService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	ttl := middleware.ShortSessionTTL
	if req.Remember {
		ttl = middleware.SessionTTL
	}
	token, err := middleware.IssueSessionToken(h.secret, profile.ID, ttl)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	// Without "remember me" the cookie dies with the browser session.
	if req.Remember {
		cookie.MaxAge = int(ttl / time.Second)
	}
	http.SetCookie(w, cookie)

	respondWithJSON(w, http.StatusOK, profile)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Members serves the fixed roster the login screen renders.
func (h *AuthHandler) Members(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	members, err := h.authService.ListMembers(ctx)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, members)
}

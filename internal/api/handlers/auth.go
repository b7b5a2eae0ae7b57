package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/dandihq/dandi-api/internal/auth"
	"github.com/dandihq/dandi-api/internal/models"
)

const stateCookie = "oauth_state"

type UserUpserter interface {
	UpsertGoogleUser(ctx context.Context, profile *auth.GoogleProfile) (*models.User, error)
}

type SessionIssuer interface {
	Issue(user *models.User) (string, error)
}

type AuthHandler struct {
	oauth    *auth.GoogleOAuth
	users    UserUpserter
	sessions SessionIssuer
}

func NewAuthHandler(oauth *auth.GoogleOAuth, users UserUpserter, sessions SessionIssuer) *AuthHandler {
	return &AuthHandler{oauth: oauth, users: users, sessions: sessions}
}

// Login redirects the browser to Google's consent screen, pinning a CSRF
// state value in a short-lived cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to start sign-in"})
		return
	}
	state := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/api/auth",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth.AuthURL(state), http.StatusTemporaryRedirect)
}

// Callback completes the sign-in: verifies state, exchanges the code, upserts
// the user and returns a session token.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookie)
	if err != nil || state == "" || cookie.Value != state {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid oauth state"})
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing authorization code"})
		return
	}

	profile, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "sign-in with Google failed"})
		return
	}

	user, err := h.users.UpsertGoogleUser(r.Context(), profile)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save user"})
		return
	}

	token, err := h.sessions.Issue(user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"token": token, "user": user})
}

// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/studybuddyhq/studybuddy/internal/app/store/oauthstate"
	userstore "github.com/studybuddyhq/studybuddy/internal/app/store/users"
	"github.com/studybuddyhq/studybuddy/internal/app/system/auth"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Handler handles Google OAuth sign-in.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Users      *userstore.Store
	StateStore *oauthstate.Store

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "https://studybuddy.example/auth/google/callback"
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		SessionMgr:   sessionMgr,
		Users:        userstore.New(db),
		StateStore:   oauthstate.New(db),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

// ServeLogin handles GET /auth/google: it stores a one-time state and
// redirects to Google's consent screen.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		http.Redirect(w, r, "/login?error=google_not_configured", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	returnURL := query.Get(r, "return")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := h.StateStore.Save(ctx, state, returnURL, expiresAt); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline), http.StatusTemporaryRedirect)
}

// ServeCallback handles GET /auth/google/callback: it validates the state,
// exchanges the code, fetches the Google profile, and signs the user in.
// First-time Google users get an account created from their Google profile.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, "/login?error=google_denied", http.StatusSeeOther)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		h.Log.Warn("missing OAuth state parameter")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	returnURL, valid, err := h.StateStore.Validate(ctxTimeout, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		http.Redirect(w, r, "/login?error=invalid_code", http.StatusSeeOther)
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		http.Redirect(w, r, "/login?error=token_exchange", http.StatusSeeOther)
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		http.Redirect(w, r, "/login?error=user_info", http.StatusSeeOther)
		return
	}
	if googleUser.Email == "" {
		h.Log.Warn("Google profile has no email")
		http.Redirect(w, r, "/login?error=user_info", http.StatusSeeOther)
		return
	}

	u, created, err := h.findOrCreateUser(ctxTimeout, googleUser)
	if err != nil {
		if errors.Is(err, errPasswordAccount) {
			// The email belongs to a password account; do not bridge the
			// two sign-in methods silently.
			h.Log.Info("Google OAuth: email registered with password",
				zap.String("email", googleUser.Email))
			http.Redirect(w, r, "/login?error=use_password", http.StatusSeeOther)
			return
		}
		h.Log.Error("Google OAuth: user lookup failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:      u.ID.Hex(),
		Name:    u.FullName,
		LoginID: u.Username,
	}); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		http.Redirect(w, r, "/login?error=session", http.StatusSeeOther)
		return
	}

	h.Log.Info("user signed in via Google",
		zap.String("user_id", u.ID.Hex()),
		zap.Bool("created", created))

	// New accounts land on profile setup like password registrations do.
	if created || !u.ProfileReady {
		http.Redirect(w, r, "/profile/setup", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/dashboard"), http.StatusSeeOther)
}

var errPasswordAccount = fmt.Errorf("email registered with password auth")

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &info, nil
}

// findOrCreateUser resolves the Google profile to a local account. Accounts
// are keyed by email: an existing Google account is returned as-is, a
// password account with the same email is an error, and an unknown email
// gets a fresh account.
func (h *Handler) findOrCreateUser(ctx context.Context, g *googleUserInfo) (models.User, bool, error) {
	var u models.User
	err := h.DB.Collection("users").
		FindOne(ctx, bson.M{"username_ci": text.Fold(g.Email)}).
		Decode(&u)
	if err == nil {
		if u.AuthMethod != "google" {
			return models.User{}, false, errPasswordAccount
		}
		return u, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, false, err
	}

	created, err := h.Users.CreateGoogle(ctx, g.Email, g.Name)
	if err != nil {
		return models.User{}, false, err
	}
	return created, true, nil
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/studybuddyhq/studybuddy/internal/app/features/errors"
	userstore "github.com/studybuddyhq/studybuddy/internal/app/store/users"
	"github.com/studybuddyhq/studybuddy/internal/app/system/auth"
	"github.com/studybuddyhq/studybuddy/internal/app/system/formutil"
	"github.com/studybuddyhq/studybuddy/internal/app/system/normalize"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB            *mongo.Database
	Log           *zap.Logger
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	Users         *userstore.Store
	GoogleEnabled bool
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, googleEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		Users:         userstore.New(db),
		GoogleEnabled: googleEnabled,
	}
}

type loginFormData struct {
	formutil.Base
	Username      string
	ReturnURL     string
	GoogleEnabled bool
}

// ServeLogin handles GET /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	data := loginFormData{
		ReturnURL:     query.Get(r, "return"),
		GoogleEnabled: h.GoogleEnabled,
	}
	formutil.SetBase(&data.Base, w, r, "Sign in", "/")
	templates.Render(w, r, "login", data)
}

// HandleLoginPost handles POST /login.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	username := normalize.Username(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your username and password.", username)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Authenticate(ctx, username, password)
	if err == userstore.ErrBadCredentials {
		h.Log.Info("login rejected", zap.String("username", username))
		h.renderFormWithError(w, r, "That username and password combination did not match.", username)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "authenticate user", err, "A server error occurred.", "/login")
		return
	}

	err = h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:      u.ID.Hex(),
		Name:    u.FullName,
		LoginID: u.Username,
	})
	if err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("username", username))
		h.renderFormWithError(w, r, "Unable to create session. Please try again.", username)
		return
	}

	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()), zap.String("username", u.Username))

	ret := strings.TrimSpace(r.FormValue("return"))
	dest := urlutil.SafeReturn(ret, "", "/dashboard")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, username string) {
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}

	data := loginFormData{
		Username:      username,
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
	}
	formutil.SetBase(&data.Base, w, r, "Sign in", "/")
	data.SetError(msg)
	templates.Render(w, r, "login", data)
}

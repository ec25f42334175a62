// internal/app/features/register/handler.go
package register

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/studybuddyhq/studybuddy/internal/app/features/errors"
	userstore "github.com/studybuddyhq/studybuddy/internal/app/store/users"
	"github.com/studybuddyhq/studybuddy/internal/app/system/auth"
	"github.com/studybuddyhq/studybuddy/internal/app/system/flash"
	"github.com/studybuddyhq/studybuddy/internal/app/system/formutil"
	"github.com/studybuddyhq/studybuddy/internal/app/system/inputval"
	"github.com/studybuddyhq/studybuddy/internal/app/system/normalize"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Users      *userstore.Store
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Users:      userstore.New(db),
	}
}

type registerFormData struct {
	formutil.Base
	Username string
	FullName string
	Email    string
}

// registerInput carries the validated registration fields.
type registerInput struct {
	Username string `validate:"required,min=3,max=30" label:"username"`
	FullName string `validate:"required,max=100" label:"full name"`
	Email    string `validate:"required,email,max=254" label:"email"`
	Password string `validate:"required,min=8,max=128" label:"password"`
}

// ServeRegister handles GET /register.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	var data registerFormData
	formutil.SetBase(&data.Base, w, r, "Create an account", "/")
	templates.Render(w, r, "register", data)
}

// HandleRegisterPost handles POST /register. A successful registration
// signs the new user in and sends them to profile setup.
func (h *Handler) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/register")
		return
	}

	in := registerInput{
		Username: normalize.Username(r.FormValue("username")),
		FullName: normalize.Name(r.FormValue("full_name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}

	if res := inputval.Validate(in); res.HasErrors() {
		h.renderFormWithError(w, r, res.First(), in)
		return
	}
	if r.FormValue("password") != r.FormValue("password_confirm") {
		h.renderFormWithError(w, r, "The passwords do not match.", in)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, in.Username, in.FullName, in.Email, in.Password)
	if err == userstore.ErrDuplicateUsername {
		h.renderFormWithError(w, r, "That username is already taken.", in)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create user", err, "A server error occurred.", "/register")
		return
	}

	err = h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:      u.ID.Hex(),
		Name:    u.FullName,
		LoginID: u.Username,
	})
	if err != nil {
		h.Log.Error("save session after registration failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.Log.Info("user registered", zap.String("user_id", u.ID.Hex()), zap.String("username", u.Username))
	flash.Set(w, flash.KindSuccess, "Welcome to StudyBuddy! Tell us a little about yourself.")
	http.Redirect(w, r, "/profile/setup", http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg string, in registerInput) {
	data := registerFormData{
		Username: in.Username,
		FullName: in.FullName,
		Email:    in.Email,
	}
	formutil.SetBase(&data.Base, w, r, "Create an account", "/")
	data.SetError(msg)
	templates.Render(w, r, "register", data)
}

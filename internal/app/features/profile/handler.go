// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"

	uierrors "github.com/studybuddyhq/studybuddy/internal/app/features/errors"
	joinrequeststore "github.com/studybuddyhq/studybuddy/internal/app/store/joinrequests"
	membershipstore "github.com/studybuddyhq/studybuddy/internal/app/store/memberships"
	userstore "github.com/studybuddyhq/studybuddy/internal/app/store/users"
	"github.com/studybuddyhq/studybuddy/internal/app/system/authz"
	"github.com/studybuddyhq/studybuddy/internal/app/system/flash"
	"github.com/studybuddyhq/studybuddy/internal/app/system/formutil"
	"github.com/studybuddyhq/studybuddy/internal/app/system/htmlsanitize"
	"github.com/studybuddyhq/studybuddy/internal/app/system/inputval"
	"github.com/studybuddyhq/studybuddy/internal/app/system/normalize"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	ErrLog      *uierrors.ErrorLogger
	Users       *userstore.Store
	Memberships *membershipstore.Store
	Requests    *joinrequeststore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		ErrLog:      errLog,
		Users:       userstore.New(db),
		Memberships: membershipstore.New(db, logger),
		Requests:    joinrequeststore.New(db, logger),
	}
}

type profileData struct {
	formutil.Base
	User     models.User
	Groups   []models.StudyGroup
	Requests []requestRow
}

type requestRow struct {
	GroupTitle string
	Status     string
	Requested  string
}

type setupFormData struct {
	formutil.Base
	FullName string
	Bio      string
}

type profileInput struct {
	FullName string `validate:"required,max=100" label:"full name"`
	Bio      string `validate:"max=2000" label:"bio"`
}

// ServeProfile handles GET /profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile user", err, "A server error occurred.", "/")
		return
	}

	groupIDs, err := h.Memberships.ListGroupIDsForUser(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile memberships", err, "A server error occurred.", "/")
		return
	}
	var groups []models.StudyGroup
	if len(groupIDs) > 0 {
		cur, err := h.DB.Collection("study_groups").Find(ctx, bson.M{"_id": bson.M{"$in": groupIDs}})
		if err != nil {
			h.ErrLog.LogServerError(w, r, "load profile groups", err, "A server error occurred.", "/")
			return
		}
		if err := cur.All(ctx, &groups); err != nil {
			h.ErrLog.LogServerError(w, r, "decode profile groups", err, "A server error occurred.", "/")
			return
		}
	}

	reqs, err := h.Requests.ListForUser(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile requests", err, "A server error occurred.", "/")
		return
	}
	rows := make([]requestRow, 0, len(reqs))
	for _, req := range reqs {
		title := "(deleted group)"
		var g models.StudyGroup
		if err := h.DB.Collection("study_groups").FindOne(ctx, bson.M{"_id": req.GroupID}).Decode(&g); err == nil {
			title = g.Title
		}
		rows = append(rows, requestRow{
			GroupTitle: title,
			Status:     req.Status,
			Requested:  req.RequestedAt.Format("Jan 2, 2006"),
		})
	}

	data := profileData{User: u, Groups: groups, Requests: rows}
	formutil.SetBase(&data.Base, w, r, "Your profile", "/dashboard")
	templates.Render(w, r, "profile", data)
}

// ServeSetup handles GET /profile/setup.
func (h *Handler) ServeSetup(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user for setup", err, "A server error occurred.", "/")
		return
	}

	data := setupFormData{FullName: u.FullName, Bio: u.Bio}
	formutil.SetBase(&data.Base, w, r, "Set up your profile", "/profile")
	templates.Render(w, r, "profile_setup", data)
}

// HandleSetupPost handles POST /profile/setup.
func (h *Handler) HandleSetupPost(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/profile")
		return
	}

	in := profileInput{
		FullName: normalize.Name(r.FormValue("full_name")),
		Bio:      htmlsanitize.PlainText(r.FormValue("bio")),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		data := setupFormData{FullName: in.FullName, Bio: in.Bio}
		formutil.SetBase(&data.Base, w, r, "Set up your profile", "/profile")
		data.SetError(res.First())
		templates.Render(w, r, "profile_setup", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, userID, in.FullName, in.Bio); err != nil {
		h.ErrLog.LogServerError(w, r, "update profile", err, "A server error occurred.", "/profile")
		return
	}

	flash.Set(w, flash.KindSuccess, "Profile saved.")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

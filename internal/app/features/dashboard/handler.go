// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	uierrors "github.com/studybuddyhq/studybuddy/internal/app/features/errors"
	groupstore "github.com/studybuddyhq/studybuddy/internal/app/store/groups"
	membershipstore "github.com/studybuddyhq/studybuddy/internal/app/store/memberships"
	subjectstore "github.com/studybuddyhq/studybuddy/internal/app/store/subjects"
	"github.com/studybuddyhq/studybuddy/internal/app/system/authz"
	"github.com/studybuddyhq/studybuddy/internal/app/system/formutil"
	"github.com/studybuddyhq/studybuddy/internal/app/system/normalize"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	ErrLog      *uierrors.ErrorLogger
	Groups      *groupstore.Store
	Subjects    *subjectstore.Store
	Memberships *membershipstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		ErrLog:      errLog,
		Groups:      groupstore.New(db, logger),
		Subjects:    subjectstore.New(db),
		Memberships: membershipstore.New(db, logger),
	}
}

type groupRow struct {
	ID           string
	Title        string
	Subject      string
	MeetingDate  string
	MeetingClock string
	Location     string
	Members      int64
	MaxMembers   int
	IsMember     bool
	Full         bool
}

type dashboardData struct {
	formutil.Base
	Groups        []groupRow
	Subjects      []models.Subject
	FilterSubject string
	Search        string
}

// ServeDashboard handles GET /dashboard. Supports filtering by subject
// (query param "subject", a subject ID) and by a case-insensitive title
// search (query param "search").
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	_, userID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	filter := groupstore.Filter{
		Search: normalize.QueryParam(query.Get(r, "search")),
	}
	filterSubject := normalize.QueryParam(query.Get(r, "subject"))
	if filterSubject != "" {
		sid, err := primitive.ObjectIDFromHex(filterSubject)
		if err != nil {
			// An unparseable subject filter matches nothing sensible; drop it.
			filterSubject = ""
		} else {
			filter.SubjectID = sid
		}
	}

	groups, err := h.Groups.List(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list groups", err, "A server error occurred.", "/")
		return
	}

	subjects, err := h.Subjects.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list subjects", err, "A server error occurred.", "/")
		return
	}
	subjectNames := make(map[primitive.ObjectID]string, len(subjects))
	for _, s := range subjects {
		subjectNames[s.ID] = s.Name
	}

	rows := make([]groupRow, 0, len(groups))
	for _, g := range groups {
		count, err := h.Memberships.CountActive(ctx, g.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "count members", err, "A server error occurred.", "/")
			return
		}
		isMember := false
		if !userID.IsZero() {
			isMember, err = h.Memberships.IsActiveMember(ctx, g.ID, userID)
			if err != nil {
				h.ErrLog.LogServerError(w, r, "check membership", err, "A server error occurred.", "/")
				return
			}
		}
		rows = append(rows, groupRow{
			ID:           g.ID.Hex(),
			Title:        g.Title,
			Subject:      subjectNames[g.SubjectID],
			MeetingDate:  g.MeetingDate.Format("Jan 2, 2006"),
			MeetingClock: g.MeetingClock(),
			Location:     g.MeetingLocation,
			Members:      count,
			MaxMembers:   g.MaxMembers,
			IsMember:     isMember,
			Full:         g.MaxMembers > 0 && count >= int64(g.MaxMembers),
		})
	}

	data := dashboardData{
		Groups:        rows,
		Subjects:      subjects,
		FilterSubject: filterSubject,
		Search:        filter.Search,
	}
	formutil.SetBase(&data.Base, w, r, "Study groups", "/")
	templates.Render(w, r, "dashboard", data)
}

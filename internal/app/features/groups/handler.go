// internal/app/features/groups/handler.go
package groups

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	uierrors "github.com/studybuddyhq/studybuddy/internal/app/features/errors"
	groupstore "github.com/studybuddyhq/studybuddy/internal/app/store/groups"
	joinrequeststore "github.com/studybuddyhq/studybuddy/internal/app/store/joinrequests"
	membershipstore "github.com/studybuddyhq/studybuddy/internal/app/store/memberships"
	messagestore "github.com/studybuddyhq/studybuddy/internal/app/store/messages"
	subjectstore "github.com/studybuddyhq/studybuddy/internal/app/store/subjects"
	userstore "github.com/studybuddyhq/studybuddy/internal/app/store/users"
	"github.com/studybuddyhq/studybuddy/internal/app/system/authz"
	"github.com/studybuddyhq/studybuddy/internal/app/system/flash"
	"github.com/studybuddyhq/studybuddy/internal/app/system/formutil"
	"github.com/studybuddyhq/studybuddy/internal/app/system/htmlsanitize"
	"github.com/studybuddyhq/studybuddy/internal/app/system/inputval"
	"github.com/studybuddyhq/studybuddy/internal/app/system/meetingtime"
	"github.com/studybuddyhq/studybuddy/internal/app/system/normalize"
	"github.com/studybuddyhq/studybuddy/internal/app/system/timeouts"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves group creation, detail, membership, join requests, and chat.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	ErrLog      *uierrors.ErrorLogger
	Groups      *groupstore.Store
	Subjects    *subjectstore.Store
	Users       *userstore.Store
	Memberships *membershipstore.Store
	Requests    *joinrequeststore.Store
	Messages    *messagestore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		ErrLog:      errLog,
		Groups:      groupstore.New(db, logger),
		Subjects:    subjectstore.New(db),
		Users:       userstore.New(db),
		Memberships: membershipstore.New(db, logger),
		Requests:    joinrequeststore.New(db, logger),
		Messages:    messagestore.New(db),
	}
}

// groupFormData backs both the create and edit forms. String fields hold
// the raw form values so a failed submission echoes exactly what the user
// typed.
type groupFormData struct {
	formutil.Base
	EditID          string // empty on the create form
	GroupTitle      string
	Description     string
	SubjectID       string
	MeetingDate     string
	MeetingTime     string
	MeetingLocation string
	MaxMembers      string
	Subjects        []models.Subject
}

type groupInput struct {
	Title           string `validate:"required,min=3,max=100" label:"title"`
	Description     string `validate:"max=2000" label:"description"`
	MeetingLocation string `validate:"required,max=200" label:"meeting location"`
}

// notFound flashes a message and sends the user back to the dashboard.
// Missing groups and requests never surface as bare error pages.
func notFound(w http.ResponseWriter, r *http.Request, msg string) {
	flash.Set(w, flash.KindError, msg)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// groupIDParam extracts and parses the {groupID} route parameter. On a
// malformed ID it flashes and redirects, returning ok=false.
func groupIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		notFound(w, r, "That group does not exist.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// ServeNew handles GET /groups/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	subjects, err := h.Subjects.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load subjects for new group", err, "A server error occurred.", "/dashboard")
		return
	}

	data := groupFormData{Subjects: subjects, MaxMembers: "5"}
	formutil.SetBase(&data.Base, w, r, "Create a study group", "/dashboard")
	templates.Render(w, r, "group_new", data)
}

// HandleCreate handles POST /groups/new.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/groups/new")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	in, formErr := h.parseGroupForm(r)
	if formErr != "" {
		h.renderFormWithError(w, r, ctx, "group_new", "", formErr)
		return
	}

	g, err := h.Groups.Create(ctx, in, userID)
	switch {
	case errors.Is(err, groupstore.ErrUnknownSubject):
		h.renderFormWithError(w, r, ctx, "group_new", "", "Please pick a subject from the list.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create group", err, "A server error occurred.", "/dashboard")
		return
	}

	flash.Set(w, flash.KindSuccess, "Study group created.")
	http.Redirect(w, r, "/groups/"+g.ID.Hex(), http.StatusSeeOther)
}

// parseGroupForm reads the shared create/edit form fields. It returns a
// user-facing error message instead of an error value because every failure
// here re-renders the form.
func (h *Handler) parseGroupForm(r *http.Request) (groupstore.NewGroup, string) {
	var in groupstore.NewGroup

	in.Title = normalize.Name(r.FormValue("title"))
	in.Description = htmlsanitize.PlainText(r.FormValue("description"))
	in.MeetingLocation = normalize.Name(r.FormValue("meeting_location"))

	v := groupInput{Title: in.Title, Description: in.Description, MeetingLocation: in.MeetingLocation}
	if res := inputval.Validate(v); res.HasErrors() {
		return in, res.First()
	}

	subjectID, err := primitive.ObjectIDFromHex(r.FormValue("subject"))
	if err != nil {
		return in, "Please pick a subject from the list."
	}
	in.SubjectID = subjectID

	in.MeetingDate, err = meetingtime.ParseDate(r.FormValue("meeting_date"))
	if err != nil {
		return in, "Enter the meeting date as MM/DD/YYYY."
	}
	in.MeetingTime, err = meetingtime.ParseClock(r.FormValue("meeting_time"))
	if err != nil {
		return in, "Enter the meeting time as HH:MM AM/PM."
	}

	in.MaxMembers, err = strconv.Atoi(normalize.QueryParam(r.FormValue("max_members")))
	if err != nil || in.MaxMembers < 2 || in.MaxMembers > 100 {
		return in, "Max members must be a number between 2 and 100."
	}
	return in, ""
}

// renderFormWithError re-renders the create or edit form with the user's
// submitted values and an error message.
func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, ctx context.Context, page, editID, msg string) {
	subjects, err := h.Subjects.List(ctx)
	if err != nil {
		h.Log.Warn("load subjects for form error", zap.Error(err))
	}
	title := "Create a study group"
	back := "/dashboard"
	if editID != "" {
		title = "Edit study group"
		back = "/groups/" + editID
	}
	data := groupFormData{
		EditID:          editID,
		GroupTitle:      r.FormValue("title"),
		Description:     r.FormValue("description"),
		SubjectID:       r.FormValue("subject"),
		MeetingDate:     r.FormValue("meeting_date"),
		MeetingTime:     r.FormValue("meeting_time"),
		MeetingLocation: r.FormValue("meeting_location"),
		MaxMembers:      r.FormValue("max_members"),
		Subjects:        subjects,
	}
	formutil.SetBase(&data.Base, w, r, title, back)
	data.SetError(msg)
	templates.Render(w, r, page, data)
}

type memberRow struct {
	Name   string
	Joined string
	IsHost bool
}

type messageRow struct {
	Author string
	When   string
	Body   string
}

type pendingRow struct {
	ID        string
	Name      string
	Requested string
}

type groupViewData struct {
	formutil.Base
	Group        models.StudyGroup
	SubjectName  string
	HostName     string
	MeetingDate  string
	MeetingClock string
	Members      []memberRow
	MemberCount  int
	Messages     []messageRow
	Pending      []pendingRow
	IsHost       bool
	IsMember     bool
	HasPending   bool
	IsFull       bool
}

// ServeGroup handles GET /groups/{groupID}.
func (h *Handler) ServeGroup(w http.ResponseWriter, r *http.Request) {
	_, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, groupID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		notFound(w, r, "That group does not exist.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load group", err, "A server error occurred.", "/dashboard")
		return
	}

	data := groupViewData{
		Group:        g,
		MeetingDate:  g.MeetingDate.Format("Monday, Jan 2, 2006"),
		MeetingClock: meetingtime.FormatClock(g.MeetingTime),
		IsHost:       g.HostID == userID,
	}

	if subj, err := h.Subjects.GetByID(ctx, g.SubjectID); err == nil {
		data.SubjectName = subj.Name
	}
	if host, err := h.Users.GetByID(ctx, g.HostID); err == nil {
		data.HostName = host.FullName
	}

	members, err := h.Memberships.ListForGroup(ctx, groupID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load group members", err, "A server error occurred.", "/dashboard")
		return
	}
	names := h.userNames(ctx, memberUserIDs(members))
	for _, m := range members {
		data.Members = append(data.Members, memberRow{
			Name:   names[m.UserID],
			Joined: m.DateJoined.Format("Jan 2, 2006"),
			IsHost: m.UserID == g.HostID,
		})
		if m.UserID == userID {
			data.IsMember = true
		}
	}
	data.MemberCount = len(members)
	data.IsFull = data.MemberCount >= g.MaxMembers

	// The chat is visible to active members only; the host is always a
	// member via the membership created with the group.
	if data.IsMember {
		msgs, err := h.Messages.ListForGroup(ctx, groupID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "load group messages", err, "A server error occurred.", "/dashboard")
			return
		}
		authorIDs := make([]primitive.ObjectID, 0, len(msgs))
		for _, m := range msgs {
			authorIDs = append(authorIDs, m.UserID)
		}
		authors := h.userNames(ctx, authorIDs)
		for _, m := range msgs {
			data.Messages = append(data.Messages, messageRow{
				Author: authors[m.UserID],
				When:   m.CreatedAt.Format("Jan 2 15:04"),
				Body:   m.Content,
			})
		}
	} else {
		pending, err := h.Requests.HasPending(ctx, groupID, userID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "check pending request", err, "A server error occurred.", "/dashboard")
			return
		}
		data.HasPending = pending
	}

	if data.IsHost {
		reqs, err := h.Requests.ListPendingForGroup(ctx, groupID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "load pending requests", err, "A server error occurred.", "/dashboard")
			return
		}
		requesterIDs := make([]primitive.ObjectID, 0, len(reqs))
		for _, req := range reqs {
			requesterIDs = append(requesterIDs, req.UserID)
		}
		requesters := h.userNames(ctx, requesterIDs)
		for _, req := range reqs {
			data.Pending = append(data.Pending, pendingRow{
				ID:        req.ID.Hex(),
				Name:      requesters[req.UserID],
				Requested: req.RequestedAt.Format("Jan 2, 2006"),
			})
		}
	}

	formutil.SetBase(&data.Base, w, r, g.Title, "/dashboard")
	templates.Render(w, r, "group_view", data)
}

func memberUserIDs(members []models.GroupMembership) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// userNames resolves user IDs to full names for display. Missing users
// (deleted accounts) resolve to a placeholder rather than an error.
func (h *Handler) userNames(ctx context.Context, ids []primitive.ObjectID) map[primitive.ObjectID]string {
	names := make(map[primitive.ObjectID]string, len(ids))
	for _, id := range ids {
		if _, done := names[id]; done {
			continue
		}
		u, err := h.Users.GetByID(ctx, id)
		if err != nil {
			names[id] = "(unknown user)"
			continue
		}
		names[id] = u.FullName
	}
	return names
}

// ServeEdit handles GET /groups/{groupID}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	_, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, groupID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		notFound(w, r, "That group does not exist.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load group for edit", err, "A server error occurred.", "/dashboard")
		return
	}
	if g.HostID != userID {
		uierrors.RenderForbidden(w, r, "Only the host can edit this group.", "/groups/"+groupID.Hex())
		return
	}

	subjects, err := h.Subjects.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load subjects for edit", err, "A server error occurred.", "/dashboard")
		return
	}

	data := groupFormData{
		EditID:          g.ID.Hex(),
		GroupTitle:      g.Title,
		Description:     g.Description,
		SubjectID:       g.SubjectID.Hex(),
		MeetingDate:     meetingtime.FormatDate(g.MeetingDate),
		MeetingTime:     meetingtime.FormatClock(g.MeetingTime),
		MeetingLocation: g.MeetingLocation,
		MaxMembers:      strconv.Itoa(g.MaxMembers),
		Subjects:        subjects,
	}
	formutil.SetBase(&data.Base, w, r, "Edit study group", "/groups/"+g.ID.Hex())
	templates.Render(w, r, "group_edit", data)
}

// HandleEdit handles POST /groups/{groupID}/edit.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	_, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/groups/"+groupID.Hex())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	in, formErr := h.parseGroupForm(r)
	if formErr != "" {
		h.renderFormWithError(w, r, ctx, "group_edit", groupID.Hex(), formErr)
		return
	}

	err := h.Groups.Update(ctx, groupID, in, userID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		notFound(w, r, "That group does not exist.")
		return
	case errors.Is(err, groupstore.ErrNotHost):
		uierrors.RenderForbidden(w, r, "Only the host can edit this group.", "/groups/"+groupID.Hex())
		return
	case errors.Is(err, groupstore.ErrUnknownSubject):
		h.renderFormWithError(w, r, ctx, "group_edit", groupID.Hex(), "Please pick a subject from the list.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "update group", err, "A server error occurred.", "/dashboard")
		return
	}

	flash.Set(w, flash.KindSuccess, "Group updated.")
	http.Redirect(w, r, "/groups/"+groupID.Hex(), http.StatusSeeOther)
}

// HandleDelete handles POST /groups/{groupID}/delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Groups.Delete(ctx, groupID, userID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		notFound(w, r, "That group does not exist.")
		return
	case errors.Is(err, groupstore.ErrNotHost):
		uierrors.RenderForbidden(w, r, "Only the host can delete this group.", "/groups/"+groupID.Hex())
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "delete group", err, "A server error occurred.", "/dashboard")
		return
	}

	flash.Set(w, flash.KindSuccess, "Group deleted.")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleJoin handles POST /groups/{groupID}/join.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	_, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}
	back := "/groups/" + groupID.Hex()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Memberships.Join(ctx, groupID, userID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		notFound(w, r, "That group does not exist.")
		return
	case errors.Is(err, membershipstore.ErrAlreadyMember):
		flash.Set(w, flash.KindInfo, "You are already a member of this group.")
	case errors.Is(err, membershipstore.ErrGroupFull):
		flash.Set(w, flash.KindError, "That group is full.")
	case err != nil:
		h.ErrLog.LogServerError(w, r, "join group", err, "A server error occurred.", back)
		return
	default:
		flash.Set(w, flash.KindSuccess, "You joined the group.")
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// HandleLeave handles POST /groups/{groupID}/leave.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	_, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}
	back := "/groups/" + groupID.Hex()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Memberships.Leave(ctx, groupID, userID)
	switch {
	case errors.Is(err, membershipstore.ErrHostCannotLeave):
		flash.Set(w, flash.KindError, "The host cannot leave their own group. Delete the group instead.")
	case errors.Is(err, membershipstore.ErrNotMember):
		flash.Set(w, flash.KindInfo, "You are not a member of this group.")
	case err != nil:
		h.ErrLog.LogServerError(w, r, "leave group", err, "A server error occurred.", back)
		return
	default:
		flash.Set(w, flash.KindSuccess, "You left the group.")
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// HandleRequest handles POST /groups/{groupID}/request.
func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	_, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}
	back := "/groups/" + groupID.Hex()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, err := h.Requests.Create(ctx, groupID, userID)
	switch {
	case errors.Is(err, joinrequeststore.ErrAlreadyMember):
		flash.Set(w, flash.KindInfo, "You are already a member of this group.")
	case errors.Is(err, joinrequeststore.ErrDuplicateRequest):
		flash.Set(w, flash.KindInfo, "Your request is already waiting for the host.")
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create join request", err, "A server error occurred.", back)
		return
	default:
		flash.Set(w, flash.KindSuccess, "Join request sent to the host.")
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// requestIDParam parses the {requestID} route parameter.
func requestIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "requestID"))
	if err != nil {
		notFound(w, r, "That request does not exist.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// HandleApprove handles POST /groups/{groupID}/requests/{requestID}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.respondToRequest(w, r, true)
}

// HandleReject handles POST /groups/{groupID}/requests/{requestID}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.respondToRequest(w, r, false)
}

func (h *Handler) respondToRequest(w http.ResponseWriter, r *http.Request, approve bool) {
	_, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}
	requestID, ok := requestIDParam(w, r)
	if !ok {
		return
	}
	back := "/groups/" + groupID.Hex()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var err error
	if approve {
		err = h.Requests.Approve(ctx, requestID, userID)
	} else {
		err = h.Requests.Reject(ctx, requestID, userID)
	}
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		notFound(w, r, "That request does not exist.")
		return
	case errors.Is(err, joinrequeststore.ErrNotHost):
		uierrors.RenderForbidden(w, r, "Only the host can respond to join requests.", back)
		return
	case errors.Is(err, joinrequeststore.ErrNotPending):
		flash.Set(w, flash.KindInfo, "That request was already handled.")
	case errors.Is(err, joinrequeststore.ErrGroupFull):
		flash.Set(w, flash.KindError, "The group is full; reject the request or raise max members.")
	case err != nil:
		h.ErrLog.LogServerError(w, r, "respond to join request", err, "A server error occurred.", back)
		return
	default:
		if approve {
			flash.Set(w, flash.KindSuccess, "Request approved.")
		} else {
			flash.Set(w, flash.KindSuccess, "Request rejected.")
		}
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// HandlePostMessage handles POST /groups/{groupID}/messages.
func (h *Handler) HandlePostMessage(w http.ResponseWriter, r *http.Request) {
	_, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	groupID, ok := groupIDParam(w, r)
	if !ok {
		return
	}
	back := "/groups/" + groupID.Hex()
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", back)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, err := h.Messages.Post(ctx, groupID, userID, r.FormValue("content"))
	if errors.Is(err, messagestore.ErrNotMember) {
		uierrors.RenderForbidden(w, r, "Only members can post in the group chat.", back)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "post message", err, "A server error occurred.", back)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

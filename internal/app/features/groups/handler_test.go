package groups_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/studybuddyhq/studybuddy/internal/app/features/errors"
	"github.com/studybuddyhq/studybuddy/internal/app/features/groups"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
	"github.com/studybuddyhq/studybuddy/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*groups.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := groups.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db)
}

// serve invokes a handler func, swallowing template-render panics so that
// form-render failure paths can still assert on database state.
func serve(fn http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	func() {
		defer func() {
			if r := recover(); r != nil {
				// Template rendering may panic in tests - that's expected
			}
		}()
		fn(rec, req)
	}()
	return rec
}

func groupRequest(user models.User, groupID primitive.ObjectID, action string, form map[string]string) *http.Request {
	target := "/groups/" + groupID.Hex() + action
	req := testutil.NewFormRequest(target, form)
	req = testutil.WithUser(req, testutil.AsUser(user))
	return testutil.WithChiURLParam(req, "groupID", groupID.Hex())
}

func TestHandleCreate(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	host := fixtures.CreateUser(ctx, "hostuser", "secret-pw")
	subject := fixtures.CreateSubject(ctx, "Mathematics")

	req := testutil.NewFormRequest("/groups/new", map[string]string{
		"title":            "Calculus Crunch",
		"description":      "Weekly problem sets.",
		"subject":          subject.ID.Hex(),
		"meeting_date":     "10/15/2026",
		"meeting_time":     "02:30 PM",
		"meeting_location": "Library room 4",
		"max_members":      "6",
	})
	req = testutil.WithUser(req, testutil.AsUser(host))
	rec := serve(handler.HandleCreate, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	var g models.StudyGroup
	err := fixtures.DB().Collection("study_groups").FindOne(ctx, bson.M{"title": "Calculus Crunch"}).Decode(&g)
	if err != nil {
		t.Fatalf("group not created: %v", err)
	}
	if g.MeetingTime != 14*60+30 {
		t.Errorf("MeetingTime = %d, want %d", g.MeetingTime, 14*60+30)
	}
	if got, want := rec.Header().Get("Location"), "/groups/"+g.ID.Hex(); got != want {
		t.Errorf("redirect = %q, want %q", got, want)
	}

	// The host gets an active membership with the group.
	n, err := fixtures.DB().Collection("group_memberships").CountDocuments(ctx, bson.M{"group_id": g.ID, "user_id": host.ID, "is_active": true})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("host memberships = %d, want 1", n)
	}
}

func TestHandleCreate_BadMeetingTime(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	host := fixtures.CreateUser(ctx, "hostuser", "secret-pw")
	subject := fixtures.CreateSubject(ctx, "Mathematics")

	req := testutil.NewFormRequest("/groups/new", map[string]string{
		"title":            "Calculus Crunch",
		"subject":          subject.ID.Hex(),
		"meeting_date":     "10/15/2026",
		"meeting_time":     "25:99",
		"meeting_location": "Library room 4",
		"max_members":      "6",
	})
	req = testutil.WithUser(req, testutil.AsUser(host))
	serve(handler.HandleCreate, req)

	n, err := fixtures.DB().Collection("study_groups").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("groups created = %d, want 0", n)
	}
}

func TestHandleEdit(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	host := fixtures.CreateUser(ctx, "hostuser", "secret-pw")
	subject := fixtures.CreateSubject(ctx, "Mathematics")
	g := fixtures.CreateGroup(ctx, "Calculus Crunch", subject.ID, host.ID, 5)

	req := groupRequest(host, g.ID, "/edit", map[string]string{
		"title":            "Calculus Crunch II",
		"description":      "Now with integrals.",
		"subject":          subject.ID.Hex(),
		"meeting_date":     "11/01/2026",
		"meeting_time":     "10:00 AM",
		"meeting_location": "Student union",
		"max_members":      "8",
	})
	rec := serve(handler.HandleEdit, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	var updated models.StudyGroup
	if err := fixtures.DB().Collection("study_groups").FindOne(ctx, bson.M{"_id": g.ID}).Decode(&updated); err != nil {
		t.Fatal(err)
	}
	if updated.Title != "Calculus Crunch II" || updated.MaxMembers != 8 || updated.MeetingTime != 600 {
		t.Errorf("update not applied: %+v", updated)
	}
}

func TestHandleEdit_NotHost(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	host := fixtures.CreateUser(ctx, "hostuser", "secret-pw")
	other := fixtures.CreateUser(ctx, "otheruser", "secret-pw")
	subject := fixtures.CreateSubject(ctx, "Mathematics")
	g := fixtures.CreateGroup(ctx, "Calculus Crunch", subject.ID, host.ID, 5)

	req := groupRequest(other, g.ID, "/edit", map[string]string{
		"title":            "Hijacked",
		"subject":          subject.ID.Hex(),
		"meeting_date":     "11/01/2026",
		"meeting_time":     "10:00 AM",
		"meeting_location": "Elsewhere",
		"max_members":      "3",
	})
	serve(handler.HandleEdit, req)

	var unchanged models.StudyGroup
	if err := fixtures.DB().Collection("study_groups").FindOne(ctx, bson.M{"_id": g.ID}).Decode(&unchanged); err != nil {
		t.Fatal(err)
	}
	if unchanged.Title != "Calculus Crunch" {
		t.Errorf("title changed by non-host: %q", unchanged.Title)
	}
}

func TestHandleDelete_Cascades(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	host := fixtures.CreateUser(ctx, "hostuser", "secret-pw")
	member := fixtures.CreateUser(ctx, "memberuser", "secret-pw")
	subject := fixtures.CreateSubject(ctx, "Mathematics")
	g := fixtures.CreateGroup(ctx, "Calculus Crunch", subject.ID, host.ID, 5)
	fixtures.CreateMembership(ctx, g.ID, member.ID)
	fixtures.CreateMessage(ctx, g.ID, member.ID, "see you thursday")

	req := groupRequest(host, g.ID, "/delete", nil)
	rec := serve(handler.HandleDelete, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != "/dashboard" {
		t.Errorf("redirect = %q, want /dashboard", got)
	}
	for _, coll := range []string{"study_groups", "group_memberships", "group_messages"} {
		n, err := fixtures.DB().Collection(coll).CountDocuments(ctx, bson.M{})
		if err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Errorf("%s has %d documents after delete, want 0", coll, n)
		}
	}
}

func TestHandleJoin(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	host := fixtures.CreateUser(ctx, "hostuser", "secret-pw")
	joiner := fixtures.CreateUser(ctx, "joineruser", "secret-pw")
	subject := fixtures.CreateSubject(ctx, "Mathematics")
	g := fixtures.CreateGroup(ctx, "Calculus Crunch", subject.ID, host.ID, 5)

	req := groupRequest(joiner, g.ID, "/join", nil)
	rec := serve(handler.HandleJoin, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	n, err := fixtures.DB().Collection("group_memberships").CountDocuments(ctx, bson.M{"group_id": g.ID, "user_id": joiner.ID, "is_active": true})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("memberships = %d, want 1", n)
	}
}

func TestHandleJoin_GroupFull(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	host := fixtures.CreateUser(ctx, "hostuser", "secret-pw")
	member := fixtures.CreateUser(ctx, "memberuser", "secret-pw")
	late := fixtures.CreateUser(ctx, "lateuser", "secret-pw")
	subject := fixtures.CreateSubject(ctx, "Mathematics")
	g := fixtures.CreateGroup(ctx, "Calculus Crunch", subject.ID, host.ID, 2)
	fixtures.CreateMembership(ctx, g.ID, member.ID)

	req := groupRequest(late, g.ID, "/join", nil)
	rec := serve(handler.HandleJoin, req)

	// Full group still redirects back with a flash, not an error page.
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	n, err := fixtures.DB().Collection("group_memberships").CountDocuments(ctx, bson.M{"group_id": g.ID, "user_id": late.ID})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("memberships = %d, want 0", n)
	}
}

func TestHandleLeave(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	host := fixtures.CreateUser(ctx, "hostuser", "secret-pw")
	member := fixtures.CreateUser(ctx, "memberuser", "secret-pw")
	subject := fixtures.CreateSubject(ctx, "Mathematics")
	g := fixtures.CreateGroup(ctx, "Calculus Crunch", subject.ID, host.ID, 5)
	fixtures.CreateMembership(ctx, g.ID, member.ID)

	req := groupRequest(member, g.ID, "/leave", nil)
	rec := serve(handler.HandleLeave, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	n, err := fixtures.DB().Collection("group_memberships").CountDocuments(ctx, bson.M{"group_id": g.ID, "user_id": member.ID})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("memberships = %d, want 0", n)
	}
}

func TestHandleLeave_Host(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	host := fixtures.CreateUser(ctx, "hostuser", "secret-pw")
	subject := fixtures.CreateSubject(ctx, "Mathematics")
	g := fixtures.CreateGroup(ctx, "Calculus Crunch", subject.ID, host.ID, 5)

	req := groupRequest(host, g.ID, "/leave", nil)
	rec := serve(handler.HandleLeave, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	n, err := fixtures.DB().Collection("group_memberships").CountDocuments(ctx, bson.M{"group_id": g.ID, "user_id": host.ID, "is_active": true})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("host membership removed, count = %d, want 1", n)
	}
}

func TestHandleRequest(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	host := fixtures.CreateUser(ctx, "hostuser", "secret-pw")
	asker := fixtures.CreateUser(ctx, "askeruser", "secret-pw")
	subject := fixtures.CreateSubject(ctx, "Mathematics")
	g := fixtures.CreateGroup(ctx, "Calculus Crunch", subject.ID, host.ID, 5)

	req := groupRequest(asker, g.ID, "/request", nil)
	rec := serve(handler.HandleRequest, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	n, err := fixtures.DB().Collection("group_join_requests").CountDocuments(ctx, bson.M{"group_id": g.ID, "user_id": asker.ID, "status": models.RequestPending})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("pending requests = %d, want 1", n)
	}

	// A second request while one is pending stays a single row.
	serve(handler.HandleRequest, groupRequest(asker, g.ID, "/request", nil))
	n, err = fixtures.DB().Collection("group_join_requests").CountDocuments(ctx, bson.M{"group_id": g.ID, "user_id": asker.ID})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("requests after duplicate = %d, want 1", n)
	}
}

func requestActionRequest(user models.User, groupID, requestID primitive.ObjectID, action string) *http.Request {
	req := groupRequest(user, groupID, "/requests/"+requestID.Hex()+"/"+action, nil)
	return testutil.WithChiURLParam(req, "requestID", requestID.Hex())
}

func TestHandleApprove(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	host := fixtures.CreateUser(ctx, "hostuser", "secret-pw")
	asker := fixtures.CreateUser(ctx, "askeruser", "secret-pw")
	subject := fixtures.CreateSubject(ctx, "Mathematics")
	g := fixtures.CreateGroup(ctx, "Calculus Crunch", subject.ID, host.ID, 5)
	jr := fixtures.CreateJoinRequest(ctx, g.ID, asker.ID, models.RequestPending, g.CreatedAt)

	rec := serve(handler.HandleApprove, requestActionRequest(host, g.ID, jr.ID, "approve"))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	var updated models.GroupJoinRequest
	if err := fixtures.DB().Collection("group_join_requests").FindOne(ctx, bson.M{"_id": jr.ID}).Decode(&updated); err != nil {
		t.Fatal(err)
	}
	if updated.Status != models.RequestApproved {
		t.Errorf("status = %q, want approved", updated.Status)
	}
	n, err := fixtures.DB().Collection("group_memberships").CountDocuments(ctx, bson.M{"group_id": g.ID, "user_id": asker.ID, "is_active": true})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("memberships = %d, want 1", n)
	}
}

func TestHandleReject_NonHostForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	host := fixtures.CreateUser(ctx, "hostuser", "secret-pw")
	asker := fixtures.CreateUser(ctx, "askeruser", "secret-pw")
	subject := fixtures.CreateSubject(ctx, "Mathematics")
	g := fixtures.CreateGroup(ctx, "Calculus Crunch", subject.ID, host.ID, 5)
	jr := fixtures.CreateJoinRequest(ctx, g.ID, asker.ID, models.RequestPending, g.CreatedAt)

	// The requester cannot resolve their own request.
	serve(handler.HandleReject, requestActionRequest(asker, g.ID, jr.ID, "reject"))

	var unchanged models.GroupJoinRequest
	if err := fixtures.DB().Collection("group_join_requests").FindOne(ctx, bson.M{"_id": jr.ID}).Decode(&unchanged); err != nil {
		t.Fatal(err)
	}
	if unchanged.Status != models.RequestPending {
		t.Errorf("status = %q, want pending", unchanged.Status)
	}
}

func TestHandlePostMessage(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	host := fixtures.CreateUser(ctx, "hostuser", "secret-pw")
	subject := fixtures.CreateSubject(ctx, "Mathematics")
	g := fixtures.CreateGroup(ctx, "Calculus Crunch", subject.ID, host.ID, 5)

	req := groupRequest(host, g.ID, "/messages", map[string]string{"content": "bring chapter 3 notes"})
	rec := serve(handler.HandlePostMessage, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	n, err := fixtures.DB().Collection("group_messages").CountDocuments(ctx, bson.M{"group_id": g.ID, "content": "bring chapter 3 notes"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("messages = %d, want 1", n)
	}
}

func TestHandlePostMessage_NotMember(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	host := fixtures.CreateUser(ctx, "hostuser", "secret-pw")
	outsider := fixtures.CreateUser(ctx, "outsideruser", "secret-pw")
	subject := fixtures.CreateSubject(ctx, "Mathematics")
	g := fixtures.CreateGroup(ctx, "Calculus Crunch", subject.ID, host.ID, 5)

	req := groupRequest(outsider, g.ID, "/messages", map[string]string{"content": "let me in"})
	serve(handler.HandlePostMessage, req)

	n, err := fixtures.DB().Collection("group_messages").CountDocuments(ctx, bson.M{"group_id": g.ID})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("messages = %d, want 0", n)
	}
}

func TestServeGroup_BadID(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "someuser", "secret-pw")

	req := testutil.NewAuthenticatedRequest("GET", "/groups/not-an-id", testutil.AsUser(user))
	req = testutil.WithChiURLParam(req, "groupID", "not-an-id")
	rec := serve(handler.ServeGroup, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("redirect location = %q, want /dashboard", loc)
	}
}

package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/studybuddyhq/studybuddy/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given username and password.
func (f *Fixtures) CreateUser(ctx context.Context, username, password string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		FullName:     "Test " + username,
		Email:        username + "@test.com",
		PasswordHash: string(hash),
		AuthMethod:   "password",
		ProfileReady: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateSubject creates a test subject with the given name.
func (f *Fixtures) CreateSubject(ctx context.Context, name string) models.Subject {
	f.t.Helper()

	subject := models.Subject{
		ID:     primitive.NewObjectID(),
		Name:   name,
		NameCI: text.Fold(name),
	}

	_, err := f.db.Collection("subjects").InsertOne(ctx, subject)
	if err != nil {
		f.t.Fatalf("failed to create test subject: %v", err)
	}

	return subject
}

// CreateGroup creates a test study group hosted by hostID, with the host
// enrolled as an active member.
func (f *Fixtures) CreateGroup(ctx context.Context, title string, subjectID, hostID primitive.ObjectID, maxMembers int) models.StudyGroup {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.StudyGroup{
		ID:              primitive.NewObjectID(),
		Title:           title,
		TitleCI:         text.Fold(title),
		Description:     "Test group description",
		SubjectID:       subjectID,
		HostID:          hostID,
		MeetingDate:     time.Date(now.Year()+1, time.March, 15, 0, 0, 0, 0, time.UTC),
		MeetingTime:     870, // 2:30 PM
		MeetingLocation: "Library Room 4",
		MaxMembers:      maxMembers,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := f.db.Collection("study_groups").InsertOne(ctx, group)
	if err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	f.CreateMembership(ctx, group.ID, hostID)

	return group
}

// CreateMembership enrolls a user as an active member of a group.
func (f *Fixtures) CreateMembership(ctx context.Context, groupID, userID primitive.ObjectID) models.GroupMembership {
	f.t.Helper()

	membership := models.GroupMembership{
		ID:         primitive.NewObjectID(),
		GroupID:    groupID,
		UserID:     userID,
		IsActive:   true,
		DateJoined: time.Now().UTC(),
	}

	_, err := f.db.Collection("group_memberships").InsertOne(ctx, membership)
	if err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}

	return membership
}

// CreateJoinRequest creates a join request with the given status and
// requested-at time.
func (f *Fixtures) CreateJoinRequest(ctx context.Context, groupID, userID primitive.ObjectID, status string, requestedAt time.Time) models.GroupJoinRequest {
	f.t.Helper()

	req := models.GroupJoinRequest{
		ID:          primitive.NewObjectID(),
		GroupID:     groupID,
		UserID:      userID,
		Status:      status,
		RequestedAt: requestedAt,
	}
	if status != models.RequestPending {
		respondedAt := requestedAt.Add(time.Hour)
		req.RespondedAt = &respondedAt
	}

	_, err := f.db.Collection("group_join_requests").InsertOne(ctx, req)
	if err != nil {
		f.t.Fatalf("failed to create test join request: %v", err)
	}

	return req
}

// CreateMessage posts a chat message to a group.
func (f *Fixtures) CreateMessage(ctx context.Context, groupID, userID primitive.ObjectID, content string) models.GroupMessage {
	f.t.Helper()

	msg := models.GroupMessage{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	_, err := f.db.Collection("group_messages").InsertOne(ctx, msg)
	if err != nil {
		f.t.Fatalf("failed to create test message: %v", err)
	}

	return msg
}

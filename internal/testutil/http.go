package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/studybuddyhq/studybuddy/internal/app/system/auth"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID       string
	Name     string
	Username string
}

// SignedInUser returns a TestUser with a fresh ID.
func SignedInUser() TestUser {
	return TestUser{
		ID:       primitive.NewObjectID().Hex(),
		Name:     "Test User",
		Username: "testuser",
	}
}

// AsUser converts a fixture user into a TestUser for request contexts.
func AsUser(u models.User) TestUser {
	return TestUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName,
		Username: u.Username,
	}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	sessionUser := &auth.SessionUser{
		ID:      user.ID,
		Name:    user.Name,
		LoginID: user.Username,
	}
	return auth.WithTestUser(r, sessionUser)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewFormRequest creates a POST request carrying url-encoded form values.
func NewFormRequest(target string, form map[string]string) *http.Request {
	values := url.Values{}
	for k, v := range form {
		values.Set(k, v)
	}
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithUser(req, user)
}

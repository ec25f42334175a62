package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/studybuddyhq/studybuddy/internal/app/features/logout"
	"github.com/studybuddyhq/studybuddy/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *logout.Handler {
	t.Helper()
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	return logout.NewHandler(sessionMgr, logger)
}

func TestServeLogout_RedirectsToHome(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("GET", "/logout", nil)
	rec := httptest.NewRecorder()

	handler.ServeLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/" {
		t.Errorf("Location: got %q, want %q", location, "/")
	}
}

func TestServeLogout_ClearsSessionCookie(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("GET", "/logout", nil)
	rec := httptest.NewRecorder()

	handler.ServeLogout(rec, req)

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			found = true
			if c.MaxAge != -1 {
				t.Errorf("cookie MaxAge: got %d, want -1 (delete)", c.MaxAge)
			}
			break
		}
	}
	if !found {
		t.Error("expected session cookie to be set for deletion")
	}
}

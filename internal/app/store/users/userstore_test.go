package userstore_test

import (
	"testing"

	userstore "github.com/studybuddyhq/studybuddy/internal/app/store/users"
	"github.com/studybuddyhq/studybuddy/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, "Alice99", "Alice Smith", "alice@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if u.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if u.UsernameCI != "alice99" {
		t.Errorf("UsernameCI: got %q, want %q", u.UsernameCI, "alice99")
	}
	if u.PasswordHash == "" || u.PasswordHash == "hunter2hunter2" {
		t.Error("expected password to be stored hashed")
	}
	if u.AuthMethod != "password" {
		t.Errorf("AuthMethod: got %q, want %q", u.AuthMethod, "password")
	}
}

func TestStore_Create_DuplicateUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "alice", "Alice One", "a1@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// Same username in a different case still collides.
	_, err := store.Create(ctx, "ALICE", "Alice Two", "a2@example.com", "hunter2hunter2")
	if err != userstore.ErrDuplicateUsername {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestStore_GetByUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "bob", "Bob Jones", "bob@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := store.GetByUsername(ctx, "BOB")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID: got %v, want %v", found.ID, created.ID)
	}
}

func TestStore_Authenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "carol", "Carol Reed", "carol@example.com", "correct horse"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	u, err := store.Authenticate(ctx, "carol", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if u.Username != "carol" {
		t.Errorf("Username: got %q, want %q", u.Username, "carol")
	}

	if _, err := store.Authenticate(ctx, "carol", "wrong password"); err != userstore.ErrBadCredentials {
		t.Errorf("wrong password: expected ErrBadCredentials, got %v", err)
	}
	if _, err := store.Authenticate(ctx, "nobody", "correct horse"); err != userstore.ErrBadCredentials {
		t.Errorf("unknown user: expected ErrBadCredentials, got %v", err)
	}
}

func TestStore_Authenticate_GoogleAccountHasNoPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.CreateGoogle(ctx, "dave@example.com", "Dave Lee"); err != nil {
		t.Fatalf("CreateGoogle failed: %v", err)
	}

	_, err := store.Authenticate(ctx, "dave@example.com", "")
	if err != userstore.ErrBadCredentials {
		t.Errorf("expected ErrBadCredentials for passwordless account, got %v", err)
	}
}

func TestStore_UpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "erin", "Erin Park", "erin@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ProfileReady {
		t.Error("a fresh account should not be marked profile-ready")
	}

	if err := store.UpdateProfile(ctx, created.ID, "Erin J. Park", "Physics major, night owl."); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	found, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.FullName != "Erin J. Park" {
		t.Errorf("FullName: got %q", found.FullName)
	}
	if found.Bio != "Physics major, night owl." {
		t.Errorf("Bio: got %q", found.Bio)
	}
	if !found.ProfileReady {
		t.Error("expected ProfileReady after UpdateProfile")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

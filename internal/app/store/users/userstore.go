// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/studybuddyhq/studybuddy/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var (
	ErrDuplicateUsername = errors.New("that username is already taken")
	ErrBadCredentials    = errors.New("invalid username or password")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create registers a password account. The password is hashed with bcrypt
// before anything touches the database.
func (s *Store) Create(ctx context.Context, username, fullName, email, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		AuthMethod:   "password",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

// CreateGoogle registers an account signed in through Google; no password.
func (s *Store) CreateGoogle(ctx context.Context, email, fullName string) (models.User, error) {
	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		Username:   email,
		UsernameCI: text.Fold(email),
		FullName:   fullName,
		Email:      email,
		AuthMethod: "google",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetByUsername looks up a user by folded username.
func (s *Store) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"username_ci": text.Fold(username)}).Decode(&u)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Authenticate verifies a username/password pair. It returns
// ErrBadCredentials for both unknown users and wrong passwords so callers
// cannot tell the cases apart.
func (s *Store) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	u, err := s.GetByUsername(ctx, username)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Burn a comparison anyway to keep timing flat.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$12$0000000000000000000000000000000000000000000000000000"), []byte(password))
			return models.User{}, ErrBadCredentials
		}
		return models.User{}, err
	}
	if u.PasswordHash == "" {
		return models.User{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrBadCredentials
	}
	return u, nil
}

// UpdateProfile sets the profile fields and marks setup complete.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, fullName, bio string) error {
	set := bson.M{
		"full_name":     fullName,
		"bio":           bio,
		"profile_ready": true,
		"updated_at":    time.Now().UTC(),
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account.
//
// NOTE:
//   - Group hosting and membership are not embedded on User.
//     Use the group_memberships collection to discover a user's groups.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username   string             `bson:"username" json:"username"`
	UsernameCI string             `bson:"username_ci" json:"username_ci"` // lowercase, diacritics-stripped
	FullName   string             `bson:"full_name" json:"full_name"`
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`

	// PasswordHash is empty for OAuth-only accounts.
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string `bson:"auth_method" json:"auth_method"` // "password" | "google"

	// Profile fields filled in on the profile setup page.
	Bio          string `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfileReady bool   `bson:"profile_ready" json:"profile_ready"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

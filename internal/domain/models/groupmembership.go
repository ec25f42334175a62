// internal/domain/models/groupmembership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupMembership is the authoritative join between users and study groups.
// Exactly one document per (group_id, user_id); the host gets a membership
// row at group creation, so counting active rows counts the host too.
type GroupMembership struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID    primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	IsActive   bool               `bson:"is_active" json:"is_active"`
	DateJoined time.Time          `bson:"date_joined" json:"date_joined"`
}

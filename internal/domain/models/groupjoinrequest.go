// internal/domain/models/groupjoinrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Join request statuses.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// GroupJoinRequest is an approval-gated alternative to joining directly.
// At most one document per (group_id, user_id); an approved request that
// coexists with an active membership is redundant and is removed by the
// cleanup command.
type GroupJoinRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID     primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Status      string             `bson:"status" json:"status"` // pending | approved | rejected
	RequestedAt time.Time          `bson:"requested_at" json:"requested_at"`
	RespondedAt *time.Time         `bson:"responded_at,omitempty" json:"responded_at,omitempty"`
}

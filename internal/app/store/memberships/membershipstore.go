// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/studybuddyhq/studybuddy/internal/app/system/txn"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	ErrAlreadyMember   = errors.New("user is already a member of this group")
	ErrGroupFull       = errors.New("group is at capacity")
	ErrNotMember       = errors.New("user is not a member of this group")
	ErrHostCannotLeave = errors.New("the host cannot leave their own group")
)

type Store struct {
	db  *mongo.Database
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		db:  db,
		c:   db.Collection("group_memberships"),
		log: logger,
	}
}

// Join enrolls a user in a group. The capacity check and the insert run in
// one transaction so two concurrent joins cannot both land in the last seat.
// On a standalone server without transactions the unique (group_id, user_id)
// index still prevents double enrollment.
func (s *Store) Join(ctx context.Context, groupID, userID primitive.ObjectID) error {
	var g models.StudyGroup
	if err := s.db.Collection("study_groups").FindOne(ctx, bson.M{"_id": groupID}).Decode(&g); err != nil {
		return err
	}

	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		active, err := s.IsActiveMember(ctx, groupID, userID)
		if err != nil {
			return err
		}
		if active {
			return ErrAlreadyMember
		}

		n, err := s.CountActive(ctx, groupID)
		if err != nil {
			return err
		}
		if g.MaxMembers > 0 && n >= int64(g.MaxMembers) {
			return ErrGroupFull
		}

		_, err = s.c.InsertOne(ctx, models.GroupMembership{
			GroupID:    groupID,
			UserID:     userID,
			IsActive:   true,
			DateJoined: time.Now().UTC(),
		})
		return err
	})
	if wafflemongo.IsDup(err) {
		return ErrAlreadyMember
	}
	return err
}

// Leave removes a member from a group. The host stays enrolled for the
// lifetime of the group.
func (s *Store) Leave(ctx context.Context, groupID, userID primitive.ObjectID) error {
	var g models.StudyGroup
	if err := s.db.Collection("study_groups").FindOne(ctx, bson.M{"_id": groupID}).Decode(&g); err != nil {
		return err
	}
	if g.HostID == userID {
		return ErrHostCannotLeave
	}

	res, err := s.c.DeleteOne(ctx, bson.M{"group_id": groupID, "user_id": userID, "is_active": true})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotMember
	}
	return nil
}

func (s *Store) IsActiveMember(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"group_id":  groupID,
		"user_id":   userID,
		"is_active": true,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) CountActive(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID, "is_active": true})
}

// ListForGroup returns the active memberships of a group ordered by join
// time, earliest first, so the host appears at the top.
func (s *Store) ListForGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.GroupMembership, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"group_id": groupID, "is_active": true},
		options.Find().SetSort(bson.D{{Key: "date_joined", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []models.GroupMembership
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// ListGroupIDsForUser returns the IDs of groups the user is an active
// member of.
func (s *Store) ListGroupIDsForUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID, "is_active": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.GroupMembership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.GroupID)
	}
	return ids, nil
}

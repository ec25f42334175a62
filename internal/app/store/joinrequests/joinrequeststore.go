// internal/app/store/joinrequests/joinrequeststore.go
package joinrequeststore

import (
	"context"
	"errors"
	"fmt"
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
	ErrDuplicateRequest = errors.New("a pending request for this group already exists")
	ErrAlreadyMember    = errors.New("user is already a member of this group")
	ErrGroupFull        = errors.New("group is at capacity")
	ErrNotHost          = errors.New("only the host can respond to requests")
	ErrNotPending       = errors.New("request has already been responded to")
)

type Store struct {
	db  *mongo.Database
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		db:  db,
		c:   db.Collection("group_join_requests"),
		log: logger,
	}
}

// Create files a pending join request. Active members cannot request, and
// the partial unique index on pending (group_id, user_id) keeps a user from
// stacking up open requests for the same group.
func (s *Store) Create(ctx context.Context, groupID, userID primitive.ObjectID) (models.GroupJoinRequest, error) {
	n, err := s.db.Collection("group_memberships").CountDocuments(ctx, bson.M{
		"group_id":  groupID,
		"user_id":   userID,
		"is_active": true,
	})
	if err != nil {
		return models.GroupJoinRequest{}, err
	}
	if n > 0 {
		return models.GroupJoinRequest{}, ErrAlreadyMember
	}

	req := models.GroupJoinRequest{
		ID:          primitive.NewObjectID(),
		GroupID:     groupID,
		UserID:      userID,
		Status:      models.RequestPending,
		RequestedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, req); err != nil {
		if wafflemongo.IsDup(err) {
			return models.GroupJoinRequest{}, ErrDuplicateRequest
		}
		return models.GroupJoinRequest{}, err
	}
	return req, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.GroupJoinRequest, error) {
	var req models.GroupJoinRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		return models.GroupJoinRequest{}, err
	}
	return req, nil
}

// Approve marks a pending request approved and enrolls the requester, both
// in one transaction. Only the group's host may approve. A requester who is
// somehow already active just gets the request marked approved.
func (s *Store) Approve(ctx context.Context, requestID, actorID primitive.ObjectID) error {
	req, err := s.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	var g models.StudyGroup
	if err := s.db.Collection("study_groups").FindOne(ctx, bson.M{"_id": req.GroupID}).Decode(&g); err != nil {
		return err
	}
	if g.HostID != actorID {
		return ErrNotHost
	}

	return txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		now := time.Now().UTC()
		memberships := s.db.Collection("group_memberships")

		active, err := memberships.CountDocuments(ctx, bson.M{
			"group_id":  req.GroupID,
			"user_id":   req.UserID,
			"is_active": true,
		})
		if err != nil {
			return err
		}
		if active == 0 {
			total, err := memberships.CountDocuments(ctx, bson.M{"group_id": req.GroupID, "is_active": true})
			if err != nil {
				return err
			}
			if g.MaxMembers > 0 && total >= int64(g.MaxMembers) {
				return ErrGroupFull
			}
		}

		res, err := s.c.UpdateOne(ctx,
			bson.M{"_id": requestID, "status": models.RequestPending},
			bson.M{"$set": bson.M{"status": models.RequestApproved, "responded_at": now}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotPending
		}
		if active > 0 {
			return nil
		}

		_, err = memberships.InsertOne(ctx, models.GroupMembership{
			GroupID:    req.GroupID,
			UserID:     req.UserID,
			IsActive:   true,
			DateJoined: now,
		})
		return err
	})
}

// Reject marks a pending request rejected. Only the group's host may reject.
func (s *Store) Reject(ctx context.Context, requestID, actorID primitive.ObjectID) error {
	req, err := s.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	var g models.StudyGroup
	if err := s.db.Collection("study_groups").FindOne(ctx, bson.M{"_id": req.GroupID}).Decode(&g); err != nil {
		return err
	}
	if g.HostID != actorID {
		return ErrNotHost
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": requestID, "status": models.RequestPending},
		bson.M{"$set": bson.M{"status": models.RequestRejected, "responded_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotPending
	}
	return nil
}

// ListPendingForGroup returns pending requests oldest first, so hosts work
// through the queue in arrival order.
func (s *Store) ListPendingForGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.GroupJoinRequest, error) {
	return s.list(ctx,
		bson.M{"group_id": groupID, "status": models.RequestPending},
		bson.D{{Key: "requested_at", Value: 1}, {Key: "_id", Value: 1}})
}

// ListForUser returns all of a user's requests, newest first.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.GroupJoinRequest, error) {
	return s.list(ctx,
		bson.M{"user_id": userID},
		bson.D{{Key: "requested_at", Value: -1}, {Key: "_id", Value: -1}})
}

// HasPending reports whether the user has an open request for the group.
func (s *Store) HasPending(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"group_id": groupID,
		"user_id":  userID,
		"status":   models.RequestPending,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) list(ctx context.Context, filter bson.M, sort bson.D) ([]models.GroupJoinRequest, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reqs []models.GroupJoinRequest
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// CleanupReport summarizes what Cleanup removed (or would remove in a
// dry run).
type CleanupReport struct {
	DryRun            bool
	RedundantApproved int
	DuplicateSets     int
	DuplicatesRemoved int
	Details           []string
}

// Cleanup prunes join-request documents that no longer carry information:
//
//   - approved requests whose user holds an active membership in the group
//     (the membership is the source of truth once enrolled)
//   - all but the newest request per (user, group); ties on requested_at
//     keep the highest ObjectID
//
// With dryRun set nothing is deleted and the report shows what would go.
func (s *Store) Cleanup(ctx context.Context, dryRun bool) (CleanupReport, error) {
	report := CleanupReport{DryRun: dryRun}

	all, err := s.list(ctx, bson.M{},
		bson.D{{Key: "requested_at", Value: 1}, {Key: "_id", Value: 1}})
	if err != nil {
		return report, err
	}

	doomed := make(map[primitive.ObjectID]bool)

	for _, req := range all {
		if req.Status != models.RequestApproved {
			continue
		}
		n, err := s.db.Collection("group_memberships").CountDocuments(ctx, bson.M{
			"group_id":  req.GroupID,
			"user_id":   req.UserID,
			"is_active": true,
		})
		if err != nil {
			return report, err
		}
		if n > 0 {
			doomed[req.ID] = true
			report.RedundantApproved++
			report.Details = append(report.Details, fmt.Sprintf(
				"redundant approved request %s: user %s is an active member of group %s",
				req.ID.Hex(), req.UserID.Hex(), req.GroupID.Hex()))
		}
	}

	type pair struct{ user, group primitive.ObjectID }
	keep := make(map[pair]models.GroupJoinRequest)
	dupSets := make(map[pair]bool)
	for _, req := range all {
		if doomed[req.ID] {
			continue
		}
		k := pair{req.UserID, req.GroupID}
		prev, seen := keep[k]
		if !seen {
			keep[k] = req
			continue
		}
		if !dupSets[k] {
			dupSets[k] = true
			report.DuplicateSets++
		}
		// Keep the most recent request; on equal requested_at the higher
		// ObjectID wins so the choice is deterministic.
		loser := prev
		if req.RequestedAt.Before(prev.RequestedAt) ||
			(req.RequestedAt.Equal(prev.RequestedAt) && req.ID.Hex() < prev.ID.Hex()) {
			loser = req
		} else {
			keep[k] = req
		}
		doomed[loser.ID] = true
		report.DuplicatesRemoved++
		report.Details = append(report.Details, fmt.Sprintf(
			"duplicate request %s: user %s group %s superseded by a newer request",
			loser.ID.Hex(), loser.UserID.Hex(), loser.GroupID.Hex()))
	}

	if dryRun || len(doomed) == 0 {
		return report, nil
	}

	ids := make([]primitive.ObjectID, 0, len(doomed))
	for id := range doomed {
		ids = append(ids, id)
	}
	if _, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return report, err
	}
	return report, nil
}

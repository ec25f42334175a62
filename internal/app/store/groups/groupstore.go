// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/studybuddyhq/studybuddy/internal/app/system/txn"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	ErrNotHost        = errors.New("only the host can modify this group")
	ErrUnknownSubject = errors.New("subject does not exist")
)

type Store struct {
	db  *mongo.Database
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		db:  db,
		c:   db.Collection("study_groups"),
		log: logger,
	}
}

// NewGroup carries the validated fields for Create and Update.
type NewGroup struct {
	Title           string
	Description     string
	SubjectID       primitive.ObjectID
	MeetingDate     time.Time
	MeetingTime     int // minutes since midnight
	MeetingLocation string
	MaxMembers      int
}

// Create inserts the group and the host's own membership in one
// transaction, so a group is never observable without its host enrolled.
func (s *Store) Create(ctx context.Context, in NewGroup, hostID primitive.ObjectID) (models.StudyGroup, error) {
	if err := s.subjectExists(ctx, in.SubjectID); err != nil {
		return models.StudyGroup{}, err
	}

	now := time.Now().UTC()
	g := models.StudyGroup{
		ID:              primitive.NewObjectID(),
		Title:           in.Title,
		TitleCI:         text.Fold(in.Title),
		Description:     in.Description,
		SubjectID:       in.SubjectID,
		HostID:          hostID,
		MeetingDate:     in.MeetingDate,
		MeetingTime:     in.MeetingTime,
		MeetingLocation: in.MeetingLocation,
		MaxMembers:      in.MaxMembers,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if _, err := s.db.Collection("study_groups").InsertOne(ctx, g); err != nil {
			return err
		}
		_, err := s.db.Collection("group_memberships").InsertOne(ctx, models.GroupMembership{
			GroupID:    g.ID,
			UserID:     hostID,
			IsActive:   true,
			DateJoined: now,
		})
		return err
	})
	if err != nil {
		return models.StudyGroup{}, err
	}
	return g, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.StudyGroup, error) {
	var g models.StudyGroup
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.StudyGroup{}, err
	}
	return g, nil
}

// Update rewrites the editable fields. Only the host may update; the check
// lives here so every caller gets it.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in NewGroup, actorID primitive.ObjectID) error {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if g.HostID != actorID {
		return ErrNotHost
	}
	if err := s.subjectExists(ctx, in.SubjectID); err != nil {
		return err
	}

	set := bson.M{
		"title":            in.Title,
		"title_ci":         text.Fold(in.Title),
		"description":      in.Description,
		"subject_id":       in.SubjectID,
		"meeting_date":     in.MeetingDate,
		"meeting_time":     in.MeetingTime,
		"meeting_location": in.MeetingLocation,
		"max_members":      in.MaxMembers,
		"updated_at":       time.Now().UTC(),
	}
	_, err = s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// Delete removes a group and everything scoped to it: memberships, join
// requests, and messages. Host-only.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID, actorID primitive.ObjectID) error {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if g.HostID != actorID {
		return ErrNotHost
	}

	return txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if _, err := s.db.Collection("group_messages").DeleteMany(ctx, bson.M{"group_id": id}); err != nil {
			return err
		}
		if _, err := s.db.Collection("group_join_requests").DeleteMany(ctx, bson.M{"group_id": id}); err != nil {
			return err
		}
		if _, err := s.db.Collection("group_memberships").DeleteMany(ctx, bson.M{"group_id": id}); err != nil {
			return err
		}
		_, err := s.db.Collection("study_groups").DeleteOne(ctx, bson.M{"_id": id})
		return err
	})
}

// Filter narrows List. Zero values mean "no filter".
type Filter struct {
	SubjectID primitive.ObjectID // exact match when non-zero
	Search    string             // case-insensitive substring on title
}

// List returns groups newest-created-first, optionally filtered.
func (s *Store) List(ctx context.Context, f Filter) ([]models.StudyGroup, error) {
	q := bson.M{}
	if !f.SubjectID.IsZero() {
		q["subject_id"] = f.SubjectID
	}
	if f.Search != "" {
		// Substring match against the folded title; the folded search term
		// makes the comparison case-insensitive without a regex "i" flag.
		q["title_ci"] = bson.M{"$regex": regexp.QuoteMeta(text.Fold(f.Search))}
	}

	cur, err := s.c.Find(ctx, q, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.StudyGroup
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *Store) subjectExists(ctx context.Context, subjectID primitive.ObjectID) error {
	n, err := s.db.Collection("subjects").CountDocuments(ctx, bson.M{"_id": subjectID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUnknownSubject
	}
	return nil
}

// internal/app/store/messages/messagestore.go
package messagestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/studybuddyhq/studybuddy/internal/app/system/htmlsanitize"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotMember = errors.New("only members can post in this group")

type Store struct {
	db *mongo.Database
	c  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		db: db,
		c:  db.Collection("group_messages"),
	}
}

// Post appends a chat message to a group. Only active members (the host
// included) can post. Content is stripped to plain text before storage;
// a message that is empty after stripping is silently dropped.
func (s *Store) Post(ctx context.Context, groupID, userID primitive.ObjectID, content string) (*models.GroupMessage, error) {
	n, err := s.db.Collection("group_memberships").CountDocuments(ctx, bson.M{
		"group_id":  groupID,
		"user_id":   userID,
		"is_active": true,
	})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotMember
	}

	content = strings.TrimSpace(htmlsanitize.PlainText(content))
	if content == "" {
		return nil, nil
	}

	msg := models.GroupMessage{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListForGroup returns a group's messages oldest first, the order a chat
// transcript reads in.
func (s *Store) ListForGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.GroupMessage, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"group_id": groupID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []models.GroupMessage
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// internal/app/store/indexes/indexes.go
//
// Package indexes declares every index the application relies on. EnsureAll
// runs at startup and in test setup so the uniqueness rules the stores
// depend on hold everywhere.
package indexes

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureAll creates the application's indexes. Creation is idempotent.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		"users": {
			{
				Keys:    bson.D{{Key: "username_ci", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_username_ci"),
			},
		},
		"subjects": {
			{
				Keys:    bson.D{{Key: "name_ci", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_subject_name_ci"),
			},
		},
		"study_groups": {
			{
				Keys:    bson.D{{Key: "subject_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_group_subject_created"),
			},
			{
				Keys:    bson.D{{Key: "title_ci", Value: 1}},
				Options: options.Index().SetName("idx_group_title_ci"),
			},
		},
		"group_memberships": {
			{
				Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_membership"),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetName("idx_membership_user"),
			},
		},
		"group_join_requests": {
			// One open request per user per group; responded requests stay
			// around as history until the cleanup command prunes them.
			{
				Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetName("uniq_pending_request").
					SetPartialFilterExpression(bson.M{"status": "pending"}),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "requested_at", Value: -1}},
				Options: options.Index().SetName("idx_request_user_time"),
			},
		},
		"group_messages": {
			{
				Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("idx_message_group_time"),
			},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", coll, err)
		}
	}
	return nil
}

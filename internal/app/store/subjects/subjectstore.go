// internal/app/store/subjects/subjectstore.go
package subjectstore

import (
	"context"
	"errors"

	"github.com/studybuddyhq/studybuddy/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrDuplicateSubject = errors.New("a subject with this name already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("subjects")}
}

func (s *Store) Create(ctx context.Context, name string) (models.Subject, error) {
	sub := models.Subject{
		ID:     primitive.NewObjectID(),
		Name:   name,
		NameCI: text.Fold(name),
	}
	if _, err := s.c.InsertOne(ctx, sub); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Subject{}, ErrDuplicateSubject
		}
		return models.Subject{}, err
	}
	return sub, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Subject, error) {
	var sub models.Subject
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		return models.Subject{}, err
	}
	return sub, nil
}

// List returns the whole catalog, alphabetical. It is small reference data
// used to fill dropdowns.
func (s *Store) List(ctx context.Context) ([]models.Subject, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var subs []models.Subject
	if err := cur.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// Seed inserts the default catalog when the collection is empty.
func (s *Store) Seed(ctx context.Context, names []string) error {
	n, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(names))
	for _, name := range names {
		docs = append(docs, models.Subject{
			ID:     primitive.NewObjectID(),
			Name:   name,
			NameCI: text.Fold(name),
		})
	}
	_, err = s.c.InsertMany(ctx, docs)
	return err
}

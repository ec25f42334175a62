// internal/domain/models/subject.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Subject is reference data used to classify study groups and to populate
// the dashboard filter dropdown. Unique by name.
type Subject struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"name_ci"`
}

// DefaultSubjects seeds the catalog on first startup.
var DefaultSubjects = []string{
	"Mathematics",
	"Computer Science",
	"Physics",
	"Chemistry",
	"Biology",
	"History",
	"Literature",
	"Economics",
}

// internal/domain/models/studygroup.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudyGroup represents a study group hosted by one user.
//
// NOTE:
//   - Member lists are not embedded here. All membership (including the
//     host's own) lives in the group_memberships collection.
//   - MeetingTime is stored as minutes since midnight so that 12-hour
//     form input ("02:30 PM") round-trips through a single integer.
type StudyGroup struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"title_ci"`
	Description string             `bson:"description" json:"description"`
	SubjectID   primitive.ObjectID `bson:"subject_id" json:"subject_id"`
	HostID      primitive.ObjectID `bson:"host_id" json:"host_id"`

	MeetingDate     time.Time `bson:"meeting_date" json:"meeting_date"` // date only, UTC midnight
	MeetingTime     int       `bson:"meeting_time" json:"meeting_time"` // minutes since midnight
	MeetingLocation string    `bson:"meeting_location" json:"meeting_location"`

	MaxMembers int `bson:"max_members" json:"max_members"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// MeetingClock formats MeetingTime as a 24-hour "HH:MM" string.
func (g StudyGroup) MeetingClock() string {
	return fmt.Sprintf("%02d:%02d", g.MeetingTime/60, g.MeetingTime%60)
}

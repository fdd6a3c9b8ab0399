// internal/domain/models/interview.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interview is an admin-authored set of questions that candidates attempt.
//
// Field names are camelCase in both BSON and JSON because the collection is
// shared with the existing deployment.
type Interview struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Questions   []string             `bson:"questions" json:"questions"`
	AttemptedBy []primitive.ObjectID `bson:"attemptedBy" json:"attemptedBy"` // set semantics, maintained with $addToSet
	CreatedBy   primitive.ObjectID   `bson:"createdBy" json:"createdBy"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasAttempted reports whether the candidate is already in AttemptedBy.
func (iv *Interview) HasAttempted(candidateID primitive.ObjectID) bool {
	for _, id := range iv.AttemptedBy {
		if id == candidateID {
			return true
		}
	}
	return false
}

// Creator is the subset of a user joined into an interview read.
type Creator struct {
	ID   primitive.ObjectID `json:"_id"`
	Name string             `json:"name"`
	Role string             `json:"role"`
}

// InterviewDetail is an Interview with its creator resolved.
// CreatedBy shadows the embedded ObjectID in JSON output; it is null when
// the creating user no longer exists.
type InterviewDetail struct {
	Interview
	CreatedBy *Creator `json:"createdBy"`
}

// internal/domain/models/submission.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review statuses for a submission.
const (
	ReviewPending    = "PENDING"
	ReviewReviewed   = "REVIEWED"
	ReviewInProgress = "IN_PROGRESS"
)

// ReviewStatuses is the canonical list of review states.
var ReviewStatuses = []string{ReviewPending, ReviewReviewed, ReviewInProgress}

// VideoAnswer pairs a question with the recorded answer's location.
type VideoAnswer struct {
	Question string `bson:"question" json:"question"`
	VideoURL string `bson:"videoUrl" json:"videoUrl"`
}

// Submission is a candidate's recorded answers to one interview.
//
// Review and ReviewedBy are kept loosely consistent by the submissions
// feature (assigning a reviewer implies REVIEWED unless told otherwise);
// nothing in the store enforces it.
type Submission struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Title        string              `bson:"title" json:"title"`
	Description  string              `bson:"description" json:"description"`
	Questions    []string            `bson:"questions" json:"questions"`
	VideoAnswers []VideoAnswer       `bson:"videoAnswers" json:"videoAnswers"`
	CandidateID  primitive.ObjectID  `bson:"candidateId" json:"candidateId"`
	ReviewedBy   *primitive.ObjectID `bson:"reviewedBy" json:"reviewedBy"`
	Score        float64             `bson:"score" json:"score"`
	Comments     string              `bson:"comments" json:"comments"`
	Review       string              `bson:"review" json:"review"`
	InterviewID  primitive.ObjectID  `bson:"interviewId" json:"interviewId"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsValidReview reports whether s is one of ReviewStatuses.
func IsValidReview(s string) bool {
	for _, v := range ReviewStatuses {
		if v == s {
			return true
		}
	}
	return false
}

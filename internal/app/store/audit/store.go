// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Event categories
const (
	CategoryAdmin    = "admin"
	CategoryActivity = "activity"
)

// Admin event types
const (
	EventInterviewCreated  = "interview_created"
	EventInterviewUpdated  = "interview_updated"
	EventInterviewDeleted  = "interview_deleted"
	EventSubmissionUpdated = "submission_updated"
)

// Activity event types
const (
	EventSubmissionCreated     = "submission_created"
	EventTopicCreated          = "topic_created"
	EventTopicMerged           = "topic_merged"
	EventSubTopicStatusChanged = "subtopic_status_changed"
)

// Event represents an audit event.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`

	// Event classification
	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// Who and what
	ActorID  string              `bson:"actor_id,omitempty"` // bearer-token subject
	TargetID *primitive.ObjectID `bson:"target_id,omitempty"`

	// Context
	RequestID string `bson:"request_id,omitempty"`
	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	Details map[string]string `bson:"details,omitempty"`
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// internal/domain/models/topic.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Completion statuses shared by topics and sub-topics.
const (
	StatusDone    = "DONE"
	StatusPending = "PENDING"
)

// Sub-topic difficulty levels.
const (
	LevelEasy   = "EASY"
	LevelMedium = "MEDIUM"
	LevelHard   = "HARD"
)

var (
	TopicStatuses = []string{StatusDone, StatusPending}
	Levels        = []string{LevelEasy, LevelMedium, LevelHard}
)

// SubTopic is one checklist entry inside a Topic.
type SubTopic struct {
	Name         string `bson:"name" json:"name"`
	LeetCodeLink string `bson:"leetCodeLink,omitempty" json:"leetCodeLink,omitempty"`
	YouTubeLink  string `bson:"youTubeLink,omitempty" json:"youTubeLink,omitempty"`
	ArticleLink  string `bson:"articleLink,omitempty" json:"articleLink,omitempty"`
	Level        string `bson:"level,omitempty" json:"level,omitempty"`
	Status       string `bson:"status" json:"status"`
}

// Topic is a user's personal study-tracking item.
// There is at most one Topic per (Topic, UserID); the topics feature merges
// into an existing document instead of inserting a second one.
type Topic struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Topic         string             `bson:"topic" json:"topic"`
	OverAllStatus string             `bson:"overAllStatus" json:"overAllStatus"`
	SubTopics     []SubTopic         `bson:"subTopics" json:"subTopics"`
	UserID        string             `bson:"userId" json:"userId"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OverallStatus derives the topic-level status from its sub-topics:
// DONE iff there is at least one sub-topic and every one is DONE.
func OverallStatus(subs []SubTopic) string {
	if len(subs) == 0 {
		return StatusPending
	}
	for _, s := range subs {
		if s.Status != StatusDone {
			return StatusPending
		}
	}
	return StatusDone
}

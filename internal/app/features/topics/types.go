package topics

import (
	"encoding/json"

	"github.com/dalemusser/interviewhub/internal/domain/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateInput carries a topic and the sub-topics to record under it.
type CreateInput struct {
	Topic         string
	UserID        string
	OverAllStatus *string
	SubTopics     []models.SubTopic
}

// Validate requires the topic name and its owner.
func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Topic, validation.Required),
		validation.Field(&in.UserID, validation.Required),
	)
}

// StatusInput identifies a sub-topic and its new status.
type StatusInput struct {
	TopicID      string `json:"topicId"`
	SubTopicName string `json:"subTopicName"`
	Status       string `json:"status"`
}

// Validate requires all three fields to be present.
func (in StatusInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.TopicID, validation.Required),
		validation.Field(&in.SubTopicName, validation.Required),
		validation.Field(&in.Status, validation.Required),
	)
}

func anyOf(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func validateStatus(s string) error {
	return validation.Validate(s, validation.Required, validation.In(anyOf(models.TopicStatuses)...))
}

func validateSubTopic(st models.SubTopic) error {
	return validation.ValidateStruct(&st,
		validation.Field(&st.Level, validation.In(anyOf(models.Levels)...)),
		validation.Field(&st.Status, validation.Required, validation.In(anyOf(models.TopicStatuses)...)),
	)
}

// Wire shapes.

type createRequest struct {
	Topic         string          `json:"topic"`
	UserID        string          `json:"userId"`
	OverAllStatus *string         `json:"overAllStatus"`
	SubTopics     json.RawMessage `json:"subTopics"`
}

type messageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

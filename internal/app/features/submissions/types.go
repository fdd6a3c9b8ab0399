package submissions

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/dalemusser/interviewhub/internal/domain/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateInput carries the fields of a new submission.
type CreateInput struct {
	Title        string
	Description  string
	Questions    []string
	CandidateID  string
	ReviewedBy   string
	VideoAnswers []models.VideoAnswer
	Score        *float64
	Comments     string
	InterviewID  string
}

// Validate requires the title and both referenced ids.
func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.CandidateID, validation.Required),
		validation.Field(&in.InterviewID, validation.Required),
	)
}

func validateVideoAnswer(va models.VideoAnswer) error {
	return validation.ValidateStruct(&va,
		validation.Field(&va.Question, validation.Required, validation.By(notBlank)),
		validation.Field(&va.VideoURL, validation.Required, validation.By(notBlank)),
	)
}

func notBlank(v any) error {
	if s, _ := v.(string); strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

// UpdateInput carries a review. Nil fields were not supplied;
// ClearReviewer means reviewedBy was an explicit null.
type UpdateInput struct {
	Score         *float64
	Comments      *string
	ReviewedBy    *string
	ClearReviewer bool
	Review        *string
}

// Empty reports whether no recognised field was supplied.
func (in UpdateInput) Empty() bool {
	return in.Score == nil && in.Comments == nil && in.ReviewedBy == nil && !in.ClearReviewer && in.Review == nil
}

// Validate checks the optional review against the known review states.
func (in UpdateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Review, validation.NilOrNotEmpty, validation.By(knownReview)),
	)
}

func knownReview(value any) error {
	s, _ := value.(*string)
	if s == nil || models.IsValidReview(*s) {
		return nil
	}
	return errors.New("must be one of " + strings.Join(models.ReviewStatuses, ", "))
}

// Wire shapes.

type createRequest struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Questions    json.RawMessage `json:"questions"`
	CandidateID  string          `json:"candidateId"`
	ReviewedBy   string          `json:"reviewedBy"`
	VideoAnswers json.RawMessage `json:"videoAnswers"`
	Score        json.RawMessage `json:"score"`
	Comments     string          `json:"comments"`
	InterviewID  string          `json:"interviewId"`
}

type updateRequest struct {
	Score      json.RawMessage `json:"score"`
	Comments   json.RawMessage `json:"comments"`
	ReviewedBy json.RawMessage `json:"reviewedBy"`
	Review     json.RawMessage `json:"review"`
}

type messageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type dataResponse struct {
	Data any `json:"data"`
}

package interviews

import (
	"encoding/json"

	"github.com/dalemusser/interviewhub/internal/domain/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateInput carries the fields of a new interview.
type CreateInput struct {
	Title       string
	Description string
	Questions   []string
	CreatedBy   string
}

// Validate requires a title and the creating user.
func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.CreatedBy, validation.Required),
	)
}

// UpdateInput carries a partial update. Nil fields were not supplied.
type UpdateInput struct {
	UserID      string
	Title       *string
	Description *string
	Questions   []string
}

// Validate requires the acting user. Field-level checks happen in Update.
func (in UpdateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.UserID, validation.Required),
	)
}

// Wire shapes.

type createRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Questions   json.RawMessage `json:"questions"`
	CreatedBy   string          `json:"createdBy"`
}

type updateRequest struct {
	UserID      string          `json:"userId"`
	Title       json.RawMessage `json:"title"`
	Description json.RawMessage `json:"description"`
	Questions   json.RawMessage `json:"questions"`
}

type deleteRequest struct {
	CurrentUserID string `json:"currentUserId"`
}

type messageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type dataResponse struct {
	Data any `json:"data"`
}

type deleteResponse struct {
	Message                 string           `json:"message"`
	DeletedInterview        models.Interview `json:"deletedInterview"`
	DeletedSubmissionsCount int64            `json:"deletedSubmissionsCount"`
}

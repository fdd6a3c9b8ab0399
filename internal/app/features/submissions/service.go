// internal/app/features/submissions/service.go
package submissions

import (
	"context"

	submissionstore "github.com/dalemusser/interviewhub/internal/app/store/submissions"
	"github.com/dalemusser/interviewhub/internal/app/system/apperr"
	"github.com/dalemusser/interviewhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/interviewhub/internal/app/system/normalize"
	"github.com/dalemusser/interviewhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Client-facing messages.
const (
	MsgCreateRequired      = "title, candidateId and interviewId are required"
	MsgCandidateNotFound   = "Candidate not found"
	MsgReviewerNotFound    = "Reviewer not found"
	MsgScoreInvalid        = "Score must be a positive number"
	MsgReviewInvalid       = "Invalid review status. Must be one of: PENDING, REVIEWED, IN_PROGRESS"
	MsgUpdateEmpty         = "At least one field (score, comments, reviewedBy, review) must be provided"
	MsgVideoAnswerInvalid  = "Each video answer requires question and videoUrl"
	MsgInvalidVideoAnswers = "videoAnswers must be a list of {question, videoUrl} objects"
	MsgInvalidQuestions    = "questions must be a string or a list of strings"
)

// SubmissionStore is the part of submissionstore.Store the service needs.
type SubmissionStore interface {
	Create(ctx context.Context, sub models.Submission) (models.Submission, error)
	List(ctx context.Context) ([]models.Submission, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Submission, error)
	Update(ctx context.Context, id primitive.ObjectID, u submissionstore.Update) (models.Submission, error)
}

// AttemptRecorder adds a candidate to an interview's attemptedBy set.
type AttemptRecorder interface {
	AddAttempt(ctx context.Context, interviewID, candidateID primitive.ObjectID) error
}

// UserChecker reports whether a user exists.
type UserChecker interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// Service implements the submission operations.
type Service struct {
	Submissions SubmissionStore
	Interviews  AttemptRecorder
	Users       UserChecker
	Log         *zap.Logger
}

// NewService returns a Service over the given stores.
func NewService(subs SubmissionStore, ivs AttemptRecorder, users UserChecker, logger *zap.Logger) *Service {
	return &Service{
		Submissions: subs,
		Interviews:  ivs,
		Users:       users,
		Log:         logger,
	}
}

// mustExist resolves hex to a user id, failing with NotFound(msg) when the
// user is unknown.
func (s *Service) mustExist(ctx context.Context, hex, msg string) (primitive.ObjectID, error) {
	id, err := apperr.ParseID(hex)
	if err != nil {
		return primitive.NilObjectID, err
	}
	ok, err := s.Users.Exists(ctx, id)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if !ok {
		return primitive.NilObjectID, apperr.NotFound(msg)
	}
	return id, nil
}

// Create stores a candidate's submission and then records the attempt on
// the interview. The second step is best effort: its failure is logged and
// does not fail the request. RecordAttempt can re-drive it.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.Submission, error) {
	in.Title = normalize.Text(in.Title)
	in.CandidateID = normalize.Text(in.CandidateID)
	in.InterviewID = normalize.Text(in.InterviewID)
	in.ReviewedBy = normalize.Text(in.ReviewedBy)
	if err := in.Validate(); err != nil {
		return models.Submission{}, apperr.Validation(MsgCreateRequired)
	}
	if in.Score != nil && *in.Score < 0 {
		return models.Submission{}, apperr.Validation(MsgScoreInvalid)
	}
	for _, va := range in.VideoAnswers {
		if err := validateVideoAnswer(va); err != nil {
			return models.Submission{}, apperr.Validation(MsgVideoAnswerInvalid)
		}
	}

	interviewID, err := apperr.ParseID(in.InterviewID)
	if err != nil {
		return models.Submission{}, err
	}
	candidateID, err := s.mustExist(ctx, in.CandidateID, MsgCandidateNotFound)
	if err != nil {
		return models.Submission{}, err
	}

	sub := models.Submission{
		Title:        in.Title,
		Description:  htmlsanitize.Sanitize(in.Description),
		Questions:    in.Questions,
		VideoAnswers: in.VideoAnswers,
		CandidateID:  candidateID,
		Comments:     htmlsanitize.Sanitize(in.Comments),
		Review:       models.ReviewPending,
		InterviewID:  interviewID,
	}
	if in.ReviewedBy != "" {
		reviewerID, err := s.mustExist(ctx, in.ReviewedBy, MsgReviewerNotFound)
		if err != nil {
			return models.Submission{}, err
		}
		sub.ReviewedBy = &reviewerID
		sub.Review = models.ReviewReviewed
	}
	if in.Score != nil {
		sub.Score = *in.Score
	}

	created, err := s.Submissions.Create(ctx, sub)
	if err != nil {
		return models.Submission{}, err
	}

	if err := s.RecordAttempt(ctx, interviewID, candidateID); err != nil {
		s.Log.Warn("record attempt failed",
			zap.String("submission_id", created.ID.Hex()),
			zap.String("interview_id", interviewID.Hex()),
			zap.String("candidate_id", candidateID.Hex()),
			zap.Error(err))
	}
	return created, nil
}

// RecordAttempt adds candidateID to the interview's attemptedBy set.
// It is idempotent.
func (s *Service) RecordAttempt(ctx context.Context, interviewID, candidateID primitive.ObjectID) error {
	return s.Interviews.AddAttempt(ctx, interviewID, candidateID)
}

// List returns every submission, newest first.
func (s *Service) List(ctx context.Context) ([]models.Submission, error) {
	return s.Submissions.List(ctx)
}

// Update applies a review to a submission. Assigning a reviewer without an
// explicit review status marks the submission REVIEWED.
func (s *Service) Update(ctx context.Context, idHex string, in UpdateInput) (models.Submission, []string, error) {
	id, err := apperr.ParseID(idHex)
	if err != nil {
		return models.Submission{}, nil, err
	}
	if in.Empty() {
		return models.Submission{}, nil, apperr.Validation(MsgUpdateEmpty)
	}
	if in.Score != nil && *in.Score < 0 {
		return models.Submission{}, nil, apperr.Validation(MsgScoreInvalid)
	}
	if err := in.Validate(); err != nil {
		return models.Submission{}, nil, apperr.Validation(MsgReviewInvalid)
	}

	if _, err := s.Submissions.GetByID(ctx, id); err != nil {
		return models.Submission{}, nil, err
	}

	u := submissionstore.Update{
		Score:         in.Score,
		Review:        in.Review,
		ClearReviewer: in.ClearReviewer,
	}
	if in.Comments != nil {
		c := htmlsanitize.Sanitize(*in.Comments)
		u.Comments = &c
	}
	if !in.ClearReviewer && in.ReviewedBy != nil {
		reviewerID, err := s.mustExist(ctx, normalize.Text(*in.ReviewedBy), MsgReviewerNotFound)
		if err != nil {
			return models.Submission{}, nil, err
		}
		u.ReviewedBy = &reviewerID
		if u.Review == nil {
			reviewed := models.ReviewReviewed
			u.Review = &reviewed
		}
	}

	sub, err := s.Submissions.Update(ctx, id, u)
	if err != nil {
		return models.Submission{}, nil, err
	}
	return sub, u.Fields(), nil
}

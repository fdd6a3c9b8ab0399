// internal/app/features/submissions/handler.go
package submissions

import (
	"net/http"

	apierrors "github.com/dalemusser/interviewhub/internal/app/features/errors"
	"github.com/dalemusser/interviewhub/internal/app/system/apperr"
	"github.com/dalemusser/interviewhub/internal/app/system/auditlog"
	"github.com/dalemusser/interviewhub/internal/app/system/jsonutil"
	"github.com/dalemusser/interviewhub/internal/app/system/normalize"
	"github.com/dalemusser/interviewhub/internal/app/system/timeouts"
	"github.com/dalemusser/interviewhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler is the HTTP surface of the submissions feature.
type Handler struct {
	Svc     *Service
	Audit   *auditlog.Logger
	Errors  *apierrors.ErrorLogger
	MaxBody int64
	Log     *zap.Logger
}

// NewHandler wires the submission service to HTTP. A nil errLog falls back
// to a default ErrorLogger over logger.
func NewHandler(svc *Service, errLog *apierrors.ErrorLogger, audit *auditlog.Logger, maxBody int64, logger *zap.Logger) *Handler {
	if errLog == nil {
		errLog = apierrors.NewErrorLogger(logger)
	}
	return &Handler{
		Svc:     svc,
		Audit:   audit,
		Errors:  errLog,
		MaxBody: maxBody,
		Log:     logger,
	}
}

// HandleCreate serves POST /api/create-submission.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := jsonutil.Decode(w, r, h.MaxBody, &req); err != nil {
		h.Errors.Write(w, r, "create submission", err)
		return
	}
	in, err := req.input()
	if err != nil {
		h.Errors.Write(w, r, "create submission", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create submission")
	defer cancel()

	sub, err := h.Svc.Create(ctx, in)
	if err != nil {
		h.Errors.Write(w, r, "create submission", err)
		return
	}

	h.Audit.SubmissionCreated(ctx, r, sub)
	jsonutil.Write(w, http.StatusCreated, messageResponse{
		Message: "Submission created successfully",
		Data:    sub,
	})
}

func (req createRequest) input() (CreateInput, error) {
	in := CreateInput{
		Title:       req.Title,
		Description: req.Description,
		CandidateID: req.CandidateID,
		ReviewedBy:  req.ReviewedBy,
		Comments:    req.Comments,
		InterviewID: req.InterviewID,
	}

	var err error
	if in.Questions, err = normalize.Sequence[string](req.Questions, normalize.OneOrMany); err != nil {
		return in, apperr.Validation(MsgInvalidQuestions)
	}
	if in.VideoAnswers, err = normalize.Sequence[models.VideoAnswer](req.VideoAnswers, normalize.ManyOnly); err != nil {
		return in, apperr.Validation(MsgInvalidVideoAnswers)
	}
	// A null score falls back to the default of zero.
	if !normalize.IsNull(req.Score) {
		if in.Score, err = normalize.OptionalNumber(req.Score); err != nil {
			return in, apperr.Validation(MsgScoreInvalid)
		}
	}
	return in, nil
}

// ServeList serves GET /api/get-all-submission.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list submissions")
	defer cancel()

	list, err := h.Svc.List(ctx)
	if err != nil {
		h.Errors.Write(w, r, "list submissions", err)
		return
	}
	jsonutil.Write(w, http.StatusOK, dataResponse{Data: list})
}

// HandleUpdate serves PUT /api/update-submission/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := jsonutil.Decode(w, r, h.MaxBody, &req); err != nil {
		h.Errors.Write(w, r, "update submission", err)
		return
	}
	in, err := req.input()
	if err != nil {
		h.Errors.Write(w, r, "update submission", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update submission")
	defer cancel()

	sub, fields, err := h.Svc.Update(ctx, chi.URLParam(r, "id"), in)
	if err != nil {
		h.Errors.Write(w, r, "update submission", err)
		return
	}

	h.Audit.SubmissionUpdated(ctx, r, sub, fields)
	jsonutil.Write(w, http.StatusOK, messageResponse{
		Message: "Submission updated successfully",
		Data:    sub,
	})
}

func (req updateRequest) input() (UpdateInput, error) {
	var in UpdateInput
	var err error

	if in.Score, err = normalize.OptionalNumber(req.Score); err != nil {
		return in, apperr.Validation(MsgScoreInvalid)
	}

	if normalize.IsNull(req.Comments) {
		empty := ""
		in.Comments = &empty
	} else if in.Comments, err = normalize.OptionalString(req.Comments); err != nil {
		return in, apperr.Validation("comments must be a string")
	}

	if normalize.IsNull(req.ReviewedBy) {
		in.ClearReviewer = true
	} else if in.ReviewedBy, err = normalize.OptionalString(req.ReviewedBy); err != nil {
		return in, apperr.MalformedID(err)
	}

	if normalize.IsNull(req.Review) {
		return in, apperr.Validation(MsgReviewInvalid)
	}
	if in.Review, err = normalize.OptionalString(req.Review); err != nil {
		return in, apperr.Validation(MsgReviewInvalid)
	}
	return in, nil
}


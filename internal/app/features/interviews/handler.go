// internal/app/features/interviews/handler.go
package interviews

import (
	"net/http"

	apierrors "github.com/dalemusser/interviewhub/internal/app/features/errors"
	"github.com/dalemusser/interviewhub/internal/app/system/apperr"
	"github.com/dalemusser/interviewhub/internal/app/system/auditlog"
	"github.com/dalemusser/interviewhub/internal/app/system/jsonutil"
	"github.com/dalemusser/interviewhub/internal/app/system/normalize"
	"github.com/dalemusser/interviewhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MsgInvalidQuestions is returned when questions is an array holding
// something other than strings.
const MsgInvalidQuestions = "questions must be a string or a list of strings"

// Handler is the HTTP surface of the interviews feature.
type Handler struct {
	Svc     *Service
	Audit   *auditlog.Logger
	Errors  *apierrors.ErrorLogger
	MaxBody int64
	Log     *zap.Logger
}

// NewHandler constructs an interviews Handler. A nil audit logger disables
// auditing.
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

// HandleCreate serves POST /api/create-interview.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := jsonutil.Decode(w, r, h.MaxBody, &req); err != nil {
		h.Errors.Write(w, r, "create interview", err)
		return
	}
	questions, err := normalize.Sequence[string](req.Questions, normalize.OneOrMany)
	if err != nil {
		h.Errors.Write(w, r, "create interview", apperr.Validation(MsgInvalidQuestions))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create interview")
	defer cancel()

	iv, err := h.Svc.Create(ctx, CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Questions:   questions,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		h.Errors.Write(w, r, "create interview", err)
		return
	}

	h.Audit.InterviewCreated(ctx, r, iv)
	jsonutil.Write(w, http.StatusCreated, messageResponse{
		Message: "Interview created successfully",
		Data:    iv,
	})
}

// ServeList serves GET /api/get-all-interviews.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list interviews")
	defer cancel()

	list, err := h.Svc.List(ctx)
	if err != nil {
		h.Errors.Write(w, r, "list interviews", err)
		return
	}
	jsonutil.Write(w, http.StatusOK, dataResponse{Data: list})
}

// ServeGet serves GET /api/get-interview/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get interview")
	defer cancel()

	detail, err := h.Svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.Errors.Write(w, r, "get interview", err)
		return
	}
	jsonutil.Write(w, http.StatusOK, dataResponse{Data: detail})
}

// HandleUpdate serves PUT /api/update-interview/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := jsonutil.Decode(w, r, h.MaxBody, &req); err != nil {
		h.Errors.Write(w, r, "update interview", err)
		return
	}

	in := UpdateInput{UserID: req.UserID}
	var err error
	if in.Title, err = normalize.OptionalString(req.Title); err != nil {
		h.Errors.Write(w, r, "update interview", apperr.Validation("title must be a string"))
		return
	}
	if in.Description, err = normalize.OptionalString(req.Description); err != nil {
		h.Errors.Write(w, r, "update interview", apperr.Validation("description must be a string"))
		return
	}
	if normalize.Present(req.Questions) && !normalize.IsNull(req.Questions) {
		if in.Questions, err = normalize.Sequence[string](req.Questions, normalize.OneOrMany); err != nil {
			h.Errors.Write(w, r, "update interview", apperr.Validation(MsgInvalidQuestions))
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update interview")
	defer cancel()

	iv, fields, err := h.Svc.Update(ctx, chi.URLParam(r, "id"), in)
	if err != nil {
		h.Errors.Write(w, r, "update interview", err)
		return
	}

	h.Audit.InterviewUpdated(ctx, r, iv, normalize.Text(req.UserID), fields)
	jsonutil.Write(w, http.StatusOK, messageResponse{
		Message: "Interview updated",
		Data:    iv,
	})
}

// HandleDelete serves DELETE /api/delete-interview/{id}. The acting user
// is read from currentUserId in the body.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := jsonutil.Decode(w, r, h.MaxBody, &req); err != nil {
		h.Errors.Write(w, r, "delete interview", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete interview")
	defer cancel()

	res, err := h.Svc.Delete(ctx, chi.URLParam(r, "id"), req.CurrentUserID)
	if err != nil {
		h.Errors.Write(w, r, "delete interview", err)
		return
	}

	h.Audit.InterviewDeleted(ctx, r, res.Interview, normalize.Text(req.CurrentUserID), res.DeletedSubmissions)
	jsonutil.Write(w, http.StatusOK, deleteResponse{
		Message:                 "Interview and related submissions deleted successfully",
		DeletedInterview:        res.Interview,
		DeletedSubmissionsCount: res.DeletedSubmissions,
	})
}

// internal/app/features/topics/handler.go
package topics

import (
	"net/http"

	apierrors "github.com/dalemusser/interviewhub/internal/app/features/errors"
	"github.com/dalemusser/interviewhub/internal/app/system/apperr"
	"github.com/dalemusser/interviewhub/internal/app/system/auditlog"
	"github.com/dalemusser/interviewhub/internal/app/system/jsonutil"
	"github.com/dalemusser/interviewhub/internal/app/system/normalize"
	"github.com/dalemusser/interviewhub/internal/app/system/timeouts"
	"github.com/dalemusser/interviewhub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler is the HTTP surface of the topics feature.
type Handler struct {
	Svc     *Service
	Audit   *auditlog.Logger
	Errors  *apierrors.ErrorLogger
	MaxBody int64
	Log     *zap.Logger
}

// NewHandler wires the topic service to HTTP.
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

// HandleCreate serves POST /api/create-topic. It answers 201 when a topic
// was inserted and 200 when sub-topics were merged into an existing one.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := jsonutil.Decode(w, r, h.MaxBody, &req); err != nil {
		h.Errors.Write(w, r, "create topic", err)
		return
	}
	subs, err := normalize.Sequence[models.SubTopic](req.SubTopics, normalize.OneOrMany)
	if err != nil {
		h.Errors.Write(w, r, "create topic", apperr.Validation(MsgInvalidSubTopics))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create topic")
	defer cancel()

	res, err := h.Svc.Create(ctx, CreateInput{
		Topic:         req.Topic,
		UserID:        req.UserID,
		OverAllStatus: req.OverAllStatus,
		SubTopics:     subs,
	})
	if err != nil {
		h.Errors.Write(w, r, "create topic", err)
		return
	}

	if res.Created {
		h.Audit.TopicCreated(ctx, r, res.Topic)
		jsonutil.Write(w, http.StatusCreated, messageResponse{
			Message: "New topic created successfully",
			Data:    res.Topic,
		})
		return
	}
	h.Audit.TopicMerged(ctx, r, res.Topic, res.Added)
	jsonutil.Write(w, http.StatusOK, messageResponse{
		Message: "SubTopics added to existing topic",
		Data:    res.Topic,
	})
}

// ServeList serves GET /api/get-all-topic as a bare JSON array.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list topics")
	defer cancel()

	list, err := h.Svc.List(ctx)
	if err != nil {
		h.Errors.Write(w, r, "list topics", err)
		return
	}
	jsonutil.Write(w, http.StatusOK, list)
}

// HandleUpdateStatus serves PUT /api/update-topic.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in StatusInput
	if err := jsonutil.Decode(w, r, h.MaxBody, &in); err != nil {
		h.Errors.Write(w, r, "update sub-topic status", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update sub-topic status")
	defer cancel()

	t, err := h.Svc.UpdateSubTopicStatus(ctx, in)
	if err != nil {
		h.Errors.Write(w, r, "update sub-topic status", err)
		return
	}

	h.Audit.SubTopicStatusChanged(ctx, r, t, normalize.Text(in.SubTopicName), normalize.Text(in.Status))
	jsonutil.Write(w, http.StatusOK, messageResponse{
		Message: "SubTopic status updated successfully",
		Data:    t,
	})
}

// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/interviewhub/internal/app/store/audit"
	"github.com/dalemusser/interviewhub/internal/app/system/auth"
	"github.com/dalemusser/interviewhub/internal/domain/models"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations accepted by Config fields.
const (
	DestAll = "all" // MongoDB + zap
	DestDB  = "db"  // MongoDB only
	DestLog = "log" // zap only
	DestOff = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Admin controls interview CRUD and submission review events.
	Admin string
	// Activity controls candidate submissions and topic tracking events.
	Activity string
}

// Sink persists audit events. *audit.Store satisfies it.
type Sink interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger provides convenience methods for logging audit events.
// It logs to MongoDB (via Sink) and structured logs (via zap).
type Logger struct {
	store  Sink
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store Sink, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request. RealIP middleware
// has already rewritten RemoteAddr when a proxy header was present.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	return r.RemoteAddr
}

// fromRequest fills the request-derived fields of event.
func fromRequest(r *http.Request, event audit.Event) audit.Event {
	if r == nil {
		return event
	}
	event.IP = getClientIP(r)
	event.UserAgent = r.UserAgent()
	if c, ok := auth.CurrentClaims(r); ok {
		event.ActorID = c.UserID
	}
	event.RequestID = middleware.GetReqID(r.Context())
	if event.RequestID == "" {
		event.RequestID = uuid.NewString()
	}
	return event
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
		zap.String("request_id", event.RequestID),
	}

	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.TargetID != nil {
		fields = append(fields, zap.String("target_id", event.TargetID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

func (l *Logger) setting(category string) string {
	var s string
	switch category {
	case audit.CategoryAdmin:
		s = l.config.Admin
	case audit.CategoryActivity:
		s = l.config.Activity
	}
	if s == "" {
		return DestAll
	}
	return s
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := l.setting(event.Category)
	if setting == DestOff {
		return
	}

	if setting == DestAll || setting == DestLog {
		l.logToZap(event)
	}

	if (setting == DestAll || setting == DestDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func target(id primitive.ObjectID) *primitive.ObjectID { return &id }

// --- Admin Events ---

// InterviewCreated logs creation of an interview.
func (l *Logger) InterviewCreated(ctx context.Context, r *http.Request, iv models.Interview) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventInterviewCreated,
		TargetID:  target(iv.ID),
		Success:   true,
		Details: map[string]string{
			"title":      iv.Title,
			"created_by": iv.CreatedBy.Hex(),
			"questions":  strconv.Itoa(len(iv.Questions)),
		},
	}))
}

// InterviewUpdated logs a partial update; fields lists what changed.
func (l *Logger) InterviewUpdated(ctx context.Context, r *http.Request, iv models.Interview, userID string, fields []string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventInterviewUpdated,
		TargetID:  target(iv.ID),
		Success:   true,
		Details: map[string]string{
			"user_id": userID,
			"fields":  strings.Join(fields, ","),
		},
	}))
}

// InterviewDeleted logs the cascade delete of an interview.
func (l *Logger) InterviewDeleted(ctx context.Context, r *http.Request, iv models.Interview, userID string, deletedSubmissions int64) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventInterviewDeleted,
		TargetID:  target(iv.ID),
		Success:   true,
		Details: map[string]string{
			"title":               iv.Title,
			"user_id":             userID,
			"deleted_submissions": strconv.FormatInt(deletedSubmissions, 10),
		},
	}))
}

// SubmissionUpdated logs a review change on a submission.
func (l *Logger) SubmissionUpdated(ctx context.Context, r *http.Request, sub models.Submission, fields []string) {
	details := map[string]string{
		"fields": strings.Join(fields, ","),
		"review": sub.Review,
		"score":  strconv.FormatFloat(sub.Score, 'f', -1, 64),
	}
	if sub.ReviewedBy != nil {
		details["reviewed_by"] = sub.ReviewedBy.Hex()
	}
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventSubmissionUpdated,
		TargetID:  target(sub.ID),
		Success:   true,
		Details:   details,
	}))
}

// --- Activity Events ---

// SubmissionCreated logs a candidate submission.
func (l *Logger) SubmissionCreated(ctx context.Context, r *http.Request, sub models.Submission) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryActivity,
		EventType: audit.EventSubmissionCreated,
		TargetID:  target(sub.ID),
		Success:   true,
		Details: map[string]string{
			"candidate_id": sub.CandidateID.Hex(),
			"interview_id": sub.InterviewID.Hex(),
		},
	}))
}

// TopicCreated logs a new topic document.
func (l *Logger) TopicCreated(ctx context.Context, r *http.Request, t models.Topic) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryActivity,
		EventType: audit.EventTopicCreated,
		TargetID:  target(t.ID),
		Success:   true,
		Details: map[string]string{
			"topic":      t.Topic,
			"user_id":    t.UserID,
			"sub_topics": strconv.Itoa(len(t.SubTopics)),
		},
	}))
}

// TopicMerged logs sub-topics appended to an existing topic.
func (l *Logger) TopicMerged(ctx context.Context, r *http.Request, t models.Topic, added int) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryActivity,
		EventType: audit.EventTopicMerged,
		TargetID:  target(t.ID),
		Success:   true,
		Details: map[string]string{
			"topic":   t.Topic,
			"user_id": t.UserID,
			"added":   strconv.Itoa(added),
		},
	}))
}

// SubTopicStatusChanged logs a sub-topic status change and the resulting
// overall status.
func (l *Logger) SubTopicStatusChanged(ctx context.Context, r *http.Request, t models.Topic, subTopic, status string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryActivity,
		EventType: audit.EventSubTopicStatusChanged,
		TargetID:  target(t.ID),
		Success:   true,
		Details: map[string]string{
			"sub_topic":      subTopic,
			"status":         status,
			"overall_status": t.OverAllStatus,
		},
	}))
}

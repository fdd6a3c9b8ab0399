// internal/app/features/topics/service.go
package topics

import (
	"context"
	"errors"

	topicstore "github.com/dalemusser/interviewhub/internal/app/store/topics"
	"github.com/dalemusser/interviewhub/internal/app/system/apperr"
	"github.com/dalemusser/interviewhub/internal/app/system/normalize"
	"github.com/dalemusser/interviewhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// statusUpdateAttempts bounds the re-read loop in UpdateSubTopicStatus.
const statusUpdateAttempts = 3

// Client-facing messages.
const (
	MsgCreateRequired   = "userId and topic are required"
	MsgUpdateRequired   = "topicId, subTopicName and status are required"
	MsgNoTopics         = "No topics found"
	MsgSubTopicNotFound = "SubTopic not found"
	MsgStatusInvalid    = "Invalid status. Must be one of: DONE, PENDING"
	MsgOverallInvalid   = "Invalid overAllStatus. Must be one of: DONE, PENDING"
	MsgSubTopicInvalid  = "Each sub-topic needs a level of EASY, MEDIUM or HARD and a status of DONE or PENDING"
	MsgInvalidSubTopics = "subTopics must be an object or a list of objects"
)

// TopicStore is the part of topicstore.Store the service needs.
type TopicStore interface {
	Create(ctx context.Context, t models.Topic) (models.Topic, error)
	List(ctx context.Context) ([]models.Topic, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Topic, error)
	FindByOwner(ctx context.Context, topic, userID string) (models.Topic, bool, error)
	AppendSubTopics(ctx context.Context, id primitive.ObjectID, subs []models.SubTopic, overAll *string) (models.Topic, error)
	SetSubTopicStatus(ctx context.Context, id primitive.ObjectID, idx int, name, status string) (models.Topic, error)
}

// Service implements the topic operations.
type Service struct {
	Topics TopicStore

	// EmptyNotFound makes List report an empty collection as NotFound
	// instead of returning an empty slice.
	EmptyNotFound bool

	Log *zap.Logger
}

// NewService returns a Service over store. When emptyNotFound is set, an
// empty topic list is reported as NotFound.
func NewService(store TopicStore, emptyNotFound bool, logger *zap.Logger) *Service {
	return &Service{
		Topics:        store,
		EmptyNotFound: emptyNotFound,
		Log:           logger,
	}
}

// CreateResult reports whether Create inserted a new topic or merged into
// an existing one.
type CreateResult struct {
	Topic   models.Topic
	Created bool
	Added   int
}

// Create records sub-topics under (topic, userId). An existing topic for
// the same owner gets the new sub-topics appended; otherwise a new topic
// is inserted.
func (s *Service) Create(ctx context.Context, in CreateInput) (CreateResult, error) {
	in.Topic = normalize.Text(in.Topic)
	in.UserID = normalize.Text(in.UserID)
	if err := in.Validate(); err != nil {
		return CreateResult{}, apperr.Validation(MsgCreateRequired)
	}

	var overAll *string
	if in.OverAllStatus != nil && normalize.Text(*in.OverAllStatus) != "" {
		v := normalize.Text(*in.OverAllStatus)
		if err := validateStatus(v); err != nil {
			return CreateResult{}, apperr.Validation(MsgOverallInvalid)
		}
		overAll = &v
	}

	subs := make([]models.SubTopic, 0, len(in.SubTopics))
	for _, st := range in.SubTopics {
		st.Name = normalize.Text(st.Name)
		if st.Status == "" {
			st.Status = models.StatusPending
		}
		if err := validateSubTopic(st); err != nil {
			return CreateResult{}, apperr.Validation(MsgSubTopicInvalid)
		}
		subs = append(subs, st)
	}

	existing, found, err := s.Topics.FindByOwner(ctx, in.Topic, in.UserID)
	if err != nil {
		return CreateResult{}, err
	}
	if found {
		t, err := s.Topics.AppendSubTopics(ctx, existing.ID, subs, overAll)
		if err != nil {
			return CreateResult{}, err
		}
		return CreateResult{Topic: t, Added: len(subs)}, nil
	}

	status := models.OverallStatus(subs)
	if overAll != nil {
		status = *overAll
	}
	t, err := s.Topics.Create(ctx, models.Topic{
		Topic:         in.Topic,
		OverAllStatus: status,
		SubTopics:     subs,
		UserID:        in.UserID,
	})
	if err != nil {
		return CreateResult{}, err
	}
	return CreateResult{Topic: t, Created: true, Added: len(subs)}, nil
}

// List returns every topic in natural order.
func (s *Service) List(ctx context.Context) ([]models.Topic, error) {
	list, err := s.Topics.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 && s.EmptyNotFound {
		return nil, apperr.NotFound(MsgNoTopics)
	}
	return list, nil
}

// UpdateSubTopicStatus sets the status of the first sub-topic whose name
// matches (ignoring case and diacritics) and recomputes the topic's
// overall status.
func (s *Service) UpdateSubTopicStatus(ctx context.Context, in StatusInput) (models.Topic, error) {
	in.TopicID = normalize.Text(in.TopicID)
	in.SubTopicName = normalize.Text(in.SubTopicName)
	in.Status = normalize.Text(in.Status)
	if err := in.Validate(); err != nil {
		return models.Topic{}, apperr.Validation(MsgUpdateRequired)
	}
	if err := validateStatus(in.Status); err != nil {
		return models.Topic{}, apperr.Validation(MsgStatusInvalid)
	}

	id, err := apperr.ParseID(in.TopicID)
	if err != nil {
		return models.Topic{}, err
	}
	want := text.Fold(in.SubTopicName)
	for attempt := 1; ; attempt++ {
		t, err := s.Topics.GetByID(ctx, id)
		if err != nil {
			return models.Topic{}, err
		}

		idx := -1
		for i, st := range t.SubTopics {
			if text.Fold(st.Name) == want {
				idx = i
				break
			}
		}
		if idx < 0 {
			return models.Topic{}, apperr.NotFound(MsgSubTopicNotFound)
		}

		updated, err := s.Topics.SetSubTopicStatus(ctx, id, idx, t.SubTopics[idx].Name, in.Status)
		if errors.Is(err, topicstore.ErrSubTopicMoved) && attempt < statusUpdateAttempts {
			s.Log.Debug("sub-topic moved during status update; retrying",
				zap.String("topic_id", in.TopicID),
				zap.Int("attempt", attempt))
			continue
		}
		return updated, err
	}
}

// internal/app/store/topics/topicstore.go
package topicstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/interviewhub/internal/app/system/apperr"
	"github.com/dalemusser/interviewhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MsgNotFound is the client-facing message for a missing topic.
const MsgNotFound = "Topic not found"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("topics")}
}

func decodeErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(MsgNotFound)
	}
	return apperr.FromWrite(err)
}

// Create inserts t with a fresh ID and timestamps.
func (s *Store) Create(ctx context.Context, t models.Topic) (models.Topic, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	if t.SubTopics == nil {
		t.SubTopics = []models.SubTopic{}
	}
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Topic{}, apperr.FromWrite(err)
	}
	return t, nil
}

// List returns every topic in natural order.
func (s *Store) List(ctx context.Context) ([]models.Topic, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Topic{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a topic or an apperr NotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Topic, error) {
	var t models.Topic
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Topic{}, decodeErr(err)
	}
	return t, nil
}

// FindByOwner returns the topic named topic owned by userID. Both values
// match exactly. found is false when there is none.
func (s *Store) FindByOwner(ctx context.Context, topic, userID string) (t models.Topic, found bool, err error) {
	err = s.c.FindOne(ctx, bson.M{"topic": topic, "userId": userID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Topic{}, false, nil
	}
	if err != nil {
		return models.Topic{}, false, err
	}
	return t, true, nil
}

// AppendSubTopics pushes subs onto the topic's list without de-duplication
// and, when overAll is non-nil, overwrites overAllStatus.
func (s *Store) AppendSubTopics(ctx context.Context, id primitive.ObjectID, subs []models.SubTopic, overAll *string) (models.Topic, error) {
	update := bson.M{}
	set := bson.M{"updatedAt": time.Now().UTC()}
	if overAll != nil {
		set["overAllStatus"] = *overAll
	}
	update["$set"] = set
	if len(subs) > 0 {
		update["$push"] = bson.M{"subTopics": bson.M{"$each": subs}}
	}

	var t models.Topic
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&t)
	if err != nil {
		return models.Topic{}, decodeErr(err)
	}
	return t, nil
}

// ErrSubTopicMoved is returned by SetSubTopicStatus when the topic exists
// but the sub-topic at the given position no longer carries the expected
// name. Callers re-read the topic and try again.
var ErrSubTopicMoved = errors.New("topicstore: sub-topic changed since read")

// SetSubTopicStatus sets subTopics[idx].status and recomputes overAllStatus
// in one pipeline update. The filter pins subTopics[idx].name to name so a
// stale index never overwrites another entry; concurrent $push merges are
// kept because the array is rewritten from the stored document.
func (s *Store) SetSubTopicStatus(ctx context.Context, id primitive.ObjectID, idx int, name, status string) (models.Topic, error) {
	filter := bson.M{"_id": id, fmt.Sprintf("subTopics.%d.name", idx): name}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"subTopics": bson.M{"$map": bson.M{
				"input": bson.M{"$range": bson.A{0, bson.M{"$size": "$subTopics"}}},
				"as":    "i",
				"in": bson.M{"$cond": bson.A{
					bson.M{"$eq": bson.A{"$$i", idx}},
					bson.M{"$mergeObjects": bson.A{
						bson.M{"$arrayElemAt": bson.A{"$subTopics", "$$i"}},
						bson.M{"status": status},
					}},
					bson.M{"$arrayElemAt": bson.A{"$subTopics", "$$i"}},
				}},
			}},
			"updatedAt": time.Now().UTC(),
		}}},
		{{Key: "$set", Value: bson.M{
			"overAllStatus": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$gt": bson.A{bson.M{"$size": "$subTopics"}, 0}},
					bson.M{"$allElementsTrue": bson.A{bson.M{"$map": bson.M{
						"input": "$subTopics",
						"as":    "s",
						"in":    bson.M{"$eq": bson.A{"$$s.status", models.StatusDone}},
					}}}},
				}},
				models.StatusDone,
				models.StatusPending,
			}},
		}}},
	}

	var t models.Topic
	err := s.c.FindOneAndUpdate(ctx, filter, pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&t)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Topic{}, apperr.FromWrite(err)
	}

	n, cerr := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if cerr != nil {
		return models.Topic{}, cerr
	}
	if n == 0 {
		return models.Topic{}, apperr.NotFound(MsgNotFound)
	}
	return models.Topic{}, ErrSubTopicMoved
}

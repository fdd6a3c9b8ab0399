// internal/app/store/submissions/submissionstore.go
package submissionstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/interviewhub/internal/app/system/apperr"
	"github.com/dalemusser/interviewhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MsgNotFound is the client-facing message for a missing submission.
const MsgNotFound = "Submission not found"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("submissions")}
}

// Create inserts sub with a fresh ID and timestamps. Nil slices are stored
// as empty arrays and a blank review defaults to PENDING.
func (s *Store) Create(ctx context.Context, sub models.Submission) (models.Submission, error) {
	now := time.Now().UTC()
	sub.ID = primitive.NewObjectID()
	if sub.Questions == nil {
		sub.Questions = []string{}
	}
	if sub.VideoAnswers == nil {
		sub.VideoAnswers = []models.VideoAnswer{}
	}
	if sub.Review == "" {
		sub.Review = models.ReviewPending
	}
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, sub); err != nil {
		return models.Submission{}, apperr.FromWrite(err)
	}
	return sub, nil
}

// List returns every submission, newest first.
func (s *Store) List(ctx context.Context) ([]models.Submission, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Submission{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a submission or an apperr NotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Submission, error) {
	var sub models.Submission
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Submission{}, apperr.NotFound(MsgNotFound)
	}
	if err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

// Update carries the review fields to change; nil fields are left alone.
// ClearReviewer stores a null reviewedBy and wins over ReviewedBy.
type Update struct {
	Score         *float64
	Comments      *string
	ReviewedBy    *primitive.ObjectID
	ClearReviewer bool
	Review        *string
}

// Empty reports whether u changes nothing.
func (u Update) Empty() bool {
	return u.Score == nil && u.Comments == nil && u.ReviewedBy == nil && !u.ClearReviewer && u.Review == nil
}

// Fields names the fields u changes, in a stable order.
func (u Update) Fields() []string {
	var f []string
	if u.Score != nil {
		f = append(f, "score")
	}
	if u.Comments != nil {
		f = append(f, "comments")
	}
	if u.ReviewedBy != nil || u.ClearReviewer {
		f = append(f, "reviewedBy")
	}
	if u.Review != nil {
		f = append(f, "review")
	}
	return f
}

// Update applies u and refreshes updatedAt, returning the new document.
// A write rejected by the collection validator is an apperr StoreSchema.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, u Update) (models.Submission, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if u.Score != nil {
		set["score"] = *u.Score
	}
	if u.Comments != nil {
		set["comments"] = *u.Comments
	}
	switch {
	case u.ClearReviewer:
		set["reviewedBy"] = nil
	case u.ReviewedBy != nil:
		set["reviewedBy"] = *u.ReviewedBy
	}
	if u.Review != nil {
		set["review"] = *u.Review
	}

	var sub models.Submission
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Submission{}, apperr.NotFound(MsgNotFound)
	}
	if err != nil {
		return models.Submission{}, apperr.FromWrite(err)
	}
	return sub, nil
}

// DeleteByInterview removes every submission for interviewID and returns
// how many were deleted.
func (s *Store) DeleteByInterview(ctx context.Context, interviewID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"interviewId": interviewID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// internal/app/store/interviews/interviewstore.go
package interviewstore

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

// MsgNotFound is the client-facing message for a missing interview.
const MsgNotFound = "Interview not found"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("interviews")}
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(MsgNotFound)
	}
	return apperr.FromWrite(err)
}

// Create inserts iv with a fresh ID, timestamps and an empty attemptedBy set.
func (s *Store) Create(ctx context.Context, iv models.Interview) (models.Interview, error) {
	now := time.Now().UTC()
	iv.ID = primitive.NewObjectID()
	if iv.Questions == nil {
		iv.Questions = []string{}
	}
	iv.AttemptedBy = []primitive.ObjectID{}
	iv.CreatedAt = now
	iv.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, iv); err != nil {
		return models.Interview{}, apperr.FromWrite(err)
	}
	return iv, nil
}

// List returns every interview, newest first.
func (s *Store) List(ctx context.Context) ([]models.Interview, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Interview{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns an interview or an apperr NotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Interview, error) {
	var iv models.Interview
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&iv); err != nil {
		return models.Interview{}, notFound(err)
	}
	return iv, nil
}

// Update carries the fields to change; nil fields are left alone.
type Update struct {
	Title       *string
	Description *string
	Questions   *[]string
}

// Empty reports whether u changes nothing.
func (u Update) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Questions == nil
}

// Fields names the fields u changes, in a stable order.
func (u Update) Fields() []string {
	var f []string
	if u.Title != nil {
		f = append(f, "title")
	}
	if u.Description != nil {
		f = append(f, "description")
	}
	if u.Questions != nil {
		f = append(f, "questions")
	}
	return f
}

// Update applies u and refreshes updatedAt, returning the new document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, u Update) (models.Interview, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Questions != nil {
		q := *u.Questions
		if q == nil {
			q = []string{}
		}
		set["questions"] = q
	}

	var iv models.Interview
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&iv)
	if err != nil {
		return models.Interview{}, notFound(err)
	}
	return iv, nil
}

// Delete removes an interview and returns the deleted document.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (models.Interview, error) {
	var iv models.Interview
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&iv); err != nil {
		return models.Interview{}, notFound(err)
	}
	return iv, nil
}

// AddAttempt adds candidateID to the interview's attemptedBy set. Repeated
// calls leave a single entry.
func (s *Store) AddAttempt(ctx context.Context, interviewID, candidateID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": interviewID}, bson.M{
		"$addToSet": bson.M{"attemptedBy": candidateID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return apperr.FromWrite(err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound(MsgNotFound)
	}
	return nil
}

package userstore

import (
	"context"
	"errors"

	"github.com/dalemusser/interviewhub/internal/app/system/apperr"
	"github.com/dalemusser/interviewhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MsgNotFound is the message of the NotFound error for a missing user.
const MsgNotFound = "User not found"

// Store reads the users collection. Accounts are written by the external
// authentication service; nothing here mutates them.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID. A missing user is an apperr NotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperr.NotFound(MsgNotFound)
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Exists reports whether a user with id is present.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Creators returns the name and role of each id found, keyed by id.
// Unknown ids are absent from the map.
func (s *Store) Creators(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Creator, error) {
	out := make(map[primitive.ObjectID]models.Creator, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1, "role": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = models.Creator{ID: u.ID, Name: u.Name, Role: u.Role}
	}
	return out, nil
}

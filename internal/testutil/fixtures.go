package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/interviewhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user the way the account service would.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	user := models.User{
		ID:    primitive.NewObjectID(),
		Name:  name,
		Email: email,
		Role:  role,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, name string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, "", models.RoleAdmin)
}

// CreateInterview inserts an interview owned by createdBy.
func (f *Fixtures) CreateInterview(ctx context.Context, title string, createdBy primitive.ObjectID) models.Interview {
	f.t.Helper()

	now := time.Now().UTC()
	iv := models.Interview{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Questions:   []string{},
		AttemptedBy: []primitive.ObjectID{},
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("interviews").InsertOne(ctx, iv); err != nil {
		f.t.Fatalf("failed to create test interview: %v", err)
	}
	return iv
}

// CreateSubmission inserts a pending submission for interviewID.
func (f *Fixtures) CreateSubmission(ctx context.Context, interviewID, candidateID primitive.ObjectID) models.Submission {
	f.t.Helper()

	now := time.Now().UTC()
	sub := models.Submission{
		ID:           primitive.NewObjectID(),
		Title:        "Submission",
		Questions:    []string{},
		VideoAnswers: []models.VideoAnswer{},
		CandidateID:  candidateID,
		Review:       models.ReviewPending,
		InterviewID:  interviewID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("submissions").InsertOne(ctx, sub); err != nil {
		f.t.Fatalf("failed to create test submission: %v", err)
	}
	return sub
}

package validators_test

import (
	"testing"
	"time"

	submissionstore "github.com/dalemusser/interviewhub/internal/app/store/submissions"
	"github.com/dalemusser/interviewhub/internal/app/system/apperr"
	"github.com/dalemusser/interviewhub/internal/app/system/validators"
	"github.com/dalemusser/interviewhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	collMap := make(map[string]bool)
	for _, name := range names {
		collMap[name] = true
	}
	for _, expected := range []string{"interviews", "submissions", "topics", "audit_events"} {
		if !collMap[expected] {
			t.Errorf("expected collection %q to exist", expected)
		}
	}
}

func TestValidators_RejectInvalidDocuments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	now := time.Now().UTC()

	tests := []struct {
		name       string
		collection string
		doc        bson.M
		wantErr    bool
	}{
		{
			name:       "valid interview",
			collection: "interviews",
			doc:        bson.M{"title": "Backend", "createdBy": primitive.NewObjectID(), "questions": bson.A{}, "createdAt": now},
		},
		{
			name:       "interview with blank title",
			collection: "interviews",
			doc:        bson.M{"title": "   ", "createdBy": primitive.NewObjectID()},
			wantErr:    true,
		},
		{
			name:       "submission with negative score",
			collection: "submissions",
			doc:        bson.M{"title": "x", "candidateId": primitive.NewObjectID(), "interviewId": primitive.NewObjectID(), "score": -1},
			wantErr:    true,
		},
		{
			name:       "submission with unknown review",
			collection: "submissions",
			doc:        bson.M{"title": "x", "candidateId": primitive.NewObjectID(), "interviewId": primitive.NewObjectID(), "review": "DONE"},
			wantErr:    true,
		},
		{
			name:       "submission with null reviewer",
			collection: "submissions",
			doc:        bson.M{"title": "x", "candidateId": primitive.NewObjectID(), "interviewId": primitive.NewObjectID(), "reviewedBy": nil, "review": "PENDING"},
		},
		{
			name:       "topic with bad sub-topic level",
			collection: "topics",
			doc:        bson.M{"topic": "Graphs", "userId": "u1", "subTopics": bson.A{bson.M{"name": "BFS", "level": "IMPOSSIBLE", "status": "PENDING"}}},
			wantErr:    true,
		},
		{
			name:       "valid topic",
			collection: "topics",
			doc:        bson.M{"topic": "Graphs", "userId": "u1", "overAllStatus": "PENDING", "subTopics": bson.A{bson.M{"name": "BFS", "status": "PENDING"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Collection(tt.collection).InsertOne(ctx, tt.doc)
			if tt.wantErr && err == nil {
				t.Error("expected document validation failure")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr && err != nil && !apperr.Is(apperr.FromWrite(err), apperr.KindStoreSchema) {
				t.Errorf("FromWrite(%v) should classify as store schema", err)
			}
		})
	}
}

func TestValidators_StoreUpdateRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	sub := fx.CreateSubmission(ctx, primitive.NewObjectID(), primitive.NewObjectID())

	score := -5.0
	_, err := submissionstore.New(db).Update(ctx, sub.ID, submissionstore.Update{Score: &score})
	if !apperr.Is(err, apperr.KindStoreSchema) {
		t.Fatalf("expected store schema error, got %v", err)
	}
	if apperr.Message(err) != apperr.MsgStoreSchema {
		t.Errorf("message = %q", apperr.Message(err))
	}
}

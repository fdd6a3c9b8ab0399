// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/interviewhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("interviews", interviewsSchema())
	ensure("submissions", submissionsSchema())
	ensure("topics", topicsSchema())

	// Users belong to the account service; audit events are append-only.
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandCode(err error) (int32, string, bool) {
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return ce.Code, strings.ToLower(ce.Message), true
	}
	return 0, "", false
}

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	if code, msg, ok := commandCode(err); ok && (code == 48 || strings.Contains(msg, "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	if code, msg, ok := commandCode(err); ok && (code == 59 || strings.Contains(msg, "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	if code, msg, ok := commandCode(err); ok && (code == 115 ||
		strings.Contains(msg, "not implemented") ||
		strings.Contains(msg, "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func enumOf(values []string) bson.A {
	out := make(bson.A, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func interviewsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "createdBy"},
			"properties": bson.M{
				"title":       nonBlank,
				"description": bson.M{"bsonType": "string"},
				"questions":   bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
				"attemptedBy": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
				"createdBy":   bson.M{"bsonType": "objectId"},
				"createdAt":   bson.M{"bsonType": "date"},
				"updatedAt":   bson.M{"bsonType": "date"},
			},
		},
	}
}

func submissionsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "candidateId", "interviewId"},
			"properties": bson.M{
				"title":       nonBlank,
				"description": bson.M{"bsonType": "string"},
				"questions":   bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
				"videoAnswers": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"question", "videoUrl"},
						"properties": bson.M{
							"question": nonBlank,
							"videoUrl": nonBlank,
						},
					},
				},
				"candidateId": bson.M{"bsonType": "objectId"},
				"reviewedBy":  bson.M{"bsonType": bson.A{"objectId", "null"}},
				"score":       bson.M{"bsonType": "number", "minimum": 0},
				"comments":    bson.M{"bsonType": "string"},
				"review":      bson.M{"enum": enumOf(models.ReviewStatuses)},
				"interviewId": bson.M{"bsonType": "objectId"},
			},
		},
	}
}

func topicsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"topic", "userId"},
			"properties": bson.M{
				"topic":         nonBlank,
				"userId":        nonBlank,
				"overAllStatus": bson.M{"enum": enumOf(models.TopicStatuses)},
				"subTopics": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"properties": bson.M{
							"name":   bson.M{"bsonType": "string"},
							"level":  bson.M{"enum": enumOf(models.Levels)},
							"status": bson.M{"enum": enumOf(models.TopicStatuses)},
						},
					},
				},
			},
		},
	}
}

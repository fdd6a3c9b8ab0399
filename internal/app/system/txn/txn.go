// Package txn runs multi-document writes inside a MongoDB transaction.
package txn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// abortTimeout bounds the abort issued after fn fails. The abort runs on a
// context detached from the caller so a cancelled request still rolls back.
const abortTimeout = 5 * time.Second

// ErrNotSupported is wrapped around session errors raised by deployments
// that cannot run transactions (standalone mongod).
var ErrNotSupported = errors.New("transactions require a replica set or sharded cluster")

// UnitOfWork scopes a group of store calls to one atomic commit.
// Calls made with the ctx passed to fn join the transaction.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Mongo is the UnitOfWork backed by a MongoDB session.
type Mongo struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewMongo returns a UnitOfWork over db.
func NewMongo(db *mongo.Database, log *zap.Logger) *Mongo {
	return &Mongo{DB: db, Log: log}
}

// Do implements UnitOfWork.
func (m *Mongo) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return Run(ctx, m.DB, m.Log, fn)
}

// Run executes fn inside a single transaction on db's client.
//
// fn must issue its store calls with the ctx it receives. If fn returns an
// error the transaction is aborted and that error is returned unchanged.
// The commit is attempted once; nothing is retried. The session is always
// ended.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	if log == nil {
		log = zap.NewNop()
	}

	sess, err := db.Client().StartSession()
	if err != nil {
		return classify(err)
	}
	defer sess.EndSession(context.WithoutCancel(ctx))

	if err := sess.StartTransaction(); err != nil {
		return classify(err)
	}

	sc := mongo.NewSessionContext(ctx, sess)
	if err := fn(sc); err != nil {
		abort(ctx, sess, log)
		return classify(err)
	}

	if err := sess.CommitTransaction(sc); err != nil {
		log.Error("transaction commit failed", zap.Error(err))
		abort(ctx, sess, log)
		return classify(err)
	}
	return nil
}

func abort(ctx context.Context, sess mongo.Session, log *zap.Logger) {
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), abortTimeout)
	defer cancel()
	if err := sess.AbortTransaction(actx); err != nil {
		log.Warn("transaction abort failed", zap.Error(err))
	}
}

// classify wraps errors from deployments without transaction support so
// callers can recognise them with errors.Is(err, ErrNotSupported).
func classify(err error) error {
	if IsNotSupported(err) {
		return fmt.Errorf("%w: %w", ErrNotSupported, err)
	}
	return err
}

// IsNotSupported reports whether err indicates the server cannot run
// transactions: illegal operation (20), no such transaction (51), or
// operation not supported in transaction (263). Other errors are matched
// when their message carries at least two transaction-related phrases.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	hits := 0
	for _, kw := range []string{"transaction", "replica set", "session", "not supported", "illegal operation"} {
		if strings.Contains(msg, kw) {
			hits++
		}
	}
	return hits >= 2
}

// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/interviewhub/internal/app/system/timeouts"
	"github.com/dalemusser/interviewhub/internal/app/system/txn"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// It applies the configured store timeouts and warns when the deployment
// cannot run multi-document transactions, since interview deletes need them.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})
	cur := timeouts.Current()
	logger.Info("store timeouts configured",
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium),
		zap.Duration("long", cur.Long))

	if deps.MongoDatabase != nil {
		checkTransactions(ctx, deps, logger)
	}
	return nil
}

// checkTransactions logs a warning on standalone servers. It never fails
// startup; reads and single-document writes still work there.
func checkTransactions(ctx context.Context, deps DBDeps, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	err := deps.MongoDatabase.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello)
	if err != nil {
		if txn.IsNotSupported(err) {
			logger.Warn("transactions unavailable; interview deletes will fail", zap.Error(err))
			return
		}
		logger.Warn("hello command failed", zap.Error(err))
		return
	}
	if hello.SetName == "" && hello.Msg != "isdbgrid" {
		logger.Warn("MongoDB is a standalone server; interview deletes need a replica set or sharded cluster")
	}
}

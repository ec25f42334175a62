// Package txn runs multi-document writes inside a Mongo transaction where
// the server supports one, and falls back to plain sequential writes on
// standalone servers (local dev, CI) that reject sessions.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn transactionally. The callback must perform all writes
// through the context it receives so they join the transaction.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		if log != nil {
			log.Warn("transactions unsupported; running writes without one", zap.Error(err))
		}
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err means the server cannot run
// transactions (standalone mongod rather than a replica set).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 20 IllegalOperation, 51 (txn numbers), 263 OperationNotSupportedInTransaction
		switch cmdErr.Code {
		case 20, 51, 263:
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set") {
		return true
	}
	if strings.Contains(msg, "session") && strings.Contains(msg, "not supported") {
		return true
	}
	return false
}

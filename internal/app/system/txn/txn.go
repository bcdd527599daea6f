// internal/app/system/txn/txn.go
//
// Package txn wraps multi-document mutations in a Mongo transaction so
// a failed mutation is never partially observable. Standalone servers
// (local development, the test harness) do not support transactions;
// WithTransaction detects that and degrades to direct execution, where
// single-document atomicity still holds.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a session transaction on client. All
// store calls made by fn must use the context it receives so they are
// bound to the session. On commit failure the transaction is rolled
// back and the error returned to the caller.
//
// When the server does not support transactions the function runs
// directly against the provided context instead.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return fn(ctx)
	}
	return err
}

// Server error codes returned when transactions are unavailable
// (standalone deployments, old wire versions).
var notSupportedCodes = map[int32]bool{
	20:  true, // IllegalOperation
	51:  true, // retired IllegalOpMsgFlag, seen from old servers
	263: true, // OperationNotSupportedInTransaction
}

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions, as opposed to a transaction that ran
// and failed.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && notSupportedCodes[cmdErr.Code] {
		return true
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set"):
		return true
	case strings.Contains(msg, "session") && strings.Contains(msg, "not supported"):
		return true
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "session"):
		return true
	case strings.Contains(msg, "illegal operation"):
		return true
	}
	return false
}

// Package txn runs multi-document mutations inside a MongoDB transaction
// when the server supports them, and falls back to sequential writes when it
// does not (standalone servers in dev and CI).
//
// The reconciliation engine wraps its apply phase in WithTransaction so a
// failing call never leaves a partial diff behind. On standalone servers the
// fallback loses atomicity across documents, but the partial unique index on
// child_subscriptions still guarantees the one-active-template-per-child
// invariant under races.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a session transaction on client. If the
// server rejects sessions or transactions (standalone deployment), fn is run
// once more outside a transaction.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	session, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err indicates the server cannot run
// sessions or multi-document transactions, as opposed to a real failure
// inside the transaction.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	// Well-known server error codes:
	//   20  IllegalOperation (transactions on a standalone)
	//   51  transaction numbers only allowed on replica set members
	//   263 operation not permitted in a multi-document transaction
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263:
			return true
		}
	}

	// Driver and proxy layers sometimes wrap the condition in plain text.
	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "transaction") && strings.Contains(s, "replica set"):
		return true
	case strings.Contains(s, "session") && strings.Contains(s, "not supported"):
		return true
	case strings.Contains(s, "transaction") && strings.Contains(s, "session"):
		return true
	case strings.Contains(s, "illegal operation") && strings.Contains(s, "transaction"):
		return true
	}
	return false
}

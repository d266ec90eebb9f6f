package app

import (
	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
)

// Recovery wraps a handler and turns panics into ErrPanic errors, so that
// a failing handler aborts only its own operation.
type Recovery struct {
	next gatekeeper.Handler
}

var _ gatekeeper.Handler = Recovery{}

// NewRecovery wraps given handler.
func NewRecovery(next gatekeeper.Handler) Recovery {
	return Recovery{next: next}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (res *gatekeeper.CheckResult, err error) {
	defer errors.Recover(&err)
	return r.next.Check(ctx, db, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (res *gatekeeper.DeliverResult, err error) {
	defer errors.Recover(&err)
	return r.next.Deliver(ctx, db, tx)
}

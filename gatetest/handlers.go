package gatetest

import (
	"sync/atomic"

	"github.com/iov-one/gatekeeper"
)

// Handler implements a mock of gatekeeper.Handler
//
// Use this handler in your tests. Set the result attributes to control the
// returned values. Each call is counted and the optional write is applied to
// the store, so that tests can check what reached the database.
type Handler struct {
	callCount int64

	// WriteKey and WriteValue, if set, are written to the store on every
	// call before returning.
	WriteKey   []byte
	WriteValue []byte

	// Event, if set, is emitted on every call.
	Event *gatekeeper.Event

	CheckResult gatekeeper.CheckResult
	CheckErr    error

	DeliverResult gatekeeper.DeliverResult
	DeliverErr    error
}

var _ gatekeeper.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.CheckResult, error) {
	atomic.AddInt64(&h.callCount, 1)
	if err := h.apply(ctx, db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	// Copy the value so that the original cannot be modified.
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.DeliverResult, error) {
	atomic.AddInt64(&h.callCount, 1)
	if err := h.apply(ctx, db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) apply(ctx gatekeeper.Context, db gatekeeper.KVStore) error {
	if h.Event != nil {
		gatekeeper.Emit(ctx, *h.Event)
	}
	if h.WriteKey == nil {
		return nil
	}
	return db.Set(h.WriteKey, h.WriteValue)
}

// CallCount returns the number of times any of the handler methods was
// called.
func (h *Handler) CallCount() int {
	return int(atomic.LoadInt64(&h.callCount))
}

// Query implements a mock of gatekeeper.QueryHandler returning a fixed
// result.
type Query struct {
	Result interface{}
	Err    error
}

var _ gatekeeper.QueryHandler = (*Query)(nil)

func (q *Query) Query(gatekeeper.ReadOnlyKVStore, []byte) (interface{}, error) {
	return q.Result, q.Err
}

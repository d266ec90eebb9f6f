package allowlist

import (
	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
)

// QueryPath is the path under which the allowlist can be queried.
const QueryPath = "allowlist"

// Status is the query representation of an allowlist entry.
type Status struct {
	Address       gatekeeper.Address `json:"address"`
	Allowed       bool               `json:"allowed"`
	TransactionID uint64             `json:"transaction_id"`
}

// RegisterQuery registers the allowlist query.
func RegisterQuery(qr gatekeeper.QueryRegistry, s *Store) {
	qr.Register(QueryPath, queryHandler{store: s})
}

type queryHandler struct {
	store *Store
}

// Query returns the status of the address given as data in any format
// accepted by gatekeeper.ParseAddress. Without data all stored entries are
// returned.
func (h queryHandler) Query(db gatekeeper.ReadOnlyKVStore, data []byte) (interface{}, error) {
	if len(data) == 0 {
		return h.all(db)
	}
	addr, err := gatekeeper.ParseAddress(string(data))
	if err != nil {
		return nil, err
	}
	e, err := h.store.Entry(db, addr)
	if err != nil {
		return nil, err
	}
	return Status{Address: addr, Allowed: e.Allowed, TransactionID: e.TransactionID}, nil
}

func (h queryHandler) all(db gatekeeper.ReadOnlyKVStore) ([]Status, error) {
	var entries []*Entry
	keys, err := h.store.bucket.All(db, &entries)
	if err != nil {
		return nil, errors.Wrap(err, "cannot list allowlist")
	}
	res := make([]Status, len(entries))
	for i, e := range entries {
		res[i] = Status{
			Address:       gatekeeper.Address(keys[i]),
			Allowed:       e.Allowed,
			TransactionID: e.TransactionID,
		}
	}
	return res, nil
}

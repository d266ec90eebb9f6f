package multisig

import (
	"strconv"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
)

const (
	QueryRegistryPath     = "multisig/registry"
	QueryTransactionsPath = "multisig/transactions"
)

// RegisterQuery registers the registry and the transaction queries.
func RegisterQuery(qr gatekeeper.QueryRegistry, c *Coordinator) {
	qr.Register(QueryRegistryPath, registryQuery{r: c.registry})
	qr.Register(QueryTransactionsPath, transactionsQuery{l: c.ledger})
}

type registryQuery struct {
	r *OwnerRegistry
}

// Query returns the registry record, data is ignored.
func (q registryQuery) Query(db gatekeeper.ReadOnlyKVStore, data []byte) (interface{}, error) {
	return q.r.Load(db)
}

type transactionsQuery struct {
	l *Ledger
}

// Query returns a single transaction when data is its decimal ID, all
// transactions not executed yet when data is "pending", or every
// transaction when data is empty.
func (q transactionsQuery) Query(db gatekeeper.ReadOnlyKVStore, data []byte) (interface{}, error) {
	switch key := string(data); key {
	case "":
		return q.l.All(db)
	case "pending":
		all, err := q.l.All(db)
		if err != nil {
			return nil, err
		}
		pending := make([]*Transaction, 0, len(all))
		for _, tx := range all {
			if !tx.Executed {
				pending = append(pending, tx)
			}
		}
		return pending, nil
	default:
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "invalid transaction id %q", key)
		}
		return q.l.Get(db, id)
	}
}

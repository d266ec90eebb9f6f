package multisig

import (
	"encoding/binary"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/orm"
)

const (
	// LedgerBucket is where transactions are stored, keyed by ID.
	LedgerBucket = "mstx"
	// LedgerSequence generates transaction IDs.
	LedgerSequence = "id"
)

// Ledger is the append only list of transactions. IDs are consecutive and
// start at 0.
type Ledger struct {
	bucket orm.ModelBucket
	seq    orm.Sequence
}

// NewLedger returns a ledger using the default bucket.
func NewLedger() *Ledger {
	return &Ledger{
		bucket: orm.NewModelBucket(LedgerBucket, &Transaction{}),
		seq:    orm.NewSequence(LedgerBucket, LedgerSequence),
	}
}

// TransactionKey returns the database key of a transaction.
func TransactionKey(id uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, id)
	return k
}

// Append stores a new transaction without confirmations and returns its ID.
func (l *Ledger) Append(db gatekeeper.KVStore, target gatekeeper.Address, action Action, submitter gatekeeper.Address) (uint64, error) {
	n, err := l.seq.NextInt(db)
	if err != nil {
		return 0, errors.Wrap(err, "cannot acquire transaction id")
	}
	id := uint64(n - 1)
	tx := Transaction{
		Metadata:  &gatekeeper.Metadata{Schema: 1},
		ID:        id,
		Target:    target.Clone(),
		Action:    action,
		Submitter: submitter.Clone(),
	}
	if err := l.bucket.Put(db, TransactionKey(id), &tx); err != nil {
		return 0, errors.Wrap(err, "cannot save transaction")
	}
	return id, nil
}

// Count returns the number of transactions in the ledger.
func (l *Ledger) Count(db gatekeeper.ReadOnlyKVStore) (uint64, error) {
	n, err := l.seq.Latest(db)
	if err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// Get returns the transaction with given ID. It fails with
// ErrInvalidTransactionID if the ID is not in the ledger.
func (l *Ledger) Get(db gatekeeper.ReadOnlyKVStore, id uint64) (*Transaction, error) {
	n, err := l.Count(db)
	if err != nil {
		return nil, err
	}
	if id >= n {
		return nil, errors.Wrapf(ErrInvalidTransactionID, "%d of %d", id, n)
	}
	var tx Transaction
	if err := l.bucket.One(db, TransactionKey(id), &tx); err != nil {
		return nil, errors.Wrapf(err, "transaction %d", id)
	}
	return &tx, nil
}

// Save rewrites an existing transaction. An executed transaction cannot
// be changed.
func (l *Ledger) Save(db gatekeeper.KVStore, tx *Transaction) error {
	stored, err := l.Get(db, tx.ID)
	if err != nil {
		return err
	}
	if stored.Executed {
		return errors.Wrapf(ErrTransactionAlreadyExecuted, "transaction %d", tx.ID)
	}
	if !stored.Target.Equals(tx.Target) || stored.Action != tx.Action {
		return errors.Wrapf(errors.ErrImmutable, "transaction %d content", tx.ID)
	}
	if err := l.bucket.Put(db, TransactionKey(tx.ID), tx); err != nil {
		return errors.Wrap(err, "cannot save transaction")
	}
	return nil
}

// All returns every transaction in ID order.
func (l *Ledger) All(db gatekeeper.ReadOnlyKVStore) ([]*Transaction, error) {
	var txs []*Transaction
	if _, err := l.bucket.All(db, &txs); err != nil {
		return nil, errors.Wrap(err, "cannot list transactions")
	}
	return txs, nil
}

package allowlist

import (
	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/orm"
)

// BucketName is where the entries are stored, keyed by address.
const BucketName = "allowlist"

// Reader answers whether an address is allowed.
type Reader interface {
	IsAllowed(db gatekeeper.ReadOnlyKVStore, addr gatekeeper.Address) (bool, error)
}

// Writer changes the verification status of an address. Only the multisig
// coordinator holds a Writer.
type Writer interface {
	Reader
	Set(db gatekeeper.KVStore, addr gatekeeper.Address, allowed bool, txID uint64) error
}

// Validate returns an error if the entry cannot be stored.
func (e *Entry) Validate() error {
	if err := e.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return nil
}

// Store implements both Reader and Writer on top of an orm bucket.
type Store struct {
	bucket orm.ModelBucket
}

var _ Writer = (*Store)(nil)

// NewStore returns the allowlist store. Pass it as a Reader to everything
// but the coordinator.
func NewStore() *Store {
	return &Store{bucket: orm.NewModelBucket(BucketName, &Entry{})}
}

// IsAllowed returns the status of given address, false if it was never set.
func (s *Store) IsAllowed(db gatekeeper.ReadOnlyKVStore, addr gatekeeper.Address) (bool, error) {
	e, err := s.Entry(db, addr)
	if err != nil {
		return false, err
	}
	return e.Allowed, nil
}

// Entry returns the stored entry of an address. An address that was never
// set returns a zero entry that is not allowed.
func (s *Store) Entry(db gatekeeper.ReadOnlyKVStore, addr gatekeeper.Address) (*Entry, error) {
	if addr.IsNull() {
		return &Entry{}, nil
	}
	var e Entry
	switch err := s.bucket.One(db, addr, &e); {
	case err == nil:
		return &e, nil
	case errors.ErrNotFound.Is(err):
		return &Entry{}, nil
	default:
		return nil, errors.Wrap(err, "cannot load allowlist entry")
	}
}

// Set stores the status of given address.
func (s *Store) Set(db gatekeeper.KVStore, addr gatekeeper.Address, allowed bool, txID uint64) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	e := Entry{
		Metadata:      &gatekeeper.Metadata{Schema: 1},
		Allowed:       allowed,
		TransactionID: txID,
	}
	return s.bucket.Put(db, addr, &e)
}

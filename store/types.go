package store

import "github.com/iov-one/gatekeeper"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = gatekeeper.ReadOnlyKVStore
type KVStore = gatekeeper.KVStore
type SetDeleter = gatekeeper.SetDeleter
type Iterator = gatekeeper.Iterator
type CacheableKVStore = gatekeeper.CacheableKVStore
type KVCacheWrap = gatekeeper.KVCacheWrap
type CommitKVStore = gatekeeper.CommitKVStore
type CommitID = gatekeeper.CommitID

// Model groups together key and value to return
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{
		Key:   key,
		Value: value,
	}
}

// OpType is the type of a pending write.
type OpType int32

const (
	SetOp OpType = iota
	DelOp
)

// Op is either set or delete
type Op struct {
	kind  OpType
	key   []byte
	value []byte // only for set
}

// SetOpFor is a helper to create a set operation
func SetOpFor(key, value []byte) Op {
	return Op{kind: SetOp, key: key, value: value}
}

// DelOpFor is a helper to create a del operation
func DelOpFor(key []byte) Op {
	return Op{kind: DelOp, key: key}
}

// Apply performs the stored operation on a writable store
func (o Op) Apply(out SetDeleter) error {
	switch o.kind {
	case SetOp:
		return out.Set(o.key, o.value)
	case DelOp:
		return out.Delete(o.key)
	default:
		panic("unknown op type")
	}
}

// Kind returns the operation type.
func (o Op) Kind() OpType { return o.kind }

// Key returns the key the operation touches.
func (o Op) Key() []byte { return o.key }

// Value returns the value written by a set operation.
func (o Op) Value() []byte { return o.value }

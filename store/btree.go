package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/gatekeeper/errors"
)

const (
	// DefaultFreeListSize is the size we hold for free node in btree
	DefaultFreeListSize = btree.DefaultFreeListSize
)

// MemStore returns a simple implementation useful for tests.
// There is no persistence here....
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e, nil)
}

// ShowOpser returns an ordered list of all operations performed
type ShowOpser interface {
	ShowOps() []Op
}

// BTreeCacheWrap places a btree cache over a KVStore. All writes are kept
// in memory and in an ordered operation log until Write replays them on
// the parent store.
type BTreeCacheWrap struct {
	bt     *btree.BTree
	free   *btree.FreeList
	back   ReadOnlyKVStore
	parent SetDeleter
	ops    []Op
}

var _ KVCacheWrap = (*BTreeCacheWrap)(nil)
var _ ShowOpser = (*BTreeCacheWrap)(nil)

// NewBTreeCacheWrap initializes a BTree to cache around this kv store. back
// is used for reads of keys not present in the cache, parent receives all
// writes when the cache is written.
//
// free may be nil, but set to an existing list to reuse it
// for memory savings
func NewBTreeCacheWrap(back ReadOnlyKVStore, parent SetDeleter, free *btree.FreeList) *BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return &BTreeCacheWrap{
		bt:     btree.NewWithFreeList(2, free),
		free:   free,
		back:   back,
		parent: parent,
	}
}

// CacheWrap layers another BTree on top of this one.
func (b *BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b, b.free)
}

// Write replays all operations on the parent store in the order they were
// issued and then cleans up.
func (b *BTreeCacheWrap) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.parent); err != nil {
			return errors.Wrap(err, "cannot write to parent store")
		}
	}
	b.Discard()
	return nil
}

// Discard drops all pending writes.
func (b *BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
	b.ops = nil
}

// ShowOps returns all pending writes in the order they were issued.
func (b *BTreeCacheWrap) ShowOps() []Op {
	return b.ops
}

// Set writes to the BTree and to the operation log.
func (b *BTreeCacheWrap) Set(key, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	b.bt.ReplaceOrInsert(newSetItem(key, value))
	b.ops = append(b.ops, SetOpFor(key, value))
	return nil
}

// Delete marks the key as deleted in the BTree and in the operation log.
func (b *BTreeCacheWrap) Delete(key []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	b.bt.ReplaceOrInsert(newDeletedItem(key))
	b.ops = append(b.ops, DelOpFor(key))
	return nil
}

// Get reads from btree if there, else backing store
func (b *BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	switch t := b.bt.Get(bkey{key}).(type) {
	case nil:
		return b.back.Get(key)
	case setItem:
		return t.value, nil
	case deletedItem:
		return nil, nil
	default:
		return nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", t)
	}
}

// Has reads from btree if there, else backing store
func (b *BTreeCacheWrap) Has(key []byte) (bool, error) {
	switch t := b.bt.Get(bkey{key}).(type) {
	case nil:
		return b.back.Has(key)
	case setItem:
		return true, nil
	case deletedItem:
		return false, nil
	default:
		return false, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", t)
	}
}

// Iterator over a domain of keys in ascending order.
// Combines results from btree and backing store
func (b *BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return mergeIterators(parent, ascendBtree(b.bt, start, end), true)
}

// ReverseIterator over a domain of keys in descending order.
// Combines results from btree and backing store
func (b *BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return mergeIterators(parent, descendBtree(b.bt, start, end), false)
}

/////////////////////////////////////////////////////////
// Items to write to btree

// we enforce all data in our btree implements keyer so we
// can compare nicely
type keyer interface {
	Key() []byte
}

// bkey implements keyer and btree.Item
// and may be used for queries or embedded in data to store
type bkey struct {
	key []byte
}

var _ keyer = bkey{}
var _ btree.Item = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

// Less returns true iff second argument is greater than first
//
// panics if the item to compare doesn't implement keyer.
func (k bkey) Less(item btree.Item) bool {
	cmp := item.(keyer).Key()
	return bytes.Compare(k.key, cmp) < 0
}

type deletedItem struct {
	bkey
}

func newDeletedItem(key []byte) deletedItem {
	return deletedItem{bkey{key}}
}

type setItem struct {
	bkey
	value []byte
}

func newSetItem(key, value []byte) setItem {
	return setItem{bkey{key}, value}
}

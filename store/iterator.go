package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/gatekeeper/errors"
)

// SliceIterator wraps an Iterator over a slice of models
type SliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator creates a new Iterator over this slice
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{
		data: data,
	}
}

// Next returns the next model or ErrIteratorDone once the slice is
// exhausted.
func (s *SliceIterator) Next() (key, value []byte, err error) {
	if s.idx >= len(s.data) {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.data[s.idx]
	s.idx++
	return m.Key, m.Value, nil
}

// Release drops the reference to the underlying data.
func (s *SliceIterator) Release() {
	s.data = nil
}

// ReadAll drains given iterator into a slice and releases it.
func ReadAll(it Iterator) ([]Model, error) {
	defer it.Release()

	var res []Model
	for {
		key, value, err := it.Next()
		switch {
		case err == nil:
			res = append(res, Pair(key, value))
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, err
		}
	}
}

// cached is a btree item copied out of the cache, deleted items shadow
// the parent value for the same key.
type cached struct {
	Model
	deleted bool
}

func ascendBtree(bt *btree.BTree, start, end []byte) []cached {
	var res []cached
	collect := func(item btree.Item) bool {
		switch t := item.(type) {
		case setItem:
			res = append(res, cached{Model: Pair(t.key, t.value)})
		case deletedItem:
			res = append(res, cached{Model: Pair(t.key, nil), deleted: true})
		}
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return res
}

func descendBtree(bt *btree.BTree, start, end []byte) []cached {
	res := ascendBtree(bt, start, end)
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return res
}

// mergeIterators combines the parent content with the cached writes. Both
// sources must be sorted in the same direction. When a key is present in
// both, the cached version wins.
func mergeIterators(parent Iterator, cache []cached, ascending bool) (Iterator, error) {
	back, err := ReadAll(parent)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read parent")
	}

	// before reports whether key a comes first in iteration order.
	before := func(a, b []byte) bool {
		if ascending {
			return bytes.Compare(a, b) < 0
		}
		return bytes.Compare(a, b) > 0
	}

	res := make([]Model, 0, len(back)+len(cache))
	i, j := 0, 0
	for i < len(back) || j < len(cache) {
		switch {
		case j >= len(cache):
			res = append(res, back[i])
			i++
		case i >= len(back) || before(cache[j].Key, back[i].Key):
			if !cache[j].deleted {
				res = append(res, cache[j].Model)
			}
			j++
		case bytes.Equal(cache[j].Key, back[i].Key):
			if !cache[j].deleted {
				res = append(res, cache[j].Model)
			}
			i++
			j++
		default:
			res = append(res, back[i])
			i++
		}
	}
	return NewSliceIterator(res), nil
}

package store

import (
	"testing"

	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/gatetest/assert"
)

/*
TestSuite provides many methods that can be called in package-specific test
code. We just customize the store being tested (pass in constructor), the
rest of the logic is generic to the KVStore interface.

This removes duplication between btree_test.go and iavl/adapter_test.go, but
can be used for any implementation of CacheableKVStore.
*/
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet does basic sanity checks on our cache
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("french"), []byte("fry")
	s.AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	// a cache layer reads through to the base
	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	s.AssertGetHas(t, cache, k2, nil, false)
	assert.Nil(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	// discarded changes never reach the base
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	assert.Nil(t, c2.Set(k3, v3))
	c2.Discard()
	s.AssertGetHas(t, base, k3, nil, false)

	// deletes are written as well
	c3 := base.CacheWrap()
	assert.Nil(t, c3.Delete(k))
	s.AssertGetHas(t, c3, k, nil, false)
	s.AssertGetHas(t, base, k, v, true)
	assert.Nil(t, c3.Write())
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
}

// Iteration checks that iterators merge cached writes with the parent
// content in both directions.
func (s *TestSuite) Iteration(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	for _, k := range []string{"a", "b", "c", "d"} {
		assert.Nil(t, base.Set([]byte(k), []byte("base-"+k)))
	}

	cache := base.CacheWrap()
	assert.Nil(t, cache.Set([]byte("b"), []byte("cache-b")))
	assert.Nil(t, cache.Delete([]byte("c")))
	assert.Nil(t, cache.Set([]byte("e"), []byte("cache-e")))

	it, err := cache.Iterator(nil, nil)
	assert.Nil(t, err)
	s.AssertIterator(t, it, []Model{
		Pair([]byte("a"), []byte("base-a")),
		Pair([]byte("b"), []byte("cache-b")),
		Pair([]byte("d"), []byte("base-d")),
		Pair([]byte("e"), []byte("cache-e")),
	})

	it, err = cache.Iterator([]byte("b"), []byte("e"))
	assert.Nil(t, err)
	s.AssertIterator(t, it, []Model{
		Pair([]byte("b"), []byte("cache-b")),
		Pair([]byte("d"), []byte("base-d")),
	})

	it, err = cache.ReverseIterator([]byte("a"), nil)
	assert.Nil(t, err)
	s.AssertIterator(t, it, []Model{
		Pair([]byte("e"), []byte("cache-e")),
		Pair([]byte("d"), []byte("base-d")),
		Pair([]byte("b"), []byte("cache-b")),
		Pair([]byte("a"), []byte("base-a")),
	})

	// base is untouched until written
	it, err = base.Iterator(nil, nil)
	assert.Nil(t, err)
	s.AssertIterator(t, it, []Model{
		Pair([]byte("a"), []byte("base-a")),
		Pair([]byte("b"), []byte("base-b")),
		Pair([]byte("c"), []byte("base-c")),
		Pair([]byte("d"), []byte("base-d")),
	})
}

// AssertGetHas makes sure that this key returns
// the proper value for Get and Has
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// AssertIterator drains the iterator and compares the content with the
// expected models.
func (s *TestSuite) AssertIterator(t testing.TB, it Iterator, want []Model) {
	t.Helper()
	got, err := ReadAll(it)
	assert.Nil(t, err)
	if len(got) != len(want) {
		t.Fatalf("want %d models, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		assert.Equal(t, string(want[i].Key), string(got[i].Key))
		assert.Equal(t, string(want[i].Value), string(got[i].Value))
	}
	_, _, err = it.Next()
	if !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("released iterator must be done, got %v", err)
	}
}

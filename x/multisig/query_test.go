package multisig

import (
	"context"
	"testing"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/gatetest"
	"github.com/iov-one/gatekeeper/gatetest/assert"
)

type queries map[string]gatekeeper.QueryHandler

func (q queries) Register(path string, h gatekeeper.QueryHandler) {
	q[path] = h
}

func TestQueries(t *testing.T) {
	x, y := gatetest.NewAddress(), gatetest.NewAddress()
	f := newFixture(t, []gatekeeper.Address{x, y}, 2, nil)
	ctx := context.Background()

	_, _, err := f.c.Submit(ctx, f.db, x, gatetest.NewAddress(), ActionGrant)
	assert.Nil(t, err)
	_, _, err = f.c.Submit(ctx, f.db, x, gatetest.NewAddress(), ActionGrant)
	assert.Nil(t, err)
	_, err = f.c.Confirm(ctx, f.db, y, 1)
	assert.Nil(t, err)

	qr := queries{}
	RegisterQuery(qr, f.c)

	res, err := qr[QueryRegistryPath].Query(f.db, nil)
	assert.Nil(t, err)
	reg := res.(*Registry)
	assert.Equal(t, uint32(2), reg.Threshold)
	assert.Equal(t, 2, len(reg.Owners))

	res, err = qr[QueryTransactionsPath].Query(f.db, nil)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res.([]*Transaction)))

	res, err = qr[QueryTransactionsPath].Query(f.db, []byte("pending"))
	assert.Nil(t, err)
	pending := res.([]*Transaction)
	assert.Equal(t, 1, len(pending))
	assert.Equal(t, uint64(0), pending[0].ID)

	res, err = qr[QueryTransactionsPath].Query(f.db, []byte("1"))
	assert.Nil(t, err)
	assert.Equal(t, true, res.(*Transaction).Executed)

	_, err = qr[QueryTransactionsPath].Query(f.db, []byte("2"))
	if !ErrInvalidTransactionID.Is(err) {
		t.Fatalf("want invalid id, got %+v", err)
	}
	_, err = qr[QueryTransactionsPath].Query(f.db, []byte("first"))
	if !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}
}

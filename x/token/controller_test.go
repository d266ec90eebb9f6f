package token

import (
	"math"
	"testing"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/gatetest"
	"github.com/iov-one/gatekeeper/gatetest/assert"
	"github.com/iov-one/gatekeeper/store"
	"github.com/iov-one/gatekeeper/x/allowlist"
)

func issue(t testing.TB, db gatekeeper.KVStore, c *Controller, holder gatekeeper.Address, supply uint64) {
	t.Helper()
	info := TokenInfo{
		Metadata: &gatekeeper.Metadata{Schema: 1},
		Name:     "Gated Share",
		Symbol:   "GSH",
		Decimals: 2,
		Supply:   supply,
	}
	assert.Nil(t, c.Issue(db, &info, holder))
}

func TestTransfer(t *testing.T) {
	holder := gatetest.NewAddress()
	alice := gatetest.NewAddress()
	bob := gatetest.NewAddress()

	cases := map[string]struct {
		src        gatekeeper.Address
		dest       gatekeeper.Address
		amount     uint64
		wantErr    *errors.Error
		wantHolder uint64
		wantAlice  uint64
	}{
		"to an allowed address": {
			src:        holder,
			dest:       alice,
			amount:     400,
			wantHolder: 600,
			wantAlice:  400,
		},
		"whole balance": {
			src:        holder,
			dest:       alice,
			amount:     1000,
			wantHolder: 0,
			wantAlice:  1000,
		},
		"to an address that is not allowed": {
			src:        holder,
			dest:       bob,
			amount:     1,
			wantErr:    ErrNotAllowed,
			wantHolder: 1000,
		},
		"to the null identity": {
			src:        holder,
			dest:       nil,
			amount:     1,
			wantErr:    errors.ErrInput,
			wantHolder: 1000,
		},
		"more than the balance": {
			src:        holder,
			dest:       alice,
			amount:     1001,
			wantErr:    errors.ErrAmount,
			wantHolder: 1000,
		},
		"zero amount": {
			src:        holder,
			dest:       alice,
			amount:     0,
			wantErr:    errors.ErrAmount,
			wantHolder: 1000,
		},
		"from an empty wallet": {
			src:        bob,
			dest:       alice,
			amount:     1,
			wantErr:    errors.ErrAmount,
			wantHolder: 1000,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			list := allowlist.NewStore()
			assert.Nil(t, list.Set(db, alice, true, 0))
			assert.Nil(t, list.Set(db, bob, false, 1))
			c := NewController(list)
			issue(t, db, c, holder, 1000)

			if err := c.Transfer(db, tc.src, tc.dest, tc.amount); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			got, err := c.Balance(db, holder)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantHolder, got)
			got, err = c.Balance(db, alice)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantAlice, got)
		})
	}
}

func TestTransferFollowsAllowlist(t *testing.T) {
	db := store.MemStore()
	list := allowlist.NewStore()
	c := NewController(list)
	holder, alice := gatetest.NewAddress(), gatetest.NewAddress()
	issue(t, db, c, holder, 10)

	if err := c.Transfer(db, holder, alice, 1); !ErrNotAllowed.Is(err) {
		t.Fatalf("want not allowed, got %+v", err)
	}
	assert.Nil(t, list.Set(db, alice, true, 0))
	assert.Nil(t, c.Transfer(db, holder, alice, 1))

	// A revoked holder keeps the tokens but cannot receive more.
	assert.Nil(t, list.Set(db, alice, false, 1))
	if err := c.Transfer(db, holder, alice, 1); !ErrNotAllowed.Is(err) {
		t.Fatalf("want not allowed, got %+v", err)
	}
	bal, err := c.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), bal)
}

func TestTransferOverflow(t *testing.T) {
	db := store.MemStore()
	list := allowlist.NewStore()
	c := NewController(list)
	holder, alice := gatetest.NewAddress(), gatetest.NewAddress()
	issue(t, db, c, holder, math.MaxUint64)
	assert.Nil(t, list.Set(db, alice, true, 0))
	assert.Nil(t, list.Set(db, holder, true, 0))

	assert.Nil(t, c.Transfer(db, holder, alice, 10))
	// Put the balance back above what can be added.
	assert.Nil(t, c.wallets.Put(db, alice, &Wallet{Metadata: &gatekeeper.Metadata{Schema: 1}, Balance: math.MaxUint64}))
	if err := c.Transfer(db, holder, alice, 10); !errors.ErrOverflow.Is(err) {
		t.Fatalf("want overflow, got %+v", err)
	}
}

func TestBurn(t *testing.T) {
	db := store.MemStore()
	c := NewController(allowlist.NewStore())
	holder := gatetest.NewAddress()
	issue(t, db, c, holder, 100)

	assert.Nil(t, c.Burn(db, holder, 30))
	bal, err := c.Balance(db, holder)
	assert.Nil(t, err)
	assert.Equal(t, uint64(70), bal)
	info, err := c.Info(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(70), info.Supply)

	if err := c.Burn(db, holder, 71); !errors.ErrAmount.Is(err) {
		t.Fatalf("want amount error, got %+v", err)
	}
	if err := c.Burn(db, holder, 0); !errors.ErrAmount.Is(err) {
		t.Fatalf("want amount error, got %+v", err)
	}
}

func TestIssueOnce(t *testing.T) {
	db := store.MemStore()
	c := NewController(allowlist.NewStore())
	holder := gatetest.NewAddress()

	if _, err := c.Info(db); !errors.ErrState.Is(err) {
		t.Fatalf("want state error, got %+v", err)
	}
	issue(t, db, c, holder, 5)

	info := TokenInfo{Metadata: &gatekeeper.Metadata{Schema: 1}, Name: "Other", Symbol: "OTH", Supply: 1}
	if err := c.Issue(db, &info, holder); !errors.ErrState.Is(err) {
		t.Fatalf("want state error, got %+v", err)
	}
	bal, err := c.Balance(db, holder)
	assert.Nil(t, err)
	assert.Equal(t, uint64(5), bal)
}

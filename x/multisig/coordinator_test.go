package multisig

import (
	"context"
	"testing"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/gatetest"
	"github.com/iov-one/gatekeeper/gatetest/assert"
	"github.com/iov-one/gatekeeper/store"
	"github.com/iov-one/gatekeeper/x/allowlist"
)

type fixture struct {
	db     store.CacheableKVStore
	ctx    gatekeeper.Context
	events *gatekeeper.EventBuffer
	reg    *OwnerRegistry
	ledger *Ledger
	list   *allowlist.Store
	c      *Coordinator
}

func newFixture(t testing.TB, owners []gatekeeper.Address, threshold uint32, manager gatekeeper.Address) *fixture {
	t.Helper()
	f := &fixture{
		db:     store.MemStore(),
		reg:    NewOwnerRegistry(),
		ledger: NewLedger(),
		list:   allowlist.NewStore(),
	}
	f.ctx, f.events = gatekeeper.WithEventBuffer(context.Background())
	f.c = NewCoordinator(f.reg, f.ledger, f.list)
	assert.Nil(t, f.reg.Init(f.db, owners, threshold, manager))
	return f
}

func (f *fixture) allowed(t testing.TB, addr gatekeeper.Address) bool {
	t.Helper()
	ok, err := f.c.IsAllowed(f.db, addr)
	assert.Nil(t, err)
	return ok
}

func (f *fixture) tx(t testing.TB, id uint64) *Transaction {
	t.Helper()
	tx, err := f.ledger.Get(f.db, id)
	assert.Nil(t, err)
	// The confirmation count is always the size of the set.
	assert.Equal(t, uint32(len(tx.Confirmations)), tx.ConfirmationCount())
	return tx
}

func (f *fixture) kinds() []gatekeeper.EventKind {
	var res []gatekeeper.EventKind
	for _, e := range f.events.Events() {
		res = append(res, e.Kind)
	}
	return res
}

func TestScenarioThresholdReachedBySecondOwner(t *testing.T) {
	x, y, z := gatetest.NewAddress(), gatetest.NewAddress(), gatetest.NewAddress()
	alice := gatetest.NewAddress()
	f := newFixture(t, []gatekeeper.Address{x, y, z}, 2, nil)

	id, executed, err := f.c.Submit(f.ctx, f.db, x, alice, ActionGrant)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), id)
	assert.Equal(t, false, executed)
	assert.Equal(t, uint32(1), f.tx(t, 0).ConfirmationCount())
	assert.Equal(t, false, f.allowed(t, alice))

	executed, err = f.c.Confirm(f.ctx, f.db, y, 0)
	assert.Nil(t, err)
	assert.Equal(t, true, executed)
	assert.Equal(t, true, f.tx(t, 0).Executed)
	assert.Equal(t, true, f.allowed(t, alice))

	assert.Equal(t, []gatekeeper.EventKind{
		gatekeeper.EventTransactionSubmit,
		gatekeeper.EventTransactionConfirm,
		gatekeeper.EventTransactionConfirm,
		gatekeeper.EventTransactionExecuted,
		gatekeeper.EventAllowlistUpdated,
	}, f.kinds())
}

func TestScenarioThresholdOfThree(t *testing.T) {
	x, y, z := gatetest.NewAddress(), gatetest.NewAddress(), gatetest.NewAddress()
	alice := gatetest.NewAddress()
	f := newFixture(t, []gatekeeper.Address{x, y, z}, 3, nil)

	_, executed, err := f.c.Submit(f.ctx, f.db, x, alice, ActionGrant)
	assert.Nil(t, err)
	assert.Equal(t, false, executed)

	executed, err = f.c.Confirm(f.ctx, f.db, z, 0)
	assert.Nil(t, err)
	assert.Equal(t, false, executed)
	assert.Equal(t, uint32(2), f.tx(t, 0).ConfirmationCount())
	assert.Equal(t, false, f.allowed(t, alice))

	executed, err = f.c.Confirm(f.ctx, f.db, y, 0)
	assert.Nil(t, err)
	assert.Equal(t, true, executed)
	assert.Equal(t, uint32(3), f.tx(t, 0).ConfirmationCount())
	assert.Equal(t, true, f.allowed(t, alice))
}

func TestScenarioRevokeBeforeExecution(t *testing.T) {
	x, y, z := gatetest.NewAddress(), gatetest.NewAddress(), gatetest.NewAddress()
	bob := gatetest.NewAddress()
	f := newFixture(t, []gatekeeper.Address{x, y, z}, 2, nil)

	id, _, err := f.c.Submit(f.ctx, f.db, x, bob, ActionGrant)
	assert.Nil(t, err)
	assert.Equal(t, false, f.allowed(t, bob))

	assert.Nil(t, f.c.Revoke(f.ctx, f.db, x, id))
	assert.Equal(t, uint32(0), f.tx(t, id).ConfirmationCount())
	assert.Equal(t, false, f.allowed(t, bob))

	executed, err := f.c.Confirm(f.ctx, f.db, y, id)
	assert.Nil(t, err)
	assert.Equal(t, false, executed)
	tx := f.tx(t, id)
	assert.Equal(t, uint32(1), tx.ConfirmationCount())
	assert.Equal(t, false, tx.Executed)
	assert.Equal(t, false, f.allowed(t, bob))
}

func TestScenarioUnknownTransaction(t *testing.T) {
	x, y := gatetest.NewAddress(), gatetest.NewAddress()
	f := newFixture(t, []gatekeeper.Address{x, y}, 2, nil)

	cache := f.db.CacheWrap()
	_, err := f.c.Confirm(f.ctx, cache, x, 5)
	if !ErrInvalidTransactionID.Is(err) {
		t.Fatalf("want invalid transaction id, got %+v", err)
	}
	assert.Equal(t, 0, len(cache.(store.ShowOpser).ShowOps()))
	assert.Equal(t, 0, len(f.events.Events()))
}

func TestScenarioNonOwnerSubmit(t *testing.T) {
	x, y := gatetest.NewAddress(), gatetest.NewAddress()
	w := gatetest.NewAddress()
	f := newFixture(t, []gatekeeper.Address{x, y}, 1, nil)

	_, _, err := f.c.Submit(f.ctx, f.db, w, gatetest.NewAddress(), ActionGrant)
	if !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want unauthorized, got %+v", err)
	}
	n, err := f.ledger.Count(f.db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), n)
}

func TestSubmitWithThresholdOneExecutesImmediately(t *testing.T) {
	x := gatetest.NewAddress()
	alice := gatetest.NewAddress()
	f := newFixture(t, []gatekeeper.Address{x}, 1, nil)

	id, executed, err := f.c.Submit(f.ctx, f.db, x, alice, ActionGrant)
	assert.Nil(t, err)
	assert.Equal(t, true, executed)
	assert.Equal(t, true, f.allowed(t, alice))

	// revoking membership goes through a new transaction
	id2, executed, err := f.c.Submit(f.ctx, f.db, x, alice, ActionRevoke)
	assert.Nil(t, err)
	assert.Equal(t, id+1, id2)
	assert.Equal(t, true, executed)
	assert.Equal(t, false, f.allowed(t, alice))

	entry, err := f.list.Entry(f.db, alice)
	assert.Nil(t, err)
	assert.Equal(t, id2, entry.TransactionID)
}

func TestExecuteAtMostOnce(t *testing.T) {
	x, y := gatetest.NewAddress(), gatetest.NewAddress()
	alice := gatetest.NewAddress()
	f := newFixture(t, []gatekeeper.Address{x, y}, 1, nil)

	id, executed, err := f.c.Submit(f.ctx, f.db, x, alice, ActionGrant)
	assert.Nil(t, err)
	assert.Equal(t, true, executed)

	if err := f.c.Execute(f.ctx, f.db, id); !ErrTransactionAlreadyExecuted.Is(err) {
		t.Fatalf("want already executed, got %+v", err)
	}
	if _, err := f.c.Confirm(f.ctx, f.db, y, id); !ErrTransactionAlreadyExecuted.Is(err) {
		t.Fatalf("want already executed, got %+v", err)
	}
	if err := f.c.Revoke(f.ctx, f.db, x, id); !ErrTransactionAlreadyExecuted.Is(err) {
		t.Fatalf("want already executed, got %+v", err)
	}

	updates := 0
	for _, e := range f.events.Events() {
		if e.Kind == gatekeeper.EventAllowlistUpdated && e.TransactionID == id {
			updates++
		}
	}
	assert.Equal(t, 1, updates)
}

func TestExecuteAfterThresholdDrop(t *testing.T) {
	manager := gatetest.NewAddress()
	x, y, z := gatetest.NewAddress(), gatetest.NewAddress(), gatetest.NewAddress()
	alice := gatetest.NewAddress()
	f := newFixture(t, []gatekeeper.Address{x, y, z}, 3, manager)

	id, _, err := f.c.Submit(f.ctx, f.db, x, alice, ActionGrant)
	assert.Nil(t, err)
	_, err = f.c.Confirm(f.ctx, f.db, y, id)
	assert.Nil(t, err)

	if err := f.c.Execute(f.ctx, f.db, id); !ErrInsufficientConfirmations.Is(err) {
		t.Fatalf("want insufficient confirmations, got %+v", err)
	}

	// Removing z lowers the threshold to 2, but the transaction is not
	// executed until somebody asks for it.
	assert.Nil(t, f.reg.RemoveOwner(f.ctx, f.db, manager, z))
	th, err := f.reg.Threshold(f.db)
	assert.Nil(t, err)
	assert.Equal(t, uint32(2), th)
	assert.Equal(t, false, f.tx(t, id).Executed)
	assert.Equal(t, false, f.allowed(t, alice))

	// Execute requires no owner.
	assert.Nil(t, f.c.Execute(f.ctx, f.db, id))
	assert.Equal(t, true, f.tx(t, id).Executed)
	assert.Equal(t, true, f.allowed(t, alice))
}

func TestConfirmAfterThresholdDropExecutes(t *testing.T) {
	manager := gatetest.NewAddress()
	x, y, z := gatetest.NewAddress(), gatetest.NewAddress(), gatetest.NewAddress()
	alice := gatetest.NewAddress()
	f := newFixture(t, []gatekeeper.Address{x, y, z}, 3, manager)

	id, _, err := f.c.Submit(f.ctx, f.db, x, alice, ActionGrant)
	assert.Nil(t, err)
	assert.Nil(t, f.c.Revoke(f.ctx, f.db, x, id))
	assert.Nil(t, f.reg.SetThreshold(f.ctx, f.db, manager, 1))

	executed, err := f.c.Confirm(f.ctx, f.db, y, id)
	assert.Nil(t, err)
	assert.Equal(t, true, executed)
	assert.Equal(t, true, f.allowed(t, alice))
}

func TestConfirmPreconditions(t *testing.T) {
	x, y, z := gatetest.NewAddress(), gatetest.NewAddress(), gatetest.NewAddress()
	w := gatetest.NewAddress()

	cases := map[string]struct {
		caller  gatekeeper.Address
		id      uint64
		wantErr *errors.Error
	}{
		"second owner confirms": {
			caller: y,
			id:     0,
		},
		"submitter confirms again": {
			caller:  x,
			id:      0,
			wantErr: ErrAlreadyConfirmed,
		},
		"non owner": {
			caller:  w,
			id:      0,
			wantErr: errors.ErrUnauthorized,
		},
		"non owner and invalid id": {
			caller:  w,
			id:      7,
			wantErr: errors.ErrUnauthorized,
		},
		"invalid id": {
			caller:  y,
			id:      3,
			wantErr: ErrInvalidTransactionID,
		},
		"executed transaction": {
			caller:  z,
			id:      2,
			wantErr: ErrTransactionAlreadyExecuted,
		},
		"executed transaction already confirmed": {
			caller:  x,
			id:      2,
			wantErr: ErrTransactionAlreadyExecuted,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, []gatekeeper.Address{x, y, z}, 3, nil)
			_, _, err := f.c.Submit(f.ctx, f.db, x, gatetest.NewAddress(), ActionGrant)
			assert.Nil(t, err)
			// #1 stays pending, #2 gets executed
			_, _, err = f.c.Submit(f.ctx, f.db, x, gatetest.NewAddress(), ActionGrant)
			assert.Nil(t, err)
			_, _, err = f.c.Submit(f.ctx, f.db, x, gatetest.NewAddress(), ActionGrant)
			assert.Nil(t, err)
			_, err = f.c.Confirm(f.ctx, f.db, y, 2)
			assert.Nil(t, err)
			executed, err := f.c.Confirm(f.ctx, f.db, z, 2)
			assert.Nil(t, err)
			assert.Equal(t, true, executed)

			cache := f.db.CacheWrap()
			_, err = f.c.Confirm(f.ctx, cache, tc.caller, tc.id)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				assert.Equal(t, 0, len(cache.(store.ShowOpser).ShowOps()))
			}
		})
	}
}

func TestRevokePreconditions(t *testing.T) {
	x, y, z := gatetest.NewAddress(), gatetest.NewAddress(), gatetest.NewAddress()
	w := gatetest.NewAddress()

	cases := map[string]struct {
		caller    gatekeeper.Address
		id        uint64
		wantErr   *errors.Error
		wantCount uint32
	}{
		"submitter revokes": {
			caller:    x,
			id:        0,
			wantCount: 0,
		},
		"owner that did not confirm": {
			caller:    y,
			id:        0,
			wantErr:   ErrNotConfirmed,
			wantCount: 1,
		},
		"non owner": {
			caller:    w,
			id:        0,
			wantErr:   errors.ErrUnauthorized,
			wantCount: 1,
		},
		"invalid id": {
			caller:    x,
			id:        9,
			wantErr:   ErrInvalidTransactionID,
			wantCount: 1,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, []gatekeeper.Address{x, y, z}, 2, nil)
			_, _, err := f.c.Submit(f.ctx, f.db, x, gatetest.NewAddress(), ActionRevoke)
			assert.Nil(t, err)

			err = f.c.Revoke(f.ctx, f.db, tc.caller, tc.id)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			tx := f.tx(t, 0)
			assert.Equal(t, tc.wantCount, tx.ConfirmationCount())
			assert.Equal(t, false, tx.Executed)
			if tc.wantErr == nil && tx.HasConfirmed(tc.caller) {
				t.Fatal("revoked owner still confirmed")
			}
		})
	}
}

func TestRevokeKeepsOtherConfirmations(t *testing.T) {
	x, y, z := gatetest.NewAddress(), gatetest.NewAddress(), gatetest.NewAddress()
	f := newFixture(t, []gatekeeper.Address{x, y, z}, 3, nil)

	id, _, err := f.c.Submit(f.ctx, f.db, x, gatetest.NewAddress(), ActionGrant)
	assert.Nil(t, err)
	_, err = f.c.Confirm(f.ctx, f.db, y, id)
	assert.Nil(t, err)

	assert.Nil(t, f.c.Revoke(f.ctx, f.db, x, id))
	tx := f.tx(t, id)
	assert.Equal(t, uint32(1), tx.ConfirmationCount())
	assert.Equal(t, true, tx.HasConfirmed(y))

	// a revoked owner may confirm again
	_, err = f.c.Confirm(f.ctx, f.db, x, id)
	assert.Nil(t, err)
	assert.Equal(t, uint32(2), f.tx(t, id).ConfirmationCount())
}

func TestSubmitInvalidInput(t *testing.T) {
	x := gatetest.NewAddress()
	f := newFixture(t, []gatekeeper.Address{x}, 1, nil)

	if _, _, err := f.c.Submit(f.ctx, f.db, x, nil, ActionGrant); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}
	if _, _, err := f.c.Submit(f.ctx, f.db, x, gatetest.NewAddress(), Action(9)); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}
}

func TestIndependentTransactions(t *testing.T) {
	x, y := gatetest.NewAddress(), gatetest.NewAddress()
	alice, bob := gatetest.NewAddress(), gatetest.NewAddress()
	f := newFixture(t, []gatekeeper.Address{x, y}, 2, nil)

	a, _, err := f.c.Submit(f.ctx, f.db, x, alice, ActionGrant)
	assert.Nil(t, err)
	b, _, err := f.c.Submit(f.ctx, f.db, y, bob, ActionGrant)
	assert.Nil(t, err)

	executed, err := f.c.Confirm(f.ctx, f.db, x, b)
	assert.Nil(t, err)
	assert.Equal(t, true, executed)
	assert.Equal(t, true, f.allowed(t, bob))
	assert.Equal(t, false, f.allowed(t, alice))
	assert.Equal(t, false, f.tx(t, a).Executed)
}

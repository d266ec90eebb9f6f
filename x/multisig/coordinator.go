package multisig

import (
	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/x/allowlist"
)

// Coordinator runs the transaction state machine. A transaction is
// proposed by an owner, collects confirmations and is executed once the
// number of confirmations reaches the threshold. Execution is terminal and
// is the only path that writes to the allowlist.
//
// Coordinator keeps no state of its own, all data lives in the store passed
// to each call.
type Coordinator struct {
	registry  *OwnerRegistry
	ledger    *Ledger
	allowlist allowlist.Writer
}

// NewCoordinator returns a coordinator. It is the only holder of the
// allowlist writer.
func NewCoordinator(registry *OwnerRegistry, ledger *Ledger, list allowlist.Writer) *Coordinator {
	return &Coordinator{
		registry:  registry,
		ledger:    ledger,
		allowlist: list,
	}
}

// requireOwner fails with ErrUnauthorized unless caller is an owner.
func (c *Coordinator) requireOwner(db gatekeeper.ReadOnlyKVStore, caller gatekeeper.Address) error {
	ok, err := c.registry.IsOwner(db, caller)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not an owner", caller)
	}
	return nil
}

// pending returns the transaction with given ID after checking that the
// caller is an owner and the transaction was not executed yet.
func (c *Coordinator) pending(db gatekeeper.ReadOnlyKVStore, caller gatekeeper.Address, id uint64) (*Transaction, error) {
	if err := c.requireOwner(db, caller); err != nil {
		return nil, err
	}
	tx, err := c.ledger.Get(db, id)
	if err != nil {
		return nil, err
	}
	if tx.Executed {
		return nil, errors.Wrapf(ErrTransactionAlreadyExecuted, "transaction %d", id)
	}
	return tx, nil
}

// Submit proposes a change of the target allowlist status and confirms it
// on behalf of the caller. With a threshold of 1 the transaction is executed
// right away. It returns the transaction ID and whether it was executed.
func (c *Coordinator) Submit(ctx gatekeeper.Context, db gatekeeper.KVStore, caller, target gatekeeper.Address, action Action) (uint64, bool, error) {
	if err := c.requireOwner(db, caller); err != nil {
		return 0, false, err
	}
	if err := target.Validate(); err != nil {
		return 0, false, errors.Wrap(err, "target")
	}
	if err := action.Validate(); err != nil {
		return 0, false, err
	}

	id, err := c.ledger.Append(db, target, action, caller)
	if err != nil {
		return 0, false, err
	}
	gatekeeper.Emit(ctx, gatekeeper.Event{
		Kind:          gatekeeper.EventTransactionSubmit,
		Caller:        caller,
		Address:       target,
		TransactionID: id,
		Allowed:       action.Allowed(),
	})

	executed, err := c.Confirm(ctx, db, caller, id)
	if err != nil {
		return 0, false, errors.Wrap(err, "cannot confirm")
	}
	return id, executed, nil
}

// Confirm adds the caller confirmation to a transaction. When the number
// of confirmations reaches the threshold the transaction is executed as
// part of this call. It returns whether the transaction was executed.
func (c *Coordinator) Confirm(ctx gatekeeper.Context, db gatekeeper.KVStore, caller gatekeeper.Address, id uint64) (bool, error) {
	tx, err := c.pending(db, caller, id)
	if err != nil {
		return false, err
	}
	if tx.HasConfirmed(caller) {
		return false, errors.Wrapf(ErrAlreadyConfirmed, "transaction %d by %s", id, caller)
	}

	tx.Confirmations = append(tx.Confirmations, caller.Clone())
	if err := c.ledger.Save(db, tx); err != nil {
		return false, err
	}
	gatekeeper.Emit(ctx, gatekeeper.Event{
		Kind:          gatekeeper.EventTransactionConfirm,
		Caller:        caller,
		Address:       tx.Target,
		TransactionID: id,
		Confirmations: tx.ConfirmationCount(),
	})

	threshold, err := c.registry.Threshold(db)
	if err != nil {
		return false, err
	}
	if tx.ConfirmationCount() < threshold {
		return false, nil
	}
	if err := c.apply(ctx, db, tx, caller); err != nil {
		return false, err
	}
	return true, nil
}

// Revoke withdraws the caller confirmation from a transaction. It never
// executes a transaction.
func (c *Coordinator) Revoke(ctx gatekeeper.Context, db gatekeeper.KVStore, caller gatekeeper.Address, id uint64) error {
	tx, err := c.pending(db, caller, id)
	if err != nil {
		return err
	}
	i := tx.confirmationIndex(caller)
	if i < 0 {
		return errors.Wrapf(ErrNotConfirmed, "transaction %d by %s", id, caller)
	}

	last := len(tx.Confirmations) - 1
	tx.Confirmations[i] = tx.Confirmations[last]
	tx.Confirmations = tx.Confirmations[:last]
	if err := c.ledger.Save(db, tx); err != nil {
		return err
	}
	gatekeeper.Emit(ctx, gatekeeper.Event{
		Kind:          gatekeeper.EventTransactionRevoke,
		Caller:        caller,
		Address:       tx.Target,
		TransactionID: id,
		Confirmations: tx.ConfirmationCount(),
	})
	return nil
}

// Execute applies a transaction that already has enough confirmations, for
// example one that became executable after the threshold was lowered. It
// does not require the caller to be an owner.
func (c *Coordinator) Execute(ctx gatekeeper.Context, db gatekeeper.KVStore, id uint64) error {
	tx, err := c.ledger.Get(db, id)
	if err != nil {
		return err
	}
	if tx.Executed {
		return errors.Wrapf(ErrTransactionAlreadyExecuted, "transaction %d", id)
	}
	threshold, err := c.registry.Threshold(db)
	if err != nil {
		return err
	}
	if tx.ConfirmationCount() < threshold {
		return errors.Wrapf(ErrInsufficientConfirmations, "%d of %d", tx.ConfirmationCount(), threshold)
	}
	return c.apply(ctx, db, tx, nil)
}

// apply marks the transaction executed and only then changes the
// allowlist, so that no path can apply the same transaction twice.
func (c *Coordinator) apply(ctx gatekeeper.Context, db gatekeeper.KVStore, tx *Transaction, caller gatekeeper.Address) error {
	tx.Executed = true
	if err := c.ledger.Save(db, tx); err != nil {
		return err
	}
	allowed := tx.Action.Allowed()
	if err := c.allowlist.Set(db, tx.Target, allowed, tx.ID); err != nil {
		return errors.Wrap(err, "cannot update allowlist")
	}

	gatekeeper.GetLogger(ctx).Info("transaction executed",
		"id", tx.ID, "target", tx.Target, "action", tx.Action)
	gatekeeper.Emit(ctx, gatekeeper.Event{
		Kind:          gatekeeper.EventTransactionExecuted,
		Caller:        caller,
		Address:       tx.Target,
		TransactionID: tx.ID,
		Confirmations: tx.ConfirmationCount(),
	})
	gatekeeper.Emit(ctx, gatekeeper.Event{
		Kind:          gatekeeper.EventAllowlistUpdated,
		Caller:        caller,
		Address:       tx.Target,
		Allowed:       allowed,
		TransactionID: tx.ID,
	})
	return nil
}

// IsAllowed exposes the read side of the allowlist.
func (c *Coordinator) IsAllowed(db gatekeeper.ReadOnlyKVStore, addr gatekeeper.Address) (bool, error) {
	return c.allowlist.IsAllowed(db, addr)
}

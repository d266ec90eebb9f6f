package multisig

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/x"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r gatekeeper.Registry, auth x.Authenticator, c *Coordinator) {
	r.Handle(PathSubmitMsg, &SubmitHandler{auth: auth, c: c})
	r.Handle(PathConfirmMsg, &ConfirmHandler{auth: auth, c: c})
	r.Handle(PathRevokeMsg, &RevokeHandler{auth: auth, c: c})
	r.Handle(PathExecuteMsg, &ExecuteHandler{auth: auth, c: c})
	r.Handle(PathAddOwnerMsg, &AddOwnerHandler{auth: auth, r: c.registry})
	r.Handle(PathRemoveOwnerMsg, &RemoveOwnerHandler{auth: auth, r: c.registry})
	r.Handle(PathSetThresholdMsg, &SetThresholdHandler{auth: auth, r: c.registry})
	r.Handle(PathSetManagerMsg, &SetManagerHandler{auth: auth, r: c.registry})
}

// Result is returned as the data of transaction messages.
type Result struct {
	TransactionID uint64 `json:"transaction_id"`
	Executed      bool   `json:"executed"`
}

func (r Result) deliverResult() (*gatekeeper.DeliverResult, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	log := fmt.Sprintf("transaction %d", r.TransactionID)
	if r.Executed {
		log += " executed"
	}
	return &gatekeeper.DeliverResult{Data: raw, Log: log}, nil
}

// caller returns the authenticated main signer of the request.
func caller(ctx gatekeeper.Context, auth x.Authenticator) (gatekeeper.Address, error) {
	addr := x.MainSigner(ctx, auth)
	if addr == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no caller")
	}
	return addr, nil
}

// checkResult runs the operation against the given store, which the
// caller discards, and reports the outcome.
func checkResult(res *gatekeeper.DeliverResult, err error) (*gatekeeper.CheckResult, error) {
	if err != nil {
		return nil, err
	}
	return &gatekeeper.CheckResult{Log: res.Log}, nil
}

// SubmitHandler proposes a new transaction.
type SubmitHandler struct {
	auth x.Authenticator
	c    *Coordinator
}

var _ gatekeeper.Handler = (*SubmitHandler)(nil)

func (h *SubmitHandler) Check(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.CheckResult, error) {
	return checkResult(h.Deliver(ctx, db, tx))
}

func (h *SubmitHandler) Deliver(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.DeliverResult, error) {
	from, msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	id, executed, err := h.c.Submit(ctx, db, from, msg.Target, msg.Action)
	if err != nil {
		return nil, err
	}
	return Result{TransactionID: id, Executed: executed}.deliverResult()
}

// validate does all common pre-processing between Check and Deliver
func (h *SubmitHandler) validate(ctx gatekeeper.Context, tx gatekeeper.Tx) (gatekeeper.Address, *SubmitMsg, error) {
	from, err := caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	var msg SubmitMsg
	if err := gatekeeper.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	return from, &msg, nil
}

// ConfirmHandler confirms a transaction, executing it when the threshold is
// reached.
type ConfirmHandler struct {
	auth x.Authenticator
	c    *Coordinator
}

var _ gatekeeper.Handler = (*ConfirmHandler)(nil)

func (h *ConfirmHandler) Check(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.CheckResult, error) {
	return checkResult(h.Deliver(ctx, db, tx))
}

func (h *ConfirmHandler) Deliver(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.DeliverResult, error) {
	from, err := caller(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	var msg ConfirmMsg
	if err := gatekeeper.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	executed, err := h.c.Confirm(ctx, db, from, msg.TransactionID)
	if err != nil {
		return nil, err
	}
	return Result{TransactionID: msg.TransactionID, Executed: executed}.deliverResult()
}

// RevokeHandler withdraws a confirmation.
type RevokeHandler struct {
	auth x.Authenticator
	c    *Coordinator
}

var _ gatekeeper.Handler = (*RevokeHandler)(nil)

func (h *RevokeHandler) Check(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.CheckResult, error) {
	return checkResult(h.Deliver(ctx, db, tx))
}

func (h *RevokeHandler) Deliver(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.DeliverResult, error) {
	from, err := caller(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	var msg RevokeMsg
	if err := gatekeeper.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.c.Revoke(ctx, db, from, msg.TransactionID); err != nil {
		return nil, err
	}
	return Result{TransactionID: msg.TransactionID}.deliverResult()
}

// ExecuteHandler executes a transaction that has enough confirmations.
// Any authenticated caller may trigger it.
type ExecuteHandler struct {
	auth x.Authenticator
	c    *Coordinator
}

var _ gatekeeper.Handler = (*ExecuteHandler)(nil)

func (h *ExecuteHandler) Check(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.CheckResult, error) {
	return checkResult(h.Deliver(ctx, db, tx))
}

func (h *ExecuteHandler) Deliver(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.DeliverResult, error) {
	if _, err := caller(ctx, h.auth); err != nil {
		return nil, err
	}
	var msg ExecuteMsg
	if err := gatekeeper.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.c.Execute(ctx, db, msg.TransactionID); err != nil {
		return nil, err
	}
	return Result{TransactionID: msg.TransactionID, Executed: true}.deliverResult()
}

// AddOwnerHandler adds an owner. Only the allowlist manager may call it.
type AddOwnerHandler struct {
	auth x.Authenticator
	r    *OwnerRegistry
}

var _ gatekeeper.Handler = (*AddOwnerHandler)(nil)

func (h *AddOwnerHandler) Check(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.CheckResult, error) {
	return checkResult(h.Deliver(ctx, db, tx))
}

func (h *AddOwnerHandler) Deliver(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.DeliverResult, error) {
	from, err := caller(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	var msg AddOwnerMsg
	if err := gatekeeper.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.r.AddOwner(ctx, db, from, msg.Owner); err != nil {
		return nil, err
	}
	return &gatekeeper.DeliverResult{Log: "owner added"}, nil
}

// RemoveOwnerHandler removes an owner. Only the allowlist manager may call
// it.
type RemoveOwnerHandler struct {
	auth x.Authenticator
	r    *OwnerRegistry
}

var _ gatekeeper.Handler = (*RemoveOwnerHandler)(nil)

func (h *RemoveOwnerHandler) Check(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.CheckResult, error) {
	return checkResult(h.Deliver(ctx, db, tx))
}

func (h *RemoveOwnerHandler) Deliver(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.DeliverResult, error) {
	from, err := caller(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	var msg RemoveOwnerMsg
	if err := gatekeeper.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.r.RemoveOwner(ctx, db, from, msg.Owner); err != nil {
		return nil, err
	}
	return &gatekeeper.DeliverResult{Log: "owner removed"}, nil
}

// SetThresholdHandler changes the threshold. Only the allowlist manager may
// call it.
type SetThresholdHandler struct {
	auth x.Authenticator
	r    *OwnerRegistry
}

var _ gatekeeper.Handler = (*SetThresholdHandler)(nil)

func (h *SetThresholdHandler) Check(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.CheckResult, error) {
	return checkResult(h.Deliver(ctx, db, tx))
}

func (h *SetThresholdHandler) Deliver(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.DeliverResult, error) {
	from, err := caller(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	var msg SetThresholdMsg
	if err := gatekeeper.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.r.SetThreshold(ctx, db, from, msg.Threshold); err != nil {
		return nil, err
	}
	return &gatekeeper.DeliverResult{Log: fmt.Sprintf("threshold set to %d", msg.Threshold)}, nil
}

// SetManagerHandler hands over the allowlist manager role.
type SetManagerHandler struct {
	auth x.Authenticator
	r    *OwnerRegistry
}

var _ gatekeeper.Handler = (*SetManagerHandler)(nil)

func (h *SetManagerHandler) Check(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.CheckResult, error) {
	return checkResult(h.Deliver(ctx, db, tx))
}

func (h *SetManagerHandler) Deliver(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.DeliverResult, error) {
	from, err := caller(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	var msg SetManagerMsg
	if err := gatekeeper.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.r.SetManager(ctx, db, from, msg.Manager); err != nil {
		return nil, err
	}
	return &gatekeeper.DeliverResult{Log: "allowlist manager changed"}, nil
}

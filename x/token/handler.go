package token

import (
	"fmt"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/x"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r gatekeeper.Registry, auth x.Authenticator, c *Controller) {
	r.Handle(PathTransferMsg, &TransferHandler{auth: auth, c: c})
	r.Handle(PathBurnMsg, &BurnHandler{auth: auth, c: c})
}

// TransferHandler moves tokens owned by the caller to an allowed address.
type TransferHandler struct {
	auth x.Authenticator
	c    *Controller
}

var _ gatekeeper.Handler = (*TransferHandler)(nil)

func (h *TransferHandler) Check(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.CheckResult, error) {
	res, err := h.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &gatekeeper.CheckResult{Log: res.Log}, nil
}

func (h *TransferHandler) Deliver(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.DeliverResult, error) {
	from, msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.c.Transfer(db, from, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &gatekeeper.DeliverResult{
		Log: fmt.Sprintf("%d transferred to %s", msg.Amount, msg.Destination),
	}, nil
}

func (h *TransferHandler) validate(ctx gatekeeper.Context, tx gatekeeper.Tx) (gatekeeper.Address, *TransferMsg, error) {
	var msg TransferMsg
	if err := gatekeeper.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	from := x.MainSigner(ctx, h.auth)
	if from == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no caller")
	}
	return from, &msg, nil
}

// BurnHandler destroys tokens owned by the caller.
type BurnHandler struct {
	auth x.Authenticator
	c    *Controller
}

var _ gatekeeper.Handler = (*BurnHandler)(nil)

func (h *BurnHandler) Check(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.CheckResult, error) {
	res, err := h.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &gatekeeper.CheckResult{Log: res.Log}, nil
}

func (h *BurnHandler) Deliver(ctx gatekeeper.Context, db gatekeeper.KVStore, tx gatekeeper.Tx) (*gatekeeper.DeliverResult, error) {
	var msg BurnMsg
	if err := gatekeeper.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	from := x.MainSigner(ctx, h.auth)
	if from == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no caller")
	}
	if err := h.c.Burn(db, from, msg.Amount); err != nil {
		return nil, err
	}
	return &gatekeeper.DeliverResult{Log: fmt.Sprintf("%d burned", msg.Amount)}, nil
}

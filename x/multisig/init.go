package multisig

import (
	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
)

// Genesis is the "multisig" section of the genesis file.
type Genesis struct {
	Owners    []gatekeeper.Address `json:"owners"`
	Threshold uint32               `json:"threshold"`
	// Manager is optional, CoordinatorAddress is used when not set, which
	// freezes the owner set and threshold.
	Manager gatekeeper.Address `json:"manager"`
}

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct {
	Registry *OwnerRegistry
}

var _ gatekeeper.Initializer = (*Initializer)(nil)

// FromGenesis creates the owner registry. It must be run exactly once,
// running it on an initialized store fails with ErrState.
func (i *Initializer) FromGenesis(ctx gatekeeper.Context, opts gatekeeper.Options, db gatekeeper.KVStore) error {
	var g Genesis
	if err := opts.ReadOptions("multisig", &g); err != nil {
		return err
	}
	reg := i.Registry
	if reg == nil {
		reg = NewOwnerRegistry()
	}
	if err := reg.Init(db, g.Owners, g.Threshold, g.Manager); err != nil {
		return errors.Wrap(err, "multisig genesis")
	}
	logger := gatekeeper.GetLogger(ctx)
	logger.Info("multisig initialized",
		"owners", len(g.Owners), "threshold", g.Threshold)
	if g.Manager.IsNull() {
		logger.Error("no allowlist manager configured, owner set and threshold cannot be changed")
	}
	return nil
}

package token

import (
	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
)

const optKey = "token"

// Genesis is the "token" section of the genesis file.
type Genesis struct {
	Name     string             `json:"name"`
	Symbol   string             `json:"symbol"`
	Decimals uint32             `json:"decimals"`
	Supply   uint64             `json:"supply"`
	Holder   gatekeeper.Address `json:"holder"`
}

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct {
	Controller *Controller
}

var _ gatekeeper.Initializer = (*Initializer)(nil)

// FromGenesis issues the token. A genesis without a token section issues
// nothing.
func (i *Initializer) FromGenesis(ctx gatekeeper.Context, opts gatekeeper.Options, db gatekeeper.KVStore) error {
	if _, ok := opts[optKey]; !ok {
		return nil
	}
	var g Genesis
	if err := opts.ReadOptions(optKey, &g); err != nil {
		return err
	}
	info := TokenInfo{
		Metadata: &gatekeeper.Metadata{Schema: 1},
		Name:     g.Name,
		Symbol:   g.Symbol,
		Decimals: g.Decimals,
		Supply:   g.Supply,
	}
	if err := i.Controller.Issue(db, &info, g.Holder); err != nil {
		return errors.Wrap(err, "token genesis")
	}
	gatekeeper.GetLogger(ctx).Info("token issued",
		"symbol", g.Symbol, "supply", g.Supply, "holder", g.Holder)
	return nil
}

package token

import (
	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
)

const (
	QueryWalletsPath = "token/wallets"
	QueryInfoPath    = "token/info"
)

// Balance is the query representation of a wallet.
type Balance struct {
	Address gatekeeper.Address `json:"address"`
	Balance uint64             `json:"balance"`
}

// RegisterQuery registers the wallet and the token description queries.
func RegisterQuery(qr gatekeeper.QueryRegistry, c *Controller) {
	qr.Register(QueryWalletsPath, walletsQuery{c: c})
	qr.Register(QueryInfoPath, infoQuery{c: c})
}

type walletsQuery struct {
	c *Controller
}

// Query returns the balance of the address given as data, or all non empty
// wallets when data is empty.
func (q walletsQuery) Query(db gatekeeper.ReadOnlyKVStore, data []byte) (interface{}, error) {
	if len(data) == 0 {
		var wallets []*Wallet
		keys, err := q.c.wallets.All(db, &wallets)
		if err != nil {
			return nil, errors.Wrap(err, "cannot list wallets")
		}
		res := make([]Balance, len(wallets))
		for i, w := range wallets {
			res[i] = Balance{Address: gatekeeper.Address(keys[i]), Balance: w.Balance}
		}
		return res, nil
	}
	addr, err := gatekeeper.ParseAddress(string(data))
	if err != nil {
		return nil, err
	}
	bal, err := q.c.Balance(db, addr)
	if err != nil {
		return nil, err
	}
	return Balance{Address: addr, Balance: bal}, nil
}

type infoQuery struct {
	c *Controller
}

func (q infoQuery) Query(db gatekeeper.ReadOnlyKVStore, data []byte) (interface{}, error) {
	return q.c.Info(db)
}

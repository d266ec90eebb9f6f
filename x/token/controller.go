package token

import (
	"math"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/orm"
	"github.com/iov-one/gatekeeper/x/allowlist"
)

const (
	// WalletBucket holds balances keyed by address.
	WalletBucket = "wallet"
	// InfoBucket holds the single token description.
	InfoBucket = "tokeninfo"
)

var infoKey = []byte("info")

// Controller moves tokens between wallets. Every operation that gives
// tokens to an address other than the null identity asks the allowlist
// first.
type Controller struct {
	wallets   orm.ModelBucket
	info      orm.ModelBucket
	allowlist allowlist.Reader
}

// NewController returns a controller that gates transfers with given
// allowlist.
func NewController(list allowlist.Reader) *Controller {
	return &Controller{
		wallets:   orm.NewModelBucket(WalletBucket, &Wallet{}),
		info:      orm.NewModelBucket(InfoBucket, &TokenInfo{}),
		allowlist: list,
	}
}

// Info returns the token description. It fails with ErrState if the token
// was never issued.
func (c *Controller) Info(db gatekeeper.ReadOnlyKVStore) (*TokenInfo, error) {
	var info TokenInfo
	switch err := c.info.One(db, infoKey, &info); {
	case err == nil:
		return &info, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(errors.ErrState, "token not issued")
	default:
		return nil, err
	}
}

// Balance returns the number of tokens owned by given address.
func (c *Controller) Balance(db gatekeeper.ReadOnlyKVStore, addr gatekeeper.Address) (uint64, error) {
	w, err := c.wallet(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

func (c *Controller) wallet(db gatekeeper.ReadOnlyKVStore, addr gatekeeper.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.wallets.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Metadata: &gatekeeper.Metadata{Schema: 1}}, nil
	default:
		return nil, errors.Wrap(err, "cannot load wallet")
	}
}

func (c *Controller) save(db gatekeeper.KVStore, addr gatekeeper.Address, w *Wallet) error {
	if w.Balance == 0 {
		switch err := c.wallets.Delete(db, addr); {
		case err == nil, errors.ErrNotFound.Is(err):
			return nil
		default:
			return err
		}
	}
	return c.wallets.Put(db, addr, w)
}

// Issue creates the token and credits the whole supply to the holder. The
// tokens come from the null identity, so the holder needs no allowlist
// entry. It can be called only once.
func (c *Controller) Issue(db gatekeeper.KVStore, info *TokenInfo, holder gatekeeper.Address) error {
	if _, err := c.Info(db); err == nil {
		return errors.Wrap(errors.ErrState, "token already issued")
	} else if !errors.ErrState.Is(err) {
		return err
	}
	if err := holder.Validate(); err != nil {
		return errors.Wrap(err, "holder")
	}
	if err := c.info.Put(db, infoKey, info); err != nil {
		return err
	}
	return c.save(db, holder, &Wallet{
		Metadata: &gatekeeper.Metadata{Schema: 1},
		Balance:  info.Supply,
	})
}

// Transfer moves amount tokens from src to dest. The destination must be
// allowed.
func (c *Controller) Transfer(db gatekeeper.KVStore, src, dest gatekeeper.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}
	if dest.IsNull() {
		return errors.Wrap(errors.ErrInput, "null destination, use burn")
	}
	switch ok, err := c.allowlist.IsAllowed(db, dest); {
	case err != nil:
		return err
	case !ok:
		return errors.Wrapf(ErrNotAllowed, "%s", dest)
	}

	sender, err := c.wallet(db, src)
	if err != nil {
		return err
	}
	if sender.Balance < amount {
		return errors.Wrapf(errors.ErrAmount, "balance %d, want %d", sender.Balance, amount)
	}
	if src.Equals(dest) {
		return nil
	}
	recipient, err := c.wallet(db, dest)
	if err != nil {
		return err
	}
	if recipient.Balance > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}
	sender.Balance -= amount
	recipient.Balance += amount

	if err := c.save(db, src, sender); err != nil {
		return err
	}
	return c.save(db, dest, recipient)
}

// Burn destroys amount tokens owned by src, lowering the supply. The null
// identity receives them, so no allowlist entry is consulted.
func (c *Controller) Burn(db gatekeeper.KVStore, src gatekeeper.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero burn")
	}
	info, err := c.Info(db)
	if err != nil {
		return err
	}
	w, err := c.wallet(db, src)
	if err != nil {
		return err
	}
	if w.Balance < amount {
		return errors.Wrapf(errors.ErrAmount, "balance %d, want %d", w.Balance, amount)
	}
	w.Balance -= amount
	info.Supply -= amount
	if err := c.save(db, src, w); err != nil {
		return err
	}
	return c.info.Put(db, infoKey, info)
}

package multisig

import (
	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/orm"
)

const (
	// RegistryBucket holds the single registry record.
	RegistryBucket = "msregistry"
)

var registryKey = []byte("registry")

// OwnerRegistry manages the owner set, the threshold and the allowlist
// manager. Every change is restricted to the allowlist manager.
type OwnerRegistry struct {
	bucket orm.ModelBucket
}

// NewOwnerRegistry returns a registry using the default bucket.
func NewOwnerRegistry() *OwnerRegistry {
	return &OwnerRegistry{
		bucket: orm.NewModelBucket(RegistryBucket, &Registry{}),
	}
}

// Load returns the registry record. It fails with ErrState if the registry
// was never initialized.
func (r *OwnerRegistry) Load(db gatekeeper.ReadOnlyKVStore) (*Registry, error) {
	var reg Registry
	switch err := r.bucket.One(db, registryKey, &reg); {
	case err == nil:
		return &reg, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(errors.ErrState, "registry not initialized")
	default:
		return nil, errors.Wrap(err, "cannot load registry")
	}
}

// Initialized returns true once the registry record exists.
func (r *OwnerRegistry) Initialized(db gatekeeper.ReadOnlyKVStore) (bool, error) {
	switch err := r.bucket.Has(db, registryKey); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// Init creates the registry record. It can be called only once.
func (r *OwnerRegistry) Init(db gatekeeper.KVStore, owners []gatekeeper.Address, threshold uint32, manager gatekeeper.Address) error {
	switch ok, err := r.Initialized(db); {
	case err != nil:
		return err
	case ok:
		return errors.Wrap(errors.ErrState, "registry already initialized")
	}
	if err := validateOwners(owners, true); err != nil {
		return err
	}
	if manager.IsNull() {
		manager = CoordinatorAddress
	}
	reg := Registry{
		Metadata:  &gatekeeper.Metadata{Schema: 1},
		Owners:    cloneAddresses(owners),
		Threshold: threshold,
		Manager:   manager.Clone(),
	}
	return r.save(db, &reg)
}

func (r *OwnerRegistry) save(db gatekeeper.KVStore, reg *Registry) error {
	if err := r.bucket.Put(db, registryKey, reg); err != nil {
		return errors.Wrap(err, "cannot save registry")
	}
	return nil
}

// IsOwner returns true if given address belongs to the owner set.
func (r *OwnerRegistry) IsOwner(db gatekeeper.ReadOnlyKVStore, addr gatekeeper.Address) (bool, error) {
	reg, err := r.Load(db)
	if err != nil {
		return false, err
	}
	return !addr.IsNull() && reg.ownerIndex(addr) >= 0, nil
}

// Owners returns the current owner set. Order is not meaningful.
func (r *OwnerRegistry) Owners(db gatekeeper.ReadOnlyKVStore) ([]gatekeeper.Address, error) {
	reg, err := r.Load(db)
	if err != nil {
		return nil, err
	}
	return reg.Owners, nil
}

// Threshold returns the number of confirmations that executes a
// transaction.
func (r *OwnerRegistry) Threshold(db gatekeeper.ReadOnlyKVStore) (uint32, error) {
	reg, err := r.Load(db)
	if err != nil {
		return 0, err
	}
	return reg.Threshold, nil
}

// Manager returns the current allowlist manager.
func (r *OwnerRegistry) Manager(db gatekeeper.ReadOnlyKVStore) (gatekeeper.Address, error) {
	reg, err := r.Load(db)
	if err != nil {
		return nil, err
	}
	return reg.Manager, nil
}

// managed loads the registry after making sure the caller is the manager.
func (r *OwnerRegistry) managed(db gatekeeper.ReadOnlyKVStore, caller gatekeeper.Address) (*Registry, error) {
	reg, err := r.Load(db)
	if err != nil {
		return nil, err
	}
	if caller.IsNull() || !reg.Manager.Equals(caller) {
		return nil, errors.Wrapf(ErrNotAllowlistManager, "caller %s", caller)
	}
	return reg, nil
}

// AddOwner appends an address to the owner set.
func (r *OwnerRegistry) AddOwner(ctx gatekeeper.Context, db gatekeeper.KVStore, caller, owner gatekeeper.Address) error {
	reg, err := r.managed(db, caller)
	if err != nil {
		return err
	}
	if owner.IsNull() {
		return errors.Wrap(ErrInvalidOwner, "null owner")
	}
	if err := owner.Validate(); err != nil {
		return errors.Wrap(ErrInvalidOwner, err.Error())
	}
	if reg.ownerIndex(owner) >= 0 {
		return errors.Wrapf(ErrOwnerAlreadyExists, "owner %s", owner)
	}
	reg.Owners = append(reg.Owners, owner.Clone())
	if err := r.save(db, reg); err != nil {
		return err
	}
	gatekeeper.Emit(ctx, gatekeeper.Event{
		Kind:    gatekeeper.EventOwnerAdded,
		Caller:  caller,
		Address: owner,
	})
	return nil
}

// RemoveOwner removes an address from the owner set. The last owner takes
// the place of the removed one. If the threshold exceeds the remaining
// number of owners it is lowered to that number, but never below 1.
// Removing the last owner is allowed.
func (r *OwnerRegistry) RemoveOwner(ctx gatekeeper.Context, db gatekeeper.KVStore, caller, owner gatekeeper.Address) error {
	reg, err := r.managed(db, caller)
	if err != nil {
		return err
	}
	i := reg.ownerIndex(owner)
	if owner.IsNull() || i < 0 {
		return errors.Wrapf(ErrInvalidOwner, "%s is not an owner", owner)
	}
	last := len(reg.Owners) - 1
	reg.Owners[i] = reg.Owners[last]
	reg.Owners = reg.Owners[:last]

	clamped := false
	if n := uint32(len(reg.Owners)); reg.Threshold > n && n > 0 {
		reg.Threshold = n
		clamped = true
	}
	if err := r.save(db, reg); err != nil {
		return err
	}

	gatekeeper.Emit(ctx, gatekeeper.Event{
		Kind:    gatekeeper.EventOwnerRemoved,
		Caller:  caller,
		Address: owner,
	})
	if clamped {
		gatekeeper.Emit(ctx, gatekeeper.Event{
			Kind:      gatekeeper.EventThresholdChanged,
			Caller:    caller,
			Threshold: reg.Threshold,
		})
	}
	if len(reg.Owners) == 0 {
		gatekeeper.GetLogger(ctx).Info("last owner removed, no transaction can be submitted")
	}
	return nil
}

// SetThreshold changes the number of confirmations that executes a
// transaction. It must be between 1 and the number of owners.
func (r *OwnerRegistry) SetThreshold(ctx gatekeeper.Context, db gatekeeper.KVStore, caller gatekeeper.Address, threshold uint32) error {
	reg, err := r.managed(db, caller)
	if err != nil {
		return err
	}
	if threshold < 1 || int(threshold) > len(reg.Owners) {
		return errors.Wrapf(ErrInvalidThreshold, "%d of %d owners", threshold, len(reg.Owners))
	}
	reg.Threshold = threshold
	if err := r.save(db, reg); err != nil {
		return err
	}
	gatekeeper.Emit(ctx, gatekeeper.Event{
		Kind:      gatekeeper.EventThresholdChanged,
		Caller:    caller,
		Threshold: threshold,
	})
	return nil
}

// SetManager hands the allowlist manager role to another identity.
func (r *OwnerRegistry) SetManager(ctx gatekeeper.Context, db gatekeeper.KVStore, caller, manager gatekeeper.Address) error {
	reg, err := r.managed(db, caller)
	if err != nil {
		return err
	}
	if manager.IsNull() {
		return errors.Wrap(errors.ErrInput, "null manager")
	}
	if err := manager.Validate(); err != nil {
		return err
	}
	reg.Manager = manager.Clone()
	if err := r.save(db, reg); err != nil {
		return err
	}
	gatekeeper.Emit(ctx, gatekeeper.Event{
		Kind:    gatekeeper.EventManagerChanged,
		Caller:  caller,
		Address: manager,
	})
	return nil
}

func cloneAddresses(addrs []gatekeeper.Address) []gatekeeper.Address {
	res := make([]gatekeeper.Address, len(addrs))
	for i, a := range addrs {
		res[i] = a.Clone()
	}
	return res
}

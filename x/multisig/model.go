package multisig

import (
	"encoding/json"
	"strings"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
)

// CoordinatorAddress is the identity of the coordinator itself. It is the
// default allowlist manager when the genesis names none.
//
// No caller can act as this address, so with the default in place
// AddOwner, RemoveOwner, SetThreshold and SetManager always fail with
// ErrNotAllowlistManager and the owner set stays as loaded from the
// genesis for the life of the store. Set "manager" in the multisig genesis
// section to keep the owner set adjustable.
var CoordinatorAddress = gatekeeper.NewCondition("multisig", "coordinator", nil).Address()

// Action is the change a transaction applies to the allowlist.
type Action int32

const (
	ActionGrant  Action = 1
	ActionRevoke Action = 2
)

var actionNames = map[Action]string{
	ActionGrant:  "grant",
	ActionRevoke: "revoke",
}

// Validate returns an error for unknown actions.
func (a Action) Validate() error {
	if _, ok := actionNames[a]; !ok {
		return errors.Wrapf(errors.ErrInput, "unknown action %d", a)
	}
	return nil
}

// Allowed returns the allowlist status applying this action produces.
func (a Action) Allowed() bool {
	return a == ActionGrant
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON uses the action name.
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts the action name.
func (a *Action) UnmarshalJSON(raw []byte) error {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return errors.Wrap(errors.ErrInput, "action must be a string")
	}
	for act, n := range actionNames {
		if strings.EqualFold(n, name) {
			*a = act
			return nil
		}
	}
	return errors.Wrapf(errors.ErrInput, "unknown action %q", name)
}

// Validate checks the registry invariants. An empty owner set is valid, as
// the last owner may be removed.
func (r *Registry) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", r.Metadata.Validate())
	errs = errors.AppendField(errs, "Owners", validateOwners(r.Owners, false))
	if r.Threshold < 1 || (len(r.Owners) > 0 && int(r.Threshold) > len(r.Owners)) {
		errs = errors.AppendField(errs, "Threshold",
			errors.Wrapf(ErrInvalidThreshold, "%d of %d owners", r.Threshold, len(r.Owners)))
	}
	errs = errors.AppendField(errs, "Manager", r.Manager.Validate())
	return errs
}

// validateOwners returns an error for null, malformed or repeated entries.
func validateOwners(owners []gatekeeper.Address, required bool) error {
	if required && len(owners) == 0 {
		return errors.Wrap(ErrInvalidOwner, "no owners")
	}
	seen := make(map[string]struct{}, len(owners))
	for i, o := range owners {
		if o.IsNull() {
			return errors.Wrapf(ErrInvalidOwner, "owner %d is null", i)
		}
		if err := o.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidOwner, "owner %d: %s", i, err)
		}
		if _, ok := seen[string(o)]; ok {
			return errors.Wrapf(ErrOwnerAlreadyExists, "owner %s", o)
		}
		seen[string(o)] = struct{}{}
	}
	return nil
}

// ownerIndex returns the position of given address in the owner set or -1.
func (r *Registry) ownerIndex(addr gatekeeper.Address) int {
	for i, o := range r.Owners {
		if o.Equals(addr) {
			return i
		}
	}
	return -1
}

// Validate checks the transaction invariants.
func (t *Transaction) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", t.Metadata.Validate())
	errs = errors.AppendField(errs, "Target", t.Target.Validate())
	errs = errors.AppendField(errs, "Action", t.Action.Validate())
	errs = errors.AppendField(errs, "Submitter", t.Submitter.Validate())
	seen := make(map[string]struct{}, len(t.Confirmations))
	for _, c := range t.Confirmations {
		if err := c.Validate(); err != nil {
			errs = errors.AppendField(errs, "Confirmations", err)
			break
		}
		if _, ok := seen[string(c)]; ok {
			errs = errors.AppendField(errs, "Confirmations",
				errors.Wrapf(ErrAlreadyConfirmed, "repeated %s", c))
			break
		}
		seen[string(c)] = struct{}{}
	}
	return errs
}

// ConfirmationCount returns the number of owners that confirmed this
// transaction.
func (t *Transaction) ConfirmationCount() uint32 {
	return uint32(len(t.Confirmations))
}

// HasConfirmed returns true if given owner confirmed this transaction.
func (t *Transaction) HasConfirmed(owner gatekeeper.Address) bool {
	return t.confirmationIndex(owner) >= 0
}

func (t *Transaction) confirmationIndex(owner gatekeeper.Address) int {
	for i, c := range t.Confirmations {
		if c.Equals(owner) {
			return i
		}
	}
	return -1
}

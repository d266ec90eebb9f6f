package multisig

import (
	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
)

const (
	PathSubmitMsg       = "multisig/submit"
	PathConfirmMsg      = "multisig/confirm"
	PathRevokeMsg       = "multisig/revoke"
	PathExecuteMsg      = "multisig/execute"
	PathAddOwnerMsg     = "multisig/add_owner"
	PathRemoveOwnerMsg  = "multisig/remove_owner"
	PathSetThresholdMsg = "multisig/set_threshold"
	PathSetManagerMsg   = "multisig/set_manager"
)

var _ gatekeeper.Msg = (*SubmitMsg)(nil)

// Path fulfills gatekeeper.Msg interface to allow routing
func (SubmitMsg) Path() string {
	return PathSubmitMsg
}

// Validate checks the target and the action.
func (m *SubmitMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Target", m.Target.Validate())
	errs = errors.AppendField(errs, "Action", m.Action.Validate())
	return errs
}

var _ gatekeeper.Msg = (*ConfirmMsg)(nil)

// Path fulfills gatekeeper.Msg interface to allow routing
func (ConfirmMsg) Path() string {
	return PathConfirmMsg
}

func (m *ConfirmMsg) Validate() error {
	return errors.Field("Metadata", m.Metadata.Validate())
}

var _ gatekeeper.Msg = (*RevokeMsg)(nil)

// Path fulfills gatekeeper.Msg interface to allow routing
func (RevokeMsg) Path() string {
	return PathRevokeMsg
}

func (m *RevokeMsg) Validate() error {
	return errors.Field("Metadata", m.Metadata.Validate())
}

var _ gatekeeper.Msg = (*ExecuteMsg)(nil)

// Path fulfills gatekeeper.Msg interface to allow routing
func (ExecuteMsg) Path() string {
	return PathExecuteMsg
}

func (m *ExecuteMsg) Validate() error {
	return errors.Field("Metadata", m.Metadata.Validate())
}

var _ gatekeeper.Msg = (*AddOwnerMsg)(nil)

// Path fulfills gatekeeper.Msg interface to allow routing
func (AddOwnerMsg) Path() string {
	return PathAddOwnerMsg
}

// Validate requires metadata only. A null owner is rejected by the registry
// with ErrInvalidOwner.
func (m *AddOwnerMsg) Validate() error {
	return errors.Field("Metadata", m.Metadata.Validate())
}

var _ gatekeeper.Msg = (*RemoveOwnerMsg)(nil)

// Path fulfills gatekeeper.Msg interface to allow routing
func (RemoveOwnerMsg) Path() string {
	return PathRemoveOwnerMsg
}

func (m *RemoveOwnerMsg) Validate() error {
	return errors.Field("Metadata", m.Metadata.Validate())
}

var _ gatekeeper.Msg = (*SetThresholdMsg)(nil)

// Path fulfills gatekeeper.Msg interface to allow routing
func (SetThresholdMsg) Path() string {
	return PathSetThresholdMsg
}

func (m *SetThresholdMsg) Validate() error {
	return errors.Field("Metadata", m.Metadata.Validate())
}

var _ gatekeeper.Msg = (*SetManagerMsg)(nil)

// Path fulfills gatekeeper.Msg interface to allow routing
func (SetManagerMsg) Path() string {
	return PathSetManagerMsg
}

func (m *SetManagerMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Manager.IsNull() {
		errs = errors.AppendField(errs, "Manager", errors.Wrap(errors.ErrInput, "null manager"))
	} else {
		errs = errors.AppendField(errs, "Manager", m.Manager.Validate())
	}
	return errs
}

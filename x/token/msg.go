package token

import (
	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
)

const (
	PathTransferMsg = "token/transfer"
	PathBurnMsg     = "token/burn"
)

var _ gatekeeper.Msg = (*TransferMsg)(nil)

// Path fulfills gatekeeper.Msg interface to allow routing
func (TransferMsg) Path() string {
	return PathTransferMsg
}

func (m *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	}
	return errs
}

var _ gatekeeper.Msg = (*BurnMsg)(nil)

// Path fulfills gatekeeper.Msg interface to allow routing
func (BurnMsg) Path() string {
	return PathBurnMsg
}

func (m *BurnMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	}
	return errs
}

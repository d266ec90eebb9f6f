package multisig

import "github.com/iov-one/gatekeeper/errors"

// multisig takes codes 1000-1099
var (
	ErrNotAllowlistManager        = errors.Register(1000, "caller is not the allowlist manager")
	ErrInvalidOwner               = errors.Register(1001, "invalid owner")
	ErrOwnerAlreadyExists         = errors.Register(1002, "owner already exists")
	ErrInvalidTransactionID       = errors.Register(1003, "invalid transaction id")
	ErrAlreadyConfirmed           = errors.Register(1004, "transaction already confirmed")
	ErrNotConfirmed               = errors.Register(1005, "transaction not confirmed")
	ErrTransactionAlreadyExecuted = errors.Register(1006, "transaction already executed")
	ErrInsufficientConfirmations  = errors.Register(1007, "insufficient confirmations")
	ErrInvalidThreshold           = errors.Register(1008, "invalid threshold")
)

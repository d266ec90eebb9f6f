package token

import "github.com/iov-one/gatekeeper/errors"

// token takes codes 1100-1199
var (
	ErrNotAllowed = errors.Register(1100, "destination not allowed")
)

/*
Package identity carries the identity of the caller of an operation through
the context. The transport layer authenticates the caller and stores the
address with WithCaller, handlers read it back through Authenticate.
*/
package identity

import (
	"context"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/x"
)

type contextKey int // local to the identity module

const (
	contextKeyCaller contextKey = iota
)

// WithCaller returns a context carrying given caller address. A null
// address leaves the context unauthenticated.
func WithCaller(ctx gatekeeper.Context, caller gatekeeper.Address) gatekeeper.Context {
	if caller.IsNull() {
		return ctx
	}
	return context.WithValue(ctx, contextKeyCaller, caller.Clone())
}

// Caller returns the caller set on this context, if any.
func Caller(ctx gatekeeper.Context) (gatekeeper.Address, bool) {
	val, ok := ctx.Value(contextKeyCaller).(gatekeeper.Address)
	return val, ok
}

// Authenticate gets the caller identity from the context.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetAddresses returns the caller previously set on this context
func (Authenticate) GetAddresses(ctx gatekeeper.Context) []gatekeeper.Address {
	caller, ok := Caller(ctx)
	if !ok {
		return nil
	}
	return []gatekeeper.Address{caller}
}

// HasAddress returns true iff this address is the caller
func (a Authenticate) HasAddress(ctx gatekeeper.Context, addr gatekeeper.Address) bool {
	caller, ok := Caller(ctx)
	return ok && caller.Equals(addr)
}

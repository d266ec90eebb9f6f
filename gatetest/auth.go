package gatetest

import (
	"context"
	"fmt"

	"github.com/iov-one/gatekeeper"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced addresses.
// You can use either Signer or Signers (or both) attributes to reference
// addresses. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single caller.
	Signer gatekeeper.Address

	// Signers represents an authentication of multiple callers.
	Signers []gatekeeper.Address
}

func (a *Auth) GetAddresses(gatekeeper.Context) []gatekeeper.Address {
	if a.Signer != nil {
		return append([]gatekeeper.Address{a.Signer}, a.Signers...)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx gatekeeper.Context, addr gatekeeper.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve addresses from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetAddresses(ctx gatekeeper.Context, addrs ...gatekeeper.Address) gatekeeper.Context {
	return context.WithValue(ctx, a.Key, addrs)
}

func (a *CtxAuth) GetAddresses(ctx gatekeeper.Context) []gatekeeper.Address {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	addrs, ok := val.([]gatekeeper.Address)
	if !ok {
		panic(fmt.Sprintf("instead of []gatekeeper.Address got %T", val))
	}
	return addrs
}

func (a *CtxAuth) HasAddress(ctx gatekeeper.Context, addr gatekeeper.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}

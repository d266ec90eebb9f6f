package x

import (
	"github.com/iov-one/gatekeeper"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding one identity source for all extensions.
type Authenticator interface {
	// GetAddresses reveals all authenticated callers, the first one is the
	// main signer.
	GetAddresses(gatekeeper.Context) []gatekeeper.Address
	// HasAddress checks if any authenticated caller matches this address
	HasAddress(gatekeeper.Context, gatekeeper.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetAddresses combines all addresses from all Authenticators
func (m MultiAuth) GetAddresses(ctx gatekeeper.Context) []gatekeeper.Address {
	var res []gatekeeper.Address
	for _, impl := range m.impls {
		res = append(res, impl.GetAddresses(ctx)...)
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx gatekeeper.Context, addr gatekeeper.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first authenticated address if any, otherwise nil
func MainSigner(ctx gatekeeper.Context, auth Authenticator) gatekeeper.Address {
	signers := auth.GetAddresses(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

/*
Package x contains the extensions of the gatekeeper engine and the pieces
they share.

Each sub-package owns a part of the state and exposes handlers, queries and
a genesis initializer:

	allowlist  the address to allowed status map
	multisig   owner registry, transaction ledger and the coordinator
	           that is the only writer of the allowlist
	token      fixed supply token which transfers are gated by the allowlist
	identity   caller authentication carried in the context

Authenticator, defined here, is how handlers learn who is calling.
*/
package x

/*
Package allowlist keeps the verification status of every address.

An address that was never granted is not allowed. The status changes only
when the multisig coordinator executes an approved transaction, which is why
the write side of the store is a separate interface that is handed to the
coordinator alone. All other components, such as the token transfer gate,
receive the read only Reader.
*/
package allowlist

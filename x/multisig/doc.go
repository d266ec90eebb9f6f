/*
Package multisig implements the multi-party approval of allowlist changes.

A fixed set of owners proposes transactions that grant or revoke the
allowlist membership of an address. The submitter of a transaction confirms
it right away, other owners confirm or revoke their confirmation later. As
soon as the number of confirmations reaches the threshold the transaction is
executed, within the same operation as the confirmation that crossed the
threshold. Execution happens at most once per transaction.

The owner set, the threshold and the allowlist manager are kept in a single
registry record. Only the allowlist manager may change them. By default the
manager is the coordinator itself (CoordinatorAddress), which leaves the
registry as configured at genesis.
*/
package multisig

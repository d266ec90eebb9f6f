/*
Package token implements a fixed supply ownership token which transfers are
gated by the allowlist.

The whole supply is issued to a single holder at genesis. Afterwards tokens
only change hands through Transfer, which refuses any destination that is
not allowed, and Burn, which destroys tokens and needs no allowlist entry.
*/
package token

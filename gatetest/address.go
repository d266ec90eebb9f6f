package gatetest

import (
	"encoding/binary"
	"sync/atomic"
	"testing"

	"github.com/iov-one/gatekeeper"
)

var addressCounter uint64

// NewAddress returns a new, unique address. Each call produces a different
// value.
func NewAddress() gatekeeper.Address {
	var seed [8]byte
	binary.BigEndian.PutUint64(seed[:], atomic.AddUint64(&addressCounter, 1))
	return gatekeeper.NewCondition("gatetest", "address", seed[:]).Address()
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation. This function is a test helper that is using
// gatekeeper.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) gatekeeper.Address {
	t.Helper()

	addr, err := gatekeeper.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}


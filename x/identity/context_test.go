package identity

import (
	"context"
	"testing"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/gatetest"
	"github.com/iov-one/gatekeeper/gatetest/assert"
	"github.com/iov-one/gatekeeper/x"
)

func TestCallerContext(t *testing.T) {
	alice := gatetest.NewAddress()
	bob := gatetest.NewAddress()
	auth := Authenticate{}

	bg := context.Background()
	assert.Nil(t, auth.GetAddresses(bg))
	assert.Nil(t, x.MainSigner(bg, auth))

	ctx := WithCaller(bg, alice)
	assert.Equal(t, []gatekeeper.Address{alice}, auth.GetAddresses(ctx))
	assert.Equal(t, alice, x.MainSigner(ctx, auth))
	assert.Equal(t, true, auth.HasAddress(ctx, alice))
	assert.Equal(t, false, auth.HasAddress(ctx, bob))

	// the innermost caller wins
	ctx = WithCaller(ctx, bob)
	assert.Equal(t, bob, x.MainSigner(ctx, auth))

	// a null caller is ignored
	empty := WithCaller(bg, nil)
	if _, ok := Caller(empty); ok {
		t.Fatal("null caller must not authenticate")
	}
}

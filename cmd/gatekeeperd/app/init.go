package app

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/x/multisig"
	"github.com/iov-one/gatekeeper/x/token"
)

const devOwners = 3

// GenInitOptions will produce the app options for a development setup.
//
// Usage: init [owner,owner,...] [threshold]
//
// When no owners are given, a few random owner addresses are generated and
// printed. The first owner holds the whole token supply and is the
// allowlist manager. Without a manager in the genesis the owner set and
// threshold could never change, see multisig.CoordinatorAddress.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var owners []gatekeeper.Address
	if len(args) > 0 && args[0] != "" {
		for _, s := range strings.Split(args[0], ",") {
			addr, err := gatekeeper.ParseAddress(strings.TrimSpace(s))
			if err != nil {
				return nil, fmt.Errorf("invalid owner %q: %s", s, err)
			}
			owners = append(owners, addr)
		}
	} else {
		for i := 0; i < devOwners; i++ {
			id := uuid.New()
			addr := gatekeeper.NewCondition("gatekeeperd", "dev", id[:]).Address()
			owners = append(owners, addr)
			fmt.Println("owner", addr)
		}
	}

	threshold := uint32(len(owners)/2 + 1)
	if len(args) > 1 {
		n, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold %q: %s", args[1], err)
		}
		threshold = uint32(n)
	}

	opts := map[string]interface{}{
		"multisig": multisig.Genesis{
			Owners:    owners,
			Threshold: threshold,
			Manager:   owners[0],
		},
		"token": token.Genesis{
			Name:     "Gate Token",
			Symbol:   "GATE",
			Decimals: 6,
			Supply:   1000000000000,
			Holder:   owners[0],
		},
	}
	return json.MarshalIndent(opts, "", "  ")
}

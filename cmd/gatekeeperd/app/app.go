/*
Package app links together all the various components
to construct the gatekeeperd application.
*/
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/app"
	"github.com/iov-one/gatekeeper/store/iavl"
	"github.com/iov-one/gatekeeper/x"
	"github.com/iov-one/gatekeeper/x/allowlist"
	"github.com/iov-one/gatekeeper/x/identity"
	"github.com/iov-one/gatekeeper/x/multisig"
	"github.com/iov-one/gatekeeper/x/token"
)

// Components are the stores shared between handlers. The allowlist is
// written by the multisig coordinator and read by the token controller.
type Components struct {
	Allowlist   *allowlist.Store
	Registry    *multisig.OwnerRegistry
	Ledger      *multisig.Ledger
	Coordinator *multisig.Coordinator
	Token       *token.Controller
}

// NewComponents creates all stores used by the application.
func NewComponents() Components {
	list := allowlist.NewStore()
	registry := multisig.NewOwnerRegistry()
	ledger := multisig.NewLedger()
	return Components{
		Allowlist:   list,
		Registry:    registry,
		Ledger:      ledger,
		Coordinator: multisig.NewCoordinator(registry, ledger, list),
		Token:       token.NewController(list),
	}
}

// Authenticator returns the authentication used by all handlers. The caller
// is authenticated by the transport and carried in the context.
func Authenticator() x.Authenticator {
	return x.ChainAuth(identity.Authenticate{})
}

// Router returns a router dispatching all messages of this application.
func Router(authFn x.Authenticator, c Components) *app.Router {
	r := app.NewRouter()
	multisig.RegisterRoutes(r, authFn, c.Coordinator)
	token.RegisterRoutes(r, authFn, c.Token)
	return r
}

// QueryRouter returns a query router allowing access to "/allowlist",
// "/multisig/registry", "/multisig/transactions", "/token/wallets" and
// "/token/info".
func QueryRouter(c Components) *app.QueryRouter {
	r := app.NewQueryRouter()
	allowlist.RegisterQuery(r, c.Allowlist)
	multisig.RegisterQuery(r, c.Coordinator)
	token.RegisterQuery(r, c.Token)
	return r
}

// Messages returns the registry of all messages a client can send.
func Messages() *app.MsgRegistry {
	r := app.NewMsgRegistry()
	r.Register(func() gatekeeper.Msg { return &multisig.SubmitMsg{} })
	r.Register(func() gatekeeper.Msg { return &multisig.ConfirmMsg{} })
	r.Register(func() gatekeeper.Msg { return &multisig.RevokeMsg{} })
	r.Register(func() gatekeeper.Msg { return &multisig.ExecuteMsg{} })
	r.Register(func() gatekeeper.Msg { return &multisig.AddOwnerMsg{} })
	r.Register(func() gatekeeper.Msg { return &multisig.RemoveOwnerMsg{} })
	r.Register(func() gatekeeper.Msg { return &multisig.SetThresholdMsg{} })
	r.Register(func() gatekeeper.Msg { return &multisig.SetManagerMsg{} })
	r.Register(func() gatekeeper.Msg { return &token.TransferMsg{} })
	r.Register(func() gatekeeper.Msg { return &token.BurnMsg{} })
	return r
}

// Initializers returns the genesis loaders of all extensions.
func Initializers(c Components) gatekeeper.Initializer {
	return gatekeeper.ChainInitializers(
		&multisig.Initializer{Registry: c.Registry},
		&token.Initializer{Controller: c.Token},
	)
}

// Application constructs an engine on top of the given store. Any
// additional options are applied after the application defaults.
func Application(kv gatekeeper.CommitKVStore, opts ...app.Option) (*app.Engine, error) {
	c := NewComponents()
	defaults := []app.Option{
		app.WithInitializer(Initializers(c)),
		app.WithAllowlist(c.Allowlist),
	}
	return app.NewEngine(kv, Router(Authenticator(), c), QueryRouter(c), append(defaults, opts...)...)
}

// CommitKVStore returns an initialized store that persists the data to the
// named path. An empty path gives a memory backed store.
func CommitKVStore(backend, dbPath string) (*iavl.CommitStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory: %s", err)
	}
	name := filepath.Base(path)
	return iavl.NewCommitStore(backend, dir, name)
}

package server

import (
	"context"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/app"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/store"
	"github.com/tendermint/tendermint/libs/log"
)

// ValidateGenesis loads each genesis file into a throwaway store, so that a
// broken file is found before the daemon is started with it.
func ValidateGenesis(ini gatekeeper.Initializer, genesisPaths []string) error {
	if len(genesisPaths) == 0 {
		return errors.Wrap(errors.ErrInput, "no genesis file given")
	}
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini gatekeeper.Initializer, genesisPath string) error {
	gen, err := app.LoadGenesis(genesisPath)
	if err != nil {
		return err
	}
	if gen.ChainID == "" {
		return errors.Wrap(errors.ErrInput, "missing chain id")
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()

	ctx := gatekeeper.WithLogger(context.Background(), log.NewNopLogger())
	if err := ini.FromGenesis(ctx, gen.AppOptions, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}

package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/iov-one/gatekeeper/app"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// GenOptions can parse command-line and flag to
// generate default app_options for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd will initialize all files for the daemon: the config file with
// default values and a genesis file with app options produced by genOpts.
// Existing files are left untouched.
func InitCmd(genOpts GenOptions, logger log.Logger, home string, args []string) error {
	if err := os.MkdirAll(home, 0o755); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create home directory: %s", err)
	}

	created, err := writeDefaultConfig(home)
	if err != nil {
		return err
	}
	if created {
		logger.Info("Generated config file", "path", filepath.Join(home, configName+"."+configType))
	} else {
		logger.Info("Found config file", "path", filepath.Join(home, configName+"."+configType))
	}

	genFile := filepath.Join(home, GenesisFile)
	if fileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
		return nil
	}

	gen := app.Genesis{
		ChainID:    fmt.Sprintf("gatekeeper-%s", uuid.New().String()[:8]),
		AppOptions: nil,
	}
	if genOpts != nil {
		options, err := genOpts(args)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(options, &gen.AppOptions); err != nil {
			return errors.Wrapf(errors.ErrInput, "invalid app options: %s", err)
		}
	}

	out, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	if err := ioutil.WriteFile(genFile, out, 0o600); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot write genesis: %s", err)
	}
	logger.Info("Generated genesis file", "path", genFile, "chain_id", gen.ChainID)
	return nil
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/iov-one/gatekeeper/app"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/iov-one/gatekeeper/gatetest"
	"github.com/iov-one/gatekeeper/x/multisig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func multisigOptions(args []string) (json.RawMessage, error) {
	owners := []interface{}{gatetest.NewAddress(), gatetest.NewAddress()}
	return json.Marshal(map[string]interface{}{
		"multisig": map[string]interface{}{
			"owners":    owners,
			"threshold": 2,
		},
	})
}

func TestInitCmd(t *testing.T) {
	home := t.TempDir()
	logger := log.NewNopLogger()

	require.NoError(t, InitCmd(multisigOptions, logger, home, nil))

	genFile := filepath.Join(home, GenesisFile)
	gen, err := app.LoadGenesis(genFile)
	require.NoError(t, err)
	assert.Regexp(t, `^gatekeeper-[0-9a-f]{8}$`, gen.ChainID)
	assert.Contains(t, gen.AppOptions, "multisig")

	cfg, err := LoadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.HTTPAddr)

	// A second run must not overwrite anything.
	require.NoError(t, InitCmd(multisigOptions, logger, home, nil))
	again, err := app.LoadGenesis(genFile)
	require.NoError(t, err)
	assert.Equal(t, gen.ChainID, again.ChainID)

	require.NoError(t, ValidateGenesis(&multisig.Initializer{}, []string{genFile}))
}

func TestInitCmdOptionsError(t *testing.T) {
	failing := func([]string) (json.RawMessage, error) {
		return nil, fmt.Errorf("no options")
	}
	err := InitCmd(failing, log.NewNopLogger(), t.TempDir(), nil)
	assert.EqualError(t, err, "no options")

	invalid := func([]string) (json.RawMessage, error) {
		return json.RawMessage(`[1, 2]`), nil
	}
	err = InitCmd(invalid, log.NewNopLogger(), t.TempDir(), nil)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestValidateGenesis(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, ioutil.WriteFile(p, []byte(content), 0o600))
		return p
	}
	owner := gatetest.NewAddress()

	cases := map[string]struct {
		paths   []string
		wantErr *errors.Error
	}{
		"valid": {
			paths: []string{write("valid.json", fmt.Sprintf(
				`{"chain_id": "test-chain", "app_options": {"multisig": {"owners": ["%s"], "threshold": 1}}}`, owner))},
		},
		"no files": {
			wantErr: errors.ErrInput,
		},
		"missing file": {
			paths:   []string{filepath.Join(dir, "missing.json")},
			wantErr: errors.ErrInput,
		},
		"missing chain id": {
			paths: []string{write("nochain.json", fmt.Sprintf(
				`{"app_options": {"multisig": {"owners": ["%s"], "threshold": 1}}}`, owner))},
			wantErr: errors.ErrInput,
		},
		"threshold too high": {
			paths: []string{write("threshold.json", fmt.Sprintf(
				`{"chain_id": "test-chain", "app_options": {"multisig": {"owners": ["%s"], "threshold": 2}}}`, owner))},
			wantErr: multisig.ErrInvalidThreshold,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := ValidateGenesis(&multisig.Initializer{}, tc.paths)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

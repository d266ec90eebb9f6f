package server

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/iov-one/gatekeeper/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.HTTPAddr)
	assert.Equal(t, "goleveldb", cfg.DBBackend)
	assert.Equal(t, "gatekeeper.db", cfg.DBName)
	assert.Equal(t, "events.db", cfg.JournalFile)
	assert.Equal(t, "X-Gatekeeper-Caller", cfg.CallerHeader)
	assert.False(t, cfg.Debug)
}

func TestLoadConfigFile(t *testing.T) {
	home := t.TempDir()
	content := "http_addr: 0.0.0.0:9000\ndb_backend: memdb\ndebug: true\ncors_origins:\n  - https://example.com\n"
	require.NoError(t, ioutil.WriteFile(filepath.Join(home, "config.yaml"), []byte(content), 0o600))

	cfg, err := LoadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.HTTPAddr)
	assert.Equal(t, "memdb", cfg.DBBackend)
	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"https://example.com"}, cfg.CORSOrigins)
	// Not set in the file.
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("GATEKEEPER_HTTP_ADDR", "127.0.0.1:7000")
	t.Setenv("GATEKEEPER_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigMalformed(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, ioutil.WriteFile(filepath.Join(home, "config.yaml"), []byte("http_addr: [unclosed"), 0o600))

	_, err := LoadConfig(home)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestParseFlags(t *testing.T) {
	cfg := Config{HTTPAddr: "localhost:1"}
	require.NoError(t, parseFlags(&cfg, []string{"-http", "localhost:2", "-debug"}))
	assert.Equal(t, "localhost:2", cfg.HTTPAddr)
	assert.True(t, cfg.Debug)

	err := parseFlags(&cfg, []string{"-unknown"})
	assert.True(t, errors.ErrInput.Is(err))
}

func TestFilterLogger(t *testing.T) {
	_, err := FilterLogger(log.NewNopLogger(), "info")
	assert.NoError(t, err)

	_, err = FilterLogger(log.NewNopLogger(), "loud")
	assert.True(t, errors.ErrInput.Is(err))
}

func TestPath(t *testing.T) {
	assert.Equal(t, "", path("/home", ""))
	assert.Equal(t, "/abs/file.db", path("/home", "/abs/file.db"))
	assert.Equal(t, filepath.Join("/home", "file.db"), path("/home", "file.db"))
}

package server

import (
	"path/filepath"
	"strings"

	"github.com/iov-one/gatekeeper/errors"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	configName = "config"
	configType = "yaml"
	envPrefix  = "GATEKEEPER"

	// GenesisFile is the name of the genesis file in the home directory.
	GenesisFile = "genesis.json"
)

// Config is the daemon configuration. It is read from config.yaml in the
// home directory, every value can be overwritten with an environment
// variable, for example GATEKEEPER_HTTP_ADDR.
type Config struct {
	HTTPAddr     string   `mapstructure:"http_addr"`
	DBBackend    string   `mapstructure:"db_backend"`
	DBName       string   `mapstructure:"db_name"`
	JournalFile  string   `mapstructure:"journal_file"`
	LogLevel     string   `mapstructure:"log_level"`
	CallerHeader string   `mapstructure:"caller_header"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
	Debug        bool     `mapstructure:"debug"`
}

var defaults = map[string]interface{}{
	"http_addr":     "localhost:8080",
	"db_backend":    "goleveldb",
	"db_name":       "gatekeeper.db",
	"journal_file":  "events.db",
	"log_level":     "info",
	"caller_header": "X-Gatekeeper-Caller",
	"cors_origins":  []string{},
	"debug":         false,
}

func newViper(home string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(home)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

// LoadConfig reads the configuration of the daemon living in home. A
// missing config file is not an error, defaults are used instead.
func LoadConfig(home string) (Config, error) {
	var cfg Config
	v := newViper(home)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, errors.Wrapf(errors.ErrInput, "cannot read config: %s", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrapf(errors.ErrInput, "cannot parse config: %s", err)
	}
	return cfg, nil
}

// writeDefaultConfig creates config.yaml with default values unless it
// exists already. It returns false if the file was already there.
func writeDefaultConfig(home string) (bool, error) {
	v := newViper(home)
	err := v.SafeWriteConfigAs(filepath.Join(home, configName+"."+configType))
	if err == nil {
		return true, nil
	}
	if _, ok := err.(viper.ConfigFileAlreadyExistsError); ok {
		return false, nil
	}
	return false, errors.Wrapf(errors.ErrInput, "cannot write config: %s", err)
}

// path resolves a file name relative to home. An empty name stays empty.
func path(home, name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(home, name)
}

// FilterLogger limits the logger output to given level.
func FilterLogger(logger log.Logger, level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, opt), nil
}

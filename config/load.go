package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cadre-tools/autocheck/errors"
)

// Load resolves the configuration for a watched directory.
//
// baseDir must already be absolute. flags may be nil (tests); when set,
// changed flags take precedence over every other source.
func Load(baseDir string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("AUTOCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	// Optional per-project config file. Absence is fine; a file that
	// exists but cannot be read or parsed is a fatal setup error.
	cfgPath := filepath.Join(baseDir, ConfigFileName)
	if _, err := os.Stat(cfgPath); err == nil {
		v.SetConfigFile(cfgPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", cfgPath)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.BaseDir = baseDir

	return &cfg, nil
}

// bindFlags maps CLI flag names onto config keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, flag := range map[string]string{
		"delay_ms":       "delay",
		"no_build":       "no-build",
		"no_vet":         "no-vet",
		"no_test":        "no-test",
		"exec":           "exec",
		"no_initial_run": "no-initial-run",
	} {
		f := flags.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "failed to bind --%s", flag)
		}
	}
	return nil
}

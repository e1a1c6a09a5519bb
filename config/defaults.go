package config

import "github.com/spf13/viper"

// DefaultDelayMS is the debounce window used when no delay is configured.
const DefaultDelayMS = 1000

// ConfigFileName is the optional per-project config file, looked up in
// the watched directory.
const ConfigFileName = ".autocheck.toml"

// SetDefaults registers the built-in defaults on a viper instance.
// Called before any config file or environment merge so lower layers
// always have a value to fall back to.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("delay_ms", DefaultDelayMS)
	v.SetDefault("no_build", false)
	v.SetDefault("no_vet", false)
	v.SetDefault("no_test", false)
	v.SetDefault("exec", "")
	v.SetDefault("no_initial_run", false)
}

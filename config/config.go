// Package config holds the autocheck runtime configuration.
//
// Precedence follows the usual viper layering: command-line flags over
// AUTOCHECK_ environment variables over an optional .autocheck.toml in
// the watched directory over built-in defaults.
package config

import (
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/cadre-tools/autocheck/errors"
)

// Config is the resolved autocheck configuration.
type Config struct {
	// BaseDir is the absolute path of the watched directory tree.
	// Set from the positional argument, not from viper.
	BaseDir string `mapstructure:"-"`

	// DelayMS is the debounce window in milliseconds.
	DelayMS int `mapstructure:"delay_ms"`

	// NoBuild, NoVet and NoTest disable the corresponding built-in
	// pipeline command.
	NoBuild bool `mapstructure:"no_build"`
	NoVet   bool `mapstructure:"no_vet"`
	NoTest  bool `mapstructure:"no_test"`

	// Exec is an optional extra command line appended to the pipeline,
	// parsed with shell quoting rules ("golangci-lint run ./...").
	Exec string `mapstructure:"exec"`

	// NoInitialRun suppresses the automatic pipeline run at startup.
	NoInitialRun bool `mapstructure:"no_initial_run"`
}

// Command is one (executable, arguments) pipeline entry.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Delay returns the debounce window as a duration.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}

// Commands assembles the ordered pipeline: the enabled built-in checks
// followed by the custom Exec command, if any. The order is fixed for
// the process lifetime.
func (c *Config) Commands() ([]Command, error) {
	var cmds []Command
	if !c.NoBuild {
		cmds = append(cmds, Command{Name: "go", Args: []string{"build", "./..."}})
	}
	if !c.NoVet {
		cmds = append(cmds, Command{Name: "go", Args: []string{"vet", "./..."}})
	}
	if !c.NoTest {
		cmds = append(cmds, Command{Name: "go", Args: []string{"test", "./..."}})
	}
	if c.Exec != "" {
		words, err := shellquote.Split(c.Exec)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse --exec command %q", c.Exec)
		}
		if len(words) > 0 {
			cmds = append(cmds, Command{Name: words[0], Args: words[1:]})
		}
	}
	return cmds, nil
}

// Validate checks that the configuration describes a runnable pipeline.
func (c *Config) Validate() error {
	cmds, err := c.Commands()
	if err != nil {
		return err
	}
	if len(cmds) == 0 {
		return errors.WithHint(errors.ErrNoCommands,
			"enable at least one built-in command or supply one with --exec")
	}
	if c.DelayMS <= 0 {
		return errors.Newf("debounce delay must be positive, got %dms", c.DelayMS)
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cadre-tools/autocheck/cmd/autocheck/commands"
	"github.com/cadre-tools/autocheck/config"
	"github.com/cadre-tools/autocheck/errors"
	"github.com/cadre-tools/autocheck/logger"
	"github.com/cadre-tools/autocheck/watch"
)

var rootCmd = &cobra.Command{
	Use:   "autocheck [flags] <dir>",
	Short: "Watch a directory tree and re-run checks on change",
	Long: `autocheck watches a directory tree for file modifications, coalesces
bursts of filesystem events into a single debounced trigger filtered
through .gitignore rules, and runs a sequential pipeline of check
commands, stopping at the first failure.

The built-in pipeline for a Go project is:

  go build ./...
  go vet ./...
  go test ./...

Each built-in can be disabled independently, and an extra command can
be appended with --exec. Changes produced by the pipeline itself (build
artifacts, test caches) do not retrigger it.

Examples:
  autocheck .                            # watch the current directory
  autocheck -vv --delay 500 ~/src/app    # more logs, shorter debounce
  autocheck --no-test --exec 'golangci-lint run ./...' .`,
	Args:          cobra.ExactArgs(1),
	RunE:          runWatch,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	rootCmd.Flags().Int("delay", config.DefaultDelayMS, "Debounce delay in milliseconds before triggering")
	rootCmd.Flags().String("exec", "", "Extra command appended to the pipeline (shell quoting rules apply)")
	rootCmd.Flags().Bool("no-build", false, "Disable the built-in 'go build ./...' command")
	rootCmd.Flags().Bool("no-vet", false, "Disable the built-in 'go vet ./...' command")
	rootCmd.Flags().Bool("no-test", false, "Disable the built-in 'go test ./...' command")
	rootCmd.Flags().Bool("no-initial-run", false, "Do not run the pipeline once at startup")

	rootCmd.AddCommand(commands.VersionCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")
	if err := logger.Initialize(verbosity); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Cleanup()

	baseDir, err := filepath.Abs(args[0])
	if err != nil {
		return errors.Wrapf(err, "failed to resolve directory %s", args[0])
	}
	if info, err := os.Stat(baseDir); err != nil || !info.IsDir() {
		return errors.Newf("not a directory: %s", baseDir)
	}

	cfg, err := config.Load(baseDir, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cmds, err := cfg.Commands()
	if err != nil {
		return err
	}

	filter, err := watch.NewIgnoreFilter(baseDir, watch.IgnoreFileName)
	if err != nil {
		return errors.Wrap(err, "failed to load ignore rules")
	}

	src, err := watch.NewNotifySource()
	if err != nil {
		return err
	}
	defer src.Close()
	if err := src.Watch(baseDir, true); err != nil {
		return errors.Wrap(err, "failed to add watch")
	}

	// The one piece of state both threads touch: the aggregator sets it
	// when an action is taken, the runner clears it after the batch.
	inhibit := &atomic.Bool{}

	changes := watch.NewChanges(baseDir, filter, inhibit, logger.ComponentLogger("watch.changes"))
	if !cfg.NoInitialRun {
		changes.AddCustom("initial run")
	}

	commands.PrintStartupSummary(verbosity, cfg, cmds)

	actions := make(chan watch.Action, 16)
	runner := watch.NewRunner(baseDir, cmds, inhibit, watch.ExecLauncher{}, logger.ComponentLogger("watch.runner"))
	go runner.Run(actions)

	// GRACE: Ctrl+C stops the loop cleanly; a running batch finishes.
	stop := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		close(stop)
	}()

	loop := watch.NewLoop(changes, src, cfg.Delay(), actions, stop, logger.ComponentLogger("watch.loop"))
	return loop.Run()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

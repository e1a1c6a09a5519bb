package watch

import (
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cadre-tools/autocheck/config"
	"github.com/cadre-tools/autocheck/logger"
)

// Launcher spawns one external command and blocks until it exits.
// A non-nil error means either a launch failure or a non-zero exit;
// the runner treats both the same way.
type Launcher interface {
	Spawn(name string, args []string, dir string) error
}

// ExecLauncher runs commands via os/exec with inherited stdout/stderr,
// so check output lands directly in the user's terminal.
type ExecLauncher struct{}

func (ExecLauncher) Spawn(name string, args []string, dir string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Runner executes the configured command pipeline for each non-empty
// action, strictly in order, stopping at the first failure. It is the
// only writer that clears the inhibit flag.
type Runner struct {
	baseDir  string
	commands []config.Command
	inhibit  *atomic.Bool
	launcher Launcher
	log      *zap.SugaredLogger
}

// NewRunner creates a runner sharing the inhibit handle with the
// aggregator. launcher defaults to ExecLauncher when nil.
func NewRunner(baseDir string, commands []config.Command, inhibit *atomic.Bool, launcher Launcher, log *zap.SugaredLogger) *Runner {
	if launcher == nil {
		launcher = ExecLauncher{}
	}
	return &Runner{
		baseDir:  baseDir,
		commands: commands,
		inhibit:  inhibit,
		launcher: launcher,
		log:      log,
	}
}

// Run consumes actions until the channel closes. Meant to run on its
// own goroutine; batches within it are strictly sequential.
func (r *Runner) Run(actions <-chan Action) {
	for act := range actions {
		r.Handle(act)
	}
}

// Handle dispatches one action.
func (r *Runner) Handle(act Action) {
	if act.Kind == ActionNothing {
		if logger.ShouldLogTrace(logger.Verbosity) {
			r.log.Debugw("Nothing to run")
		}
		return
	}
	r.runBatch(act)
}

// runBatch runs the full pipeline for one triggering action.
func (r *Runner) runBatch(act Action) {
	// The flag must be released exactly once per batch, success or not;
	// a batch that kept it set would leave every future change dropped.
	defer r.inhibit.Store(false)

	runID := uuid.NewString()[:8]
	log := logger.ChildLogger(r.log, logger.FieldRunID, runID)

	switch act.Kind {
	case ActionCustom:
		log.Infow("Pipeline triggered", logger.FieldReason, act.Reason)
	case ActionFilesChanged:
		log.Infow("Detected changes", logger.FieldCount, len(act.Paths), "paths", act.Paths)
	}

	start := time.Now()
	for _, cmd := range r.commands {
		log.Infow("Running command", logger.FieldCommand, cmd.String())
		if err := r.launcher.Spawn(cmd.Name, cmd.Args, r.baseDir); err != nil {
			// Fail fast. A failing check is an expected outcome, not a
			// crash: the loop keeps watching.
			log.Errorw("Command failed, skipping rest of batch",
				logger.FieldCommand, cmd.String(),
				logger.FieldError, err)
			return
		}
		log.Debugw("Command succeeded", logger.FieldCommand, cmd.String())
	}
	log.Infow("Batch complete", logger.FieldDurationMS, time.Since(start).Milliseconds())
}

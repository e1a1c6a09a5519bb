package watch

import (
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cadre-tools/autocheck/logger"
)

// Changes aggregates raw events over one debounce window. It is owned
// by the driver loop goroutine; the only state shared with the runner
// is the inhibit flag, which is why that one is atomic and the rest is
// not.
//
// While inhibit is set, observed changes are dropped instead of
// recorded. The runner sets it false after each command batch; without
// the flag, a batch's own build artifacts would retrigger it forever.
type Changes struct {
	baseDir string
	filter  *IgnoreFilter
	inhibit *atomic.Bool

	pending   map[string]struct{}
	custom    string
	hasCustom bool

	log *zap.SugaredLogger
}

// NewChanges creates an aggregator rooted at baseDir, which must be
// absolute. The inhibit handle is shared with the runner.
func NewChanges(baseDir string, filter *IgnoreFilter, inhibit *atomic.Bool, log *zap.SugaredLogger) *Changes {
	return &Changes{
		baseDir: baseDir,
		filter:  filter,
		inhibit: inhibit,
		pending: make(map[string]struct{}),
		log:     log,
	}
}

// AddCustom records a one-shot trigger reason. Last write wins; at most
// one custom reason is pending at a time.
func (c *Changes) AddCustom(reason string) {
	c.custom = reason
	c.hasCustom = true
}

// Add records an observed change to an absolute path. Paths outside the
// base directory, ignored paths, and changes seen while a batch is
// running are dropped. Re-adding a pending path is a no-op.
func (c *Changes) Add(path string) {
	rel, err := filepath.Rel(c.baseDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		// Should not happen with a single watched root.
		c.log.Errorw("Ignoring path outside watched directory", logger.FieldPath, path)
		return
	}
	if rel == "." {
		return
	}
	rel = filepath.ToSlash(rel)

	if c.filter.Match(rel) == MatchIgnore {
		if logger.ShouldLogTrace(logger.Verbosity) {
			c.log.Debugw("Ignoring excluded path", logger.FieldPath, rel)
		}
		return
	}

	if c.inhibit.Load() {
		c.log.Debugw("Ignored change while pipeline runs", logger.FieldPath, rel)
		return
	}

	c.log.Debugw("Detected change", logger.FieldPath, rel)
	c.pending[rel] = struct{}{}
}

// TakeAction drains the aggregated state into the next action.
//
// A pending custom reason wins over accumulated file changes and
// discards them: changes observed before a planned run fires belong to
// the state that run is about to check anyway. Taking any non-Nothing
// action sets the inhibit flag; only the runner clears it.
func (c *Changes) TakeAction() Action {
	if c.hasCustom {
		reason := c.custom
		c.custom = ""
		c.hasCustom = false
		c.pending = make(map[string]struct{})
		c.inhibit.Store(true)
		return Custom(reason)
	}

	if len(c.pending) > 0 {
		paths := make([]string, 0, len(c.pending))
		for p := range c.pending {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		c.pending = make(map[string]struct{})
		c.inhibit.Store(true)
		return FilesChanged(paths)
	}

	return Nothing()
}

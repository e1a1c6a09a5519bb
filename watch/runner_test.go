package watch

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cadre-tools/autocheck/config"
	"github.com/cadre-tools/autocheck/errors"
)

// fakeLauncher records spawned commands and fails the Nth one.
type fakeLauncher struct {
	calls  []string
	dirs   []string
	failAt int // 1-based index of the call that fails; 0 = never
}

func (f *fakeLauncher) Spawn(name string, args []string, dir string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	f.dirs = append(f.dirs, dir)
	if f.failAt > 0 && len(f.calls) == f.failAt {
		return errors.New("exit status 1")
	}
	return nil
}

func testCommands() []config.Command {
	return []config.Command{
		{Name: "go", Args: []string{"build", "./..."}},
		{Name: "go", Args: []string{"vet", "./..."}},
		{Name: "go", Args: []string{"test", "./..."}},
	}
}

func TestRunnerRunsCommandsInOrder(t *testing.T) {
	launcher := &fakeLauncher{}
	inhibit := &atomic.Bool{}
	inhibit.Store(true)

	r := NewRunner("/proj", testCommands(), inhibit, launcher, zap.NewNop().Sugar())
	r.Handle(FilesChanged([]string{"src/a.go"}))

	assert.Equal(t, []string{"go build ./...", "go vet ./...", "go test ./..."}, launcher.calls)
	for _, dir := range launcher.dirs {
		assert.Equal(t, "/proj", dir)
	}
	assert.False(t, inhibit.Load(), "inhibit must be cleared after a successful batch")
}

func TestRunnerFailFast(t *testing.T) {
	launcher := &fakeLauncher{failAt: 2}
	inhibit := &atomic.Bool{}
	inhibit.Store(true)

	r := NewRunner("/proj", testCommands(), inhibit, launcher, zap.NewNop().Sugar())
	r.Handle(FilesChanged([]string{"src/a.go"}))

	// Second command failed; third is never invoked.
	assert.Equal(t, []string{"go build ./...", "go vet ./..."}, launcher.calls)
	assert.False(t, inhibit.Load(), "inhibit must be cleared even after a failed batch")
}

func TestRunnerFirstCommandLaunchFailureClearsInhibit(t *testing.T) {
	launcher := &fakeLauncher{failAt: 1}
	inhibit := &atomic.Bool{}
	inhibit.Store(true)

	r := NewRunner("/proj", testCommands(), inhibit, launcher, zap.NewNop().Sugar())
	r.Handle(Custom("initial run"))

	assert.Equal(t, []string{"go build ./..."}, launcher.calls)
	assert.False(t, inhibit.Load())
}

func TestRunnerNothingIsNoOp(t *testing.T) {
	launcher := &fakeLauncher{}
	inhibit := &atomic.Bool{}
	inhibit.Store(true)

	r := NewRunner("/proj", testCommands(), inhibit, launcher, zap.NewNop().Sugar())
	r.Handle(Nothing())

	assert.Empty(t, launcher.calls)
	// Nothing never touches the flag; only a triggered batch clears it.
	assert.True(t, inhibit.Load())
}

func TestRunnerConsumesQueueUntilClosed(t *testing.T) {
	launcher := &fakeLauncher{}
	inhibit := &atomic.Bool{}

	r := NewRunner("/proj", testCommands()[:1], inhibit, launcher, zap.NewNop().Sugar())

	actions := make(chan Action, 2)
	done := make(chan struct{})
	go func() {
		r.Run(actions)
		close(done)
	}()

	actions <- Custom("initial run")
	actions <- FilesChanged([]string{"a.go"})
	close(actions)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not drain the queue")
	}
	require.Len(t, launcher.calls, 2)
}

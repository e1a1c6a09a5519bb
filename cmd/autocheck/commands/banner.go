package commands

import (
	"github.com/pterm/pterm"

	"github.com/cadre-tools/autocheck/config"
	"github.com/cadre-tools/autocheck/logger"
	"github.com/cadre-tools/autocheck/version"
)

// PrintStartupSummary prints the user-friendly startup message: what
// is watched, with what pipeline, at what verbosity.
func PrintStartupSummary(verbosity int, cfg *config.Config, cmds []config.Command) {
	info := version.Get()

	pterm.Info.Printf("autocheck %s (commit %s)\n", info.Version, info.Short())
	pterm.Info.Printf("Watching %s (debounce %dms)\n", cfg.BaseDir, cfg.DelayMS)
	for i, cmd := range cmds {
		pterm.Info.Printf("  %d. %s\n", i+1, cmd)
	}
	pterm.Info.Printf("Verbosity: %s\n", logger.LevelName(verbosity))
	if cfg.NoInitialRun {
		pterm.Info.Println("Initial run disabled; waiting for the first change")
	}
	pterm.Println(pterm.Gray("Press Ctrl+C to stop"))
}

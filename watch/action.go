package watch

import (
	"fmt"
	"strings"
)

// ActionKind discriminates the Action variants. Every consumer must
// switch over all kinds; a new kind is a compile-obligation for each
// switch site.
type ActionKind int

const (
	// ActionNothing means the debounce window closed with nothing pending.
	ActionNothing ActionKind = iota

	// ActionCustom is a one-shot, non-file trigger (e.g. the initial run).
	ActionCustom

	// ActionFilesChanged carries the coalesced set of changed paths.
	ActionFilesChanged
)

// Action is the outcome of one debounce tick. Exactly one is produced
// per tick by Changes.TakeAction.
type Action struct {
	Kind ActionKind

	// Reason is set for ActionCustom.
	Reason string

	// Paths is set for ActionFilesChanged: deduplicated relative paths
	// in sorted order.
	Paths []string
}

// Nothing returns the empty action.
func Nothing() Action {
	return Action{Kind: ActionNothing}
}

// Custom returns a one-shot trigger action.
func Custom(reason string) Action {
	return Action{Kind: ActionCustom, Reason: reason}
}

// FilesChanged returns a file-change action. Callers must pass paths
// already sorted.
func FilesChanged(paths []string) Action {
	return Action{Kind: ActionFilesChanged, Paths: paths}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionNothing:
		return "Nothing"
	case ActionCustom:
		return fmt.Sprintf("Custom(%s)", a.Reason)
	case ActionFilesChanged:
		return fmt.Sprintf("FilesChanged(%s)", strings.Join(a.Paths, ", "))
	default:
		return fmt.Sprintf("Action(%d)", int(a.Kind))
	}
}

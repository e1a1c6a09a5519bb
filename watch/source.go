package watch

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/cadre-tools/autocheck/errors"
	"github.com/cadre-tools/autocheck/logger"
)

// Source delivers raw filesystem events. The stream ends (the channel
// closes) only when the source is closed or the transport breaks; the
// driver loop treats an unexpected close as fatal.
type Source interface {
	// Watch registers the root path. With recursive set, the whole tree
	// below it is watched, including directories created later.
	Watch(root string, recursive bool) error

	// Events returns the event stream.
	Events() <-chan Event

	// Close stops watching and closes the event stream.
	Close() error
}

// NotifySource adapts fsnotify to the Event stream. fsnotify watches
// single directories only, so recursive mode walks the tree at Watch
// time and adds directories created afterwards as they appear.
type NotifySource struct {
	watcher   *fsnotify.Watcher
	events    chan Event
	recursive bool
	log       *zap.SugaredLogger
}

// NewNotifySource creates an unstarted source. Call Watch to begin.
func NewNotifySource() (*NotifySource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	return &NotifySource{
		watcher: watcher,
		events:  make(chan Event, 64),
		log:     logger.ComponentLogger("watch.source"),
	}, nil
}

func (s *NotifySource) Watch(root string, recursive bool) error {
	s.recursive = recursive
	if recursive {
		if err := s.addTree(root); err != nil {
			return err
		}
	} else {
		if err := s.watcher.Add(root); err != nil {
			return errors.Wrapf(err, "failed to watch %s", root)
		}
	}
	go s.run()
	return nil
}

func (s *NotifySource) Events() <-chan Event {
	return s.events
}

func (s *NotifySource) Close() error {
	return s.watcher.Close()
}

// addTree registers root and every directory below it.
func (s *NotifySource) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, "failed to walk %s", path)
		}
		if !d.IsDir() {
			return nil
		}
		if err := s.watcher.Add(path); err != nil {
			return errors.Wrapf(err, "failed to watch %s", path)
		}
		s.log.Debugw("Watching directory", logger.FieldDir, path)
		return nil
	})
}

// run translates fsnotify events until both backend channels close.
func (s *NotifySource) run() {
	defer close(s.events)
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.translate(ev)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.events <- Event{Kind: EventError, Err: err}
		}
	}
}

// translate maps one fsnotify event onto the Event stream. An fsnotify
// event can carry several op bits; each relevant bit becomes its own
// Event so the aggregator sees every variant.
func (s *NotifySource) translate(ev fsnotify.Event) {
	if ev.Op&fsnotify.Create == fsnotify.Create {
		// A directory created inside a recursively watched tree has to
		// be added to the watch set, subtree included: files may already
		// exist under it by the time the event is observed.
		if s.recursive {
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				if err := s.addTree(ev.Name); err != nil {
					s.events <- Event{Kind: EventError, Path: ev.Name, Err: err}
				}
			}
		}
		s.events <- Event{Kind: EventCreated, Path: ev.Name}
	}
	if ev.Op&fsnotify.Write == fsnotify.Write {
		s.events <- Event{Kind: EventWritten, Path: ev.Name}
	}
	if ev.Op&fsnotify.Remove == fsnotify.Remove {
		s.events <- Event{Kind: EventRemoved, Path: ev.Name}
	}
	if ev.Op&fsnotify.Rename == fsnotify.Rename {
		// fsnotify only reports the source; the destination shows up as
		// a separate Create in the same burst.
		s.events <- Event{Kind: EventRenamed, From: ev.Name}
	}
	if ev.Op&fsnotify.Chmod == fsnotify.Chmod {
		s.events <- Event{Kind: EventMetadata, Path: ev.Name}
	}
}

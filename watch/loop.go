package watch

import (
	"time"

	"go.uber.org/zap"

	"github.com/cadre-tools/autocheck/errors"
	"github.com/cadre-tools/autocheck/logger"
)

// Loop is the driver: it forwards raw events into the aggregator and
// flushes it into the action queue on every debounce tick.
//
// The debounce is a fixed-period poll, not a quiet-period wait: the
// timer restarts to the full delay after every received event and
// every tick, matching a blocking receive with timeout. Aggregated
// state is flushed at most once per delay interval.
type Loop struct {
	changes *Changes
	src     Source
	delay   time.Duration
	actions chan<- Action
	stop    <-chan struct{}
	log     *zap.SugaredLogger
}

// NewLoop wires the driver. stop may be nil when no external shutdown
// signal exists (tests drive shutdown by closing the source instead).
func NewLoop(changes *Changes, src Source, delay time.Duration, actions chan<- Action, stop <-chan struct{}, log *zap.SugaredLogger) *Loop {
	return &Loop{
		changes: changes,
		src:     src,
		delay:   delay,
		actions: actions,
		stop:    stop,
		log:     log,
	}
}

// Run blocks until the stop channel fires (returns nil) or the event
// stream closes unexpectedly (returns ErrEventStreamClosed; fatal,
// there is no way to re-establish watching).
func (l *Loop) Run() error {
	timer := time.NewTimer(l.delay)
	defer timer.Stop()

	for {
		select {
		case <-l.stop:
			return nil

		case ev, ok := <-l.src.Events():
			if !ok {
				return errors.ErrEventStreamClosed
			}
			l.handle(ev)
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(l.delay)

		case <-timer.C:
			l.dispatch()
			timer.Reset(l.delay)
		}
	}
}

// handle classifies one raw event. The switch is exhaustive over
// EventKind.
func (l *Loop) handle(ev Event) {
	switch ev.Kind {
	case EventCreated, EventWritten, EventRemoved:
		l.changes.Add(ev.Path)
	case EventRenamed:
		// Both ends of a rename count as changes; either may be absent
		// (backend limitation) or ignored independently of the other.
		if ev.From != "" {
			l.changes.Add(ev.From)
		}
		if ev.Path != "" {
			l.changes.Add(ev.Path)
		}
	case EventMetadata:
		// Metadata-only changes never trigger the pipeline.
	case EventRescan:
		l.log.Warnw("Watch backend requested a rescan")
	case EventError:
		l.log.Errorw("Watch error",
			logger.FieldError, ev.Err,
			logger.FieldPath, ev.Path)
	}
}

// dispatch flushes the aggregator. Nothing-actions stay out of the
// queue: during a long command batch, ticks keep firing and a bounded
// queue must not fill up with empties behind a busy runner.
func (l *Loop) dispatch() {
	act := l.changes.TakeAction()
	if act.Kind == ActionNothing {
		if logger.ShouldLogTrace(logger.Verbosity) {
			l.log.Debugw("Debounce tick with no pending changes")
		}
		return
	}
	l.actions <- act
}

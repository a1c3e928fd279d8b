package loop

import (
	"iter"

	"github.com/vovakirdan/letterbox/internal/core"
)

// Event is something the platform reports between iterations.
type Event interface{ isEvent() }

// QuitEvent requests termination (window closed, Ctrl+C, SIGTERM).
type QuitEvent struct{}

func (QuitEvent) isEvent() {}

// ResizeEvent reports a new surface size from the platform.
type ResizeEvent struct{ W, H int }

func (ResizeEvent) isEvent() {}

// FullscreenEvent reports that the platform entered or left fullscreen on
// its own. Size is the new surface size, if known.
type FullscreenEvent struct {
	Enabled bool
	Size    core.Size
}

func (FullscreenEvent) isEvent() {}

// ActionEvent carries a semantic user action.
type ActionEvent struct{ Action core.Action }

func (ActionEvent) isEvent() {}

// EventSource yields the events pending for the current iteration. Each call
// to Drain starts a fresh, finite sequence.
type EventSource interface {
	Drain() iter.Seq[Event]
}

// Queue is an EventSource backed by a slice. Hosts that receive events by
// callback push them here and the engine drains them at the next iteration.
type Queue struct {
	events []Event
}

// Push appends an event.
func (q *Queue) Push(ev Event) {
	q.events = append(q.events, ev)
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	return len(q.events)
}

// Drain yields and removes the pending events. Events pushed while draining
// are left for the next iteration.
func (q *Queue) Drain() iter.Seq[Event] {
	pending := q.events
	q.events = nil
	return func(yield func(Event) bool) {
		for i, ev := range pending {
			if !yield(ev) {
				// Keep what was not consumed, ahead of anything new.
				q.events = append(append([]Event(nil), pending[i+1:]...), q.events...)
				return
			}
		}
	}
}

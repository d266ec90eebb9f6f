package gatetest

import (
	"github.com/iov-one/gatekeeper"
	"github.com/sasha-s/go-deadlock"
)

// Recorder is an event sink that keeps all published events in memory.
type Recorder struct {
	mu     deadlock.Mutex
	events []gatekeeper.Event
}

var _ gatekeeper.EventSink = (*Recorder)(nil)

func (r *Recorder) Publish(e gatekeeper.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of all recorded events.
func (r *Recorder) Events() []gatekeeper.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]gatekeeper.Event(nil), r.events...)
}

// Kinds returns the kinds of all recorded events in publish order.
func (r *Recorder) Kinds() []gatekeeper.EventKind {
	var kinds []gatekeeper.EventKind
	for _, e := range r.Events() {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

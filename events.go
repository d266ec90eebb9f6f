package gatekeeper

import (
	"context"
	"time"
)

// EventKind names a state change notification.
type EventKind string

const (
	EventOwnerAdded          EventKind = "owner-added"
	EventOwnerRemoved        EventKind = "owner-removed"
	EventManagerChanged      EventKind = "allowlist-manager-changed"
	EventThresholdChanged    EventKind = "threshold-changed"
	EventTransactionSubmit   EventKind = "transaction-submitted"
	EventTransactionConfirm  EventKind = "transaction-confirmed"
	EventTransactionRevoke   EventKind = "transaction-revoked"
	EventTransactionExecuted EventKind = "transaction-executed"
	EventAllowlistUpdated    EventKind = "allowlist-updated"
)

// Event is a notification about a committed state change. Which attributes
// are set depends on the kind: owner and manager events carry Address,
// transaction events carry TransactionID (and Address for the target),
// allowlist events carry Address and Allowed.
type Event struct {
	ID            string    `json:"id"`
	Kind          EventKind `json:"kind"`
	Time          time.Time `json:"time"`
	Caller        Address   `json:"caller,omitempty"`
	Address       Address   `json:"address,omitempty"`
	TransactionID uint64    `json:"transaction_id"`
	Allowed       bool      `json:"allowed,omitempty"`
	Threshold     uint32    `json:"threshold,omitempty"`
	Confirmations uint32    `json:"confirmations,omitempty"`
}

// EventSink accepts notifications. Publishing is fire-and-forget, an
// implementation must not block the caller for long and must not fail the
// operation that produced the event.
type EventSink interface {
	Publish(Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(Event)

func (fn EventSinkFunc) Publish(e Event) {
	fn(e)
}

// NopSink drops all events.
var NopSink EventSink = EventSinkFunc(func(Event) {})

// EventBuffer collects events raised while processing a single operation.
// Events are published only once the operation succeeded, so that a client
// is never notified about a change that was rolled back.
type EventBuffer struct {
	events []Event
}

// WithEventBuffer returns a context that collects all events emitted with
// it into the returned buffer.
func WithEventBuffer(ctx Context) (Context, *EventBuffer) {
	buf := &EventBuffer{}
	return context.WithValue(ctx, contextKeyEvents, buf), buf
}

// Emit records an event in the buffer attached to the context. Without a
// buffer the event is dropped.
func Emit(ctx Context, e Event) {
	buf, ok := ctx.Value(contextKeyEvents).(*EventBuffer)
	if !ok {
		GetLogger(ctx).Debug("event dropped, no buffer", "kind", e.Kind)
		return
	}
	buf.events = append(buf.events, e)
}

// Events returns all collected events in the order they were emitted.
func (b *EventBuffer) Events() []Event {
	return b.events
}

// Reset drops all collected events.
func (b *EventBuffer) Reset() {
	b.events = nil
}

// Package app wires an editor session to storage, change notifications and
// the audit log, and carries application-wide UI settings.
package app

import "sync"

// EventType identifies session events.
type EventType int

const (
	EventMarkersLoaded EventType = iota
	EventLoadFailed
	EventSaveFailed
	EventDeleteFailed
	EventOpenSpot
	EventHistoryFailed
)

func (e EventType) String() string {
	switch e {
	case EventMarkersLoaded:
		return "markers-loaded"
	case EventLoadFailed:
		return "load-failed"
	case EventSaveFailed:
		return "save-failed"
	case EventDeleteFailed:
		return "delete-failed"
	case EventOpenSpot:
		return "open-spot"
	case EventHistoryFailed:
		return "history-failed"
	default:
		return "unknown"
	}
}

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// MarkerError is the payload of the *Failed events.
type MarkerError struct {
	MarkerID string
	Err      error
}

func (e MarkerError) Error() string {
	if e.MarkerID == "" {
		return e.Err.Error()
	}
	return e.MarkerID + ": " + e.Err.Error()
}

func (e MarkerError) Unwrap() error { return e.Err }

// Events is a small synchronous event bus.
type Events struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventListener
}

// NewEvents creates an empty bus.
func NewEvents() *Events {
	return &Events{listeners: make(map[EventType][]EventListener)}
}

// On registers an event listener for the specified event type.
func (e *Events) On(event EventType, listener EventListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (e *Events) Emit(event EventType, data interface{}) {
	e.mu.RLock()
	listeners := e.listeners[event]
	e.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

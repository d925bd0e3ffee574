package flappy

import "fmt"

// Event is a discrete side effect signaled by the simulation for audio,
// haptics or any other collaborator.
type Event int

const (
	EventFlap  Event = iota // An impulse was applied
	EventPoint              // A gate was passed
	EventHit                // The round ended in a collision
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventFlap:
		return "flap"
	case EventPoint:
		return "point"
	case EventHit:
		return "hit"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// MarshalText encodes the event by name.
func (e Event) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// EventSink receives simulation events in the order they occurred.
type EventSink interface {
	HandleEvent(e Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(e Event)

// HandleEvent calls f(e).
func (f EventSinkFunc) HandleEvent(e Event) {
	f(e)
}

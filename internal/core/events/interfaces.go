package events

import "time"

// Event types published by the spatial systems.
const (
	// MapReloaded carries the reloaded map after a watched file changes.
	MapReloaded = "map.reloaded"
	// MapRejected carries the error for a watched file that failed to load.
	MapRejected = "map.rejected"
	PathPlanned = "path.planned"
	PathFailed  = "path.failed"
	FOVComputed = "fov.computed"
	FOVFailed   = "fov.failed"
)

// Bus is a thread-safe, in-process pub/sub bus.
//
// Handlers subscribe by Event.Type(). Publish calls them synchronously in the
// caller goroutine and joins their errors. Metrics are collected only while at
// least one observer is registered.
type Bus interface {
	// Publish delivers the event to every active subscriber of event.Type().
	Publish(event Event) error
	// PublishAsync publishes in a separate goroutine. The returned channel
	// receives the joined handler error (or nil) and is then closed.
	PublishAsync(event Event) <-chan error
	// Subscribe registers a handler for eventType.
	Subscribe(eventType string, handler Handler) (Subscription, error)
	// Unsubscribe cancels sub. A nil sub is ignored.
	Unsubscribe(sub Subscription) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	// Metrics returns a snapshot of the accumulated counters.
	Metrics() Metrics
}

// Event is an immutable message transported by the Bus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

// Handler is invoked once per delivered event.
type Handler func(event Event) error

// Subscription is a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// Observer is notified about every publish and its delivery outcome.
// Observers should return quickly.
type Observer interface {
	OnPublish(event Event)
	OnDelivered(event Event, handlers int, err error, elapsed time.Duration)
}

type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}

package manager

// Event is one lifecycle notification: load_start, load_ready, load_error,
// unload, stream_error. ModelID names the affected model; Fields carries
// event-specific detail such as the task id.
type Event struct {
	Name    string
	ModelID string
	Fields  map[string]any
}

// EventPublisher consumes lifecycle events. Publish is called from load and
// stream goroutines, so implementations must be non-blocking and must not
// panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher drops events; the default when none is configured.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

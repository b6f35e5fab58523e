package lingua

// Event is a sealed interface representing a streaming event.
// Transport and protocol errors come from Next()'s error return, not from
// events. The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventTextDelta carries one non-empty fragment of assistant text.
type EventTextDelta struct {
	Delta string
}

func (EventTextDelta) event() {}

// Interface compliance check.
var _ Event = EventTextDelta{}

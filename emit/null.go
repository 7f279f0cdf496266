package emit

// NullEmitter implements Emitter by discarding all events.
type NullEmitter struct{}

// NewNullEmitter creates an emitter that drops every event. Safe for
// concurrent use with zero overhead.
func NewNullEmitter() *NullEmitter {
	return &NullEmitter{}
}

// Emit discards the event.
func (n *NullEmitter) Emit(event Event) {}

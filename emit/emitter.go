package emit

// Emitter receives observability events from council turn execution.
//
// Implementations must be safe for concurrent use; the proposal, discussion
// and judging stages emit from multiple goroutines. Emit must not panic and
// must not block turn execution on a slow backend.
type Emitter interface {
	Emit(event Event)
}

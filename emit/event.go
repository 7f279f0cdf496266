package emit

// Event represents an observability event emitted while a council turn runs.
//
// Events cover stage start/finish, per-agent completions, absorbed failures,
// and turn-level outcomes. They are delivered to an Emitter, which may log
// them, export them as OpenTelemetry spans, or drop them.
type Event struct {
	// TurnID identifies the council turn that emitted this event.
	TurnID string

	// Stage names the pipeline stage, e.g. "proposal", "discussion",
	// "judging", "finalize". Empty for turn-level events.
	Stage string

	// AgentID identifies the worker or judge involved, when any.
	AgentID string

	// Msg is a short machine-friendly description, e.g. "stage_start",
	// "agent_complete", "agent_failed".
	Msg string

	// Meta carries additional structured data. Common keys:
	//   - "duration_ms": elapsed milliseconds
	//   - "error": absorbed error text
	//   - "tokens_in", "tokens_out": token usage for a gateway call
	//   - "model": model identifier behind a gateway call
	Meta map[string]interface{}
}

// Package providers implements the completion gateway: stateless adapters
// that issue a single request to an external LLM service and normalize every
// provider's reply into one canonical Completion shape.
//
// Adapters are constructed explicitly with their own client instance and are
// safe for concurrent use. The gateway performs no parsing or validation of
// the reply text and never retries; classification of failures into
// GatewayError codes exists for logging and operator visibility only.
package providers

import "context"

// Effort is a reasoning-effort hint passed through to the provider. It maps
// to per-provider output token budgets, not to any retry or timeout behavior.
type Effort string

const (
	// EffortFast requests a quick, cheaper completion.
	EffortFast Effort = "fast"

	// EffortReasoning requests a slower, more thorough completion.
	EffortReasoning Effort = "reasoning"
)

// Standard conversation roles, aligned with the conventions used by the
// major LLM providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in the conversation sent to a provider.
type Message struct {
	Role    string
	Content string
}

// FileRef is an opaque reference to an externally stored file. The gateway
// passes the reference through to the provider; it never reads file bytes.
type FileRef struct {
	ID   string
	Name string
}

// Request describes a single completion call.
type Request struct {
	// Instruction is the persona-derived system prompt.
	Instruction string

	// Messages is the structured conversation (user and assistant turns).
	Messages []Message

	// Files are opaque references included as context for the provider.
	Files []FileRef

	// Model selects the provider model (e.g. "gpt-4o",
	// "claude-3-5-sonnet-20241022", "gemini-1.5-pro").
	Model string

	// Effort is an optional reasoning-effort hint.
	Effort Effort
}

// Completion is the canonical reply shape every provider adapter normalizes
// into before any pipeline stage sees it.
type Completion struct {
	Text         string
	InputTokens  int
	OutputTokens int
	Model        string
}

// Completer issues one completion request to an external service.
//
// Implementations must be safe for concurrent use, respect context
// cancellation, and propagate transport errors to the caller. Isolating
// failures is the calling stage's responsibility.
type Completer interface {
	Complete(ctx context.Context, req Request) (Completion, error)
	Name() string
}

// GatewayError classifies a provider failure. Retryable records whether the
// failure was transient; the pipeline never retries, but the classification
// is logged for operators.
type GatewayError struct {
	Code      string
	Message   string
	Retryable bool
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	return e.Message
}

// IsRetryable reports whether the failure was transient.
func (e *GatewayError) IsRetryable() bool {
	return e.Retryable
}

// maxOutputTokens maps an effort hint to a provider output token budget.
func maxOutputTokens(effort Effort) int {
	if effort == EffortReasoning {
		return 4096
	}
	return 1024
}

// fileContext renders opaque file references as a trailing context block, or
// "" when the request carries no files.
func fileContext(files []FileRef) string {
	if len(files) == 0 {
		return ""
	}
	out := "Attached files (content available to the service by reference):\n"
	for _, f := range files {
		out += "- " + f.Name + " (ref: " + f.ID + ")\n"
	}
	return out
}

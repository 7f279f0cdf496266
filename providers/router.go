package providers

import (
	"context"
	"fmt"
	"strings"
)

// Router dispatches completion requests to a provider adapter based on the
// requested model identifier.
//
// Routing is by model-name prefix:
//
//	gpt-*, o1*, o3*, o4*  -> "openai"
//	claude-*              -> "anthropic"
//	gemini-*              -> "google"
//
// Router holds no mutable state after construction and is safe for
// concurrent use, provided the registered adapters are.
type Router struct {
	completers map[string]Completer
}

// NewRouter creates a router over the given adapters, keyed by their Name().
func NewRouter(completers ...Completer) *Router {
	byName := make(map[string]Completer, len(completers))
	for _, c := range completers {
		byName[c.Name()] = c
	}
	return &Router{completers: byName}
}

// Name returns "router".
func (r *Router) Name() string {
	return "router"
}

// Complete resolves the adapter for req.Model and delegates the call.
//
// Returns a GatewayError with code "unknown_model" when the model maps to no
// provider, and "provider_unavailable" when the provider was not registered.
func (r *Router) Complete(ctx context.Context, req Request) (Completion, error) {
	provider := ProviderFor(req.Model)
	if provider == "" {
		return Completion{}, &GatewayError{
			Code:    "unknown_model",
			Message: fmt.Sprintf("no provider known for model %q", req.Model),
		}
	}

	completer, ok := r.completers[provider]
	if !ok {
		return Completion{}, &GatewayError{
			Code:    "provider_unavailable",
			Message: fmt.Sprintf("provider %q for model %q is not configured", provider, req.Model),
		}
	}

	return completer.Complete(ctx, req)
}

// ProviderFor maps a model identifier to a provider name, or "" when the
// model is unrecognized.
func ProviderFor(model string) string {
	switch {
	case strings.HasPrefix(model, "gpt-"),
		strings.HasPrefix(model, "o1"),
		strings.HasPrefix(model, "o3"),
		strings.HasPrefix(model, "o4"):
		return "openai"
	case strings.HasPrefix(model, "claude-"):
		return "anthropic"
	case strings.HasPrefix(model, "gemini-"):
		return "google"
	}
	return ""
}

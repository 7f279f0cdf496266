package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicCompleter implements Completer using Anthropic's Messages API.
//
// The adapter wraps the official anthropic-sdk-go client. Anthropic takes the
// system prompt as a separate parameter rather than a conversation message,
// so the instruction is lifted out of the message list here.
type AnthropicCompleter struct {
	client *anthropic.Client
}

// NewAnthropicCompleter creates an Anthropic gateway adapter.
func NewAnthropicCompleter(apiKey string) (*AnthropicCompleter, error) {
	if apiKey == "" {
		return nil, errors.New("Anthropic API key cannot be empty")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicCompleter{client: &client}, nil
}

// Name returns "anthropic" as the provider identifier.
func (p *AnthropicCompleter) Name() string {
	return "anthropic"
}

// Complete issues a single Messages API call and normalizes the reply.
func (p *AnthropicCompleter) Complete(ctx context.Context, req Request) (Completion, error) {
	if err := ctx.Err(); err != nil {
		return Completion{}, err
	}

	messages := make([]anthropic.MessageParam, 0, len(req.Messages)+1)
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}
	if fc := fileContext(req.Files); fc != "" {
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(fc)))
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(maxOutputTokens(req.Effort)),
		Messages:  messages,
	}
	if req.Instruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.Instruction}}
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return Completion{}, mapAnthropicError(err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return Completion{
		Text:         text.String(),
		InputTokens:  int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
		Model:        req.Model,
	}, nil
}

// mapAnthropicError converts Anthropic API errors to GatewayError values.
func mapAnthropicError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &GatewayError{Code: "timeout", Message: "Anthropic API request timed out", Retryable: true}
	}

	lowerErr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(lowerErr, "401"),
		strings.Contains(lowerErr, "403"),
		strings.Contains(lowerErr, "authentication"),
		strings.Contains(lowerErr, "api_key"):
		return &GatewayError{Code: "invalid_api_key", Message: "Anthropic API key is invalid or expired"}

	case strings.Contains(lowerErr, "429"),
		strings.Contains(lowerErr, "rate_limit"),
		strings.Contains(lowerErr, "too many requests"):
		return &GatewayError{Code: "rate_limited", Message: "Anthropic API rate limit exceeded", Retryable: true}

	case strings.Contains(lowerErr, "quota"),
		strings.Contains(lowerErr, "billing"):
		return &GatewayError{Code: "quota_exceeded", Message: "Anthropic API quota exceeded"}

	case strings.Contains(lowerErr, "overloaded"),
		strings.Contains(lowerErr, "529"),
		strings.Contains(lowerErr, "500"):
		return &GatewayError{Code: "server_error", Message: fmt.Sprintf("Anthropic API server error: %v", err), Retryable: true}

	case strings.Contains(lowerErr, "timeout"),
		strings.Contains(lowerErr, "deadline"):
		return &GatewayError{Code: "timeout", Message: "Anthropic API request timed out", Retryable: true}
	}

	return &GatewayError{Code: "api_error", Message: fmt.Sprintf("Anthropic API error: %v", err)}
}

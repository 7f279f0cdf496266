package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAICompleter implements Completer using OpenAI's chat completions API.
//
// The adapter wraps the official openai-go SDK. It is safe for concurrent
// use: the underlying client handles request-level state internally and the
// adapter itself holds none.
type OpenAICompleter struct {
	client *openai.Client
}

// NewOpenAICompleter creates an OpenAI gateway adapter.
//
// Returns an error if apiKey is empty; the model is chosen per request.
func NewOpenAICompleter(apiKey string) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key cannot be empty")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAICompleter{client: &client}, nil
}

// Name returns "openai" as the provider identifier.
func (p *OpenAICompleter) Name() string {
	return "openai"
}

// Complete issues a single chat completion call and normalizes the reply.
func (p *OpenAICompleter) Complete(ctx context.Context, req Request) (Completion, error) {
	if err := ctx.Err(); err != nil {
		return Completion{}, err
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+2)
	if req.Instruction != "" {
		messages = append(messages, openai.SystemMessage(req.Instruction))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}
	if fc := fileContext(req.Files); fc != "" {
		messages = append(messages, openai.UserMessage(fc))
	}

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               shared.ChatModel(req.Model),
		Messages:            messages,
		MaxCompletionTokens: openai.Int(int64(maxOutputTokens(req.Effort))),
	})
	if err != nil {
		return Completion{}, mapOpenAIError(err)
	}

	if len(completion.Choices) == 0 {
		return Completion{}, &GatewayError{Code: "empty_response", Message: "no choices in OpenAI response"}
	}

	return Completion{
		Text:         completion.Choices[0].Message.Content,
		InputTokens:  int(completion.Usage.PromptTokens),
		OutputTokens: int(completion.Usage.CompletionTokens),
		Model:        req.Model,
	}, nil
}

// mapOpenAIError converts OpenAI API errors to GatewayError values.
func mapOpenAIError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &GatewayError{Code: "timeout", Message: "OpenAI API request timed out", Retryable: true}
	}

	lowerErr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(lowerErr, "rate limit"),
		strings.Contains(lowerErr, "429"),
		strings.Contains(lowerErr, "too many requests"):
		return &GatewayError{Code: "rate_limited", Message: "OpenAI API rate limit exceeded", Retryable: true}

	case strings.Contains(lowerErr, "invalid api key"),
		strings.Contains(lowerErr, "incorrect api key"),
		strings.Contains(lowerErr, "401"),
		strings.Contains(lowerErr, "unauthorized"),
		strings.Contains(lowerErr, "authentication"):
		return &GatewayError{Code: "invalid_api_key", Message: "OpenAI API key is invalid or expired"}

	case strings.Contains(lowerErr, "quota"),
		strings.Contains(lowerErr, "billing"):
		return &GatewayError{Code: "quota_exceeded", Message: "OpenAI API quota exceeded"}

	case strings.Contains(lowerErr, "500"),
		strings.Contains(lowerErr, "502"),
		strings.Contains(lowerErr, "503"),
		strings.Contains(lowerErr, "internal server error"),
		strings.Contains(lowerErr, "service unavailable"):
		return &GatewayError{Code: "server_error", Message: fmt.Sprintf("OpenAI API server error: %v", err), Retryable: true}

	case strings.Contains(lowerErr, "connection"),
		strings.Contains(lowerErr, "timeout"),
		strings.Contains(lowerErr, "network"):
		return &GatewayError{Code: "network_error", Message: fmt.Sprintf("network error calling OpenAI API: %v", err), Retryable: true}
	}

	return &GatewayError{Code: "api_error", Message: fmt.Sprintf("OpenAI API error: %v", err)}
}

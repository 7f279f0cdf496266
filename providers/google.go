package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GoogleCompleter implements Completer using Google's Gemini API.
//
// Gemini has no native multi-turn parameter shape matching the other
// providers, so the conversation is flattened into a single prompt with the
// instruction installed as the model's system instruction.
type GoogleCompleter struct {
	client *genai.Client
}

// NewGoogleCompleter creates a Gemini gateway adapter.
//
// The ctx is used only for client construction; individual calls carry their
// own context.
func NewGoogleCompleter(ctx context.Context, apiKey string) (*GoogleCompleter, error) {
	if apiKey == "" {
		return nil, errors.New("Google API key cannot be empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google client: %w", err)
	}

	return &GoogleCompleter{client: client}, nil
}

// Close releases the underlying Gemini client resources.
func (p *GoogleCompleter) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// Name returns "google" as the provider identifier.
func (p *GoogleCompleter) Name() string {
	return "google"
}

// Complete issues a single GenerateContent call and normalizes the reply.
func (p *GoogleCompleter) Complete(ctx context.Context, req Request) (Completion, error) {
	if err := ctx.Err(); err != nil {
		return Completion{}, err
	}

	model := p.client.GenerativeModel(req.Model)
	model.SetMaxOutputTokens(int32(maxOutputTokens(req.Effort)))
	if req.Instruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.Instruction)},
		}
	}

	var prompt strings.Builder
	for _, m := range req.Messages {
		if m.Role == RoleAssistant {
			prompt.WriteString("Assistant: ")
		}
		prompt.WriteString(m.Content)
		prompt.WriteString("\n\n")
	}
	if fc := fileContext(req.Files); fc != "" {
		prompt.WriteString(fc)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		return Completion{}, mapGoogleError(err)
	}

	text, inTokens, outTokens := flattenGoogleResponse(resp)
	return Completion{
		Text:         text,
		InputTokens:  inTokens,
		OutputTokens: outTokens,
		Model:        req.Model,
	}, nil
}

// flattenGoogleResponse extracts the text parts and token counts from a
// Gemini response. Empty candidates yield an empty completion text.
func flattenGoogleResponse(resp *genai.GenerateContentResponse) (string, int, int) {
	if resp == nil {
		return "", 0, 0
	}

	inTokens, outTokens := 0, 0
	if resp.UsageMetadata != nil {
		inTokens = int(resp.UsageMetadata.PromptTokenCount)
		outTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	if len(resp.Candidates) == 0 {
		return "", inTokens, outTokens
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", inTokens, outTokens
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String(), inTokens, outTokens
}

// mapGoogleError converts Google API errors to GatewayError values.
func mapGoogleError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &GatewayError{Code: "timeout", Message: "Google API request timed out", Retryable: true}
	}

	lowerErr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(lowerErr, "api key"),
		strings.Contains(lowerErr, "authentication"),
		strings.Contains(lowerErr, "unauthorized"):
		return &GatewayError{Code: "invalid_api_key", Message: fmt.Sprintf("invalid or missing Google API key: %v", err)}

	case strings.Contains(lowerErr, "rate limit"),
		strings.Contains(lowerErr, "too many requests"),
		strings.Contains(lowerErr, "resource_exhausted"):
		return &GatewayError{Code: "rate_limited", Message: fmt.Sprintf("Google API rate limit exceeded: %v", err), Retryable: true}

	case strings.Contains(lowerErr, "quota"),
		strings.Contains(lowerErr, "billing"):
		return &GatewayError{Code: "quota_exceeded", Message: fmt.Sprintf("Google API quota exceeded: %v", err)}
	}

	return &GatewayError{Code: "api_error", Message: fmt.Sprintf("Google API error: %v", err), Retryable: true}
}

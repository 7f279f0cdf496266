package providers

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMapOpenAIError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  string
		retryable bool
	}{
		{"rate limit", errors.New("429 too many requests"), "rate_limited", true},
		{"bad key", errors.New("invalid api key provided"), "invalid_api_key", false},
		{"quota", errors.New("insufficient_quota: billing hard limit"), "quota_exceeded", false},
		{"server error", errors.New("503 service unavailable"), "server_error", true},
		{"network", errors.New("connection refused"), "network_error", true},
		{"generic", errors.New("something odd"), "api_error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gwErr *GatewayError
			if !errors.As(mapOpenAIError(tt.err), &gwErr) {
				t.Fatal("expected GatewayError")
			}
			if gwErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", gwErr.Code, tt.wantCode)
			}
			if gwErr.IsRetryable() != tt.retryable {
				t.Errorf("retryable = %v, want %v", gwErr.IsRetryable(), tt.retryable)
			}
		})
	}
}

func TestMapOpenAIError_PassesThroughCancellation(t *testing.T) {
	if err := mapOpenAIError(context.Canceled); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled to pass through, got %v", err)
	}
}

func TestMapAnthropicError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  string
		retryable bool
	}{
		{"auth", errors.New("401 authentication_error"), "invalid_api_key", false},
		{"rate limit", errors.New("rate_limit_error: 429"), "rate_limited", true},
		{"overloaded", errors.New("overloaded_error"), "server_error", true},
		{"timeout", errors.New("request deadline exceeded"), "timeout", true},
		{"generic", errors.New("something odd"), "api_error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gwErr *GatewayError
			if !errors.As(mapAnthropicError(tt.err), &gwErr) {
				t.Fatal("expected GatewayError")
			}
			if gwErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", gwErr.Code, tt.wantCode)
			}
			if gwErr.IsRetryable() != tt.retryable {
				t.Errorf("retryable = %v, want %v", gwErr.IsRetryable(), tt.retryable)
			}
		})
	}
}

func TestMapGoogleError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"bad key", errors.New("API key not valid"), "invalid_api_key"},
		{"exhausted", errors.New("resource_exhausted"), "rate_limited"},
		{"quota", errors.New("quota exceeded for project"), "quota_exceeded"},
		{"generic", errors.New("something odd"), "api_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gwErr *GatewayError
			if !errors.As(mapGoogleError(tt.err), &gwErr) {
				t.Fatal("expected GatewayError")
			}
			if gwErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", gwErr.Code, tt.wantCode)
			}
		})
	}
}

func TestFileContext(t *testing.T) {
	if got := fileContext(nil); got != "" {
		t.Errorf("expected empty context for no files, got %q", got)
	}

	got := fileContext([]FileRef{{ID: "f-1", Name: "report.pdf"}})
	if got == "" {
		t.Fatal("expected non-empty file context")
	}
	for _, want := range []string{"report.pdf", "f-1"} {
		if !strings.Contains(got, want) {
			t.Errorf("file context missing %q: %s", want, got)
		}
	}
}

package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPSearcher_DecodesResults(t *testing.T) {
	var gotReq searchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(searchResponse{Results: []Finding{
			{Title: "Go Concurrency Patterns", URL: "https://example.com/1", Snippet: "pipelines and cancellation", PublishedAt: "2024-03-01"},
			{Title: "Effective Go", URL: "https://example.com/2", Snippet: "idioms"},
		}})
	}))
	defer server.Close()

	searcher, err := NewHTTPSearcher(server.URL, "test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	findings, err := searcher.Search(context.Background(), "go concurrency", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
	if findings[0].Title != "Go Concurrency Patterns" {
		t.Errorf("unexpected first finding: %+v", findings[0])
	}
	if findings[0].PublishedAt != "2024-03-01" {
		t.Errorf("published_at not decoded: %+v", findings[0])
	}

	if gotReq.Query != "go concurrency" || gotReq.MaxResults != 5 {
		t.Errorf("unexpected request payload: %+v", gotReq)
	}
}

func TestHTTPSearcher_TruncatesToMaxResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(searchResponse{Results: []Finding{
			{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"},
		}})
	}))
	defer server.Close()

	searcher, err := NewHTTPSearcher(server.URL, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	findings, err := searcher.Search(context.Background(), "anything", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 2 {
		t.Errorf("expected findings truncated to 2, got %d", len(findings))
	}
}

func TestHTTPSearcher_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	}))
	defer server.Close()

	searcher, err := NewHTTPSearcher(server.URL, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := searcher.Search(context.Background(), "anything", 3); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestHTTPSearcher_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	searcher, err := NewHTTPSearcher(server.URL, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := searcher.Search(context.Background(), "anything", 3); err == nil {
		t.Error("expected error for malformed response body")
	}
}

func TestNewHTTPSearcher_EmptyEndpoint(t *testing.T) {
	if _, err := NewHTTPSearcher("", "key"); err == nil {
		t.Error("expected error for empty endpoint")
	}
}

func TestNullSearcher(t *testing.T) {
	findings, err := NullSearcher{}.Search(context.Background(), "anything", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected no findings, got %d", len(findings))
	}
}

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.Stream {
			t.Error("Expected stream=false")
		}
		if req.System == "" {
			t.Error("Expected system prompt to be forwarded")
		}

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:     req.Model,
			Response:  "(p53, apoptosis)",
			Done:      true,
			EvalCount: 10,
		})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{
		BaseURL: server.URL,
		Model:   "llama3.2",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{
		System:    "You extract causal pairs.",
		User:      "Some abstract.",
		MaxTokens: 2000,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Text != "(p53, apoptosis)" {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
}

func TestOllamaProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(ollamaError{Error: "model not found"})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "missing", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Complete(context.Background(), CompletionRequest{User: "x"}); err == nil {
		t.Error("Expected error from API failure")
	}
}

func TestOllamaProvider_MissingModel(t *testing.T) {
	provider, err := NewOllamaProvider(Config{Timeout: 1})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Complete(context.Background(), CompletionRequest{User: "x"}); err == nil {
		t.Error("Expected error for missing model name")
	}
}

package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sessionscribe/internal/services"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	sleeps := 0
	client := NewClient(
		Config{APIKey: "test-key", BaseURL: server.URL, Model: "gemini-1.5-flash", MaxRetries: 3},
		WithRetryBackoff(time.Millisecond, 5*time.Millisecond),
		WithSleeper(func(time.Duration) { sleeps++ }),
	)
	return client, &sleeps
}

func TestGenerateSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in query: %s", r.URL.String())
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"A fine summary."}]},"finishReason":"STOP"}]}`))
	})

	text, err := client.Generate(context.Background(), "summarize this")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "A fine summary." {
		t.Fatalf("Generate = %q", text)
	}
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	calls := 0
	client, sleeps := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"eventually"}]}}]}`))
	})

	text, err := client.Generate(context.Background(), "summarize this")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "eventually" || calls != 3 {
		t.Fatalf("text = %q, calls = %d", text, calls)
	}
	if *sleeps != 2 {
		t.Fatalf("sleeps = %d, want 2", *sleeps)
	}
}

func TestGenerateGivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Generate(context.Background(), "summarize this")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestGenerateBlockedIsNotRetried(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	})

	_, err := client.Generate(context.Background(), "summarize this")
	if !errors.Is(err, services.ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestGenerateSafetyFinishReason(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`))
	})
	_, err := client.Generate(context.Background(), "summarize this")
	if !errors.Is(err, services.ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
}

func TestGenerateClientErrorIsNotRetried(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	})
	_, err := client.Generate(context.Background(), "summarize this")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestGenerateRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.Generate(context.Background(), "summarize this")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if delay, ok := parseRetryAfter("7"); !ok || delay != 7*time.Second {
		t.Fatalf("parseRetryAfter = %v, %v", delay, ok)
	}
	if _, ok := parseRetryAfter(""); ok {
		t.Fatal("empty header should not parse")
	}
}

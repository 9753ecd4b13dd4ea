package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestDeepSeek(t *testing.T, handler http.HandlerFunc) *DeepSeekAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	a, err := NewDeepSeekAdapter("test-key")
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	a.baseURL = server.URL
	return a
}

func TestDeepSeekGenerate(t *testing.T) {
	a := newTestDeepSeek(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","choices":[{"message":{"role":"assistant","content":"hello"}}]}`))
	})

	art, err := a.Generate(context.Background(), "deepseek-chat", "hi")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if art.Content != "hello" {
		t.Fatalf("unexpected content %q", art.Content)
	}
	if art.Adapter != "deepseek" {
		t.Fatalf("unexpected adapter %q", art.Adapter)
	}
}

func TestDeepSeekTransportError(t *testing.T) {
	a := newTestDeepSeek(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := a.Generate(context.Background(), "deepseek-chat", "hi")
	if err == nil {
		t.Fatal("expected error")
	}

	var adapterErr *Error
	if !errors.As(err, &adapterErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if adapterErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status %d", adapterErr.Status)
	}
	if !IsTransient(err) {
		t.Fatal("503 should be transient")
	}
}

func TestDeepSeekContractError(t *testing.T) {
	a := newTestDeepSeek(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"1","choices":[]}`))
	})

	_, err := a.Generate(context.Background(), "deepseek-chat", "hi")
	if err == nil {
		t.Fatal("expected error")
	}

	var contractErr *ContractError
	if !errors.As(err, &contractErr) {
		t.Fatalf("expected *ContractError, got %T", err)
	}
	if IsTransient(err) {
		t.Fatal("contract violations are not transient")
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"rate limited", &Error{Status: 429}, true},
		{"server error", &Error{Status: 500}, true},
		{"bad request", &Error{Status: 400}, false},
		{"temporary flag", &Error{Temporary: true}, true},
		{"plain error", errors.New("nope"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Fatalf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

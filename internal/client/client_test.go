package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	c := New(5*time.Second, "")
	if c == nil {
		t.Fatal("expected non-nil client")
	}
	if c.httpClient.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", c.httpClient.Timeout)
	}
	if c.userAgent != DefaultUserAgent {
		t.Errorf("expected default user agent, got %q", c.userAgent)
	}
}

func TestNewDefaults(t *testing.T) {
	c := New(0, "custom-agent")
	if c.httpClient.Timeout != defaultTimeout {
		t.Errorf("expected default timeout, got %v", c.httpClient.Timeout)
	}
	if c.userAgent != "custom-agent" {
		t.Errorf("expected custom-agent, got %q", c.userAgent)
	}
}

func TestFetchSetsIdentifyingHeaders(t *testing.T) {
	var gotUserAgent, gotCacheControl string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotCacheControl = r.Header.Get("Cache-Control")
		w.Write([]byte(`{"document":[]}`))
	}))
	defer server.Close()

	c := New(2*time.Second, "")
	body, err := c.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected fetch error: %v", err)
	}
	if string(body) != `{"document":[]}` {
		t.Errorf("unexpected body: %s", body)
	}
	if gotUserAgent != DefaultUserAgent {
		t.Errorf("expected User-Agent %q, got %q", DefaultUserAgent, gotUserAgent)
	}
	if gotCacheControl != "no-cache" {
		t.Errorf("expected Cache-Control no-cache, got %q", gotCacheControl)
	}
}

func TestFetchNonSuccessStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    bool
	}{
		{"200 OK", http.StatusOK, false},
		{"204 No Content", http.StatusNoContent, false},
		{"400 Bad Request", http.StatusBadRequest, true},
		{"404 Not Found", http.StatusNotFound, true},
		{"500 Internal Server Error", http.StatusInternalServerError, true},
		{"503 Service Unavailable", http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			_, err := New(2*time.Second, "").Fetch(context.Background(), server.URL)
			if tt.wantErr {
				if !errors.Is(err, ErrStatus) {
					t.Errorf("expected ErrStatus, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFetchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	_, err := New(time.Second, "").Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for refused connection")
	}
}

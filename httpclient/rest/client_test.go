package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/fluency/httpclient"
)

type ack struct {
	Status string `json:"status"`
}

func TestPost_JSONRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body["name"] != "a.wav" {
			t.Errorf("unexpected body %v", body)
		}
		_ = json.NewEncoder(w).Encode(ack{Status: "saved"})
	}))
	defer srv.Close()

	c, err := New(httpclient.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := Post[ack](context.Background(), c, "/update-json/a.wav", map[string]string{"name": "a.wav"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.Data.Status != "saved" {
		t.Errorf("Status = %q, want saved", resp.Data.Status)
	}
}

func TestPost_RawMessageSentVerbatim(t *testing.T) {
	raw := json.RawMessage(`{"words":[],"language":"en"}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ := io.ReadAll(r.Body)
		if string(got) != string(raw) {
			t.Errorf("body = %s, want %s", got, raw)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, _ := New(httpclient.Config{BaseURL: srv.URL})
	resp, err := Post[ack](context.Background(), c, "/x", raw)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
}

func TestGet_WithQueryAndHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lang") != "en" {
			t.Errorf("missing query, got %s", r.URL.RawQuery)
		}
		if r.Header.Get("X-Trace") != "1" {
			t.Error("missing header")
		}
		_ = json.NewEncoder(w).Encode(ack{Status: "ok"})
	}))
	defer srv.Close()

	c, _ := New(httpclient.Config{BaseURL: srv.URL})
	resp, err := Get[ack](context.Background(), c, "/status",
		WithQuery(map[string]string{"lang": "en"}), WithHeader("X-Trace", "1"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.Data.Status != "ok" {
		t.Errorf("Status = %q", resp.Data.Status)
	}
}

func TestErrors_Classified(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"not found", http.StatusNotFound, IsNotFound},
		{"server", http.StatusBadGateway, IsServerError},
		{"retryable", http.StatusServiceUnavailable, IsRetryable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c, _ := New(httpclient.Config{BaseURL: srv.URL})
			_, err := Get[ack](context.Background(), c, "/")
			if !tt.check(err) {
				t.Errorf("classification failed for %d: %v", tt.status, err)
			}
		})
	}
}

func TestGet_DecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c, _ := New(httpclient.Config{BaseURL: srv.URL})
	if _, err := Get[ack](context.Background(), c, "/"); err == nil {
		t.Fatal("expected decode error")
	}
}

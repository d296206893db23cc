package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/fluency/resilience"
)

func TestClient_Do_JSONBodyAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/update-json/a.wav" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("X-Client") != "fluency" {
			t.Error("missing default header")
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Error("missing auth")
		}
		var body map[string]int
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["n"] != 1 {
			t.Errorf("body = %v", body)
		}
		w.Header().Set("X-Saved", "yes")
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL + "/", Headers: map[string]string{"X-Client": "fluency"}, Auth: BearerAuth("tok")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/update-json/a.wav", Body: map[string]int{"n": 1}})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !resp.IsSuccess() || resp.Headers["X-Saved"] != "yes" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestClient_Do_RequestOverrides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "override" || r.Header.Get("Authorization") != "" {
			t.Errorf("auth headers = %v", r.Header)
		}
		if r.URL.Query().Get("q") != "1" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "raw" {
			t.Errorf("body = %q", body)
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: "http://unused.invalid", Auth: BearerAuth("tok")})
	_, err := c.Do(context.Background(), Request{
		Method: http.MethodPut,
		Path:   srv.URL + "/x",
		Query:  map[string]string{"q": "1"},
		Body:   []byte("raw"),
		Auth:   APIKeyAuth("override", ""),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestClient_Do_ReturnsResponseWithStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such file", http.StatusNotFound)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/download/x"})
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected the 404 response alongside the error, got %+v", resp)
	}
}

func TestClient_Do_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Retry: &resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond}})
	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if string(resp.Body) != "ok" || calls.Load() != 3 {
		t.Errorf("body %q after %d calls", resp.Body, calls.Load())
	}
}

func TestClient_Do_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Retry: DefaultRetryConfig()})
	_, _ = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
}

func TestClient_Do_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Breaker: &resilience.BreakerConfig{Name: "t", MaxFailures: 2, Cooldown: time.Minute}})
	for i := 0; i < 3; i++ {
		_, _ = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	}
	if calls.Load() != 2 {
		t.Errorf("expected breaker to stop the third call, got %d calls", calls.Load())
	}
	if c.Breaker().State() != resilience.StateOpen {
		t.Errorf("breaker state = %s", c.Breaker().State())
	}
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsConnection(err) {
		t.Errorf("open breaker should surface as a connection error, got %v", err)
	}
}

func TestClient_Do_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, _ := New(Config{BaseURL: url})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsConnection(err) {
		t.Errorf("expected connection error, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"base url", Config{BaseURL: "http://localhost:8000"}, false},
		{"relative base url", Config{BaseURL: "localhost"}, true},
		{"bad auth", Config{Auth: &AuthConfig{Type: AuthBearer}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.ApplyDefaults()
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

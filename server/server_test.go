package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/fluency/component"
	"github.com/kbukum/fluency/errors"
	"github.com/kbukum/fluency/logger"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	cfg.ApplyDefaults()
	return New(cfg, logger.Nop())
}

func TestServer_DefaultsAndMiddleware(t *testing.T) {
	s := newTestServer(t, Config{MaxBodySize: "1KB"})
	s.ApplyDefaults("fluencyd", func(context.Context) []component.Health {
		return []component.Health{{Name: "storage", Status: component.StatusHealthy}}
	})
	s.GinEngine().POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			RespondWithError(c, errors.InvalidInput("body", err.Error()))
			return
		}
		c.String(http.StatusOK, string(body))
	})
	s.GinEngine().GET("/boom", func(*gin.Context) { panic("boom") })

	h := s.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	if rr.Code != http.StatusOK || rr.Header().Get("X-Request-Id") == "" {
		t.Fatalf("/health: code=%d headers=%v", rr.Code, rr.Header())
	}

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("hi"))
	req.Header.Set("Origin", "http://localhost:3000")
	h.ServeHTTP(rr, req)
	if rr.Body.String() != "hi" || rr.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("/echo: body=%q headers=%v", rr.Body.String(), rr.Header())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 2048))))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized body: code=%d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))
	var body errors.ErrorResponse
	if rr.Code != http.StatusInternalServerError || json.Unmarshal(rr.Body.Bytes(), &body) != nil || body.Error.Code != errors.ErrCodeInternal {
		t.Errorf("/boom: code=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t, Config{})
	s.RegisterDefaultEndpoints("fluencyd", nil)
	s.GinEngine().POST("/upload", func(*gin.Context) {})
	s.GinEngine().GET("/download/:filename", func(*gin.Context) {})

	routes := s.Routes()
	if len(routes) != 8 {
		t.Fatalf("got %d routes: %+v", len(routes), routes)
	}
	if routes[0].Path != "/download/:filename" || routes[1].Path != "/upload" || routes[0].System {
		t.Errorf("API routes should sort first: %+v", routes[:2])
	}
	for _, r := range routes[2:] {
		if !r.System {
			t.Errorf("%s should be a system route", r.Path)
		}
	}
}

func TestHandlerName(t *testing.T) {
	tests := map[string]string{
		"github.com/kbukum/fluency/api.(*Handler).Upload-fm":      "api.Upload",
		"github.com/kbukum/fluency/server/endpoint.Health.func1": "endpoint.Health",
		"main.main":                                              "main.main",
	}
	for in, want := range tests {
		if got := handlerName(in); got != want {
			t.Errorf("handlerName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestServer_StartStop(t *testing.T) {
	s := newTestServer(t, Config{Host: "127.0.0.1"})
	s.httpServer.Addr = "127.0.0.1:0"
	s.RegisterDefaultEndpoints("fluencyd", nil)
	c := NewComponent(s)

	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("health before start = %+v", h)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	resp, err := http.Get("http://" + s.Addr() + "/alive")
	if err != nil {
		t.Fatalf("GET /alive: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/alive status = %d", resp.StatusCode)
	}
	if h := c.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("health = %+v", h)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.Running() {
		t.Error("still running after Stop")
	}
}

func TestRespondAttachment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	RespondAttachment(c, "talk.wav_transcription.json", []byte(`{"words":[]}`))

	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename=talk.wav_transcription.json` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if !strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		t.Errorf("Content-Type = %q", rr.Header().Get("Content-Type"))
	}
}

func TestConfig_Validate(t *testing.T) {
	for _, cfg := range []Config{{Port: -1}, {Port: 70000}, {ReadTimeout: -1}, {WriteTimeout: -1}, {IdleTimeout: -1}} {
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}
	var ok Config
	ok.ApplyDefaults()
	if err := ok.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

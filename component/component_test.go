package component

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/kbukum/fluency/logger"
)

type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

type describedComponent struct {
	mockComponent
}

func (d *describedComponent) Describe() Description {
	return Description{Type: "storage", Details: "provider=memory"}
}

func newTestRegistry() *Registry {
	return NewRegistry(logger.Nop())
}

func TestRegisterAndGet(t *testing.T) {
	r := newTestRegistry()
	c := &mockComponent{name: "storage"}
	if err := r.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&mockComponent{name: "storage"}); err == nil {
		t.Error("expected duplicate registration error")
	}
	if r.Get("storage") != c {
		t.Error("Get returned a different component")
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unknown component")
	}
	if len(r.All()) != 1 {
		t.Errorf("All = %v", r.All())
	}
}

func TestStartAllOrderAndStopReverse(t *testing.T) {
	r := newTestRegistry()
	var started, stopped []string
	for _, name := range []string{"storage", "transcription", "http-server"} {
		_ = r.Register(&mockComponent{name: name, startOrder: &started, stopOrder: &stopped})
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	if got := strings.Join(started, ","); got != "storage,transcription,http-server" {
		t.Errorf("start order = %s", got)
	}
	if got := strings.Join(stopped, ","); got != "http-server,transcription,storage" {
		t.Errorf("stop order = %s", got)
	}
}

func TestStartAllErrorStopsOnlyStarted(t *testing.T) {
	r := newTestRegistry()
	var stopped []string
	_ = r.Register(&mockComponent{name: "storage", stopOrder: &stopped})
	_ = r.Register(&mockComponent{name: "transcription", startErr: fmt.Errorf("sidecar unreachable"), stopOrder: &stopped})
	_ = r.Register(&mockComponent{name: "http-server", stopOrder: &stopped})

	if err := r.StartAll(context.Background()); err == nil || !strings.Contains(err.Error(), "transcription") {
		t.Fatalf("expected transcription start error, got %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(stopped) != 1 || stopped[0] != "storage" {
		t.Errorf("stopped = %v, want [storage]", stopped)
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	r := newTestRegistry()
	_ = r.Register(&mockComponent{name: "a", stopErr: fmt.Errorf("a failed")})
	_ = r.Register(&mockComponent{name: "b", stopErr: fmt.Errorf("b failed")})
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "a failed") || !strings.Contains(err.Error(), "b failed") {
		t.Errorf("StopAll = %v", err)
	}
}

func TestStartAllLogsDescription(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry(logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, "test", &buf))
	_ = r.Register(&describedComponent{mockComponent{name: "storage"}})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "provider=memory") {
		t.Errorf("expected description in log:\n%s", buf.String())
	}
}

func TestHealthAll(t *testing.T) {
	r := newTestRegistry()
	_ = r.Register(&mockComponent{name: "storage", health: Health{Name: "storage", Status: StatusHealthy}})
	_ = r.Register(&mockComponent{name: "transcription", health: Health{Name: "transcription", Status: StatusDegraded, Message: "sidecar slow"}})

	results := r.HealthAll(context.Background())
	if len(results) != 2 || results[0].Status != StatusHealthy || results[1].Status != StatusDegraded {
		t.Errorf("HealthAll = %+v", results)
	}
}

func TestStartAllSkipsStarted(t *testing.T) {
	r := newTestRegistry()
	var started []string
	_ = r.Register(&mockComponent{name: "storage", startOrder: &started})
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	_ = r.Register(&mockComponent{name: "http-server", startOrder: &started})
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(started, ","); got != "storage,http-server" {
		t.Errorf("start order = %s", got)
	}
}

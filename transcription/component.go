package transcription

import (
	"context"
	"strings"
	"sync"

	"github.com/kbukum/fluency/component"
	"github.com/kbukum/fluency/errors"
	"github.com/kbukum/fluency/logger"
	"github.com/kbukum/fluency/observability"
	"github.com/kbukum/fluency/provider"
	"github.com/kbukum/fluency/transcript"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
	_ Provider              = (*Component)(nil)
)

// Component initializes the configured backend through a provider manager
// and serves as the instrumented Provider once started.
type Component struct {
	cfg     Config
	manager *provider.Manager[Provider]
	metrics *observability.Metrics
	log     *logger.Logger

	mu     sync.RWMutex
	active Provider
}

// NewComponent creates the component. Register factories on manager before
// Start. metrics may be nil.
func NewComponent(cfg Config, manager *provider.Manager[Provider], metrics *observability.Metrics, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg:     cfg,
		manager: manager,
		metrics: metrics,
		log:     log.WithComponent("transcription"),
	}
}

// Name returns the component name.
func (c *Component) Name() string { return "transcription" }

// Start creates the configured provider and makes it the default. An
// unreachable backend does not fail Start; Health reports it.
func (c *Component) Start(ctx context.Context) error {
	if err := c.manager.Initialize(ctx, c.cfg.Provider, c.cfg.Options); err != nil {
		return err
	}
	if err := c.manager.SetDefault(c.cfg.Provider); err != nil {
		return err
	}
	p, err := c.manager.Get(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.active = Instrument(p, c.cfg.Resilience, c.metrics, c.log)
	c.mu.Unlock()

	if !p.IsAvailable(ctx) {
		c.log.Warn("transcription backend unreachable at startup", map[string]interface{}{"provider": c.cfg.Provider})
	}
	return nil
}

// Stop closes the manager's providers.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()
	return c.manager.Close(ctx)
}

// Provider returns the instrumented backend, or nil before Start.
func (c *Component) Provider() Provider {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Execute transcribes through the active backend.
func (c *Component) Execute(ctx context.Context, req Request) (*transcript.Transcript, error) {
	p := c.Provider()
	if p == nil {
		return nil, errors.ServiceUnavailable("transcription")
	}
	return p.Execute(ctx, req)
}

// IsAvailable reports whether the active backend answers its probe.
func (c *Component) IsAvailable(ctx context.Context) bool {
	p := c.Provider()
	return p != nil && p.IsAvailable(ctx)
}

// Health is degraded while the backend does not answer its probe.
func (c *Component) Health(ctx context.Context) component.Health {
	p := c.Provider()
	switch {
	case p == nil:
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	case !p.IsAvailable(ctx):
		return component.Health{Name: c.Name(), Status: component.StatusDegraded, Message: c.cfg.Provider + " unreachable"}
	default:
		return component.Health{Name: c.Name(), Status: component.StatusHealthy}
	}
}

// Describe returns the startup summary entry.
func (c *Component) Describe() component.Description {
	details := "provider=" + c.cfg.Provider
	if names := c.manager.Available(); len(names) > 0 {
		details += " initialized=" + strings.Join(names, ",")
	}
	return component.Description{Name: "Transcription", Type: "transcription", Details: details}
}

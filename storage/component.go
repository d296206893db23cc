package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/fluency/component"
	"github.com/kbukum/fluency/logger"
	"github.com/kbukum/fluency/util"
)

// healthProbePath is checked with Exists to confirm the backend answers.
const healthProbePath = ".health"

// Component wraps Storage and implements component.Component for lifecycle management.
type Component struct {
	mu      sync.RWMutex
	storage Storage
	cfg     Config
	log     *logger.Logger
}

// NewComponent creates a storage component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg: cfg,
		log: log.WithComponent("storage"),
	}
}

// Storage returns the underlying Storage, or nil if not started.
func (c *Component) Storage() Storage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.storage
}

// Bytes returns a ByteClient over the started storage, limited to MaxFileSize.
func (c *Component) Bytes() ByteClient {
	s := c.Storage()
	if s == nil {
		return nil
	}
	return NewByteClient(s, WithMaxSize(c.cfg.MaxFileSize))
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Name returns the component name.
func (c *Component) Name() string { return "storage" }

// Start initializes the storage backend.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		c.log.Info("storage component is disabled")
		return nil
	}

	s, err := New(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.mu.Lock()
	c.storage = s
	c.mu.Unlock()
	return nil
}

// Stop releases the storage backend.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	c.storage = nil
	c.mu.Unlock()
	return nil
}

// Health probes the backend with an Exists call.
func (c *Component) Health(ctx context.Context) component.Health {
	if !c.cfg.Enabled {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusHealthy,
			Message: "disabled",
		}
	}

	s := c.Storage()
	if s == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "storage not initialized",
		}
	}

	if _, err := s.Exists(ctx, healthProbePath); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("health probe failed: %v", err),
		}
	}

	return component.Health{
		Name:   c.Name(),
		Status: component.StatusHealthy,
	}
}

// Describe returns the startup summary.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("provider=%s", c.cfg.Provider)
	switch c.cfg.Provider {
	case ProviderLocal:
		details += fmt.Sprintf(" base=%s", c.cfg.BasePath)
	case ProviderS3:
		details += fmt.Sprintf(" bucket=%s", c.cfg.Bucket)
		if c.cfg.AccessKey != "" {
			details += " key=" + util.MaskSecret(c.cfg.AccessKey, 4)
		}
	}
	return component.Description{
		Name:    "Storage",
		Type:    "storage",
		Details: details,
	}
}

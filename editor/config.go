package editor

import (
	"fmt"
	"time"

	"github.com/kbukum/fluency/gateway"
	"github.com/kbukum/fluency/waveform"
)

const (
	defaultOpenDelay = 10 * time.Millisecond
	defaultQueueSize = 64
)

// Config configures an Editor.
type Config struct {
	Waveform waveform.Config `yaml:"waveform" mapstructure:"waveform"`
	Gateway  gateway.Config  `yaml:"gateway" mapstructure:"gateway"`

	// OpenDelay separates closing the previous edit from opening the next,
	// so a view never shows both.
	OpenDelay time.Duration `yaml:"open_delay" mapstructure:"open_delay"`

	// QueueSize bounds the number of pending loop events.
	QueueSize int `yaml:"queue_size" mapstructure:"queue_size"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	c.Waveform.ApplyDefaults()
	c.Gateway.ApplyDefaults()
	if c.OpenDelay == 0 {
		c.OpenDelay = defaultOpenDelay
	}
	if c.QueueSize <= 0 {
		c.QueueSize = defaultQueueSize
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Waveform.Validate(); err != nil {
		return fmt.Errorf("editor.waveform: %w", err)
	}
	if err := c.Gateway.Validate(); err != nil {
		return fmt.Errorf("editor.gateway: %w", err)
	}
	if c.OpenDelay < 0 {
		return fmt.Errorf("editor: open_delay must not be negative")
	}
	return nil
}

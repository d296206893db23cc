package gateway

import (
	"fmt"
	"time"

	"github.com/kbukum/fluency/httpclient"
	"github.com/kbukum/fluency/version"
)

const (
	defaultBaseURL = "http://localhost:8080"
	defaultTimeout = 5 * time.Minute
)

// Config configures the gateway client.
type Config struct {
	httpclient.Config `yaml:",inline" mapstructure:",squash"`
}

// ApplyDefaults points at a local fluencyd and allows long transcriptions.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if _, ok := c.Headers["User-Agent"]; !ok {
		if c.Headers == nil {
			c.Headers = map[string]string{}
		}
		c.Headers["User-Agent"] = version.UserAgent("fluency-editor")
	}
	c.Config.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("gateway: base_url is required")
	}
	return c.Config.Validate()
}

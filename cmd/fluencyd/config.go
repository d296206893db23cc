package main

import (
	"fmt"

	"github.com/kbukum/fluency/api"
	"github.com/kbukum/fluency/config"
	"github.com/kbukum/fluency/observability"
	"github.com/kbukum/fluency/server"
	"github.com/kbukum/fluency/storage"
	"github.com/kbukum/fluency/transcription"
)

const serviceName = "fluencyd"

// AppConfig is the fluencyd configuration, loaded from cmd/fluencyd/config.yml
// and FLUENCY_* environment variables.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	API           api.Config           `yaml:"api" mapstructure:"api"`
	Storage       storage.Config       `yaml:"storage" mapstructure:"storage"`
	Transcription transcription.Config `yaml:"transcription" mapstructure:"transcription"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section. Storage is always on: the archive
// needs it.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Storage.Enabled = true
	c.Storage.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	if c.API.UploadsPerMinute < 0 {
		return fmt.Errorf("api.uploads_per_minute must be non-negative (got: %d)", c.API.UploadsPerMinute)
	}
	return nil
}

package transcription

import (
	"github.com/kbukum/fluency/provider"
)

// Request is one audio file to transcribe.
type Request struct {
	// Filename is the client's original file name. Backends use its extension
	// to label the upload.
	Filename string
	Audio    []byte
	// Language is an optional ISO 639-1 hint.
	Language string
}

// Config selects and configures the server's transcription backend.
type Config struct {
	// Provider is a registered factory name. Defaults to "whisper".
	Provider string `yaml:"provider" mapstructure:"provider"`
	// Options is passed to the factory as-is.
	Options    map[string]any            `yaml:"options" mapstructure:"options"`
	Resilience provider.ResilienceConfig `yaml:"resilience" mapstructure:"resilience"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = "whisper"
	}
	if c.Options == nil {
		c.Options = map[string]any{}
	}
}

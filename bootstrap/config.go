package bootstrap

import (
	"github.com/kbukum/fluency/config"
)

// Config constrains application config types. Any struct embedding
// config.ServiceConfig by value satisfies it through promoted methods, as
// long as its own ApplyDefaults and Validate call the embedded ones.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}

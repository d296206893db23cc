package transcription

import (
	"github.com/kbukum/fluency/logger"
	"github.com/kbukum/fluency/observability"
	"github.com/kbukum/fluency/provider"
	"github.com/kbukum/fluency/transcript"
)

// NewRegistry creates a provider registry for transcription backends.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}

// NewManager creates a provider manager for transcription backends. Without
// a default, Get picks the first reachable backend by name.
func NewManager() *provider.Manager[Provider] {
	return provider.NewManager(NewRegistry(), &provider.HealthCheckSelector[Provider]{})
}

// Instrument wraps p with logging, metrics, tracing and the resilience
// policies in res. metrics may be nil.
func Instrument(p Provider, res provider.ResilienceConfig, metrics *observability.Metrics, log *logger.Logger) Provider {
	return provider.Chain(
		provider.WithLogging[Request, *transcript.Transcript](log),
		provider.WithMetrics[Request, *transcript.Transcript](metrics),
		provider.WithTracing[Request, *transcript.Transcript]("transcription"),
	)(provider.WithResilience(provider.RequestResponse[Request, *transcript.Transcript](p), res))
}

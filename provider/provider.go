package provider

import "context"

// Provider is the base interface all providers implement.
type Provider interface {
	// Name returns the provider's registered name.
	Name() string
	// IsAvailable reports whether the provider can take requests.
	IsAvailable(ctx context.Context) bool
}

// Factory creates a provider instance from a generic config map.
type Factory[T Provider] func(cfg map[string]any) (T, error)

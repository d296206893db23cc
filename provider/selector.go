package provider

import (
	"context"
	"sort"

	"github.com/kbukum/fluency/errors"
)

// Selector picks a provider from the initialized set.
type Selector[T Provider] interface {
	Select(ctx context.Context, providers map[string]T) (T, error)
}

// HealthCheckSelector returns the first available provider in name order.
type HealthCheckSelector[T Provider] struct{}

// Select probes providers with IsAvailable.
func (s *HealthCheckSelector[T]) Select(ctx context.Context, providers map[string]T) (T, error) {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if p := providers[name]; p.IsAvailable(ctx) {
			return p, nil
		}
	}
	var zero T
	return zero, errors.ServiceUnavailable("provider")
}

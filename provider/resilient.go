package provider

import (
	"context"
	"errors"

	apperrors "github.com/kbukum/fluency/errors"
	"github.com/kbukum/fluency/resilience"
)

// ResilienceConfig bundles optional policies for a provider. Nil fields are skipped.
type ResilienceConfig struct {
	Retry    *resilience.RetryConfig    `yaml:"retry" mapstructure:"retry"`
	Breaker  *resilience.BreakerConfig  `yaml:"breaker" mapstructure:"breaker"`
	Bulkhead *resilience.BulkheadConfig `yaml:"bulkhead" mapstructure:"bulkhead"`
}

// IsEmpty reports whether no policy is configured.
func (c ResilienceConfig) IsEmpty() bool {
	return c.Retry == nil && c.Breaker == nil && c.Bulkhead == nil
}

// ResilienceState holds the primitives built from a ResilienceConfig.
type ResilienceState struct {
	retry *resilience.RetryConfig
	cb    *resilience.CircuitBreaker
	bh    *resilience.Bulkhead
}

// BuildResilience creates the primitives for cfg, or nil when cfg is empty.
func BuildResilience(cfg ResilienceConfig) *ResilienceState {
	if cfg.IsEmpty() {
		return nil
	}
	s := &ResilienceState{retry: cfg.Retry}
	if cfg.Breaker != nil {
		s.cb = resilience.NewCircuitBreaker(*cfg.Breaker)
	}
	if cfg.Bulkhead != nil {
		s.bh = resilience.NewBulkhead(*cfg.Bulkhead)
	}
	return s
}

// Breaker returns the circuit breaker, or nil when none is configured.
func (s *ResilienceState) Breaker() *resilience.CircuitBreaker {
	if s == nil {
		return nil
	}
	return s.cb
}

// WithResilience wraps p so each Execute runs Bulkhead, then CircuitBreaker,
// then Retry. An empty config returns p unchanged.
func WithResilience[I, O any](p RequestResponse[I, O], cfg ResilienceConfig) RequestResponse[I, O] {
	if cfg.IsEmpty() {
		return p
	}
	return &resilientRR[I, O]{inner: p, state: BuildResilience(cfg)}
}

type resilientRR[I, O any] struct {
	inner RequestResponse[I, O]
	state *ResilienceState
}

func (r *resilientRR[I, O]) Name() string                         { return r.inner.Name() }
func (r *resilientRR[I, O]) IsAvailable(ctx context.Context) bool { return r.inner.IsAvailable(ctx) }

func (r *resilientRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return ExecuteWithResilience(ctx, r.state, func() (O, error) {
		return r.inner.Execute(ctx, input)
	})
}

// ExecuteWithResilience runs fn through the policies in s. A nil s calls fn directly.
// Policy rejections come back as AppErrors.
func ExecuteWithResilience[T any](ctx context.Context, s *ResilienceState, fn func() (T, error)) (T, error) {
	if s == nil {
		return fn()
	}

	call := fn
	if s.retry != nil {
		cfg := *s.retry
		call = func() (T, error) {
			return resilience.Retry(ctx, cfg, fn)
		}
	}

	if s.cb != nil {
		inner := call
		call = func() (T, error) {
			var result T
			var callErr error
			err := s.cb.Execute(func() error {
				result, callErr = inner()
				return callErr
			})
			if err != nil && callErr == nil {
				return result, wrapResilienceError(err)
			}
			return result, callErr
		}
	}

	if s.bh != nil {
		inner := call
		var result T
		var callErr error
		err := s.bh.Execute(ctx, func() error {
			result, callErr = inner()
			return callErr
		})
		if err != nil && callErr == nil {
			return result, wrapResilienceError(err)
		}
		return result, callErr
	}

	return call()
}

func wrapResilienceError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return apperrors.ServiceUnavailable("provider").WithCause(err)
	case errors.Is(err, resilience.ErrBulkheadFull):
		return apperrors.ServiceUnavailable("provider").
			WithCause(err).
			WithDetail("reason", "concurrency limit reached")
	case errors.Is(err, context.Canceled):
		return apperrors.Timeout("request canceled").WithCause(err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout("deadline exceeded").WithCause(err)
	default:
		return err
	}
}

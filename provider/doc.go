// Package provider is a small generic framework for swappable backends.
//
// A Registry maps names to factories, a Manager initializes providers from
// config and picks one through a Selector. RequestResponse providers can be
// wrapped with Middleware:
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithMetrics[In, Out](metrics),
//	    provider.WithTracing[In, Out]("archive"),
//	)(provider.WithResilience(raw, cfg))
//
// Usage:
//
//	reg := provider.NewRegistry[MyProvider]()
//	reg.RegisterFactory("default", myFactory)
//	mgr := provider.NewManager(reg, &provider.HealthCheckSelector[MyProvider]{})
//	_ = mgr.Initialize(ctx, "default", cfg)
//	p, _ := mgr.Get(ctx)
package provider

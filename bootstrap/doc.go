// Package bootstrap runs a service's lifecycle: start components in
// registration order, run hooks, check readiness, wait for a shutdown
// signal, and stop everything in reverse within a graceful timeout.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(storageComponent)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*AppConfig]) error {
//	    return a.RegisterComponent(server.NewComponent(srv))
//	})
//	err = app.Run(ctx)
package bootstrap

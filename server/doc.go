// Package server is the fluencyd HTTP server: a Gin engine on a ServeMux
// with h2c, wrapped by http.Handler middleware (server/middleware) and
// fronting the probe endpoints in server/endpoint.
//
//	srv := server.New(cfg, log)
//	srv.ApplyDefaults("fluencyd", registry.HealthAll)
//	api.New(svc, apiCfg, log).RegisterRoutes(srv.GinEngine())
//	registry.Register(server.NewComponent(srv))
package server

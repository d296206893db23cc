// Command fluencyd serves the transcript upload, update-json and download
// routes over a pluggable storage backend and transcription provider.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/fluency/api"
	"github.com/kbukum/fluency/archive"
	"github.com/kbukum/fluency/bootstrap"
	"github.com/kbukum/fluency/config"
	"github.com/kbukum/fluency/observability"
	"github.com/kbukum/fluency/server"
	"github.com/kbukum/fluency/storage"
	"github.com/kbukum/fluency/transcription"
	"github.com/kbukum/fluency/transcription/whisper"
	"github.com/kbukum/fluency/version"

	_ "github.com/kbukum/fluency/storage/local"
	_ "github.com/kbukum/fluency/storage/memory"
	_ "github.com/kbukum/fluency/storage/s3"
)

func main() {
	configFile := flag.String("config", "", "path to config.yml")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get().String())
		return
	}
	if err := run(context.Background(), *configFile); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile string) error {
	var cfg AppConfig
	opts := []config.LoaderOption{config.WithEnvPrefix("FLUENCY")}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return err
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}

	metrics, err := initTelemetry(ctx, app)
	if err != nil {
		return err
	}

	store := storage.NewComponent(cfg.Storage, app.Logger)
	manager := transcription.NewManager()
	manager.Register(whisper.ProviderName, whisper.Factory())
	transcriber := transcription.NewComponent(cfg.Transcription, manager, metrics, app.Logger)

	if err := app.RegisterComponent(store); err != nil {
		return err
	}
	if err := app.RegisterComponent(transcriber); err != nil {
		return err
	}

	app.OnConfigure(func(_ context.Context, a *bootstrap.App[*AppConfig]) error {
		svc := archive.New(store.Bytes(), transcriber, metrics, a.Logger)

		srv := server.New(a.Cfg.Server, a.Logger)
		srv.ApplyDefaults(a.Name, a.Components.HealthAll)
		api.New(svc, a.Cfg.API, a.Logger).RegisterRoutes(srv.GinEngine())
		return a.RegisterComponent(server.NewComponent(srv))
	})

	return app.Run(ctx)
}

// initTelemetry installs the OTLP tracer and meter when enabled and returns
// the application instruments. With telemetry off the instruments record on
// the global no-op meter.
func initTelemetry(ctx context.Context, app *bootstrap.App[*AppConfig]) (*observability.Metrics, error) {
	cfg := app.Cfg.Observability
	if cfg.Enabled {
		svc := observability.Service{Name: app.Name, Version: app.Version, Environment: app.Cfg.Environment}
		tp, err := observability.InitTracer(ctx, cfg, svc)
		if err != nil {
			return nil, err
		}
		mp, err := observability.InitMeter(ctx, cfg, svc)
		if err != nil {
			return nil, errors.Join(err, tp.Shutdown(ctx))
		}
		app.OnStop(func(ctx context.Context) error {
			return errors.Join(mp.Shutdown(ctx), tp.Shutdown(ctx))
		})
	}
	return observability.NewMetrics(observability.Meter())
}

// Package server parses HTTP server flags and serves the worksheet API.
package server

import (
	"context"
	"flag"

	"github.com/louisbranch/tenfacts/internal/app"
	entrypoint "github.com/louisbranch/tenfacts/internal/platform/cmd"
	"github.com/louisbranch/tenfacts/internal/services/api"
)

// Config holds HTTP server command configuration.
type Config struct {
	app.Config
	Addr string `env:"WORKSHEET_HTTP_ADDR" envDefault:"localhost:8090"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args, func(fs *flag.FlagSet, cfg *Config) {
		app.BindFlags(fs, &cfg.Config)
		fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run serves the HTTP API until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	rt, err := app.Build(cfg.Config)
	if err != nil {
		return err
	}
	defer rt.Close()

	srv := api.New(api.Options{
		Archive:  rt.Archive,
		Bundle:   rt.Bundle,
		Locale:   cfg.Locale,
		FontPath: cfg.PDFFont,
		Logger:   rt.Logger,
	})
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceServer, entrypoint.RunOptions{Logger: rt.Logger}, func(ctx context.Context) error {
		return srv.Serve(ctx, cfg.Addr)
	})
}

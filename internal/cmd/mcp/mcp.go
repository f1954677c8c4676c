// Package mcp parses MCP command flags and serves the worksheet tools on stdio.
package mcp

import (
	"context"
	"flag"

	"github.com/louisbranch/tenfacts/internal/app"
	entrypoint "github.com/louisbranch/tenfacts/internal/platform/cmd"
	"github.com/louisbranch/tenfacts/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	app.Config
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args, func(fs *flag.FlagSet, cfg *Config) {
		app.BindFlags(fs, &cfg.Config)
	}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run serves MCP on stdio until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	rt, err := app.Build(cfg.Config)
	if err != nil {
		return err
	}
	defer rt.Close()

	server, err := service.New(rt.Service, rt.Logger)
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceMCP, entrypoint.RunOptions{Logger: rt.Logger}, server.Serve)
}

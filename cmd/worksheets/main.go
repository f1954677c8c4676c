// Package main generates a numbered range of worksheet pages and their answer key.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	worksheetscmd "github.com/louisbranch/tenfacts/internal/cmd/worksheets"
	"github.com/louisbranch/tenfacts/internal/platform/config"
)

func main() {
	cfg, err := worksheetscmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := worksheetscmd.Run(ctx, cfg, os.Stdout); err != nil {
		stop()
		config.Exit(err)
	}
}

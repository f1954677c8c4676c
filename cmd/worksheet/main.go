// Package main generates one dated worksheet page and its answer key.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	worksheetcmd "github.com/louisbranch/tenfacts/internal/cmd/worksheet"
	"github.com/louisbranch/tenfacts/internal/platform/config"
)

func main() {
	cfg, err := worksheetcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := worksheetcmd.Run(ctx, cfg, os.Stdout); err != nil {
		stop()
		config.Exit(err)
	}
}

// Package main provides a CLI that writes a random hailstone list together
// with the throw that hits every hailstone.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	hailgencmd "github.com/louisbranch/rendezvous/internal/cmd/hailgen"
	"github.com/louisbranch/rendezvous/internal/platform/config"
)

func main() {
	cfg, err := hailgencmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exit(config.WithExitCode(err, hailgencmd.ExitConfig))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := hailgencmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		stop()
		config.Exit(err)
	}
}

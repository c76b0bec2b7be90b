// Package main provides a CLI that counts crossing hailstone paths and finds
// the throw that hits every hailstone.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	rendezvouscmd "github.com/louisbranch/rendezvous/internal/cmd/rendezvous"
	"github.com/louisbranch/rendezvous/internal/platform/config"
)

func main() {
	cfg, err := rendezvouscmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exit(config.WithExitCode(err, rendezvouscmd.ExitInput))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rendezvouscmd.Run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr); err != nil {
		stop()
		config.Exit(err)
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Makepad-fr/infosite/internal/cli"
	"github.com/Makepad-fr/infosite/internal/config"
)

func main() {
	// Root flags (apply to every subcommand)
	cfg, args, err := config.Load(os.Args[1:], nil)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			cli.PrintHelp()
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "startup:", err)
		os.Exit(1)
	}

	code := cli.Run(ctx, app, args, os.Stdin)
	if err := app.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	stop()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}

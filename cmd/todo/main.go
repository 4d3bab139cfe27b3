package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/boundedtodo/internal/cli"
	"github.com/idilsaglam/boundedtodo/internal/config"
	"github.com/idilsaglam/boundedtodo/internal/ui"
)

func main() {
	cfg := config.FromEnv()

	// Root flags (apply to every subcommand)
	flag.BoolVar(&cfg.Group, "group", false, "group output by pending/done")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "directory holding list regions")
	flag.StringVar(&cfg.Theme, "theme", cfg.Theme, "classic | neon | mono")
	flag.BoolVar(&cfg.Debug, "debug", false, "log storage activity to stderr")
	flag.BoolVar(&cfg.Memory, "mem", false, "keep the list in memory for this run only (created on first use)")
	flag.Parse()

	ui.SetTheme(cfg.Theme)

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "todo"})
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportTimestamp(true)
	}

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, args, cli.Options{
		Config: cfg,
		Logger: logger,
	})
	stop()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}

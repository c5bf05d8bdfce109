package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/taskdeck/internal/api"
	"github.com/idilsaglam/taskdeck/internal/cli"
	"github.com/idilsaglam/taskdeck/internal/config"
	"github.com/idilsaglam/taskdeck/internal/logger"
	"github.com/idilsaglam/taskdeck/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	groupPending := flag.Bool("group", false, "group plain list output by pending/done")
	theme := flag.String("theme", "", "ui theme: classic, neon, mono")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if *theme != "" {
		ui.SetTheme(*theme)
	} else {
		ui.SetTheme(cfg.UI.Theme)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Close()

	// A configured zero means "never retry", which the client spells NoRetries.
	retries := cfg.API.MaxRetries
	if retries == 0 {
		retries = api.NoRetries
	}

	client := api.New(api.Options{
		BaseURL:    cfg.API.BaseURL,
		MaxRetries: retries,
		RetryBase:  cfg.API.RetryBaseDelay,
		Timeout:    cfg.API.Timeout,
		Logger:     log.WithComponent("api").SugaredLogger,
	})

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.New(client, log).Run(args, cli.Options{
		Group: *groupPending,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/client/internal/cli"
	"storefront/client/internal/config"
	"storefront/client/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\nglobal flags:\n%s", cli.Usage(), flags.FlagUsages())
	}

	configPath := flags.String("config", "", "path to config file (default ./config.yaml)")
	flags.String("api-url", "", "storefront API base URL")
	flags.String("storage", "", "cart storage driver: file, redis or postgres")
	flags.String("cart-file", "", "cart file path for the file driver")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("locale", "", "locale used to sort product names")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("Failed to parse flags: %v", err)
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := container.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	if err := app.Run(ctx, flags.Args()); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			fmt.Fprintf(os.Stderr, "%v\n\n%s\n", err, cli.Usage())
			app.Close()
			os.Exit(2)
		}
		log.Errorf("❌ %v", err)
		app.Close()
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/amirasaad/banco/console"
	"github.com/amirasaad/banco/infra/initializer"
	"github.com/amirasaad/banco/pkg/app"
	"github.com/amirasaad/banco/pkg/config"
	log "github.com/charmbracelet/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	deps.Logger.Info(
		"starting console",
		"env", cfg.Env,
		"capacity", cfg.Registry.Capacity,
		"currency", cfg.Registry.Currency,
	)

	a := app.New(deps, cfg)
	err = console.New(a.AccountService, in, out, deps.Logger).Run(ctx)
	deps.Logger.Info("console stopped", "accounts", a.AccountService.Count(), "journal_entries", a.Journal.Len())
	return err
}

package app

import (
	"log/slog"

	"github.com/amirasaad/banco/pkg/config"
	"github.com/amirasaad/banco/pkg/eventbus"
	accounthandler "github.com/amirasaad/banco/pkg/handler/account"
	"github.com/amirasaad/banco/pkg/registry"
	"github.com/amirasaad/banco/pkg/service/account"
)

// Deps contains the infrastructure the application is built on.
type Deps struct {
	Registry *registry.Registry
	EventBus eventbus.Bus
	Logger   *slog.Logger
}

type App struct {
	Deps           *Deps
	Config         *config.App
	Journal        *accounthandler.Journal
	AccountService *account.Service
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:    deps,
		Config:  cfg,
		Journal: accounthandler.NewJournal(),
	}
	app.setupEventBus()
	app.AccountService = account.New(deps.EventBus, deps.Registry, cfg, deps.Logger)
	return app
}

package app

import (
	accounthandler "github.com/amirasaad/banco/pkg/handler/account"
)

// setupEventBus registers all event handlers with the event bus.
func (a *App) setupEventBus() {
	if a.Deps.EventBus == nil {
		return
	}
	accounthandler.Register(a.Deps.EventBus, a.Journal, a.Deps.Logger)
}

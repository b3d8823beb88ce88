package initializer

import (
	"fmt"
	"io"
	"os"

	infra_eventbus "github.com/amirasaad/banco/infra/eventbus"
	"github.com/amirasaad/banco/pkg/app"
	"github.com/amirasaad/banco/pkg/config"
	"github.com/amirasaad/banco/pkg/registry"
)

// InitializeDependencies builds the logger, the account registry and the
// event bus from cfg. Logs are written to stderr.
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	return initialize(cfg, os.Stderr)
}

func initialize(cfg *config.App, logOut io.Writer) (*app.Deps, error) {
	if cfg == nil || cfg.Log == nil || cfg.Registry == nil {
		return nil, fmt.Errorf("%w: missing sections", config.ErrInvalidConfig)
	}
	logger := setupLogger(cfg.Log, logOut)

	reg := registry.New(registry.WithCapacity(cfg.Registry.Capacity))
	logger.Info("Account registry ready",
		"capacity", reg.Capacity(),
		"currency", cfg.Registry.Currency,
	)

	return &app.Deps{
		Registry: reg,
		EventBus: infra_eventbus.NewWithMemory(logger),
		Logger:   logger,
	}, nil
}

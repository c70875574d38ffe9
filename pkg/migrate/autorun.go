package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jirasak-dev/stockledger/pkg/config"
	"github.com/jirasak-dev/stockledger/pkg/logger"
)

// MaybeRunDev applies pending migrations at startup in dev environments
// when the AutoMigrate flag is on. It is a no-op everywhere else so that
// production deploys stay on the explicit cmd/migrate path.
func MaybeRunDev(ctx context.Context, cfg *config.Config, db *sql.DB, logg *logger.Logger) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	logg.Info(logg.WithField(ctx, "dir", DefaultDir), "auto-migrate enabled, applying pending migrations")

	if err := Run(ctx, db, DefaultDir, "up"); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

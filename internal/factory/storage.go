package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/inkwell-app/inkwell-diary/internal/config"
	storepkg "github.com/inkwell-app/inkwell-diary/internal/store"
	storepg "github.com/inkwell-app/inkwell-diary/internal/store/postgres"
	storelite "github.com/inkwell-app/inkwell-diary/internal/store/sqlite"
)

// NewStore returns a store.Store for the configured driver and applies
// the idempotent schema bootstrap before handing it out.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		db, err := storepg.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := storepg.Bootstrap(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("postgres bootstrap: %w", err)
		}
		log.Debug().Str("driver", cfg.DBDriver).Msg("store ready")
		return storepg.NewWithDB(db), nil
	case "sqlite":
		db, err := storelite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := storelite.Bootstrap(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite bootstrap: %w", err)
		}
		log.Debug().Str("driver", cfg.DBDriver).Str("path", cfg.SQLitePath).Msg("store ready")
		return storelite.NewWithDB(db), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}

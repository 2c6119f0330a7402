// Package bootstrap wires the configured dataset source for the binaries.
package bootstrap

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/mauv0809/finmetrics/internal/config"
	"github.com/mauv0809/finmetrics/internal/db"
	"github.com/mauv0809/finmetrics/internal/ingest"
)

// Dataset is an opened dataset source. Repo is only set for the postgres source.
type Dataset struct {
	Source ingest.Source
	Repo   *db.Repository
	close  func()
}

// Close releases the database pool, if any.
func (d *Dataset) Close() {
	if d.close != nil {
		d.close()
	}
}

// OpenDataset opens the source selected by cfg.Dataset.Source. The postgres
// source runs pending migrations before connecting.
func OpenDataset(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Dataset, error) {
	switch cfg.Dataset.Source {
	case config.SourceFile:
		log.Info("using dataset file", zap.String("path", cfg.Dataset.Path))
		return &Dataset{Source: ingest.NewFileSource(cfg.Dataset.Path)}, nil

	case config.SourcePostgres:
		if err := db.RunMigrations(cfg.Database.URL); err != nil {
			return nil, err
		}
		log.Info("migrations completed")

		pool, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		log.Info("connected to database")

		repo := db.NewRepository(pool)
		return &Dataset{Source: repo, Repo: repo, close: pool.Close}, nil

	case config.SourceEmbedded, "":
		return &Dataset{Source: ingest.EmbeddedSource{}}, nil

	default:
		return nil, eris.Errorf("unknown dataset source %q", cfg.Dataset.Source)
	}
}

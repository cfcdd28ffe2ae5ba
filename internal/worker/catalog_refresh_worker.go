package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// CatalogRefresher reloads the catalog snapshot from its source.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// CatalogRefreshWorker periodically rebuilds the catalog snapshot.
type CatalogRefreshWorker struct {
	catalog  CatalogRefresher
	interval time.Duration
}

// NewCatalogRefreshWorker constructs a CatalogRefreshWorker.
func NewCatalogRefreshWorker(catalog CatalogRefresher, interval time.Duration) *CatalogRefreshWorker {
	return &CatalogRefreshWorker{
		catalog:  catalog,
		interval: interval,
	}
}

// Start runs the refresh loop until ctx is cancelled. The first refresh is
// done by the caller at boot, so the loop waits one interval before running.
func (w *CatalogRefreshWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting catalog refresh worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Catalog refresh worker stopped")
			return
		}
	}
}

func (w *CatalogRefreshWorker) run(ctx context.Context) {
	start := time.Now()
	if err := w.catalog.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to refresh catalog, keeping previous snapshot")
		return
	}
	log.Info().Dur("duration", time.Since(start)).Msg("Catalog refresh completed")
}

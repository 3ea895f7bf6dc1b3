// Package scheduler holds the background loops: catalog reloads,
// headline cache warming and library session cleanup.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/newsstand/internal/logger"
	"github.com/MrSnakeDoc/newsstand/internal/sources/catalog"
)

// CatalogReloader handles periodic reloading of the category catalog
// from its YAML file.
type CatalogReloader struct {
	loader        *catalog.Loader
	mapper        *catalog.Mapper
	catalog       *catalog.Catalog
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCatalogReloader creates a new catalog reloader.
func NewCatalogReloader(
	catalogFile string,
	cat *catalog.Catalog,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CatalogReloader {
	return &CatalogReloader{
		loader:        catalog.NewLoader(catalogFile),
		mapper:        catalog.NewMapper(),
		catalog:       cat,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process.
func (cr *CatalogReloader) Start(ctx context.Context) error {
	// Load immediately on start. A missing file is not fatal, the
	// catalog keeps its built-in defaults.
	if err := cr.Reload(ctx); err != nil {
		cr.logger.Warn("initial catalog load failed, keeping defaults",
			logger.Error(err))
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog",
						logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual catalog reload triggered")
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog",
						logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader.
func (cr *CatalogReloader) Stop() {
	close(cr.stopCh)
}

// Reload loads the catalog file and swaps the in-memory categories.
func (cr *CatalogReloader) Reload(_ context.Context) error {
	config, err := cr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	categories, err := cr.mapper.MapCategories(config)
	if err != nil {
		return fmt.Errorf("failed to map categories: %w", err)
	}

	cr.catalog.Replace(categories)
	cr.logger.Info("catalog reloaded",
		logger.Int("count", len(categories)))

	return nil
}

package inventory

import (
	"time"

	"github.com/erp/inventory/internal/domain/failure"
	"github.com/erp/inventory/internal/domain/inventory"
	"github.com/erp/inventory/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// Settings tune the facade
type Settings struct {
	LowStockTTL   time.Duration
	SweepInterval time.Duration
}

// Transports bundles the backend bridges of every collection
type Transports struct {
	Materials     inventory.MaterialTransport
	Categories    inventory.CategoryTransport
	Presentations inventory.PresentationTransport
}

// Facade is the data access entry point for the UI. It owns one cache store
// and one ledger per collection for the lifetime of the application.
type Facade struct {
	Materials     *MaterialService
	Categories    *Collection[inventory.Category, inventory.CategoryPatch]
	Presentations *Collection[inventory.Presentation, inventory.PresentationPatch]

	store      *cache.Store
	classifier *failure.Classifier
	settings   Settings
	logger     *zap.Logger
}

// NewFacade wires the collections over the given transports
func NewFacade(transports Transports, deps Deps, settings Settings) *Facade {
	deps = deps.withDefaults()
	if deps.Validator == nil {
		deps.Validator = NewValidator()
	}
	if settings.SweepInterval <= 0 {
		settings.SweepInterval = cache.DefaultSweepInterval
	}

	return &Facade{
		Materials: NewMaterialService(transports.Materials, deps, settings.LowStockTTL),
		Categories: NewCollection[inventory.Category, inventory.CategoryPatch](
			CategoriesCollection,
			transports.Categories,
			inventory.MergeCategory,
			deps,
			WithDescribe[inventory.Category, inventory.CategoryPatch](func(c inventory.Category) string { return c.Name }),
			WithMatcher[inventory.Category, inventory.CategoryPatch](inventory.Category.MatchesFilter),
		),
		Presentations: NewCollection[inventory.Presentation, inventory.PresentationPatch](
			PresentationsCollection,
			transports.Presentations,
			inventory.MergePresentation,
			deps,
			WithDescribe[inventory.Presentation, inventory.PresentationPatch](func(p inventory.Presentation) string { return p.Name }),
			WithMatcher[inventory.Presentation, inventory.PresentationPatch](inventory.Presentation.MatchesFilter),
		),
		store:      deps.Store,
		classifier: deps.Classifier,
		settings:   settings,
		logger:     deps.Logger,
	}
}

// Classifier returns the classifier shared by every collection
func (f *Facade) Classifier() *failure.Classifier {
	return f.classifier
}

// Start begins the periodic cache sweep
func (f *Facade) Start() {
	f.store.StartSweeper(f.settings.SweepInterval)
	f.logger.Info("Inventory facade started", zap.Duration("sweep_interval", f.settings.SweepInterval))
}

// HasPending reports whether any collection has a mutation awaiting the backend
func (f *Facade) HasPending() bool {
	return f.Materials.HasPending() || f.Categories.HasPending() || f.Presentations.HasPending()
}

// CacheStats returns the cache counters
func (f *Facade) CacheStats() cache.Stats {
	return f.store.Stats()
}

// ClearCache drops every cached view. Offline snapshots are kept.
func (f *Facade) ClearCache() {
	f.store.Clear()
	f.logger.Info("Inventory cache cleared")
}

// Close stops the sweeper and every ledger timer
func (f *Facade) Close() error {
	f.Materials.Close()
	f.Categories.Close()
	f.Presentations.Close()
	if err := f.store.Close(); err != nil {
		return err
	}
	f.logger.Info("Inventory facade stopped")
	return nil
}

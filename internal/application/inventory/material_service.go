package inventory

import (
	"context"
	"time"

	"github.com/erp/inventory/internal/domain/failure"
	"github.com/erp/inventory/internal/domain/inventory"
	"github.com/erp/inventory/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Collection names, also used as cache key prefixes
const (
	MaterialsCollection     = "materials"
	CategoriesCollection    = "categories"
	PresentationsCollection = "presentations"
)

// DefaultLowStockTTL is the cache TTL of the low stock view
const DefaultLowStockTTL = 30 * time.Second

// MaterialService is the material collection plus the material-only queries
type MaterialService struct {
	*Collection[inventory.Material, inventory.MaterialPatch]
	materials   inventory.MaterialTransport
	lowStockTTL time.Duration
}

// NewMaterialService creates a MaterialService.
// Deletes of materials that still have stock are refused locally.
func NewMaterialService(transport inventory.MaterialTransport, deps Deps, lowStockTTL time.Duration) *MaterialService {
	if lowStockTTL <= 0 {
		lowStockTTL = DefaultLowStockTTL
	}
	return &MaterialService{
		Collection: NewCollection[inventory.Material, inventory.MaterialPatch](
			MaterialsCollection,
			transport,
			inventory.MergeMaterial,
			deps,
			WithDescribe[inventory.Material, inventory.MaterialPatch](materialLabel),
			WithDeleteGuard[inventory.Material, inventory.MaterialPatch](refuseStocked),
			WithMatcher[inventory.Material, inventory.MaterialPatch](inventory.Material.MatchesFilter),
			WithDraftCheck[inventory.Material, inventory.MaterialPatch](inventory.Material.Validate),
			WithPatchCheck[inventory.Material, inventory.MaterialPatch](inventory.MaterialPatch.Validate),
		),
		materials:   transport,
		lowStockTTL: lowStockTTL,
	}
}

func materialLabel(m inventory.Material) string {
	if m.Name != "" {
		return m.Name
	}
	return m.Code
}

// refuseStocked refuses deleting a material with stock on hand
func refuseStocked(m inventory.Material) error {
	if !m.HasStock() {
		return nil
	}
	return failure.NewStockAvailable(m.ID, materialLabel(m), m.Stock, nil)
}

// Search returns materials matching term, at most limit when limit is positive
func (s *MaterialService) Search(ctx context.Context, term string, limit int) ([]inventory.Material, error) {
	c := s.Collection
	return read(ctx, c, searchKey(c.name, term, limit), c.ttl,
		func(ctx context.Context) ([]inventory.Material, error) {
			return s.materials.Search(ctx, term, limit)
		},
		func(items []inventory.Material) ([]inventory.Material, error) {
			out := keep(c.ledger.ApplyTo(items), func(m inventory.Material) bool {
				return m.Active && m.MatchesTerm(term)
			})
			if limit > 0 && len(out) > limit {
				out = out[:limit]
			}
			return out, nil
		},
		failure.Context{Operation: "search"},
	)
}

// LowStock returns active materials at or below their minimum stock
func (s *MaterialService) LowStock(ctx context.Context) ([]inventory.Material, error) {
	c := s.Collection
	return read(ctx, c, lowStockKey(c.name), s.lowStockTTL,
		s.materials.LowStock,
		func(items []inventory.Material) ([]inventory.Material, error) {
			return keep(c.ledger.ApplyTo(items), func(m inventory.Material) bool {
				return m.Active && m.IsLowStock()
			}), nil
		},
		failure.Context{Operation: "low_stock"},
	)
}

// Statistics returns the inventory summary computed by the backend.
// Statistics are not overlaid with pending mutations.
func (s *MaterialService) Statistics(ctx context.Context) (inventory.Statistics, error) {
	c := s.Collection
	return read(ctx, c, statisticsKey(c.name), c.ttl,
		s.materials.Statistics,
		func(st inventory.Statistics) (inventory.Statistics, error) {
			return cloneStatistics(st), nil
		},
		failure.Context{Operation: "statistics"},
	)
}

// AdjustStock sets the stock of a material through the regular update path
func (s *MaterialService) AdjustStock(ctx context.Context, id string, stock decimal.Decimal, w shared.WriteOptions) (inventory.Material, error) {
	return s.Update(ctx, id, inventory.MaterialPatch{Stock: &stock}, w)
}

func keep[T any](items []T, ok func(T) bool) []T {
	out := items[:0]
	for _, item := range items {
		if ok(item) {
			out = append(out, item)
		}
	}
	return out
}

func cloneStatistics(st inventory.Statistics) inventory.Statistics {
	if st.ByCategory == nil {
		return st
	}
	byCategory := make(map[string]int64, len(st.ByCategory))
	for k, v := range st.ByCategory {
		byCategory[k] = v
	}
	st.ByCategory = byCategory
	return st
}

package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/erp/inventory/internal/domain/inventory"
	"github.com/erp/inventory/internal/domain/shared"
	"github.com/erp/inventory/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMaterialTransport implements inventory.MaterialTransport using GORM.
// Failures are reported as plain errors with a readable message.
type GormMaterialTransport struct {
	db *gorm.DB
}

var _ inventory.MaterialTransport = (*GormMaterialTransport)(nil)

// NewGormMaterialTransport creates a new GormMaterialTransport
func NewGormMaterialTransport(db *gorm.DB) *GormMaterialTransport {
	return &GormMaterialTransport{db: db}
}

// List lists materials matching the filter
func (r *GormMaterialTransport) List(ctx context.Context, filter shared.Filter, opts shared.ListOptions) ([]inventory.Material, error) {
	query := r.db.WithContext(ctx).Model(&models.MaterialModel{}).
		Scopes(
			activeOnly(opts),
			likeAny(filter.Search, "code", "name", "description"),
			paginate(filter),
		)
	if v := filter.Value(inventory.FilterCategoryID); v != "" {
		query = query.Where("category_id = ?", v)
	}
	if v := filter.Value(inventory.FilterPresentationID); v != "" {
		query = query.Where("presentation_id = ?", v)
	}

	var rows []models.MaterialModel
	if err := query.Order(orderClause(filter.OrderBy, filter.OrderDir, MaterialSortFields, "name")).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return materialsToDomain(rows), nil
}

// Get finds a material by its ID
func (r *GormMaterialTransport) Get(ctx context.Context, id string, opts shared.ListOptions) (inventory.Material, error) {
	row, err := r.find(r.db.WithContext(ctx), id)
	if err != nil {
		return inventory.Material{}, err
	}
	if !opts.IncludeInactive && !row.Active {
		return inventory.Material{}, fmt.Errorf("material %q not found", id)
	}
	return row.ToDomain(), nil
}

// Create stores a new material under a generated ID
func (r *GormMaterialTransport) Create(ctx context.Context, draft inventory.Material, w shared.WriteOptions) (inventory.Material, error) {
	draft.Code = strings.ToUpper(strings.TrimSpace(draft.Code))
	if err := draft.Validate(); err != nil {
		return inventory.Material{}, err
	}

	row := models.MaterialModelFromDomain(draft)
	row.ID = uuid.New()
	row.UpdatedBy = w.ActorID
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return inventory.Material{}, fmt.Errorf("create material %q: %w", draft.Name, err)
	}
	return row.ToDomain(), nil
}

// Update applies a patch to a stored material
func (r *GormMaterialTransport) Update(ctx context.Context, id string, patch inventory.MaterialPatch, w shared.WriteOptions) (inventory.Material, error) {
	if err := patch.Validate(); err != nil {
		return inventory.Material{}, err
	}

	var out inventory.Material
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.find(tx, id)
		if err != nil {
			return err
		}
		updated := patch.Apply(row.ToDomain())
		if err := updated.Validate(); err != nil {
			return err
		}
		row.FromDomain(updated)
		row.UpdatedBy = w.ActorID
		if err := tx.Save(row).Error; err != nil {
			return fmt.Errorf("update material %q: %w", row.Name, err)
		}
		out = row.ToDomain()
		return nil
	})
	return out, err
}

// Delete removes a material. Materials with stock on hand are refused.
func (r *GormMaterialTransport) Delete(ctx context.Context, id string, w shared.WriteOptions) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.find(tx, id)
		if err != nil {
			return err
		}
		if row.Stock.IsPositive() {
			return fmt.Errorf("cannot delete material %q: still has %s units in stock", row.Name, row.Stock.String())
		}
		if err := tx.Delete(&models.MaterialModel{}, "id = ?", row.ID).Error; err != nil {
			return fmt.Errorf("delete material %q: %w", row.Name, err)
		}
		return nil
	})
}

// Search finds active materials whose code, name or description contains term
func (r *GormMaterialTransport) Search(ctx context.Context, term string, limit int) ([]inventory.Material, error) {
	query := r.db.WithContext(ctx).Model(&models.MaterialModel{}).
		Scopes(activeOnly(shared.ListOptions{}), likeAny(term, "code", "name", "description")).
		Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.MaterialModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("search materials: %w", err)
	}
	return materialsToDomain(rows), nil
}

// LowStock finds active materials at or below their configured minimum
func (r *GormMaterialTransport) LowStock(ctx context.Context) ([]inventory.Material, error) {
	var rows []models.MaterialModel
	if err := r.db.WithContext(ctx).
		Where("active = ? AND min_stock > 0 AND stock <= min_stock", true).
		Order("stock ASC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list low stock materials: %w", err)
	}
	return materialsToDomain(rows), nil
}

// Statistics aggregates the whole material table
func (r *GormMaterialTransport) Statistics(ctx context.Context) (inventory.Statistics, error) {
	var rows []models.MaterialModel
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return inventory.Statistics{}, fmt.Errorf("compute material statistics: %w", err)
	}
	return inventory.ComputeStatistics(materialsToDomain(rows)), nil
}

func (r *GormMaterialTransport) find(db *gorm.DB, id string) (*models.MaterialModel, error) {
	key, ok := models.ParseID(id)
	if !ok {
		return nil, fmt.Errorf("material %q not found: invalid id", id)
	}
	var row models.MaterialModel
	if err := db.First(&row, "id = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("material %q not found", id)
		}
		return nil, fmt.Errorf("load material %q: %w", id, err)
	}
	return &row, nil
}

func materialsToDomain(rows []models.MaterialModel) []inventory.Material {
	out := make([]inventory.Material, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/inventory/internal/domain/inventory"
	"github.com/erp/inventory/internal/domain/shared"
	"github.com/erp/inventory/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryTransport implements inventory.CategoryTransport using GORM
type GormCategoryTransport struct {
	db *gorm.DB
}

var _ inventory.CategoryTransport = (*GormCategoryTransport)(nil)

// NewGormCategoryTransport creates a new GormCategoryTransport
func NewGormCategoryTransport(db *gorm.DB) *GormCategoryTransport {
	return &GormCategoryTransport{db: db}
}

// List lists categories matching the filter
func (r *GormCategoryTransport) List(ctx context.Context, filter shared.Filter, opts shared.ListOptions) ([]inventory.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Scopes(activeOnly(opts), likeAny(filter.Search, "name"), paginate(filter)).
		Order(orderClause(filter.OrderBy, filter.OrderDir, NamedSortFields, "name")).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]inventory.Category, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Get finds a category by its ID
func (r *GormCategoryTransport) Get(ctx context.Context, id string, opts shared.ListOptions) (inventory.Category, error) {
	row, err := r.find(r.db.WithContext(ctx), id)
	if err != nil {
		return inventory.Category{}, err
	}
	if !opts.IncludeInactive && !row.Active {
		return inventory.Category{}, fmt.Errorf("category %q not found", id)
	}
	return row.ToDomain(), nil
}

// Create stores a new category
func (r *GormCategoryTransport) Create(ctx context.Context, draft inventory.Category, w shared.WriteOptions) (inventory.Category, error) {
	row := &models.CategoryModel{}
	row.FromDomain(draft)
	row.ID = uuid.New()
	row.UpdatedBy = w.ActorID
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return inventory.Category{}, fmt.Errorf("create category %q: %w", draft.Name, err)
	}
	return row.ToDomain(), nil
}

// Update applies a patch to a stored category
func (r *GormCategoryTransport) Update(ctx context.Context, id string, patch inventory.CategoryPatch, w shared.WriteOptions) (inventory.Category, error) {
	var out inventory.Category
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.find(tx, id)
		if err != nil {
			return err
		}
		row.FromDomain(patch.Apply(row.ToDomain()))
		row.UpdatedBy = w.ActorID
		if err := tx.Save(row).Error; err != nil {
			return fmt.Errorf("update category %q: %w", row.Name, err)
		}
		out = row.ToDomain()
		return nil
	})
	return out, err
}

// Delete removes a category that no material uses
func (r *GormCategoryTransport) Delete(ctx context.Context, id string, w shared.WriteOptions) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.find(tx, id)
		if err != nil {
			return err
		}
		var used int64
		if err := tx.Model(&models.MaterialModel{}).Where("category_id = ?", row.ID).Count(&used).Error; err != nil {
			return fmt.Errorf("check category %q usage: %w", row.Name, err)
		}
		if used > 0 {
			return fmt.Errorf("category %q is still referenced by %d materials", row.Name, used)
		}
		if err := tx.Delete(&models.CategoryModel{}, "id = ?", row.ID).Error; err != nil {
			return fmt.Errorf("delete category %q: %w", row.Name, err)
		}
		return nil
	})
}

func (r *GormCategoryTransport) find(db *gorm.DB, id string) (*models.CategoryModel, error) {
	key, ok := models.ParseID(id)
	if !ok {
		return nil, fmt.Errorf("category %q not found: invalid id", id)
	}
	var row models.CategoryModel
	if err := db.First(&row, "id = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %q not found", id)
		}
		return nil, fmt.Errorf("load category %q: %w", id, err)
	}
	return &row, nil
}

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

// GormPresentationTransport implements inventory.PresentationTransport using GORM
type GormPresentationTransport struct {
	db *gorm.DB
}

var _ inventory.PresentationTransport = (*GormPresentationTransport)(nil)

// NewGormPresentationTransport creates a new GormPresentationTransport
func NewGormPresentationTransport(db *gorm.DB) *GormPresentationTransport {
	return &GormPresentationTransport{db: db}
}

// List lists presentations matching the filter
func (r *GormPresentationTransport) List(ctx context.Context, filter shared.Filter, opts shared.ListOptions) ([]inventory.Presentation, error) {
	var rows []models.PresentationModel
	if err := r.db.WithContext(ctx).Model(&models.PresentationModel{}).
		Scopes(activeOnly(opts), likeAny(filter.Search, "name", "abbreviation"), paginate(filter)).
		Order(orderClause(filter.OrderBy, filter.OrderDir, NamedSortFields, "name")).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list presentations: %w", err)
	}
	out := make([]inventory.Presentation, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Get finds a presentation by its ID
func (r *GormPresentationTransport) Get(ctx context.Context, id string, opts shared.ListOptions) (inventory.Presentation, error) {
	row, err := r.find(r.db.WithContext(ctx), id)
	if err != nil {
		return inventory.Presentation{}, err
	}
	if !opts.IncludeInactive && !row.Active {
		return inventory.Presentation{}, fmt.Errorf("presentation %q not found", id)
	}
	return row.ToDomain(), nil
}

// Create stores a new presentation
func (r *GormPresentationTransport) Create(ctx context.Context, draft inventory.Presentation, w shared.WriteOptions) (inventory.Presentation, error) {
	row := &models.PresentationModel{}
	row.FromDomain(draft)
	row.ID = uuid.New()
	row.UpdatedBy = w.ActorID
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return inventory.Presentation{}, fmt.Errorf("create presentation %q: %w", draft.Name, err)
	}
	return row.ToDomain(), nil
}

// Update applies a patch to a stored presentation
func (r *GormPresentationTransport) Update(ctx context.Context, id string, patch inventory.PresentationPatch, w shared.WriteOptions) (inventory.Presentation, error) {
	var out inventory.Presentation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.find(tx, id)
		if err != nil {
			return err
		}
		row.FromDomain(patch.Apply(row.ToDomain()))
		row.UpdatedBy = w.ActorID
		if err := tx.Save(row).Error; err != nil {
			return fmt.Errorf("update presentation %q: %w", row.Name, err)
		}
		out = row.ToDomain()
		return nil
	})
	return out, err
}

// Delete removes a presentation that no material uses
func (r *GormPresentationTransport) Delete(ctx context.Context, id string, w shared.WriteOptions) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.find(tx, id)
		if err != nil {
			return err
		}
		var used int64
		if err := tx.Model(&models.MaterialModel{}).Where("presentation_id = ?", row.ID).Count(&used).Error; err != nil {
			return fmt.Errorf("check presentation %q usage: %w", row.Name, err)
		}
		if used > 0 {
			return fmt.Errorf("presentation %q is still referenced by %d materials", row.Name, used)
		}
		if err := tx.Delete(&models.PresentationModel{}, "id = ?", row.ID).Error; err != nil {
			return fmt.Errorf("delete presentation %q: %w", row.Name, err)
		}
		return nil
	})
}

func (r *GormPresentationTransport) find(db *gorm.DB, id string) (*models.PresentationModel, error) {
	key, ok := models.ParseID(id)
	if !ok {
		return nil, fmt.Errorf("presentation %q not found: invalid id", id)
	}
	var row models.PresentationModel
	if err := db.First(&row, "id = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("presentation %q not found", id)
		}
		return nil, fmt.Errorf("load presentation %q: %w", id, err)
	}
	return &row, nil
}

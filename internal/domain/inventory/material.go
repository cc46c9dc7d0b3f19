package inventory

import (
	"strings"
	"time"

	"github.com/erp/inventory/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Filter keys understood by material list views
const (
	FilterCategoryID     = "category_id"
	FilterPresentationID = "presentation_id"
)

// Material represents a stocked material in the inventory
type Material struct {
	ID             string          `json:"id"`
	Code           string          `json:"code" validate:"required,max=50"`
	Name           string          `json:"name" validate:"required,max=200"`
	Description    string          `json:"description,omitempty" validate:"max=2000"`
	CategoryID     string          `json:"category_id,omitempty" validate:"max=64"`
	PresentationID string          `json:"presentation_id,omitempty" validate:"max=64"`
	Unit           string          `json:"unit" validate:"required,max=20"`
	Stock          decimal.Decimal `json:"stock"`
	MinStock       decimal.Decimal `json:"min_stock"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewMaterial creates a new active material draft with zero stock.
// The draft has no ID until the backend assigns one.
func NewMaterial(code, name, unit string) (Material, error) {
	m := Material{
		Code:     strings.ToUpper(strings.TrimSpace(code)),
		Name:     strings.TrimSpace(name),
		Unit:     strings.TrimSpace(unit),
		Stock:    decimal.Zero,
		MinStock: decimal.Zero,
		Active:   true,
	}
	if err := m.Validate(); err != nil {
		return Material{}, err
	}
	return m, nil
}

// GetID returns the material ID
func (m Material) GetID() string {
	return m.ID
}

// WithID returns a copy of the material under another ID
func (m Material) WithID(id string) Material {
	m.ID = id
	return m
}

// Validate checks the invariants that struct tags cannot express
func (m Material) Validate() error {
	if m.Code == "" {
		return shared.NewFieldError("INVALID_CODE", "code", "Material code cannot be empty")
	}
	if m.Name == "" {
		return shared.NewFieldError("INVALID_NAME", "name", "Material name cannot be empty")
	}
	if m.Stock.IsNegative() {
		return shared.NewFieldError(shared.ErrNegativeStock.Code, "stock", shared.ErrNegativeStock.Message)
	}
	if m.MinStock.IsNegative() {
		return shared.NewFieldError("INVALID_MIN_STOCK", "min_stock", "Minimum stock cannot be negative")
	}
	return nil
}

// HasStock returns true if any quantity of the material is on hand
func (m Material) HasStock() bool {
	return m.Stock.IsPositive()
}

// IsLowStock returns true if a minimum is configured and stock is at or below it
func (m Material) IsLowStock() bool {
	return m.MinStock.IsPositive() && m.Stock.LessThanOrEqual(m.MinStock)
}

// MatchesTerm reports whether the search term occurs in the code, name or description
func (m Material) MatchesTerm(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Code), term) ||
		strings.Contains(strings.ToLower(m.Name), term) ||
		strings.Contains(strings.ToLower(m.Description), term)
}

// MatchesFilter reports whether the material belongs to a list view
func (m Material) MatchesFilter(filter shared.Filter, opts shared.ListOptions) bool {
	if !opts.IncludeInactive && !m.Active {
		return false
	}
	if !m.MatchesTerm(filter.Search) {
		return false
	}
	if v := filter.Value(FilterCategoryID); v != "" && v != m.CategoryID {
		return false
	}
	if v := filter.Value(FilterPresentationID); v != "" && v != m.PresentationID {
		return false
	}
	return true
}

// MaterialPatch is a partial update. Nil fields are left untouched.
type MaterialPatch struct {
	Code           *string          `json:"code,omitempty" validate:"omitempty,min=1,max=50"`
	Name           *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description    *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	CategoryID     *string          `json:"category_id,omitempty" validate:"omitempty,max=64"`
	PresentationID *string          `json:"presentation_id,omitempty" validate:"omitempty,max=64"`
	Unit           *string          `json:"unit,omitempty" validate:"omitempty,min=1,max=20"`
	Stock          *decimal.Decimal `json:"stock,omitempty"`
	MinStock       *decimal.Decimal `json:"min_stock,omitempty"`
	Active         *bool            `json:"active,omitempty"`
}

// IsEmpty returns true if the patch changes nothing
func (p MaterialPatch) IsEmpty() bool {
	return p.Code == nil && p.Name == nil && p.Description == nil &&
		p.CategoryID == nil && p.PresentationID == nil && p.Unit == nil &&
		p.Stock == nil && p.MinStock == nil && p.Active == nil
}

// Validate checks the decimal fields of the patch
func (p MaterialPatch) Validate() error {
	if p.Stock != nil && p.Stock.IsNegative() {
		return shared.NewFieldError(shared.ErrNegativeStock.Code, "stock", shared.ErrNegativeStock.Message)
	}
	if p.MinStock != nil && p.MinStock.IsNegative() {
		return shared.NewFieldError("INVALID_MIN_STOCK", "min_stock", "Minimum stock cannot be negative")
	}
	return nil
}

// Apply returns a copy of m with every non-nil patch field written over it
func (p MaterialPatch) Apply(m Material) Material {
	if p.Code != nil {
		m.Code = strings.ToUpper(*p.Code)
	}
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.CategoryID != nil {
		m.CategoryID = *p.CategoryID
	}
	if p.PresentationID != nil {
		m.PresentationID = *p.PresentationID
	}
	if p.Unit != nil {
		m.Unit = *p.Unit
	}
	if p.Stock != nil {
		m.Stock = *p.Stock
	}
	if p.MinStock != nil {
		m.MinStock = *p.MinStock
	}
	if p.Active != nil {
		m.Active = *p.Active
	}
	return m
}

// MergeMaterial merges a patch into a material
func MergeMaterial(m Material, p MaterialPatch) Material {
	return p.Apply(m)
}

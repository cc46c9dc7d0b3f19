package inventory

import (
	"strings"
	"time"

	"github.com/erp/inventory/internal/domain/shared"
)

// Category groups materials for browsing and reporting
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required,max=100"`
	Description string    `json:"description,omitempty" validate:"max=1000"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCategory creates a new active category draft
func NewCategory(name, description string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, shared.NewFieldError("INVALID_NAME", "name", "Category name cannot be empty")
	}
	return Category{Name: name, Description: description, Active: true}, nil
}

// GetID returns the category ID
func (c Category) GetID() string {
	return c.ID
}

// WithID returns a copy of the category under another ID
func (c Category) WithID(id string) Category {
	c.ID = id
	return c
}

// MatchesFilter reports whether the category belongs to a list view
func (c Category) MatchesFilter(filter shared.Filter, opts shared.ListOptions) bool {
	if !opts.IncludeInactive && !c.Active {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(filter.Search))
	return term == "" || strings.Contains(strings.ToLower(c.Name), term)
}

// CategoryPatch is a partial update of a category
type CategoryPatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Active      *bool   `json:"active,omitempty"`
}

// Apply returns a copy of c with the patch written over it
func (p CategoryPatch) Apply(c Category) Category {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Active != nil {
		c.Active = *p.Active
	}
	return c
}

// MergeCategory merges a patch into a category
func MergeCategory(c Category, p CategoryPatch) Category {
	return p.Apply(c)
}

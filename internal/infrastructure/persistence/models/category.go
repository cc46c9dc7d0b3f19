package models

import "github.com/erp/inventory/internal/domain/inventory"

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex:idx_category_name"`
	Description string `gorm:"type:text"`
	Active      bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() inventory.Category {
	return inventory.Category{
		ID:          m.ID.String(),
		Name:        m.Name,
		Description: m.Description,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(e inventory.Category) {
	if id, ok := ParseID(e.ID); ok {
		m.ID = id
	}
	m.Name = e.Name
	m.Description = e.Description
	m.Active = e.Active
}

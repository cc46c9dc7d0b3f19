package models

import "github.com/erp/inventory/internal/domain/inventory"

// PresentationModel is the persistence model for the Presentation domain entity.
type PresentationModel struct {
	BaseModel
	Name         string `gorm:"type:varchar(100);not null;uniqueIndex:idx_presentation_name"`
	Abbreviation string `gorm:"type:varchar(10)"`
	Active       bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PresentationModel) TableName() string {
	return "presentations"
}

// ToDomain converts the persistence model to a domain Presentation entity.
func (m *PresentationModel) ToDomain() inventory.Presentation {
	return inventory.Presentation{
		ID:           m.ID.String(),
		Name:         m.Name,
		Abbreviation: m.Abbreviation,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Presentation entity.
func (m *PresentationModel) FromDomain(e inventory.Presentation) {
	if id, ok := ParseID(e.ID); ok {
		m.ID = id
	}
	m.Name = e.Name
	m.Abbreviation = e.Abbreviation
	m.Active = e.Active
}

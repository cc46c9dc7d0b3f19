package models

import (
	"github.com/erp/inventory/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialModel is the persistence model for the Material domain entity.
type MaterialModel struct {
	BaseModel
	Code           string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_material_code"`
	Name           string          `gorm:"type:varchar(200);not null;index"`
	Description    string          `gorm:"type:text"`
	CategoryID     *uuid.UUID      `gorm:"type:uuid;index"`
	PresentationID *uuid.UUID      `gorm:"type:uuid;index"`
	Unit           string          `gorm:"type:varchar(20);not null"`
	Stock          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MinStock       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Active         bool            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (MaterialModel) TableName() string {
	return "materials"
}

// ToDomain converts the persistence model to a domain Material entity.
func (m *MaterialModel) ToDomain() inventory.Material {
	return inventory.Material{
		ID:             m.ID.String(),
		Code:           m.Code,
		Name:           m.Name,
		Description:    m.Description,
		CategoryID:     idString(m.CategoryID),
		PresentationID: idString(m.PresentationID),
		Unit:           m.Unit,
		Stock:          m.Stock,
		MinStock:       m.MinStock,
		Active:         m.Active,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Material entity.
// The ID is left untouched when the entity has none.
func (m *MaterialModel) FromDomain(e inventory.Material) {
	if id, ok := ParseID(e.ID); ok {
		m.ID = id
	}
	m.Code = e.Code
	m.Name = e.Name
	m.Description = e.Description
	m.CategoryID = optionalID(e.CategoryID)
	m.PresentationID = optionalID(e.PresentationID)
	m.Unit = e.Unit
	m.Stock = e.Stock
	m.MinStock = e.MinStock
	m.Active = e.Active
}

// MaterialModelFromDomain creates a new persistence model from a domain Material
func MaterialModelFromDomain(e inventory.Material) *MaterialModel {
	m := &MaterialModel{}
	m.FromDomain(e)
	return m
}

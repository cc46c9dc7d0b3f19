package models

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	UpdatedBy string    `gorm:"type:varchar(64)"`
}

// ParseID parses a domain ID into a primary key
func ParseID(id string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, false
	}
	return parsed, true
}

func idString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func optionalID(id string) *uuid.UUID {
	if id == "" {
		return nil
	}
	parsed, ok := ParseID(id)
	if !ok {
		return nil
	}
	return &parsed
}

// All returns every model handled by AutoMigrate
func All() []any {
	return []any{
		&CategoryModel{},
		&PresentationModel{},
		&MaterialModel{},
	}
}

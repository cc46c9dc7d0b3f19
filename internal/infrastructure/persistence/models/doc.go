// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
// - base.go: BaseModel and ID helpers
// - material.go, category.go, presentation.go: one model per inventory collection
package models

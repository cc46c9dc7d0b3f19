package dto

import (
	"github.com/erp/inventory/internal/domain/inventory"
	"github.com/erp/inventory/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ListRequest represents common list query parameters
type ListRequest struct {
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy         string `form:"order_by"`
	OrderDir        string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search          string `form:"search"`
	IncludeInactive bool   `form:"include_inactive"`
	CategoryID      string `form:"category_id"`
	PresentationID  string `form:"presentation_id"`
}

// ToFilter converts the request into a backend filter
func (r ListRequest) ToFilter() shared.Filter {
	f := shared.Filter{
		Page:     r.Page,
		PageSize: r.PageSize,
		OrderBy:  r.OrderBy,
		OrderDir: r.OrderDir,
		Search:   r.Search,
	}
	if r.CategoryID != "" {
		f = f.With(inventory.FilterCategoryID, r.CategoryID)
	}
	if r.PresentationID != "" {
		f = f.With(inventory.FilterPresentationID, r.PresentationID)
	}
	return f
}

// ToOptions returns the list options of the request
func (r ListRequest) ToOptions() shared.ListOptions {
	return shared.ListOptions{IncludeInactive: r.IncludeInactive}
}

// SearchRequest represents material search query parameters
type SearchRequest struct {
	Term  string `form:"q" binding:"required,min=1,max=100"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// CreateMaterialRequest is the body of a material create
type CreateMaterialRequest struct {
	Code           string           `json:"code" binding:"required,max=50"`
	Name           string           `json:"name" binding:"required,max=200"`
	Description    string           `json:"description"`
	CategoryID     string           `json:"category_id"`
	PresentationID string           `json:"presentation_id"`
	Unit           string           `json:"unit" binding:"required,max=20"`
	Stock          *decimal.Decimal `json:"stock"`
	MinStock       *decimal.Decimal `json:"min_stock"`
	Active         *bool            `json:"active"`
}

// ToDomain converts the request into a material draft
func (r CreateMaterialRequest) ToDomain() inventory.Material {
	m := inventory.Material{
		Code:           r.Code,
		Name:           r.Name,
		Description:    r.Description,
		CategoryID:     r.CategoryID,
		PresentationID: r.PresentationID,
		Unit:           r.Unit,
		Stock:          decimal.Zero,
		MinStock:       decimal.Zero,
		Active:         true,
	}
	if r.Stock != nil {
		m.Stock = *r.Stock
	}
	if r.MinStock != nil {
		m.MinStock = *r.MinStock
	}
	if r.Active != nil {
		m.Active = *r.Active
	}
	return m
}

// AdjustStockRequest sets the stock of a material
type AdjustStockRequest struct {
	Stock *decimal.Decimal `json:"stock" binding:"required"`
}

// CreateCategoryRequest is the body of a category create
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

// ToDomain converts the request into a category draft
func (r CreateCategoryRequest) ToDomain() inventory.Category {
	return inventory.Category{Name: r.Name, Description: r.Description, Active: true}
}

// CreatePresentationRequest is the body of a presentation create
type CreatePresentationRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Abbreviation string `json:"abbreviation" binding:"max=10"`
}

// ToDomain converts the request into a presentation draft
func (r CreatePresentationRequest) ToDomain() inventory.Presentation {
	return inventory.Presentation{Name: r.Name, Abbreviation: r.Abbreviation, Active: true}
}

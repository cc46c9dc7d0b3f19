package handler

import (
	appinv "github.com/erp/inventory/internal/application/inventory"
	"github.com/erp/inventory/internal/domain/inventory"
	"github.com/erp/inventory/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// CategoryHandler handles category-related API endpoints
type CategoryHandler struct {
	*CollectionHandler[inventory.Category, inventory.CategoryPatch]
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories *appinv.Collection[inventory.Category, inventory.CategoryPatch]) *CategoryHandler {
	return &CategoryHandler{
		CollectionHandler: NewCollectionHandler(categories, func(c *gin.Context) (inventory.Category, error) {
			var req dto.CreateCategoryRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return inventory.Category{}, err
			}
			return req.ToDomain(), nil
		}),
	}
}

// RegisterRoutes registers the category routes
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.Routes(rg.Group("/" + appinv.CategoriesCollection))
}

// PresentationHandler handles presentation-related API endpoints
type PresentationHandler struct {
	*CollectionHandler[inventory.Presentation, inventory.PresentationPatch]
}

// NewPresentationHandler creates a new PresentationHandler
func NewPresentationHandler(presentations *appinv.Collection[inventory.Presentation, inventory.PresentationPatch]) *PresentationHandler {
	return &PresentationHandler{
		CollectionHandler: NewCollectionHandler(presentations, func(c *gin.Context) (inventory.Presentation, error) {
			var req dto.CreatePresentationRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return inventory.Presentation{}, err
			}
			return req.ToDomain(), nil
		}),
	}
}

// RegisterRoutes registers the presentation routes
func (h *PresentationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.Routes(rg.Group("/" + appinv.PresentationsCollection))
}

package handler

import (
	appinv "github.com/erp/inventory/internal/application/inventory"
	"github.com/erp/inventory/internal/domain/inventory"
	"github.com/erp/inventory/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// MaterialHandler handles material-related API endpoints
type MaterialHandler struct {
	*CollectionHandler[inventory.Material, inventory.MaterialPatch]
	materials *appinv.MaterialService
}

// NewMaterialHandler creates a new MaterialHandler
func NewMaterialHandler(materials *appinv.MaterialService) *MaterialHandler {
	return &MaterialHandler{
		CollectionHandler: NewCollectionHandler(materials.Collection, bindMaterialDraft),
		materials:         materials,
	}
}

func bindMaterialDraft(c *gin.Context) (inventory.Material, error) {
	var req dto.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return inventory.Material{}, err
	}
	return req.ToDomain(), nil
}

// RegisterRoutes registers the material routes
func (h *MaterialHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/" + appinv.MaterialsCollection)
	g.GET("/search", h.Search)
	g.GET("/low-stock", h.LowStock)
	g.GET("/statistics", h.Statistics)
	g.PUT("/:id/stock", h.AdjustStock)
	h.Routes(g)
}

// Search godoc
// @Summary      Search materials
// @Tags         materials
// @Produce      json
// @Param        q      query string true  "Search term"
// @Param        limit  query int    false "Maximum results"
// @Router       /materials/search [get]
func (h *MaterialHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	items, err := h.materials.Search(h.context(c), req.Term, req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, dto.Meta{Count: len(items), Pending: h.materials.HasPending()})
}

// LowStock godoc
// @Summary      List materials at or below their minimum stock
// @Tags         materials
// @Produce      json
// @Router       /materials/low-stock [get]
func (h *MaterialHandler) LowStock(c *gin.Context) {
	items, err := h.materials.LowStock(h.context(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, dto.Meta{Count: len(items), Pending: h.materials.HasPending()})
}

// Statistics godoc
// @Summary      Get inventory statistics
// @Tags         materials
// @Produce      json
// @Router       /materials/statistics [get]
func (h *MaterialHandler) Statistics(c *gin.Context) {
	stats, err := h.materials.Statistics(h.context(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// AdjustStock godoc
// @Summary      Set the stock of a material
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        id  path string true "Material ID"
// @Router       /materials/{id}/stock [put]
func (h *MaterialHandler) AdjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ctx, w := h.mutation(c)
	updated, err := h.materials.AdjustStock(ctx, c.Param("id"), *req.Stock, w)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

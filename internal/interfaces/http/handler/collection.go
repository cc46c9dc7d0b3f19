package handler

import (
	"context"

	appinv "github.com/erp/inventory/internal/application/inventory"
	"github.com/erp/inventory/internal/domain/shared"
	"github.com/erp/inventory/internal/infrastructure/logger"
	"github.com/erp/inventory/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// CollectionHandler exposes the CRUD surface of one collection
type CollectionHandler[T shared.Identifiable[T], P any] struct {
	BaseHandler
	col       *appinv.Collection[T, P]
	bindDraft func(*gin.Context) (T, error)
}

// NewCollectionHandler creates a handler for col. bindDraft decodes a create body.
func NewCollectionHandler[T shared.Identifiable[T], P any](col *appinv.Collection[T, P], bindDraft func(*gin.Context) (T, error)) *CollectionHandler[T, P] {
	return &CollectionHandler[T, P]{
		BaseHandler: newBaseHandler(col.Classifier()),
		col:         col,
		bindDraft:   bindDraft,
	}
}

// PendingResponse describes an in-flight mutation
type PendingResponse struct {
	ID        string `json:"id"`
	Operation string `json:"operation"`
	Pending   bool   `json:"pending"`
	Error     string `json:"error,omitempty"`
	Version   uint64 `json:"version"`
}

// RollbackResponse carries the record as it was before a failed mutation
type RollbackResponse[T any] struct {
	ID       string `json:"id"`
	Previous T      `json:"previous"`
}

func (h *CollectionHandler[T, P]) context(c *gin.Context) context.Context {
	return tagRequest(c, func(ctx context.Context) context.Context {
		return logger.WithCollection(ctx, h.col.Name())
	})
}

func (h *CollectionHandler[T, P]) mutation(c *gin.Context) (context.Context, shared.WriteOptions) {
	_, w := writeOptions(c)
	return h.context(c), w
}

// Routes registers the CRUD routes on g
func (h *CollectionHandler[T, P]) Routes(g *gin.RouterGroup) {
	g.GET("", h.ListItems)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/pending", h.Pending)
	g.POST("/:id/rollback", h.Rollback)
}

// ListItems godoc
// @Summary      List records
// @Tags         inventory
// @Produce      json
// @Param        search            query string false "Search term"
// @Param        include_inactive  query bool   false "Include inactive records"
// @Router       /{collection} [get]
func (h *CollectionHandler[T, P]) ListItems(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	items, err := h.col.List(h.context(c), req.ToFilter(), req.ToOptions())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, dto.Meta{
		Count:    len(items),
		Page:     req.Page,
		PageSize: req.PageSize,
		Pending:  h.col.HasPending(),
	})
}

// Get godoc
// @Summary      Get a record by ID
// @Tags         inventory
// @Produce      json
// @Param        id  path string true "Record ID"
// @Router       /{collection}/{id} [get]
func (h *CollectionHandler[T, P]) Get(c *gin.Context) {
	opts := shared.ListOptions{IncludeInactive: c.Query("include_inactive") == "true"}
	item, err := h.col.Get(h.context(c), c.Param("id"), opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Create godoc
// @Summary      Create a record
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Router       /{collection} [post]
func (h *CollectionHandler[T, P]) Create(c *gin.Context) {
	draft, err := h.bindDraft(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	ctx, w := h.mutation(c)
	created, err := h.col.Create(ctx, draft, w)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// Update godoc
// @Summary      Apply a partial update
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id  path string true "Record ID"
// @Router       /{collection}/{id} [patch]
func (h *CollectionHandler[T, P]) Update(c *gin.Context) {
	var patch P
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.BindError(c, err)
		return
	}

	ctx, w := h.mutation(c)
	updated, err := h.col.Update(ctx, c.Param("id"), patch, w)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Delete godoc
// @Summary      Delete a record
// @Tags         inventory
// @Param        id  path string true "Record ID"
// @Router       /{collection}/{id} [delete]
func (h *CollectionHandler[T, P]) Delete(c *gin.Context) {
	ctx, w := h.mutation(c)
	if err := h.col.Delete(ctx, c.Param("id"), w); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Pending reports the in-flight mutation of a record
func (h *CollectionHandler[T, P]) Pending(c *gin.Context) {
	u, ok := h.col.Pending(c.Param("id"))
	if !ok {
		h.NotFound(c, "No pending mutation for this record")
		return
	}
	h.Success(c, PendingResponse{
		ID:        u.ID,
		Operation: string(u.Operation),
		Pending:   u.Pending,
		Error:     u.Error,
		Version:   u.Version,
	})
}

// Rollback returns, once, the record as it was before a failed update or delete
func (h *CollectionHandler[T, P]) Rollback(c *gin.Context) {
	id := c.Param("id")
	prev, ok := h.col.TakeRollback(id)
	if !ok {
		h.NotFound(c, "No rollback available for this record")
		return
	}
	h.Success(c, RollbackResponse[T]{ID: id, Previous: prev})
}

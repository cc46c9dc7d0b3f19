package handler

import (
	"context"
	"net/http"

	"github.com/erp/inventory/internal/domain/failure"
	"github.com/erp/inventory/internal/domain/shared"
	"github.com/erp/inventory/internal/infrastructure/logger"
	"github.com/erp/inventory/internal/interfaces/http/dto"
	"github.com/erp/inventory/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ActorIDHeader carries the ID of the user performing a mutation
const ActorIDHeader = "X-User-ID"

// BaseHandler provides common handler utilities. Errors that reach it
// untyped are classified with the application's classifier.
type BaseHandler struct {
	classifier *failure.Classifier
}

var edgeClassifier = failure.NewClassifier()

func newBaseHandler(classifier *failure.Classifier) BaseHandler {
	return BaseHandler{classifier: classifier}
}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDContextKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// writeOptions builds the audit options of a mutation and tags the request
// context with the actor
func writeOptions(c *gin.Context) (context.Context, shared.WriteOptions) {
	actor := c.GetHeader(ActorIDHeader)
	if actor == "" {
		return c.Request.Context(), shared.WriteOptions{}
	}
	return tagRequest(c, func(ctx context.Context) context.Context {
		return logger.WithActor(ctx, actor)
	}), shared.WriteOptions{ActorID: actor}
}

// tagRequest applies tag to the request context and keeps the result on the
// request, so the access log sees the same fields as the handler
func tagRequest(c *gin.Context, tag func(context.Context) context.Context) context.Context {
	c.Request = c.Request.WithContext(tag(c.Request.Context()))
	return c.Request.Context()
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessList sends a list response
func (h *BaseHandler) SuccessList(c *gin.Context, data any, meta dto.Meta) {
	c.JSON(http.StatusOK, dto.NewListResponse(data, meta))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// HandleError sends a typed error response. Errors that are not typed yet are
// classified on the way out so every response carries a correlation ID.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	typed, ok := failure.As(err)
	if !ok {
		typed = h.classify(err)
	} else {
		typed = typed.WithLayer(failure.LayerComponent)
	}

	info := typed.Info()
	c.Set(logger.FieldCorrelationID, info.CorrelationID)
	c.Header(middleware.CorrelationIDHeader, info.CorrelationID)
	_ = c.Error(typed)

	code := dto.CodeFor(typed.Kind())
	c.JSON(dto.GetHTTPStatus(code), dto.NewFailureResponse(typed, getRequestID(c)))
}

func (h *BaseHandler) classify(err error) failure.Error {
	classifier := h.classifier
	if classifier == nil {
		classifier = edgeClassifier
	}
	return classifier.Classify(err, failure.Context{}, failure.LayerComponent)
}

// BindError sends a validation response for a request that could not be bound
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

package dto

import (
	"errors"

	"github.com/erp/inventory/internal/domain/failure"
)

// Response represents a standard API response
type Response struct {
	Success bool          `json:"success"`
	Data    any           `json:"data,omitempty"`
	Error   *ErrorPayload `json:"error,omitempty"`
	Meta    *Meta         `json:"meta,omitempty"`
}

// ErrorPayload is the wire form of a typed error. The kind-specific fields are
// only set for the kind that carries them.
type ErrorPayload struct {
	failure.ErrorInfo
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`

	EntityID        string `json:"entityId,omitempty"`
	EntityName      string `json:"entityName,omitempty"`
	StockActual     string `json:"stockActual,omitempty"`
	Field           string `json:"field,omitempty"`
	Value           string `json:"value,omitempty"`
	Details         string `json:"details,omitempty"`
	OriginalMessage string `json:"originalMessage,omitempty"`

	Validation []ValidationDetail `json:"validation,omitempty"`
}

// ValidationDetail describes one invalid request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta carries list metadata
type Meta struct {
	Count    int  `json:"count"`
	Page     int  `json:"page,omitempty"`
	PageSize int  `json:"page_size,omitempty"`
	Pending  bool `json:"pending"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewListResponse creates a success response with list metadata
func NewListResponse(data any, meta Meta) Response {
	return Response{
		Success: true,
		Data:    data,
		Meta:    &meta,
	}
}

// NewErrorResponse creates an error response for failures raised by the HTTP layer itself
func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorPayload{
			ErrorInfo: failure.ErrorInfo{Message: message, UserMessage: message},
			Code:      code,
			RequestID: requestID,
		},
	}
}

// NewValidationErrorResponse creates a response for request binding errors
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	resp := NewErrorResponse(ErrCodeValidation, message, requestID)
	resp.Error.Type = failure.TypeValidationFailure
	resp.Error.Severity = failure.SeverityWarning
	resp.Error.Validation = details
	if len(details) > 0 {
		resp.Error.Field = details[0].Field
	}
	return resp
}

// NewFailureResponse converts a typed error into an error response
func NewFailureResponse(err failure.Error, requestID string) Response {
	payload := &ErrorPayload{
		ErrorInfo: err.Info(),
		Code:      CodeFor(err.Kind()),
		RequestID: requestID,
	}

	var (
		stock    *failure.StockAvailableError
		notFound *failure.EntityNotFoundError
		conn     *failure.ConnectionFailureError
		invalid  *failure.ValidationFailureError
		generic  *failure.GenericError
	)
	switch {
	case errors.As(err, &stock):
		payload.EntityID = stock.EntityID
		payload.EntityName = stock.EntityName
		payload.StockActual = stock.StockActual.String()
	case errors.As(err, &notFound):
		payload.EntityID = notFound.EntityID
	case errors.As(err, &conn):
		payload.Details = conn.Details
	case errors.As(err, &invalid):
		payload.Field = invalid.Field
		payload.Value = invalid.Value
	case errors.As(err, &generic):
		payload.OriginalMessage = generic.OriginalMessage
	}

	return Response{Success: false, Error: payload}
}

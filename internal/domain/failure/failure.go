package failure

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type identifies the kind of a typed error
type Type string

const (
	TypeStockAvailable    Type = "STOCK_AVAILABLE"
	TypeEntityNotFound    Type = "ENTITY_NOT_FOUND"
	TypeConnectionFailure Type = "CONNECTION_FAILURE"
	TypeValidationFailure Type = "VALIDATION_FAILURE"
	TypeGeneric           Type = "GENERIC"
)

// Severity tells the UI how to present an error
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Layer records which layer last handled an error
type Layer string

const (
	LayerService   Layer = "service"
	LayerHook      Layer = "hook"
	LayerComponent Layer = "component"
)

// Error is implemented by every typed error in the taxonomy
type Error interface {
	error
	Info() ErrorInfo
	Kind() Type
	// WithLayer returns a copy stamped with another layer.
	// Type and correlation ID are never changed.
	WithLayer(layer Layer) Error
}

// ErrorInfo holds the fields shared by every kind
type ErrorInfo struct {
	Type            Type      `json:"type"`
	Message         string    `json:"message"`
	UserMessage     string    `json:"userMessage"`
	SuggestedAction string    `json:"suggestedAction"`
	Severity        Severity  `json:"severity"`
	Timestamp       time.Time `json:"timestamp"`
	Layer           Layer     `json:"layer"`
	CorrelationID   string    `json:"correlationId"`

	cause error
}

// Info returns a copy of the common fields
func (i ErrorInfo) Info() ErrorInfo { return i }

// Kind returns the error type
func (i ErrorInfo) Kind() Type { return i.Type }

// Error implements the error interface with the diagnostic message
func (i ErrorInfo) Error() string { return i.Message }

// Unwrap returns the raw failure the error was classified from
func (i ErrorInfo) Unwrap() error { return i.cause }

// package-level so constructors can be called outside a Classifier
var (
	newCorrelationID = uuid.NewString
	now              = time.Now
)

func newInfo(t Type, sev Severity, message, userMessage, action string, cause error) ErrorInfo {
	return ErrorInfo{
		Type:            t,
		Message:         message,
		UserMessage:     userMessage,
		SuggestedAction: action,
		Severity:        sev,
		Timestamp:       now(),
		Layer:           LayerService,
		CorrelationID:   newCorrelationID(),
		cause:           cause,
	}
}

// StockAvailableError is returned when a delete is refused because stock remains
type StockAvailableError struct {
	ErrorInfo
	StockActual decimal.Decimal `json:"stockActual"`
	EntityID    string          `json:"entityId"`
	EntityName  string          `json:"entityName"`
}

// NewStockAvailable creates a StockAvailableError
func NewStockAvailable(entityID, entityName string, stock decimal.Decimal, cause error) *StockAvailableError {
	label := entityName
	if label == "" {
		label = entityID
	}
	return &StockAvailableError{
		ErrorInfo: newInfo(TypeStockAvailable, SeverityWarning,
			fmt.Sprintf("cannot delete %q: %s units in stock", label, stock.String()),
			fmt.Sprintf("%q still has %s units in stock and cannot be deleted", label, stock.String()),
			"Move or consume the remaining stock first, or deactivate the material instead of deleting it",
			cause),
		StockActual: stock,
		EntityID:    entityID,
		EntityName:  entityName,
	}
}

// WithLayer implements Error
func (e *StockAvailableError) WithLayer(layer Layer) Error {
	c := *e
	c.Layer = layer
	return &c
}

// EntityNotFoundError is returned when the requested record does not exist
type EntityNotFoundError struct {
	ErrorInfo
	EntityID string `json:"entityId"`
}

// NewEntityNotFound creates an EntityNotFoundError
func NewEntityNotFound(entityID string, cause error) *EntityNotFoundError {
	msg := "entity not found"
	if entityID != "" {
		msg = fmt.Sprintf("entity %q not found", entityID)
	}
	if cause != nil {
		msg = cause.Error()
	}
	return &EntityNotFoundError{
		ErrorInfo: newInfo(TypeEntityNotFound, SeverityError, msg,
			"The requested record no longer exists",
			"Refresh the list; the record may have been removed",
			cause),
		EntityID: entityID,
	}
}

// WithLayer implements Error
func (e *EntityNotFoundError) WithLayer(layer Layer) Error {
	c := *e
	c.Layer = layer
	return &c
}

// ConnectionFailureError is returned when the backend could not be reached
type ConnectionFailureError struct {
	ErrorInfo
	Details string `json:"details,omitempty"`
}

// NewConnectionFailure creates a ConnectionFailureError
func NewConnectionFailure(details string, cause error) *ConnectionFailureError {
	msg := "connection to backend failed"
	if cause != nil {
		msg = cause.Error()
	}
	return &ConnectionFailureError{
		ErrorInfo: newInfo(TypeConnectionFailure, SeverityError, msg,
			"Could not reach the data service",
			"Check that the application backend is running and try again",
			cause),
		Details: details,
	}
}

// WithLayer implements Error
func (e *ConnectionFailureError) WithLayer(layer Layer) Error {
	c := *e
	c.Layer = layer
	return &c
}

// ValidationFailureError is returned when a field value was rejected
type ValidationFailureError struct {
	ErrorInfo
	Field string `json:"field"`
	Value string `json:"value"`
}

// NewValidationFailure creates a ValidationFailureError
func NewValidationFailure(field, value string, cause error) *ValidationFailureError {
	msg := fmt.Sprintf("invalid value for %q", field)
	if cause != nil {
		msg = cause.Error()
	}
	userMsg := "Some of the entered values are not valid"
	if field != "" {
		userMsg = fmt.Sprintf("The value entered for %q is not valid", field)
	}
	return &ValidationFailureError{
		ErrorInfo: newInfo(TypeValidationFailure, SeverityWarning, msg, userMsg,
			"Correct the highlighted field and save again",
			cause),
		Field: field,
		Value: value,
	}
}

// WithLayer implements Error
func (e *ValidationFailureError) WithLayer(layer Layer) Error {
	c := *e
	c.Layer = layer
	return &c
}

// GenericError wraps a failure that matched no specific pattern
type GenericError struct {
	ErrorInfo
	OriginalMessage string `json:"originalMessage,omitempty"`
}

// NewGeneric creates a GenericError
func NewGeneric(originalMessage string, cause error) *GenericError {
	msg := originalMessage
	if msg == "" {
		msg = "unexpected error"
	}
	return &GenericError{
		ErrorInfo: newInfo(TypeGeneric, SeverityError, msg,
			"An unexpected error occurred",
			"Try again; if the problem persists, report the correlation ID to support",
			cause),
		OriginalMessage: originalMessage,
	}
}

// WithLayer implements Error
func (e *GenericError) WithLayer(layer Layer) Error {
	c := *e
	c.Layer = layer
	return &c
}

// As returns err as a typed error if it is one
func As(err error) (Error, bool) {
	var typed Error
	if errors.As(err, &typed) {
		return typed, true
	}
	return nil, false
}

// Restamp returns err stamped with layer. Untyped errors are wrapped as Generic.
func Restamp(err error, layer Layer) Error {
	if err == nil {
		return nil
	}
	if typed, ok := As(err); ok {
		return typed.WithLayer(layer)
	}
	return NewGeneric(err.Error(), err).WithLayer(layer)
}

// IsType reports whether err is a typed error of kind t
func IsType(err error, t Type) bool {
	typed, ok := As(err)
	return ok && typed.Kind() == t
}

var (
	_ Error = (*StockAvailableError)(nil)
	_ Error = (*EntityNotFoundError)(nil)
	_ Error = (*ConnectionFailureError)(nil)
	_ Error = (*ValidationFailureError)(nil)
	_ Error = (*GenericError)(nil)
)

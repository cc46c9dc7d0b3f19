package logger

import (
	"github.com/erp/inventory/internal/domain/failure"
	"go.uber.org/zap"
)

// Field names shared by every component
const (
	FieldCorrelationID = "correlation_id"
	FieldErrorType     = "error_type"
	FieldEntityID      = "entity_id"
	FieldCollection    = "collection"
	FieldLayer         = "layer"
	FieldRequestID     = "request_id"
	FieldActorID       = "actor_id"
	FieldTraceID       = "trace_id"
	FieldSpanID        = "span_id"
)

// ErrorFields returns the structured fields for a classified error.
// Plain errors only yield the error itself.
func ErrorFields(err error) []zap.Field {
	typed, ok := failure.As(err)
	if !ok {
		return []zap.Field{zap.Error(err)}
	}
	info := typed.Info()
	fields := []zap.Field{
		zap.String(FieldCorrelationID, info.CorrelationID),
		zap.String(FieldErrorType, string(info.Type)),
		zap.String(FieldLayer, string(info.Layer)),
		zap.Error(err),
	}
	if id := entityID(typed); id != "" {
		fields = append(fields, zap.String(FieldEntityID, id))
	}
	return fields
}

func entityID(err failure.Error) string {
	switch e := err.(type) {
	case *failure.StockAvailableError:
		return e.EntityID
	case *failure.EntityNotFoundError:
		return e.EntityID
	case *failure.ValidationFailureError:
		if e.Field == "reference" {
			return e.Value
		}
	}
	return ""
}

// LogError logs a classified error at warn for warning severities and at error otherwise
func LogError(l *zap.Logger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, ErrorFields(err)...)
	if typed, ok := failure.As(err); ok && typed.Info().Severity != failure.SeverityError {
		l.Warn(msg, fields...)
		return
	}
	l.Error(msg, fields...)
}

package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type scopeKey struct{}

// scope is what a request carries for logging. The logger already holds a
// field for every value set on the scope.
type scope struct {
	logger     *zap.Logger
	requestID  string
	actorID    string
	collection string
}

func scopeOf(ctx context.Context) scope {
	if s, ok := ctx.Value(scopeKey{}).(scope); ok {
		return s
	}
	return scope{}
}

func withScope(ctx context.Context, s scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithContext returns ctx carrying l. Values already on ctx are kept but l
// is used as is.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	s := scopeOf(ctx)
	s.logger = l
	return withScope(ctx, s)
}

// FromContext returns the logger carried by ctx or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l := scopeOf(ctx).logger; l != nil {
		return l
	}
	return zap.NewNop()
}

// WithRequestID tags ctx and its logger with the request ID
func WithRequestID(ctx context.Context, id string) context.Context {
	s := scopeOf(ctx)
	s.requestID = id
	s.logger = FromContext(ctx).With(zap.String(FieldRequestID, id))
	return withScope(ctx, s)
}

// WithActor tags ctx and its logger with the user performing a mutation
func WithActor(ctx context.Context, id string) context.Context {
	s := scopeOf(ctx)
	if s.actorID == id {
		return ctx
	}
	s.actorID = id
	s.logger = FromContext(ctx).With(zap.String(FieldActorID, id))
	return withScope(ctx, s)
}

// WithCollection tags ctx and its logger with the collection being accessed
func WithCollection(ctx context.Context, name string) context.Context {
	s := scopeOf(ctx)
	if s.collection == name {
		return ctx
	}
	s.collection = name
	s.logger = FromContext(ctx).With(zap.String(FieldCollection, name))
	return withScope(ctx, s)
}

// RequestID returns the request ID set on ctx
func RequestID(ctx context.Context) string { return scopeOf(ctx).requestID }

// Actor returns the acting user set on ctx
func Actor(ctx context.Context) string { return scopeOf(ctx).actorID }

// Collection returns the collection set on ctx
func Collection(ctx context.Context) string { return scopeOf(ctx).collection }

// L returns the logger of ctx with the trace and span IDs of its active span
//
//	logger.L(ctx).Warn("Backend read failed", zap.Error(err))
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With(
		zap.String(FieldTraceID, sc.TraceID().String()),
		zap.String(FieldSpanID, sc.SpanID().String()),
	)
}

package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// deskEngine mimics the desk router: request IDs are assigned before the
// access log and handlers tag the request with their collection
func deskEngine(l *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(FieldRequestID, "req-42")
		c.Next()
	}, GinMiddleware(l), Recovery(l))

	engine.GET("/api/v1/materials/:id", func(c *gin.Context) {
		ctx := WithCollection(c.Request.Context(), "materials")
		c.Request = c.Request.WithContext(ctx)
		FromContext(ctx).Debug("Loading material")

		if c.Param("id") == "m-9" {
			c.Set(FieldCorrelationID, "corr-1")
			c.JSON(http.StatusNotFound, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	engine.DELETE("/api/v1/categories/:id", func(c *gin.Context) {
		ctx := WithActor(WithCollection(c.Request.Context(), "categories"), "user-3")
		c.Request = c.Request.WithContext(ctx)
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false})
	})
	engine.GET("/api/v1/panic", func(c *gin.Context) {
		panic("ledger closed")
	})
	return engine
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func accessLine(t *testing.T, logs *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	lines := logs.FilterMessage("Request served").All()
	require.Len(t, lines, 1)
	return lines[0]
}

func TestGinMiddleware_AccessLineCarriesHandlerTags(t *testing.T) {
	l, logs := observed(zapcore.DebugLevel)

	w := serve(deskEngine(l), http.MethodGet, "/api/v1/materials/m-1?include_inactive=true")
	require.Equal(t, http.StatusOK, w.Code)

	line := accessLine(t, logs)
	assert.Equal(t, zapcore.InfoLevel, line.Level)
	fields := line.ContextMap()
	assert.Equal(t, "req-42", fields[FieldRequestID])
	assert.Equal(t, "materials", fields[FieldCollection])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/materials/m-1", fields["path"])
	assert.Equal(t, "include_inactive=true", fields["query"])
	assert.EqualValues(t, http.StatusOK, fields["status"])

	// the handler's own line shares the request fields
	handlerLine := logs.FilterMessage("Loading material").All()
	require.Len(t, handlerLine, 1)
	assert.Equal(t, "req-42", handlerLine[0].ContextMap()[FieldRequestID])
}

func TestGinMiddleware_LevelFollowsStatus(t *testing.T) {
	t.Run("client error warns with correlation id", func(t *testing.T) {
		l, logs := observed(zapcore.DebugLevel)
		serve(deskEngine(l), http.MethodGet, "/api/v1/materials/m-9")

		line := accessLine(t, logs)
		assert.Equal(t, zapcore.WarnLevel, line.Level)
		assert.Equal(t, "corr-1", line.ContextMap()[FieldCorrelationID])
	})

	t.Run("unavailable backend logs an error with the actor", func(t *testing.T) {
		l, logs := observed(zapcore.DebugLevel)
		serve(deskEngine(l), http.MethodDelete, "/api/v1/categories/c-1")

		line := accessLine(t, logs)
		assert.Equal(t, zapcore.ErrorLevel, line.Level)
		assert.Equal(t, "user-3", line.ContextMap()[FieldActorID])
		assert.Equal(t, "categories", line.ContextMap()[FieldCollection])
	})

	t.Run("info lines are dropped above info", func(t *testing.T) {
		l, logs := observed(zapcore.WarnLevel)
		serve(deskEngine(l), http.MethodGet, "/api/v1/materials/m-1")
		assert.Zero(t, logs.Len())
	})
}

func TestRecovery_LogsWithRequestFields(t *testing.T) {
	l, logs := observed(zapcore.DebugLevel)

	w := serve(deskEngine(l), http.MethodGet, "/api/v1/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	panics := logs.FilterMessage("Panic recovered").All()
	require.Len(t, panics, 1)
	assert.Equal(t, "req-42", panics[0].ContextMap()[FieldRequestID])
	assert.Equal(t, "ledger closed", panics[0].ContextMap()["panic"])
	assert.Equal(t, zapcore.ErrorLevel, accessLine(t, logs).Level)
}

func TestRecovery_WithoutRequestLogger(t *testing.T) {
	l, logs := observed(zapcore.DebugLevel)
	engine := gin.New()
	engine.Use(Recovery(l))
	engine.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(engine, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
}

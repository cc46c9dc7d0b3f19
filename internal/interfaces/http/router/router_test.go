package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ping(rg *gin.RouterGroup) {
	rg.GET("/materials/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Nil(t, r.health)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	routes := NewRouter(engine).Register(RegistrarFunc(ping)).Setup()

	require.Len(t, routes, 1)
	assert.Equal(t, "/api/v1/materials/ping", routes[0].Path)

	w := serve(engine, http.MethodGet, "/api/v1/materials/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterHealthCheck(t *testing.T) {
	engine := gin.New()
	NewRouter(engine, WithHealthCheck(func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})).Setup()

	w := serve(engine, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/health").Code)
}

func TestRouterAPIMiddleware(t *testing.T) {
	engine := gin.New()
	marker := func(c *gin.Context) {
		c.Header("X-API", "1")
		c.Next()
	}
	NewRouter(engine,
		WithAPIMiddleware(marker),
		WithHealthCheck(func(c *gin.Context) { c.Status(http.StatusOK) }),
	).Register(RegistrarFunc(ping)).Setup()

	assert.Equal(t, "1", serve(engine, http.MethodGet, "/api/v1/materials/ping").Header().Get("X-API"))
	assert.Empty(t, serve(engine, http.MethodGet, "/health").Header().Get("X-API"))
}

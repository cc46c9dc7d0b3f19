package handler

import (
	"net/http"
	"runtime"
	"time"

	appinv "github.com/erp/inventory/internal/application/inventory"
	"github.com/erp/inventory/internal/infrastructure/cache"
	"github.com/erp/inventory/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backend store is reachable
type Pinger interface {
	Ping() error
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	facade    *appinv.Facade
	backend   Pinger
	name      string
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(facade *appinv.Facade, backend Pinger, name, version string) *SystemHandler {
	return &SystemHandler{
		BaseHandler: newBaseHandler(facade.Classifier()),
		facade:      facade,
		backend:     backend,
		name:        name,
		version:     version,
		startTime:   time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// CacheStatusResponse represents the cache and ledger state
type CacheStatusResponse struct {
	cache.Stats
	Pending bool `json:"pending"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

// RegisterRoutes registers the system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/system")
	g.GET("/info", h.GetSystemInfo)
	g.GET("/cache", h.GetCacheStatus)
	g.DELETE("/cache", h.ClearCache)
}

// GetSystemInfo godoc
// @Summary      Get system information
// @Tags         system
// @Produce      json
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// GetCacheStatus godoc
// @Summary      Get cache counters and pending state
// @Tags         system
// @Produce      json
// @Router       /system/cache [get]
func (h *SystemHandler) GetCacheStatus(c *gin.Context) {
	h.Success(c, CacheStatusResponse{
		Stats:   h.facade.CacheStats(),
		Pending: h.facade.HasPending(),
	})
}

// ClearCache godoc
// @Summary      Drop every cached view
// @Tags         system
// @Router       /system/cache [delete]
func (h *SystemHandler) ClearCache(c *gin.Context) {
	h.facade.ClearCache()
	h.NoContent(c)
}

// Health reports liveness and backend reachability
func (h *SystemHandler) Health(c *gin.Context) {
	if h.backend != nil {
		if err := h.backend.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(HealthResponse{Status: "degraded", Backend: "unreachable"}))
			return
		}
	}
	h.Success(c, HealthResponse{Status: "ok", Backend: "reachable"})
}

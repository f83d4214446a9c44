package http

import (
	"net/http"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/annotation"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/benchmark"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/composer"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/history"
	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	services  *catalog.Store
	requests  *catalog.RequestStore
	engine    *composer.Engine
	annotator *annotation.Annotator
	history   *history.Store
	solutions *benchmark.Store
}

// NewHandlers creates a new handler set
func NewHandlers(
	services *catalog.Store,
	requests *catalog.RequestStore,
	engine *composer.Engine,
	annotator *annotation.Annotator,
	hist *history.Store,
	solutions *benchmark.Store,
) *Handlers {
	return &Handlers{
		services:  services,
		requests:  requests,
		engine:    engine,
		annotator: annotator,
		history:   hist,
		solutions: solutions,
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "ComposerOS Service (Go)",
		"version": "0.1.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	stats := h.services.Stats()
	limits := h.engine.Limits()

	c.JSON(http.StatusOK, gin.H{
		"status":             "healthy",
		"services_loaded":    stats.TotalServices,
		"services_annotated": stats.Annotated,
		"requests_loaded":    h.requests.Len(),
		"solutions_loaded":   h.solutions.Len(),
		"catalog":            stats,
		"engine": gin.H{
			"algorithms":     composer.Algorithms(),
			"max_expansions": limits.MaxExpansions,
			"timeout":        limits.Timeout.String(),
		},
		"history": h.history.Stats(),
	})
}

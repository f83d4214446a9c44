package http

import (
	"net/http"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/composer"
	"github.com/gin-gonic/gin"
)

type composeRequest struct {
	RequestID string `json:"request_id" binding:"required"`
	Algorithm string `json:"algorithm"`
}

// Compose runs one strategy for a loaded request and archives the result
func (h *Handlers) Compose(c *gin.Context) {
	var req composeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, ok := h.requests.Get(req.RequestID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	result, err := h.engine.Compose(c.Request.Context(), request, req.Algorithm)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.history.Add(result)
	c.JSON(http.StatusOK, result)
}

// ComposeAll runs every strategy over one shared snapshot and archives the
// results so they can be compared directly
func (h *Handlers) ComposeAll(c *gin.Context) {
	var req composeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, ok := h.requests.Get(req.RequestID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	results, err := h.engine.ComposeAll(c.Request.Context(), request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, algo := range composer.Algorithms() {
		h.history.Add(results[algo])
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id": req.RequestID,
		"results":    results,
	})
}

// ListCompositions lists archived results, newest first
func (h *Handlers) ListCompositions(c *gin.Context) {
	compositions := h.history.List()
	c.JSON(http.StatusOK, gin.H{
		"compositions": compositions,
		"total":        len(compositions),
		"stats":        h.history.Stats(),
	})
}

// GetComposition returns one archived result with its full trace
func (h *Handlers) GetComposition(c *gin.Context) {
	result, ok := h.history.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Composition not found"})
		return
	}
	c.JSON(http.StatusOK, result)
}

package http

import (
	"fmt"
	"net/http"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/benchmark"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/ingest"
	"github.com/gin-gonic/gin"
)

// UploadSolutions replaces the best-known solution set from one document.
// The upload describes the whole benchmark, so a valid document swaps the
// previous set out entirely.
func (h *Handlers) UploadSolutions(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	data, err := readUpload(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s: %v", fh.Filename, err)})
		return
	}

	solutions, err := ingest.ParseSolutions(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.solutions.Replace(solutions); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   fmt.Sprintf("%d best solutions loaded", len(solutions)),
		"solutions": solutions,
	})
}

// GetComparison benchmarks the archived engine results against the
// best-known solutions
func (h *Handlers) GetComparison(c *gin.Context) {
	comparison := benchmark.Compare(h.requests.List(), h.history, h.solutions)
	c.JSON(http.StatusOK, comparison)
}

package http

import (
	"fmt"
	"net/http"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/ingest"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
	"github.com/gin-gonic/gin"
)

// UploadRequests ingests one composition requests document
func (h *Handlers) UploadRequests(c *gin.Context) {
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

	parsed, err := ingest.ParseRequests(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		loaded []*types.Request
		errs   []string
	)
	for _, req := range parsed {
		if err := h.requests.Add(*req); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", req.ID, err))
			continue
		}
		loaded = append(loaded, req)
	}

	if len(loaded) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "No valid requests found",
			"errors": errsOrNil(errs),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("%d requests loaded", len(loaded)),
		"requests": loaded,
		"errors":   errsOrNil(errs),
	})
}

// ListRequests lists the loaded requests
func (h *Handlers) ListRequests(c *gin.Context) {
	requests := h.requests.List()
	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    len(requests),
	})
}

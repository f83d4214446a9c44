package http

import (
	"errors"
	"net/http"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/annotation"
	"github.com/gin-gonic/gin"
)

type annotateRequest struct {
	ServiceIDs []string `json:"service_ids"`
	Async      bool     `json:"async"`
}

// StartAnnotation runs the deterministic annotator over the selected
// services, or the whole catalog when no ids are given. Async mode returns
// immediately; progress is available via AnnotationProgress.
func (h *Handlers) StartAnnotation(c *gin.Context) {
	var req annotateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if h.services.Len() == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No services loaded"})
		return
	}

	if req.Async {
		if err := h.annotator.Start(c.Request.Context(), req.ServiceIDs); err != nil {
			annotationError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"message": "Annotation started"})
		return
	}

	done, err := h.annotator.Run(c.Request.Context(), req.ServiceIDs)
	if err != nil {
		annotationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Annotation completed",
		"total_annotated": done,
		"services":        h.services.List(),
	})
}

// AnnotationProgress reports the state of the current or last run
func (h *Handlers) AnnotationProgress(c *gin.Context) {
	progress := h.annotator.Progress()

	percent := 0.0
	if progress.Total > 0 {
		percent = float64(progress.Done) / float64(progress.Total) * 100
	}

	c.JSON(http.StatusOK, gin.H{
		"running":  progress.Running,
		"total":    progress.Total,
		"done":     progress.Done,
		"current":  progress.Current,
		"progress": percent,
	})
}

func annotationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, annotation.ErrRunning):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, annotation.ErrNoServices):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

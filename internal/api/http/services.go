package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/ingest"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

// UploadServices ingests a batch of descriptor files. Every valid service
// extends the catalog; per-file failures are reported without failing the
// rest of the batch.
func (h *Handlers) UploadServices(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
		return
	}

	var (
		loaded     []*types.Service
		uploadErrs []string
	)
	for _, fh := range files {
		data, err := readUpload(fh)
		if err != nil {
			uploadErrs = append(uploadErrs, fmt.Sprintf("%s: %v", fh.Filename, err))
			continue
		}

		svcs, errs := ingest.CollectServices(data, fh.Filename)
		uploadErrs = append(uploadErrs, errs...)
		for _, svc := range svcs {
			if err := h.services.Add(*svc); err != nil {
				uploadErrs = append(uploadErrs, fmt.Sprintf("%s: %v", svc.ID, err))
				continue
			}
			loaded = append(loaded, svc)
		}
	}

	if len(loaded) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "No valid services found",
			"errors": uploadErrs,
		})
		return
	}

	message := fmt.Sprintf("%d services loaded successfully", len(loaded))
	if len(uploadErrs) > 0 {
		message += fmt.Sprintf(" (%d errors)", len(uploadErrs))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        message,
		"total_services": h.services.Len(),
		"services":       loaded,
		"errors":         errsOrNil(uploadErrs),
	})
}

// ListServices lists the whole catalog
func (h *Handlers) ListServices(c *gin.Context) {
	services := h.services.List()
	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"total":    len(services),
	})
}

// GetService returns one catalog entry
func (h *Handlers) GetService(c *gin.Context) {
	svc, ok := h.services.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}
	c.JSON(http.StatusOK, svc)
}

// ExportService downloads one service as an annotated XML document
func (h *Handlers) ExportService(c *gin.Context) {
	svc, ok := h.services.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	payload, err := ingest.ExportAnnotatedXML(svc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_annotated.xml", svc.ID))
	c.Data(http.StatusOK, "application/xml", payload)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > utils.MaxUploadSize {
		return nil, fmt.Errorf("file exceeds %d bytes", utils.MaxUploadSize)
	}
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(io.LimitReader(src, utils.MaxUploadSize))
}

func errsOrNil(errs []string) []string {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dressmaker-orders-api/utils"
)

// UploadController serves locally stored reference photos
type UploadController struct {
	dir string
}

func NewUploadController(dir string) *UploadController {
	return &UploadController{dir: dir}
}

// GetUploadedImage handles GET /api/v1/uploads/:filename
func (ctl *UploadController) GetUploadedImage(c *gin.Context) {
	filename := c.Param("filename")

	if filename == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Filename is required")
		return
	}

	// Prevent directory traversal
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") || strings.Contains(filename, "\\") {
		respondError(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	if !utils.IsAllowedImage(filename) {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only image files are served")
		return
	}

	filePath := filepath.Join(ctl.dir, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	c.Header("Content-Type", utils.ImageContentType(filename))
	c.Header("Cache-Control", "public, max-age=86400")
	c.File(filePath)
}

package controllers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRouter(dir string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/uploads/:filename", NewUploadController(dir).GetUploadedImage)
	return router
}

func TestGetUploadedImage_Success(t *testing.T) {
	tmpDir := t.TempDir()

	testContent := []byte("fake PNG content")
	testFilename := "test_image.png"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, testFilename), testContent, 0644))

	req := httptest.NewRequest("GET", "/uploads/"+testFilename, nil)
	w := httptest.NewRecorder()
	uploadRouter(tmpDir).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
	assert.Equal(t, testContent, w.Body.Bytes())
}

func TestGetUploadedImage_ContentTypeByExtension(t *testing.T) {
	tmpDir := t.TempDir()

	testCases := []struct {
		filename    string
		contentType string
	}{
		{"fitting.jpg", "image/jpeg"},
		{"fitting.JPEG", "image/jpeg"},
		{"sketch.webp", "image/webp"},
		{"fabric.PNG", "image/png"},
	}

	router := uploadRouter(tmpDir)
	for _, tc := range testCases {
		t.Run(tc.filename, func(t *testing.T) {
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, tc.filename), []byte(tc.filename), 0644))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/uploads/"+tc.filename, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.contentType, w.Header().Get("Content-Type"))
			assert.Equal(t, []byte(tc.filename), w.Body.Bytes())
		})
	}
}

func TestGetUploadedImage_FileNotFound(t *testing.T) {
	req := httptest.NewRequest("GET", "/uploads/nonexistent.png", nil)
	w := httptest.NewRecorder()
	uploadRouter(t.TempDir()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "FILE_NOT_FOUND")
	assert.Contains(t, w.Body.String(), "Image not found")
}

func TestGetUploadedImage_EmptyFilename(t *testing.T) {
	req := httptest.NewRequest("GET", "/uploads/", nil)
	w := httptest.NewRecorder()
	uploadRouter(t.TempDir()).ServeHTTP(w, req)

	// Gin answers 404 because the route does not match
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUploadedImage_DirectoryTraversal(t *testing.T) {
	router := uploadRouter(t.TempDir())

	testCases := []struct {
		name           string
		filename       string
		expectedStatus int
		expectedError  string
	}{
		// Slashes split the path, so these never reach the handler
		{"Parent directory traversal", "../../../etc/passwd", http.StatusNotFound, ""},
		{"Forward slash in filename", "path/to/file.png", http.StatusNotFound, ""},

		{"Backslash in filename", "path\\to\\file.png", http.StatusBadRequest, "INVALID_FILENAME"},
		{"Dots in filename", "..file.png", http.StatusBadRequest, "INVALID_FILENAME"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/uploads/"+tc.filename, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			if tc.expectedError != "" {
				assert.Contains(t, w.Body.String(), tc.expectedError)
			}
		})
	}
}

func TestGetUploadedImage_InvalidFileType(t *testing.T) {
	router := uploadRouter(t.TempDir())

	testCases := []struct {
		name     string
		filename string
	}{
		{"GIF file", "image.gif"},
		{"No extension", "image"},
		{"Text file", "document.txt"},
		{"Spreadsheet", "orders.xlsx"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/uploads/"+tc.filename, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "INVALID_FILE_TYPE")
		})
	}
}

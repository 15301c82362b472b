package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FrontendHandler serves the static frontend bundle. The root path serves
// the entry document; any path not claimed by the API falls through to a
// file in the dist directory.
type FrontendHandler struct {
	distDir string
	logger  *zap.Logger
}

// NewFrontendHandler creates a static frontend handler
func NewFrontendHandler(distDir string, logger *zap.Logger) *FrontendHandler {
	return &FrontendHandler{
		distDir: distDir,
		logger:  logger.Named("frontend-handler"),
	}
}

// Index serves the frontend entry document
func (h *FrontendHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.distDir, "index.html"))
}

// Asset serves an arbitrary frontend asset by path
func (h *FrontendHandler) Asset(w http.ResponseWriter, r *http.Request) {
	// Normalize and confine the path to the dist directory
	rel := filepath.Clean(strings.TrimPrefix(r.URL.Path, "/"))
	if rel == "." || strings.HasPrefix(rel, "..") {
		http.NotFound(w, r)
		return
	}

	full := filepath.Join(h.distDir, rel)
	if info, err := os.Stat(full); err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, full)
}

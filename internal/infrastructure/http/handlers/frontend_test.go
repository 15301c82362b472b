package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFrontendDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))
	return dir
}

func TestIndexServesEntryDocument(t *testing.T) {
	h := NewFrontendHandler(newFrontendDir(t), zap.NewNop())

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>app</html>", rec.Body.String())
}

func TestAssetServesExistingFile(t *testing.T) {
	h := NewFrontendHandler(newFrontendDir(t), zap.NewNop())

	rec := httptest.NewRecorder()
	h.Asset(rec, httptest.NewRequest(http.MethodGet, "/assets/app.js", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log(1)", rec.Body.String())
}

func TestAssetMissingFileIs404(t *testing.T) {
	h := NewFrontendHandler(newFrontendDir(t), zap.NewNop())

	rec := httptest.NewRecorder()
	h.Asset(rec, httptest.NewRequest(http.MethodGet, "/assets/missing.js", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssetRejectsTraversal(t *testing.T) {
	dir := newFrontendDir(t)
	// A file outside the dist directory that must stay unreachable
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(dir), "secret.txt"), []byte("secret"), 0o644))

	h := NewFrontendHandler(dir, zap.NewNop())

	for _, path := range []string{"/../secret.txt", "/..%2Fsecret.txt", "/"} {
		req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
		req.URL.Path = path
		rec := httptest.NewRecorder()
		h.Asset(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code, "path %q", path)
	}
}

func TestAssetDirectoryIs404(t *testing.T) {
	h := NewFrontendHandler(newFrontendDir(t), zap.NewNop())

	rec := httptest.NewRecorder()
	h.Asset(rec, httptest.NewRequest(http.MethodGet, "/assets", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

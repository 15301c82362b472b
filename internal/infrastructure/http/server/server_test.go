package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reseptori/backend/internal/domain/store"
	"github.com/reseptori/backend/internal/infrastructure/config"
	"github.com/reseptori/backend/internal/ports/inbound"
)

type stubServices struct{}

func (stubServices) EnrichRecipe(ctx context.Context, cmd inbound.EnrichRecipeCommand) (*inbound.EnrichedRecipe, error) {
	return &inbound.EnrichedRecipe{ID: cmd.RecipeID, Name: "Mustikkapiirakka"}, nil
}

func (stubServices) SuggestRecipes(ctx context.Context, itemIDs []string, count int) ([]int, error) {
	return []int{3}, nil
}

func (stubServices) NearbyStores(ctx context.Context, postalCode string) ([]store.Store, error) {
	return []store.Store{{ID: "7", Name: "K-Market Töölö"}}, nil
}

func (stubServices) RemainingItems(ctx context.Context) ([]inbound.PantryItem, error) {
	return []inbound.PantryItem{{ID: "5286", Name: "dummy name", ImageURL: "dummy.png"}}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		App:    config.AppConfig{Name: "Reseptori", Version: "test", Environment: "test"},
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			RequestTimeout:  5 * time.Second,
			FrontendDistDir: t.TempDir(),
		},
		Monitoring: config.MonitoringConfig{
			EnableMetrics:   true,
			HealthCheckPath: "/health",
			MetricsPath:     "/metrics",
		},
	}
	var s stubServices
	return NewServer(cfg, zap.NewNop(), prometheus.NewRegistry(), s, s, s, s)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoutesAreWired(t *testing.T) {
	h := newTestServer(t).Handler()

	for _, path := range []string{
		"/api/get_rich_recipe/3",
		"/api/recipe_suggestions/10,20",
		"/api/get_stores/00100",
		"/api/possibly_remaining_ingredients/",
		"/health",
		"/metrics",
	} {
		rec := get(t, h, path)
		assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
}

func TestEveryResponseCarriesRequestID(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := get(t, h, "/health")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSecurityHeadersApplied(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := get(t, h, "/api/get_stores/00100")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestUnknownPathFallsThroughToFrontend(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := get(t, h, "/no/such/asset.js")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpointExposesRegistry(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	// A request through the metrics middleware, then scrape
	require.Equal(t, http.StatusOK, get(t, h, "/health").Code)
	rec := get(t, h, "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

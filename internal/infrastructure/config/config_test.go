package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Reseptori", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)

	assert.Equal(t, "4", cfg.Retailer.MainCategory)
	assert.Equal(t, "28", cfg.Retailer.SubCategory)
	assert.Equal(t, 10*time.Second, cfg.Retailer.Timeout)

	assert.Equal(t, 5, cfg.Model.SuggestionDraws)
	assert.Equal(t, 7000, cfg.Model.ColdStartItemRange)
	assert.Equal(t, 4, cfg.Enrichment.MaxConcurrentIngredients)

	assert.Equal(t,
		[]string{"5286", "7191", "6807", "6932", "7532", "8116", "6269", "6751", "6517"},
		cfg.Pantry.ItemIDs)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: Reseptori
  environment: staging
server:
  port: 9000
retailer:
  subscription_key: file-key
model:
  suggestion_draws: 8
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Environment)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "file-key", cfg.Retailer.SubscriptionKey)
	assert.Equal(t, 8, cfg.Model.SuggestionDraws)
	// Untouched keys keep their defaults
	assert.Equal(t, "4", cfg.Retailer.MainCategory)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("RESEPTORI_RETAILER_SUBSCRIPTION_KEY", "env-key")
	t.Setenv("RESEPTORI_SERVER_PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Retailer.SubscriptionKey)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestProductionRequiresSubscriptionKey(t *testing.T) {
	t.Setenv("RESEPTORI_APP_ENVIRONMENT", "production")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscription_key")
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:        AppConfig{Name: "Reseptori", Environment: "development"},
			Server:     ServerConfig{Port: 8080},
			Model:      ModelConfig{SuggestionDraws: 5},
			Enrichment: EnrichmentConfig{MaxConcurrentIngredients: 4},
		}
	}

	require.NoError(t, base().Validate())

	c := base()
	c.App.Name = ""
	assert.Error(t, c.Validate())

	c = base()
	c.Server.Port = 0
	assert.Error(t, c.Validate())

	c = base()
	c.Model.SuggestionDraws = 0
	assert.Error(t, c.Validate())

	c = base()
	c.Enrichment.MaxConcurrentIngredients = 0
	assert.Error(t, c.Validate())
}

func TestEnvironmentHelpers(t *testing.T) {
	c := &Config{App: AppConfig{Environment: "production"}}
	assert.True(t, c.IsProduction())
	assert.False(t, c.IsDevelopment())

	c.App.Environment = "development"
	assert.True(t, c.IsDevelopment())
}

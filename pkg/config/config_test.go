package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/product-enricher/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "gpt-3.5-turbo-0125", cfg.AI.Model())
	assert.InDelta(t, 0.2, cfg.AI.Temperature, 0.0001)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "general retail", cfg.Enrich.DefaultIndustry)
	assert.False(t, cfg.JWT.Enabled())
	assert.False(t, cfg.Swagger.Enabled)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("AI_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "gk-123")
	t.Setenv("OPENAI_API_KEY", "sk-ignored")
	t.Setenv("AI_TEMPERATURE", "0.5")
	t.Setenv("AI_TIMEOUT_SECONDS", "5")
	t.Setenv("ENRICH_DEFAULT_INDUSTRY", "jewelry")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "gk-123", cfg.AI.APIKey())
	assert.Equal(t, "gemini-1.5-flash", cfg.AI.Model())
	assert.Empty(t, cfg.AI.BaseURL())
	assert.InDelta(t, 0.5, cfg.AI.Temperature, 0.0001)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "jewelry", cfg.Enrich.DefaultIndustry)
	assert.True(t, cfg.JWT.Enabled())
}

func TestLoad_ProveedorDesconocido(t *testing.T) {
	t.Setenv("AI_PROVIDER", "ollama")
	_, err := config.Load()
	assert.ErrorContains(t, err, "AI_PROVIDER")
}

func TestLoad_TemperaturaInvalida(t *testing.T) {
	t.Setenv("AI_TEMPERATURE", "caliente")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("AI_TEMPERATURE", "3")
	_, err = config.Load()
	assert.ErrorContains(t, err, "fuera de rango")
}

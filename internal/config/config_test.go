package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "52", cfg.WhatsAppPais)
	assert.Equal(t, 30, cfg.GarantiaDiasDefault)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("NEGOCIO_NOMBRE", "Taller Norte")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CORS_ORIGINS", "https://taller.mx,https://admin.taller.mx")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "s3cr3t", cfg.JWTSecret)
	assert.Equal(t, "Taller Norte", cfg.NegocioNombre)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://taller.mx", "https://admin.taller.mx"}, cfg.CORSOrigins)
}

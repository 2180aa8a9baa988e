package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-sri/pkg/config"
)

func TestLoad_LeeVariablesSRI(t *testing.T) {
	t.Setenv("SRI_AMBIENTE", "2")
	t.Setenv("SRI_RUC", "1790016919001")
	t.Setenv("SRI_TIMEOUT_SECONDS", "15")
	t.Setenv("SRI_RIMPE", "true")
	t.Setenv("STORAGE_ROOT", "/var/lib/sri")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "2", cfg.SRI.Ambiente)
	assert.Equal(t, "1790016919001", cfg.SRI.Emisor.RUC)
	assert.True(t, cfg.SRI.Emisor.Rimpe)
	assert.Equal(t, 15*time.Second, cfg.SRI.Timeout())
	assert.Equal(t, "/var/lib/sri", cfg.Storage.Root)
}

func TestLoad_AmbienteInvalido(t *testing.T) {
	t.Setenv("SRI_AMBIENTE", "3")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaClave(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "sri", Password: "p@ss:w/rd", DBName: "sri", SSLMode: "disable"}
	assert.True(t, c.Enabled())
	assert.Equal(t, "postgres://sri:p%40ss%3Aw%2Frd@db:5432/sri?sslmode=disable", c.ConnectionString())
	assert.False(t, config.DBConfig{}.Enabled())
}

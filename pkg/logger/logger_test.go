package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-sri/pkg/logger"
)

func TestLogger_ForClaveFijaElCampo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Service: "facturacion-sri", Out: &buf})

	log.ForClave("1501202401179001234500110010010000000011234567810").Info().Str("estado", "RECIBIDA").Msg("recepción")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "1501202401179001234500110010010000000011234567810", ev["clave_acceso"])
	assert.Equal(t, "facturacion-sri", ev["service"])
	assert.Equal(t, "RECIBIDA", ev["estado"])
	assert.Equal(t, "info", ev["level"])
}

func TestLogger_NivelDesconocidoEsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "ruidoso", Out: &buf})

	log.Debug().Msg("no sale")
	assert.Empty(t, buf.String())

	log.Info().Msg("sale")
	assert.Contains(t, buf.String(), "sale")
}

func TestLogger_NivelSinDistinguirMayusculas(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "WARN", Out: &buf})

	log.Info().Msg("no sale")
	assert.Empty(t, buf.String())
	log.Warn().Msg("sale")
	assert.NotEmpty(t, buf.String())
}

package sri_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/facturacion-sri/internal/domain/sri"
)

// 2.5 × 10.333333 = 25.8333325 → 25.83 (mitad hacia arriba a 2 decimales).
func TestPrecioTotalSinImpuesto_Redondeo(t *testing.T) {
	total := sri.PrecioTotalSinImpuesto(
		decimal.RequireFromString("2.5"),
		decimal.RequireFromString("10.333333"),
		decimal.Zero,
	)
	assert.Equal(t, "25.83", sri.FormatMonto(total))
}

func TestFormatMonto_MitadHaciaArriba(t *testing.T) {
	assert.Equal(t, "0.13", sri.FormatMonto(decimal.RequireFromString("0.125")))
	assert.Equal(t, "2.68", sri.FormatMonto(decimal.RequireFromString("2.675")))
	assert.Equal(t, "1500.00", sri.FormatMonto(decimal.NewFromInt(1500)))
}

func TestFormatCantidad_SeisDecimales(t *testing.T) {
	assert.Equal(t, "2.500000", sri.FormatCantidad(decimal.RequireFromString("2.5")))
	assert.Equal(t, "10.333333", sri.FormatCantidad(decimal.RequireFromString("10.3333334")))
}

func TestValorImpuesto(t *testing.T) {
	assert.Equal(t, "3.87", sri.FormatMonto(sri.ValorImpuesto(decimal.RequireFromString("25.83"), decimal.NewFromInt(15))))
	assert.Equal(t, "15", sri.FormatTarifa(decimal.NewFromInt(15)))
}

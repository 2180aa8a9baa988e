package sri

import "github.com/shopspring/decimal"

// Precisiones exigidas por los XSD del SRI.
const (
	DecimalesMonto    = 2 // valores monetarios, bases, impuestos, descuentos
	DecimalesCantidad = 6 // cantidad y precio unitario
)

// FormatMonto redondea a 2 decimales (mitad hacia arriba, alejándose de cero) y
// usa siempre punto decimal, sin separador de miles.
func FormatMonto(d decimal.Decimal) string {
	return d.Round(DecimalesMonto).StringFixed(DecimalesMonto)
}

// FormatCantidad redondea a 6 decimales (cantidad y precio unitario).
func FormatCantidad(d decimal.Decimal) string {
	return d.Round(DecimalesCantidad).StringFixed(DecimalesCantidad)
}

// FormatTarifa formatea la tarifa de impuesto sin decimales superfluos (12, 15, 0, 5).
func FormatTarifa(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.StringFixed(0)
	}
	return d.Round(DecimalesMonto).StringFixed(DecimalesMonto)
}

// PrecioTotalSinImpuesto = cantidad × precio unitario − descuento, a 2 decimales.
func PrecioTotalSinImpuesto(cantidad, precioUnitario, descuento decimal.Decimal) decimal.Decimal {
	return cantidad.Mul(precioUnitario).Sub(descuento).Round(DecimalesMonto)
}

// ValorImpuesto = base × tarifa / 100, a 2 decimales.
func ValorImpuesto(base, tarifa decimal.Decimal) decimal.Decimal {
	return base.Mul(tarifa).Div(decimal.NewFromInt(100)).Round(DecimalesMonto)
}

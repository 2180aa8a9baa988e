// Package sri contiene catálogos alineados a la Ficha Técnica de Comprobantes
// Electrónicos del SRI (esquema offline).
package sri

import "github.com/shopspring/decimal"

// =============================================================================
// Tabla 16 - Códigos de impuesto
// =============================================================================

const (
	ImpuestoIVA  = "2"
	ImpuestoICE  = "3"
	ImpuestoIRBP = "5" // Impuesto redimible a las botellas plásticas
)

// =============================================================================
// Tabla 17 - Tarifas de IVA (codigoPorcentaje)
// =============================================================================

const (
	IVA0            = "0"
	IVA12           = "2"
	IVA14           = "3"
	IVA15           = "4"
	IVA5            = "5"
	IVANoObjeto     = "6"
	IVAExento       = "7"
	IVADiferenciado = "8"
	IVA13           = "10"
)

// TarifasIVA porcentaje por codigoPorcentaje. Los códigos sin tarifa fija no figuran.
var TarifasIVA = map[string]decimal.Decimal{
	IVA0:        decimal.Zero,
	IVA12:       decimal.NewFromInt(12),
	IVA14:       decimal.NewFromInt(14),
	IVA15:       decimal.NewFromInt(15),
	IVA5:        decimal.NewFromInt(5),
	IVANoObjeto: decimal.Zero,
	IVAExento:   decimal.Zero,
	IVA13:       decimal.NewFromInt(13),
}

// TarifaIVA devuelve la tarifa del código y si es conocida.
func TarifaIVA(codigoPorcentaje string) (decimal.Decimal, bool) {
	t, ok := TarifasIVA[codigoPorcentaje]
	return t, ok
}

// =============================================================================
// Tabla 24 - Formas de pago
// =============================================================================

const (
	PagoSinSistemaFinanciero = "01"
	PagoCompensacionDeudas   = "15"
	PagoTarjetaDebito        = "16"
	PagoDineroElectronico    = "17"
	PagoTarjetaPrepago       = "18"
	PagoTarjetaCredito       = "19"
	PagoOtrosSistemaFinanc   = "20"
	PagoEndosoTitulos        = "21"
)

// ValidFormasPago códigos de forma de pago aceptados.
var ValidFormasPago = map[string]bool{
	PagoSinSistemaFinanciero: true, PagoCompensacionDeudas: true, PagoTarjetaDebito: true,
	PagoDineroElectronico: true, PagoTarjetaPrepago: true, PagoTarjetaCredito: true,
	PagoOtrosSistemaFinanc: true, PagoEndosoTitulos: true,
}

// =============================================================================
// Estados del web service
// =============================================================================

const (
	EstadoRecibida     = "RECIBIDA"
	EstadoDevuelta     = "DEVUELTA"
	EstadoAutorizado   = "AUTORIZADO"
	EstadoNoAutorizado = "NO AUTORIZADO"
	EstadoEnProceso    = "EN PROCESO"
)

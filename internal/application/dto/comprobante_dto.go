package dto

import "github.com/shopspring/decimal"

// CompradorRequest identificación del adquirente.
type CompradorRequest struct {
	TipoIdentificacion string `json:"tipo_identificacion"` // 04 RUC, 05 cédula, 06 pasaporte, 07 consumidor final
	Identificacion     string `json:"identificacion"`
	RazonSocial        string `json:"razon_social"`
	Direccion          string `json:"direccion,omitempty"`
}

// ImpuestoRequest impuesto de una línea.
type ImpuestoRequest struct {
	Codigo           string          `json:"codigo"`
	CodigoPorcentaje string          `json:"codigo_porcentaje"`
	Tarifa           decimal.Decimal `json:"tarifa"`
	BaseImponible    decimal.Decimal `json:"base_imponible"`
	Valor            decimal.Decimal `json:"valor"`
}

// DetalleRequest línea del comprobante.
type DetalleRequest struct {
	CodigoPrincipal string            `json:"codigo_principal"`
	CodigoAuxiliar  string            `json:"codigo_auxiliar,omitempty"`
	Descripcion     string            `json:"descripcion"`
	Cantidad        decimal.Decimal   `json:"cantidad"`
	PrecioUnitario  decimal.Decimal   `json:"precio_unitario"`
	Descuento       decimal.Decimal   `json:"descuento"`
	Impuestos       []ImpuestoRequest `json:"impuestos"`
}

// TotalImpuestoRequest agregado por impuesto.
type TotalImpuestoRequest struct {
	Codigo           string          `json:"codigo"`
	CodigoPorcentaje string          `json:"codigo_porcentaje"`
	BaseImponible    decimal.Decimal `json:"base_imponible"`
	Valor            decimal.Decimal `json:"valor"`
}

// PagoRequest forma de pago.
type PagoRequest struct {
	FormaPago    string           `json:"forma_pago"`
	Total        decimal.Decimal  `json:"total"`
	Plazo        *decimal.Decimal `json:"plazo,omitempty"`
	UnidadTiempo string           `json:"unidad_tiempo,omitempty"`
}

// CampoAdicionalRequest par nombre/valor de infoAdicional.
type CampoAdicionalRequest struct {
	Nombre string `json:"nombre"`
	Valor  string `json:"valor"`
}

// FacturaRequest body para POST /api/comprobantes/facturas.
// Los datos del emisor salen de la configuración.
type FacturaRequest struct {
	Secuencial        string                  `json:"secuencial"`
	CodigoNumerico    string                  `json:"codigo_numerico,omitempty"` // vacío: aleatorio
	FechaEmision      string                  `json:"fecha_emision"`             // 2006-01-02
	Comprador         CompradorRequest        `json:"comprador"`
	Detalles          []DetalleRequest        `json:"detalles"`
	TotalSinImpuestos decimal.Decimal         `json:"total_sin_impuestos"`
	TotalDescuento    decimal.Decimal         `json:"total_descuento"`
	TotalConImpuestos []TotalImpuestoRequest  `json:"total_con_impuestos"`
	Propina           decimal.Decimal         `json:"propina"`
	ImporteTotal      decimal.Decimal         `json:"importe_total"`
	Pagos             []PagoRequest           `json:"pagos"`
	InfoAdicional     []CampoAdicionalRequest `json:"info_adicional,omitempty"`
}

// DocumentoModificadoRequest factura que corrige la nota de crédito.
type DocumentoModificadoRequest struct {
	CodDoc       string `json:"cod_doc"`       // 01
	Numero       string `json:"numero"`        // 001-001-000000001
	FechaEmision string `json:"fecha_emision"` // 2006-01-02
}

// NotaCreditoRequest body para POST /api/comprobantes/notas-credito.
type NotaCreditoRequest struct {
	Secuencial        string                     `json:"secuencial"`
	CodigoNumerico    string                     `json:"codigo_numerico,omitempty"`
	FechaEmision      string                     `json:"fecha_emision"`
	Comprador         CompradorRequest           `json:"comprador"`
	Modificado        DocumentoModificadoRequest `json:"doc_modificado"`
	Motivo            string                     `json:"motivo"`
	TotalSinImpuestos decimal.Decimal            `json:"total_sin_impuestos"`
	ValorModificacion decimal.Decimal            `json:"valor_modificacion"`
	TotalConImpuestos []TotalImpuestoRequest     `json:"total_con_impuestos"`
	Detalles          []DetalleRequest           `json:"detalles"`
	InfoAdicional     []CampoAdicionalRequest    `json:"info_adicional,omitempty"`
}

// MensajeResponse mensaje del SRI tal cual.
type MensajeResponse struct {
	Identificador        string `json:"identificador"`
	Mensaje              string `json:"mensaje"`
	InformacionAdicional string `json:"informacion_adicional,omitempty"`
	Tipo                 string `json:"tipo"`
}

// OutcomeResponse resultado de emisión o consulta.
type OutcomeResponse struct {
	Kind               string            `json:"kind"` // authorized | denied | not_received | pending | transport_error
	ClaveAcceso        string            `json:"clave_acceso"`
	NumeroAutorizacion string            `json:"numero_autorizacion,omitempty"`
	FechaAutorizacion  string            `json:"fecha_autorizacion,omitempty"`
	Mensajes           []MensajeResponse `json:"mensajes,omitempty"`
	Detail             string            `json:"detail,omitempty"`
}

// LoteRequest body para POST /api/lotes: claves ya firmadas.
type LoteRequest struct {
	Claves []string `json:"claves"`
}

// LoteResponse respuesta de recepción del lote.
type LoteResponse struct {
	ClaveAcceso string            `json:"clave_acceso"`
	Estado      string            `json:"estado"`
	Mensajes    []MensajeResponse `json:"mensajes,omitempty"`
}

// RetryResponse resultado del reintento de contingencia.
type RetryResponse struct {
	Sent   []string `json:"sent"`
	Failed []string `json:"failed"`
}

// ComprobanteResponse registro del repositorio de estados.
type ComprobanteResponse struct {
	ClaveAcceso        string            `json:"clave_acceso"`
	CodDoc             string            `json:"cod_doc"`
	Estado             string            `json:"estado"`
	NumeroAutorizacion string            `json:"numero_autorizacion,omitempty"`
	FechaAutorizacion  string            `json:"fecha_autorizacion,omitempty"`
	ImporteTotal       decimal.Decimal   `json:"importe_total"`
	Mensajes           []MensajeResponse `json:"mensajes,omitempty"`
	UpdatedAt          string            `json:"updated_at"`
}

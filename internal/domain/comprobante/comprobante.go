// Package comprobante modela los comprobantes electrónicos SRI soportados:
// factura (codDoc 01, versión 2.1.0) y nota de crédito (codDoc 04, versión 1.1.0).
package comprobante

import (
	"time"

	"github.com/shopspring/decimal"
)

// Códigos de documento (tabla 3 de la ficha técnica).
const (
	CodDocFactura     = "01"
	CodDocNotaCredito = "04"
)

// Versiones de esquema XSD por tipo de comprobante.
const (
	VersionFactura     = "2.1.0"
	VersionNotaCredito = "1.1.0"
)

// Ambientes y tipo de emisión.
const (
	AmbientePruebas    = "1"
	AmbienteProduccion = "2"
	TipoEmisionNormal  = "1"
)

// MonedaDolar es el único valor de moneda aceptado por el SRI.
const MonedaDolar = "DOLAR"

// LeyendaRimpe se emite en infoTributaria/contribuyenteRimpe.
const LeyendaRimpe = "CONTRIBUYENTE RÉGIMEN RIMPE"

// Documento es la unión cerrada {Factura, NotaCredito}.
type Documento interface {
	CodDoc() string
	Tributaria() *InfoTributaria
	isDocumento()
}

// InfoTributaria cabecera común a todos los comprobantes.
type InfoTributaria struct {
	Ambiente           string
	TipoEmision        string
	RazonSocial        string
	NombreComercial    string
	RUC                string
	ClaveAcceso        string // vacía: el builder la calcula
	CodigoNumerico     string // 8 dígitos para la clave; vacío: aleatorio
	Estab              string
	PtoEmi             string
	Secuencial         string
	DirMatriz          string
	AgenteRetencion    string // número de resolución; vacío = no es agente
	ContribuyenteRimpe bool
}

// Serie devuelve establecimiento + punto de emisión.
func (i InfoTributaria) Serie() string { return i.Estab + i.PtoEmi }

// NumeroComprobante con formato 001-001-000000001.
func (i InfoTributaria) NumeroComprobante() string {
	return i.Estab + "-" + i.PtoEmi + "-" + i.Secuencial
}

// Comprador identificación del adquirente.
type Comprador struct {
	TipoIdentificacion string
	Identificacion     string
	RazonSocial        string
	Direccion          string
}

// Impuesto de una línea de detalle.
type Impuesto struct {
	Codigo           string
	CodigoPorcentaje string
	Tarifa           decimal.Decimal
	BaseImponible    decimal.Decimal
	Valor            decimal.Decimal
}

// TotalImpuesto agregado por código de impuesto en totalConImpuestos.
type TotalImpuesto struct {
	Codigo             string
	CodigoPorcentaje   string
	DescuentoAdicional *decimal.Decimal
	BaseImponible      decimal.Decimal
	Tarifa             *decimal.Decimal
	Valor              decimal.Decimal
	ValorDevolucionIva *decimal.Decimal
}

// Pago forma de pago (tabla 24).
type Pago struct {
	FormaPago    string
	Total        decimal.Decimal
	Plazo        *decimal.Decimal
	UnidadTiempo string
}

// CampoAdicional par nombre/valor, serializado como atributo + texto.
type CampoAdicional struct {
	Nombre string
	Valor  string
}

// Detalle línea del comprobante. Para notas de crédito CodigoPrincipal se emite
// como codigoInterno y CodigoAuxiliar como codigoAdicional.
type Detalle struct {
	CodigoPrincipal        string
	CodigoAuxiliar         string
	Descripcion            string
	UnidadMedida           string
	Cantidad               decimal.Decimal
	PrecioUnitario         decimal.Decimal
	PrecioSinSubsidio      *decimal.Decimal
	Descuento              decimal.Decimal
	PrecioTotalSinImpuesto *decimal.Decimal // nil: cantidad × precio − descuento
	DetallesAdicionales    []CampoAdicional
	Impuestos              []Impuesto
}

// Compensacion solidaria (p. ej. 2% IVA en zonas afectadas).
type Compensacion struct {
	Codigo string
	Tarifa decimal.Decimal
	Valor  decimal.Decimal
}

// Totales de la factura.
type Totales struct {
	TotalSinImpuestos         decimal.Decimal
	TotalSubsidio             *decimal.Decimal
	TotalDescuento            decimal.Decimal
	TotalConImpuestos         []TotalImpuesto
	Propina                   decimal.Decimal
	ImporteTotal              decimal.Decimal
	Pagos                     []Pago
	ValorRetIva               *decimal.Decimal
	ValorRetRenta             *decimal.Decimal
	IncoTermTotalSinImpuestos string
	FleteInternacional        *decimal.Decimal
	SeguroInternacional       *decimal.Decimal
	GastosAduaneros           *decimal.Decimal
	GastosTransporteOtros     *decimal.Decimal
}

// ComercioExterior campos de exportación de infoFactura.
type ComercioExterior struct {
	ComercioExterior string // EXPORTADOR
	IncoTermFactura  string
	LugarIncoTerm    string
	PaisOrigen       string
	PuertoEmbarque   string
	PuertoDestino    string
	PaisDestino      string
	PaisAdquisicion  string
}

// Reembolso totales de reembolso de gastos y sus comprobantes.
type Reembolso struct {
	CodDocReembolso             string
	TotalComprobantesReembolso  decimal.Decimal
	TotalBaseImponibleReembolso decimal.Decimal
	TotalImpuestoReembolso      decimal.Decimal
	Detalles                    []ReembolsoDetalle
}

// ReembolsoDetalle comprobante del proveedor reembolsado.
type ReembolsoDetalle struct {
	TipoIdentificacionProveedor string
	IdentificacionProveedor     string
	CodPaisPagoProveedor        string
	TipoProveedor               string
	CodDocReembolso             string
	EstabDocReembolso           string
	PtoEmiDocReembolso          string
	SecuencialDocReembolso      string
	FechaEmisionDocReembolso    time.Time
	NumeroAutorizacionDocReemb  string
	Impuestos                   []ImpuestoReembolso
}

// ImpuestoReembolso impuesto del comprobante reembolsado.
type ImpuestoReembolso struct {
	Codigo            string
	CodigoPorcentaje  string
	Tarifa            decimal.Decimal
	BaseImponible     decimal.Decimal
	ImpuestoReembolso decimal.Decimal
}

// Retencion presuntiva en la factura (IVA/renta).
type Retencion struct {
	Codigo           string
	CodigoPorcentaje string
	Tarifa           decimal.Decimal
	Valor            decimal.Decimal
}

// GuiaRemisionSustitutiva información sustitutiva de guía de remisión.
type GuiaRemisionSustitutiva struct {
	DirPartida                      string
	DirDestinatario                 string
	FechaIniTransporte              time.Time
	FechaFinTransporte              time.Time
	RazonSocialTransportista        string
	TipoIdentificacionTransportista string
	RucTransportista                string
	Placa                           string
	Destinos                        []Destino
}

// Destino de la guía sustitutiva.
type Destino struct {
	MotivoTraslado   string
	DocAduaneroUnico string
	CodEstabDestino  string
	Ruta             string
}

// Rubro de terceros cobrado en la factura.
type Rubro struct {
	Concepto string
	Total    decimal.Decimal
}

// MaquinaFiscal datos de la máquina fiscal emisora.
type MaquinaFiscal struct {
	Marca  string
	Modelo string
	Serie  string
}

package comprobante

import (
	"time"

	"github.com/shopspring/decimal"
)

// Factura comprobante de venta.
type Factura struct {
	InfoTributaria
	FechaEmision          time.Time
	DirEstablecimiento    string
	ContribuyenteEspecial string
	ObligadoContabilidad  string // SI | NO
	Comprador             Comprador
	ComercioExterior      *ComercioExterior
	Totales               Totales
	Reembolso             *Reembolso
	Compensaciones        []Compensacion
	Detalles              []Detalle
	Retenciones           []Retencion
	GuiaRemision          *GuiaRemisionSustitutiva
	RubrosTerceros        []Rubro
	TipoNegociableCorreo  string
	MaquinaFiscal         *MaquinaFiscal
	InfoAdicional         []CampoAdicional
}

// CodDoc implementa Documento.
func (f *Factura) CodDoc() string { return CodDocFactura }

// Tributaria implementa Documento.
func (f *Factura) Tributaria() *InfoTributaria { return &f.InfoTributaria }

func (*Factura) isDocumento() {}

// DocumentoModificado referencia al comprobante que la nota de crédito modifica.
type DocumentoModificado struct {
	CodDoc       string    // 01 normalmente
	Numero       string    // 001-001-000000001
	FechaEmision time.Time // fechaEmisionDocSustento
}

// NotaCredito comprobante que anula o corrige parcialmente una factura.
type NotaCredito struct {
	InfoTributaria
	FechaEmision          time.Time
	DirEstablecimiento    string
	Comprador             Comprador
	ContribuyenteEspecial string
	ObligadoContabilidad  string
	RISE                  string
	Modificado            DocumentoModificado
	TotalSinImpuestos     decimal.Decimal
	Compensaciones        []Compensacion
	ValorModificacion     decimal.Decimal
	TotalConImpuestos     []TotalImpuesto
	Motivo                string
	Detalles              []Detalle
	InfoAdicional         []CampoAdicional
}

// CodDoc implementa Documento.
func (n *NotaCredito) CodDoc() string { return CodDocNotaCredito }

// Tributaria implementa Documento.
func (n *NotaCredito) Tributaria() *InfoTributaria { return &n.InfoTributaria }

func (*NotaCredito) isDocumento() {}

var (
	_ Documento = (*Factura)(nil)
	_ Documento = (*NotaCredito)(nil)
)

package sri

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-sri/internal/domain"
	"github.com/jhoicas/facturacion-sri/internal/domain/comprobante"
	domsri "github.com/jhoicas/facturacion-sri/internal/domain/sri"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/sri/xmlnode"
)

// InfoNotaCredito cuerpo de infoNotaCredito sin los totales.
type InfoNotaCredito struct {
	FechaEmision          time.Time
	DirEstablecimiento    string
	Comprador             comprobante.Comprador
	ContribuyenteEspecial string
	ObligadoContabilidad  string
	RISE                  string
	Modificado            comprobante.DocumentoModificado
	Motivo                string
}

// TotalesNotaCredito totales de la nota de crédito.
type TotalesNotaCredito struct {
	TotalSinImpuestos decimal.Decimal
	ValorModificacion decimal.Decimal
	TotalConImpuestos []comprobante.TotalImpuesto
}

// NotaCreditoBuilder arma la nota de crédito 1.1.0.
type NotaCreditoBuilder struct {
	base

	fecha       time.Time
	cuerpo      []xmlnode.Node // fechaEmision … numDocModificado, fechaEmisionDocSustento
	motivo      string
	totales     bool
	sinImpuesto string
	modifica    string
	conImpuesto xmlnode.Repeated
}

// NewNotaCreditoBuilder crea un builder vacío.
func NewNotaCreditoBuilder() *NotaCreditoBuilder {
	return &NotaCreditoBuilder{base: base{codDoc: comprobante.CodDocNotaCredito}}
}

// NotaCreditoFrom carga todas las secciones de una NotaCredito del dominio.
func NotaCreditoFrom(n *comprobante.NotaCredito) *NotaCreditoBuilder {
	b := NewNotaCreditoBuilder().
		SetHeader(n.InfoTributaria).
		SetBody(InfoNotaCredito{
			FechaEmision:          n.FechaEmision,
			DirEstablecimiento:    n.DirEstablecimiento,
			Comprador:             n.Comprador,
			ContribuyenteEspecial: n.ContribuyenteEspecial,
			ObligadoContabilidad:  n.ObligadoContabilidad,
			RISE:                  n.RISE,
			Modificado:            n.Modificado,
			Motivo:                n.Motivo,
		}).
		SetTotals(TotalesNotaCredito{
			TotalSinImpuestos: n.TotalSinImpuestos,
			ValorModificacion: n.ValorModificacion,
			TotalConImpuestos: n.TotalConImpuestos,
		})
	for _, c := range n.Compensaciones {
		b.AddCompensacion(c)
	}
	for _, d := range n.Detalles {
		b.AddLineItem(d)
	}
	for _, a := range n.InfoAdicional {
		b.AddAdditionalField(a.Nombre, a.Valor)
	}
	return b
}

// SetHeader fija infoTributaria.
func (b *NotaCreditoBuilder) SetHeader(info comprobante.InfoTributaria) *NotaCreditoBuilder {
	b.setHeader(info)
	return b
}

// SetBody fija comprador, documento modificado y motivo.
func (b *NotaCreditoBuilder) SetBody(body InfoNotaCredito) *NotaCreditoBuilder {
	b.fecha = body.FechaEmision
	c := body.Comprador
	c.RazonSocial = texto(c.RazonSocial)
	b.motivo = texto(body.Motivo)

	b.fail(requireFields("infoNotaCredito",
		"tipoIdentificacionComprador", c.TipoIdentificacion,
		"razonSocialComprador", c.RazonSocial,
		"identificacionComprador", c.Identificacion,
		"codDocModificado", body.Modificado.CodDoc,
		"numDocModificado", body.Modificado.Numero,
		"motivo", b.motivo,
	))
	if body.Modificado.FechaEmision.IsZero() {
		b.fail(&domain.MissingFieldError{Section: "infoNotaCredito", Fields: []string{"fechaEmisionDocSustento"}})
	}
	if c.TipoIdentificacion != "" && c.Identificacion != "" {
		b.fail(domsri.ValidateIdentificacion(c.TipoIdentificacion, c.Identificacion))
	}

	var f xmlnode.Fields
	f.Add("fechaEmision", formatFecha(body.FechaEmision)).
		AddOptional("dirEstablecimiento", texto(body.DirEstablecimiento)).
		Add("tipoIdentificacionComprador", c.TipoIdentificacion).
		Add("razonSocialComprador", c.RazonSocial).
		Add("identificacionComprador", c.Identificacion).
		AddOptional("contribuyenteEspecial", body.ContribuyenteEspecial).
		AddOptional("obligadoContabilidad", body.ObligadoContabilidad).
		AddOptional("rise", texto(body.RISE)).
		Add("codDocModificado", body.Modificado.CodDoc).
		Add("numDocModificado", body.Modificado.Numero).
		Add("fechaEmisionDocSustento", formatFecha(body.Modificado.FechaEmision))
	b.cuerpo = f
	return b
}

// SetTotals fija totalSinImpuestos, valorModificacion y totalConImpuestos.
func (b *NotaCreditoBuilder) SetTotals(t TotalesNotaCredito) *NotaCreditoBuilder {
	b.totales = true
	if len(t.TotalConImpuestos) == 0 {
		b.fail(&domain.MissingFieldError{Section: "infoNotaCredito", Fields: []string{"totalConImpuestos"}})
	}
	b.sinImpuesto = domsri.FormatMonto(t.TotalSinImpuestos)
	b.modifica = domsri.FormatMonto(t.ValorModificacion)
	b.conImpuesto = totalConImpuestosNode(t.TotalConImpuestos, true)
	return b
}

// AddLineItem agrega un detalle con codigoInterno/codigoAdicional.
func (b *NotaCreditoBuilder) AddLineItem(d comprobante.Detalle) *NotaCreditoBuilder {
	n, err := detalleNode(d, true)
	b.fail(err)
	b.detalles = append(b.detalles, n)
	return b
}

// AddCompensacion agrega una compensación solidaria.
func (b *NotaCreditoBuilder) AddCompensacion(c comprobante.Compensacion) *NotaCreditoBuilder {
	b.addCompensacion(c)
	return b
}

// AddAdditionalField agrega un campoAdicional.
func (b *NotaCreditoBuilder) AddAdditionalField(nombre, valor string) *NotaCreditoBuilder {
	b.addAdditionalField(nombre, valor)
	return b
}

// Build valida y serializa la nota de crédito.
func (b *NotaCreditoBuilder) Build() (*Serialized, error) {
	b.checkCommon(b.fecha, "infoNotaCredito")
	if !b.totales {
		b.fail(&domain.MissingFieldError{Section: "infoNotaCredito", Fields: []string{"totales"}})
	}
	if err := joinErrs(b.errs); err != nil {
		return nil, err
	}
	clave, err := b.claveAcceso(b.fecha)
	if err != nil {
		return nil, err
	}

	var info xmlnode.Fields
	info = append(info, b.cuerpo...)
	info.Add("totalSinImpuestos", b.sinImpuesto).
		AddNode(xmlnode.Repeated{Name: "compensaciones", Items: b.compensaciones}).
		Add("valorModificacion", b.modifica).
		Add("moneda", comprobante.MonedaDolar).
		AddNode(b.conImpuesto).
		Add("motivo", b.motivo)

	var root xmlnode.Fields
	root.AddNode(b.infoTributaria(clave)).
		AddNode(info.Object("infoNotaCredito")).
		AddNode(xmlnode.Repeated{Name: "detalles", Items: b.detalles}).
		AddNode(xmlnode.Repeated{Name: "infoAdicional", Items: b.adicionales})

	return b.finish(root.Object("notaCredito",
		xmlnode.Attr{Name: "id", Value: ComprobanteID},
		xmlnode.Attr{Name: "version", Value: comprobante.VersionNotaCredito},
	), clave)
}

package sri

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-sri/internal/domain"
	"github.com/jhoicas/facturacion-sri/internal/domain/comprobante"
	domsri "github.com/jhoicas/facturacion-sri/internal/domain/sri"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/sri/xmlnode"
)

// InfoFactura cuerpo de infoFactura previo a los totales.
type InfoFactura struct {
	FechaEmision          time.Time
	DirEstablecimiento    string
	ContribuyenteEspecial string
	ObligadoContabilidad  string
	Comprador             comprobante.Comprador
}

// FacturaBuilder arma la factura 2.1.0 paso a paso. Los valores se formatean al
// insertarse; Build solo ensambla las ranuras en el orden del XSD.
type FacturaBuilder struct {
	base

	fecha     time.Time
	cuerpo    []xmlnode.Node // fechaEmision … obligadoContabilidad
	comprador []xmlnode.Node // tipoIdentificacionComprador … direccionComprador
	exterior  []xmlnode.Node // comercioExterior … paisAdquisicion

	totales           bool
	totalSinImpuestos []xmlnode.Node // totalSinImpuestos, totalSubsidio?, incoTermTotalSinImpuestos?
	totalDescuento    []xmlnode.Node
	totalReembolso    []xmlnode.Node
	totalConImpuestos xmlnode.Repeated
	cargos            []xmlnode.Node // propina y gastos internacionales
	importe           []xmlnode.Node // importeTotal, moneda
	pagos             xmlnode.Repeated
	retencionesPie    []xmlnode.Node // valorRetIva?, valorRetRenta?

	reembolsos  []xmlnode.Node
	retenciones []xmlnode.Node
	guia        xmlnode.Node
	rubros      []xmlnode.Node
	negociable  xmlnode.Node
	maquina     xmlnode.Node
}

// NewFacturaBuilder crea un builder vacío.
func NewFacturaBuilder() *FacturaBuilder {
	return &FacturaBuilder{base: base{codDoc: comprobante.CodDocFactura}}
}

// FacturaFrom carga todas las secciones de una Factura del dominio.
func FacturaFrom(f *comprobante.Factura) *FacturaBuilder {
	b := NewFacturaBuilder().
		SetHeader(f.InfoTributaria).
		SetBody(InfoFactura{
			FechaEmision:          f.FechaEmision,
			DirEstablecimiento:    f.DirEstablecimiento,
			ContribuyenteEspecial: f.ContribuyenteEspecial,
			ObligadoContabilidad:  f.ObligadoContabilidad,
			Comprador:             f.Comprador,
		})
	if f.ComercioExterior != nil {
		b.SetComercioExterior(*f.ComercioExterior)
	}
	b.SetTotals(f.Totales)
	if f.Reembolso != nil {
		b.SetReembolso(*f.Reembolso)
	}
	for _, c := range f.Compensaciones {
		b.AddCompensacion(c)
	}
	for _, d := range f.Detalles {
		b.AddLineItem(d)
	}
	for _, r := range f.Retenciones {
		b.AddRetencion(r)
	}
	if f.GuiaRemision != nil {
		b.SetGuiaRemisionSustitutiva(*f.GuiaRemision)
	}
	for _, r := range f.RubrosTerceros {
		b.AddRubroTerceros(r)
	}
	if f.TipoNegociableCorreo != "" {
		b.SetTipoNegociable(f.TipoNegociableCorreo)
	}
	if f.MaquinaFiscal != nil {
		b.SetMaquinaFiscal(*f.MaquinaFiscal)
	}
	for _, a := range f.InfoAdicional {
		b.AddAdditionalField(a.Nombre, a.Valor)
	}
	return b
}

// SetHeader fija infoTributaria.
func (b *FacturaBuilder) SetHeader(info comprobante.InfoTributaria) *FacturaBuilder {
	b.setHeader(info)
	return b
}

// SetBody fija fecha, establecimiento y comprador. La identificación del comprador
// se valida según su tipo.
func (b *FacturaBuilder) SetBody(body InfoFactura) *FacturaBuilder {
	b.fecha = body.FechaEmision
	c := body.Comprador
	c.RazonSocial = texto(c.RazonSocial)
	c.Direccion = texto(c.Direccion)

	b.fail(requireFields("infoFactura",
		"dirEstablecimiento", texto(body.DirEstablecimiento),
		"tipoIdentificacionComprador", c.TipoIdentificacion,
		"razonSocialComprador", c.RazonSocial,
		"identificacionComprador", c.Identificacion,
	))
	if c.TipoIdentificacion != "" && c.Identificacion != "" {
		b.fail(domsri.ValidateIdentificacion(c.TipoIdentificacion, c.Identificacion))
	}

	var f xmlnode.Fields
	f.Add("fechaEmision", formatFecha(body.FechaEmision)).
		Add("dirEstablecimiento", texto(body.DirEstablecimiento)).
		AddOptional("contribuyenteEspecial", body.ContribuyenteEspecial).
		AddOptional("obligadoContabilidad", body.ObligadoContabilidad)
	b.cuerpo = f

	var fc xmlnode.Fields
	fc.Add("tipoIdentificacionComprador", c.TipoIdentificacion).
		Add("razonSocialComprador", c.RazonSocial).
		Add("identificacionComprador", c.Identificacion).
		AddOptional("direccionComprador", c.Direccion)
	b.comprador = fc
	return b
}

// SetComercioExterior agrega los campos de exportación.
func (b *FacturaBuilder) SetComercioExterior(ce comprobante.ComercioExterior) *FacturaBuilder {
	var f xmlnode.Fields
	f.AddOptional("comercioExterior", ce.ComercioExterior).
		AddOptional("incoTermFactura", ce.IncoTermFactura).
		AddOptional("lugarIncoTerm", texto(ce.LugarIncoTerm)).
		AddOptional("paisOrigen", ce.PaisOrigen).
		AddOptional("puertoEmbarque", texto(ce.PuertoEmbarque)).
		AddOptional("puertoDestino", texto(ce.PuertoDestino)).
		AddOptional("paisDestino", ce.PaisDestino).
		AddOptional("paisAdquisicion", ce.PaisAdquisicion)
	b.exterior = f
	return b
}

// SetTotals fija los totales, impuestos agregados y pagos.
func (b *FacturaBuilder) SetTotals(t comprobante.Totales) *FacturaBuilder {
	b.totales = true
	if len(t.TotalConImpuestos) == 0 {
		b.fail(&domain.MissingFieldError{Section: "infoFactura", Fields: []string{"totalConImpuestos"}})
	}
	if len(t.Pagos) == 0 {
		b.fail(&domain.MissingFieldError{Section: "infoFactura", Fields: []string{"pagos"}})
	}

	var sin xmlnode.Fields
	sin.Add("totalSinImpuestos", domsri.FormatMonto(t.TotalSinImpuestos))
	addMonto(&sin, "totalSubsidio", t.TotalSubsidio)
	sin.AddOptional("incoTermTotalSinImpuestos", t.IncoTermTotalSinImpuestos)
	b.totalSinImpuestos = sin

	b.totalDescuento = []xmlnode.Node{xmlnode.Scalar{Name: "totalDescuento", Value: domsri.FormatMonto(t.TotalDescuento)}}
	b.totalConImpuestos = totalConImpuestosNode(t.TotalConImpuestos, false)

	var cargos xmlnode.Fields
	cargos.Add("propina", domsri.FormatMonto(t.Propina))
	addMonto(&cargos, "fleteInternacional", t.FleteInternacional)
	addMonto(&cargos, "seguroInternacional", t.SeguroInternacional)
	addMonto(&cargos, "gastosAduaneros", t.GastosAduaneros)
	addMonto(&cargos, "gastosTransporteOtros", t.GastosTransporteOtros)
	b.cargos = cargos

	var imp xmlnode.Fields
	imp.Add("importeTotal", domsri.FormatMonto(t.ImporteTotal)).
		Add("moneda", comprobante.MonedaDolar)
	b.importe = imp

	pagos := make([]xmlnode.Node, 0, len(t.Pagos))
	for _, p := range t.Pagos {
		var fp xmlnode.Fields
		fp.Add("formaPago", p.FormaPago).Add("total", domsri.FormatMonto(p.Total))
		if p.Plazo != nil {
			fp.Add("plazo", p.Plazo.String())
			fp.AddOptional("unidadTiempo", p.UnidadTiempo)
		}
		pagos = append(pagos, fp.Object("pago"))
	}
	b.pagos = xmlnode.Repeated{Name: "pagos", Items: pagos}

	var ret xmlnode.Fields
	addMonto(&ret, "valorRetIva", t.ValorRetIva)
	addMonto(&ret, "valorRetRenta", t.ValorRetRenta)
	b.retencionesPie = ret
	return b
}

// SetReembolso fija los totales de reembolso y sus comprobantes.
func (b *FacturaBuilder) SetReembolso(r comprobante.Reembolso) *FacturaBuilder {
	var f xmlnode.Fields
	f.Add("codDocReembolso", r.CodDocReembolso).
		Add("totalComprobantesReembolso", domsri.FormatMonto(r.TotalComprobantesReembolso)).
		Add("totalBaseImponibleReembolso", domsri.FormatMonto(r.TotalBaseImponibleReembolso)).
		Add("totalImpuestoReembolso", domsri.FormatMonto(r.TotalImpuestoReembolso))
	b.totalReembolso = f
	for _, d := range r.Detalles {
		b.AddReembolsoDetalle(d)
	}
	return b
}

// AddReembolsoDetalle agrega un comprobante reembolsado.
func (b *FacturaBuilder) AddReembolsoDetalle(d comprobante.ReembolsoDetalle) *FacturaBuilder {
	b.fail(requireFields("reembolsoDetalle",
		"identificacionProveedorReembolso", d.IdentificacionProveedor,
		"secuencialDocReembolso", d.SecuencialDocReembolso,
	))
	imps := make([]xmlnode.Node, 0, len(d.Impuestos))
	for _, imp := range d.Impuestos {
		var fi xmlnode.Fields
		fi.Add("codigo", imp.Codigo).
			Add("codigoPorcentaje", imp.CodigoPorcentaje).
			Add("tarifa", domsri.FormatTarifa(imp.Tarifa)).
			Add("baseImponibleReembolso", domsri.FormatMonto(imp.BaseImponible)).
			Add("impuestoReembolso", domsri.FormatMonto(imp.ImpuestoReembolso))
		imps = append(imps, fi.Object("detalleImpuesto"))
	}

	var f xmlnode.Fields
	f.Add("tipoIdentificacionProveedorReembolso", d.TipoIdentificacionProveedor).
		Add("identificacionProveedorReembolso", d.IdentificacionProveedor).
		AddOptional("codPaisPagoProveedorReembolso", d.CodPaisPagoProveedor).
		AddOptional("tipoProveedorReembolso", d.TipoProveedor).
		Add("codDocReembolso", d.CodDocReembolso).
		Add("estabDocReembolso", d.EstabDocReembolso).
		Add("ptoEmiDocReembolso", d.PtoEmiDocReembolso).
		Add("secuencialDocReembolso", d.SecuencialDocReembolso).
		Add("fechaEmisionDocReembolso", formatFecha(d.FechaEmisionDocReembolso)).
		Add("numeroautorizacionDocReemb", d.NumeroAutorizacionDocReemb).
		AddNode(xmlnode.Repeated{Name: "detalleImpuestos", Items: imps})
	b.reembolsos = append(b.reembolsos, f.Object("reembolsoDetalle"))
	return b
}

// AddLineItem agrega un detalle.
func (b *FacturaBuilder) AddLineItem(d comprobante.Detalle) *FacturaBuilder {
	n, err := detalleNode(d, false)
	b.fail(err)
	b.detalles = append(b.detalles, n)
	return b
}

// AddAdditionalField agrega un campoAdicional a infoAdicional.
func (b *FacturaBuilder) AddAdditionalField(nombre, valor string) *FacturaBuilder {
	b.addAdditionalField(nombre, valor)
	return b
}

// AddCompensacion agrega una compensación solidaria.
func (b *FacturaBuilder) AddCompensacion(c comprobante.Compensacion) *FacturaBuilder {
	b.addCompensacion(c)
	return b
}

// AddRetencion agrega una retención presuntiva.
func (b *FacturaBuilder) AddRetencion(r comprobante.Retencion) *FacturaBuilder {
	var f xmlnode.Fields
	f.Add("codigo", r.Codigo).
		Add("codigoPorcentaje", r.CodigoPorcentaje).
		Add("tarifa", domsri.FormatTarifa(r.Tarifa)).
		Add("valor", domsri.FormatMonto(r.Valor))
	b.retenciones = append(b.retenciones, f.Object("retencion"))
	return b
}

// SetGuiaRemisionSustitutiva agrega infoSustitutivaGuiaRemision.
func (b *FacturaBuilder) SetGuiaRemisionSustitutiva(g comprobante.GuiaRemisionSustitutiva) *FacturaBuilder {
	destinos := make([]xmlnode.Node, 0, len(g.Destinos))
	for _, d := range g.Destinos {
		var fd xmlnode.Fields
		fd.Add("motivoTraslado", texto(d.MotivoTraslado)).
			AddOptional("docAduaneroUnico", d.DocAduaneroUnico).
			AddOptional("codEstabDestino", d.CodEstabDestino).
			AddOptional("ruta", texto(d.Ruta))
		destinos = append(destinos, fd.Object("destino"))
	}
	var f xmlnode.Fields
	f.Add("dirPartida", texto(g.DirPartida)).
		Add("dirDestinatario", texto(g.DirDestinatario)).
		Add("fechaIniTransporte", formatFecha(g.FechaIniTransporte)).
		Add("fechaFinTransporte", formatFecha(g.FechaFinTransporte)).
		Add("razonSocialTransportista", texto(g.RazonSocialTransportista)).
		Add("tipoIdentificacionTransportista", g.TipoIdentificacionTransportista).
		Add("rucTransportista", g.RucTransportista).
		Add("placa", g.Placa).
		AddNode(xmlnode.Repeated{Name: "destinos", Items: destinos})
	b.guia = f.Object("infoSustitutivaGuiaRemision")
	return b
}

// AddRubroTerceros agrega un rubro en otrosRubrosTerceros.
func (b *FacturaBuilder) AddRubroTerceros(r comprobante.Rubro) *FacturaBuilder {
	var f xmlnode.Fields
	f.Add("concepto", texto(r.Concepto)).Add("total", domsri.FormatMonto(r.Total))
	b.rubros = append(b.rubros, f.Object("rubro"))
	return b
}

// SetTipoNegociable agrega el correo para factura negociable.
func (b *FacturaBuilder) SetTipoNegociable(correo string) *FacturaBuilder {
	var f xmlnode.Fields
	f.Add("correo", texto(correo))
	b.negociable = f.Object("tipoNegociable")
	return b
}

// SetMaquinaFiscal agrega los datos de la máquina fiscal.
func (b *FacturaBuilder) SetMaquinaFiscal(m comprobante.MaquinaFiscal) *FacturaBuilder {
	var f xmlnode.Fields
	f.Add("marca", texto(m.Marca)).Add("modelo", texto(m.Modelo)).Add("serie", texto(m.Serie))
	b.maquina = f.Object("maquinaFiscal")
	return b
}

// Build valida las secciones obligatorias y serializa. Todos los campos faltantes
// se reportan juntos.
func (b *FacturaBuilder) Build() (*Serialized, error) {
	b.checkCommon(b.fecha, "infoFactura")
	if !b.totales {
		b.fail(&domain.MissingFieldError{Section: "infoFactura", Fields: []string{"totales"}})
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
	info = append(info, b.exterior...)
	info = append(info, b.comprador...)
	info = append(info, b.totalSinImpuestos...)
	info = append(info, b.totalDescuento...)
	info = append(info, b.totalReembolso...)
	info.AddNode(b.totalConImpuestos).
		AddNode(xmlnode.Repeated{Name: "compensaciones", Items: b.compensaciones})
	info = append(info, b.cargos...)
	info = append(info, b.importe...)
	info.AddNode(b.pagos)
	info = append(info, b.retencionesPie...)

	var root xmlnode.Fields
	root.AddNode(b.infoTributaria(clave)).
		AddNode(info.Object("infoFactura")).
		AddNode(xmlnode.Repeated{Name: "detalles", Items: b.detalles}).
		AddNode(xmlnode.Repeated{Name: "reembolsos", Items: b.reembolsos}).
		AddNode(xmlnode.Repeated{Name: "retenciones", Items: b.retenciones}).
		AddNode(b.guia).
		AddNode(xmlnode.Repeated{Name: "otrosRubrosTerceros", Items: b.rubros}).
		AddNode(b.negociable).
		AddNode(b.maquina).
		AddNode(xmlnode.Repeated{Name: "infoAdicional", Items: b.adicionales})

	return b.finish(root.Object("factura",
		xmlnode.Attr{Name: "id", Value: ComprobanteID},
		xmlnode.Attr{Name: "version", Value: comprobante.VersionFactura},
	), clave)
}

func addMonto(f *xmlnode.Fields, name string, d *decimal.Decimal) {
	if d != nil {
		f.Add(name, domsri.FormatMonto(*d))
	}
}

// Package sri implementa la infraestructura de comprobantes electrónicos SRI:
// construcción del XML en orden XSD, transporte SOAP, lotes y contingencia.
package sri

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/facturacion-sri/internal/domain"
	"github.com/jhoicas/facturacion-sri/internal/domain/comprobante"
	domsri "github.com/jhoicas/facturacion-sri/internal/domain/sri"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/sri/xmlnode"
)

// ComprobanteID valor del atributo id del nodo raíz; la firma lo referencia como #comprobante.
const ComprobanteID = "comprobante"

const fechaSRI = "02/01/2006"

// Serialized resultado de Build: XML sin firma y su clave de acceso.
type Serialized struct {
	ClaveAcceso domsri.ClaveAcceso
	CodDoc      string
	XML         []byte
	Tree        xmlnode.Object
}

// Save escribe el XML en path creando el directorio si no existe.
func (s *Serialized) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("sri: crear directorio: %w", err)
	}
	if err := os.WriteFile(path, s.XML, 0o644); err != nil {
		return fmt.Errorf("sri: guardar comprobante: %w", err)
	}
	return nil
}

// BuildDocumento arma el comprobante con el builder que corresponde a su tipo.
func BuildDocumento(doc comprobante.Documento) (*Serialized, error) {
	switch d := doc.(type) {
	case *comprobante.Factura:
		return FacturaFrom(d).Build()
	case *comprobante.NotaCredito:
		return NotaCreditoFrom(d).Build()
	default:
		return nil, fmt.Errorf("%w: %T", domain.ErrUnsupportedDocument, doc)
	}
}

// ── estado común de los builders ─────────────────────────────────────────────

type base struct {
	codDoc         string
	header         *comprobante.InfoTributaria
	detalles       []xmlnode.Node
	compensaciones []xmlnode.Node
	adicionales    []xmlnode.Node
	errs           []error
}

func (b *base) fail(err error) {
	if err != nil {
		b.errs = append(b.errs, err)
	}
}

func (b *base) setHeader(info comprobante.InfoTributaria) {
	h := info
	h.RazonSocial = texto(h.RazonSocial)
	h.NombreComercial = texto(h.NombreComercial)
	h.DirMatriz = texto(h.DirMatriz)
	if h.TipoEmision == "" {
		h.TipoEmision = comprobante.TipoEmisionNormal
	}
	b.fail(requireFields("infoTributaria",
		"ambiente", h.Ambiente,
		"razonSocial", h.RazonSocial,
		"ruc", h.RUC,
		"estab", h.Estab,
		"ptoEmi", h.PtoEmi,
		"secuencial", h.Secuencial,
		"dirMatriz", h.DirMatriz,
	))
	if h.RUC != "" {
		b.fail(domsri.ValidateRUCFormato(h.RUC))
	}
	b.header = &h
}

func (b *base) addCompensacion(c comprobante.Compensacion) {
	b.fail(requireFields("compensacion", "codigo", c.Codigo))
	var f xmlnode.Fields
	f.Add("codigo", c.Codigo).
		Add("tarifa", domsri.FormatTarifa(c.Tarifa)).
		Add("valor", domsri.FormatMonto(c.Valor))
	b.compensaciones = append(b.compensaciones, f.Object("compensacion"))
}

func (b *base) addAdditionalField(nombre, valor string) {
	nombre, valor = texto(nombre), texto(valor)
	if nombre == "" || valor == "" {
		b.fail(&domain.MissingFieldError{Section: "infoAdicional", Fields: []string{"campoAdicional"}})
		return
	}
	b.adicionales = append(b.adicionales, xmlnode.AttributedScalar{
		Name:  "campoAdicional",
		Attrs: []xmlnode.Attr{{Name: "nombre", Value: nombre}},
		Value: valor,
	})
}

// claveAcceso calcula (o valida) la clave a partir de la cabecera y la fecha de emisión.
func (b *base) claveAcceso(fecha time.Time) (domsri.ClaveAcceso, error) {
	h := b.header
	if h.ClaveAcceso != "" {
		c := domsri.ClaveAcceso(h.ClaveAcceso)
		if !c.Valid() {
			return "", &domain.FieldWidthError{Field: "claveAcceso", Want: domsri.LongitudClaveAcceso, Got: h.ClaveAcceso}
		}
		return c, nil
	}
	codigo := h.CodigoNumerico
	if codigo == "" {
		var err error
		if codigo, err = domsri.NewCodigoNumerico(); err != nil {
			return "", err
		}
	}
	return domsri.Generate(domsri.ClaveAccesoParams{
		Fecha:           domsri.FormatFecha(fecha),
		TipoComprobante: b.codDoc,
		RUC:             h.RUC,
		Ambiente:        h.Ambiente,
		Serie:           h.Serie(),
		Secuencial:      h.Secuencial,
		CodigoNumerico:  codigo,
		TipoEmision:     h.TipoEmision,
	})
}

// infoTributaria en el orden de la secuencia XSD.
func (b *base) infoTributaria(clave domsri.ClaveAcceso) xmlnode.Object {
	h := b.header
	var f xmlnode.Fields
	f.Add("ambiente", h.Ambiente).
		Add("tipoEmision", h.TipoEmision).
		Add("razonSocial", h.RazonSocial).
		AddOptional("nombreComercial", h.NombreComercial).
		Add("ruc", h.RUC).
		Add("claveAcceso", clave.String()).
		Add("codDoc", b.codDoc).
		Add("estab", h.Estab).
		Add("ptoEmi", h.PtoEmi).
		Add("secuencial", h.Secuencial).
		Add("dirMatriz", h.DirMatriz).
		AddOptional("agenteRetencion", strings.TrimSpace(h.AgenteRetencion))
	if h.ContribuyenteRimpe {
		f.Add("contribuyenteRimpe", comprobante.LeyendaRimpe)
	}
	return f.Object("infoTributaria")
}

func (b *base) finish(root xmlnode.Object, clave domsri.ClaveAcceso) (*Serialized, error) {
	out, err := xmlnode.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("sri: serializar comprobante: %w", err)
	}
	return &Serialized{ClaveAcceso: clave, CodDoc: b.codDoc, XML: out, Tree: root}, nil
}

func (b *base) checkCommon(fecha time.Time, bodySection string) {
	if b.header == nil {
		b.fail(&domain.MissingFieldError{Section: "infoTributaria", Fields: []string{"infoTributaria"}})
	}
	if fecha.IsZero() {
		b.fail(&domain.MissingFieldError{Section: bodySection, Fields: []string{"fechaEmision"}})
	}
	if len(b.detalles) == 0 {
		b.fail(&domain.MissingFieldError{Section: "detalles", Fields: []string{"detalle"}})
	}
}

// ── nodos compartidos ─────────────────────────────────────────────────────────

// detalleNode arma un detalle. nc cambia los nombres de código a los de nota de crédito.
func detalleNode(d comprobante.Detalle, nc bool) (xmlnode.Object, error) {
	desc := texto(d.Descripcion)
	codigo := texto(d.CodigoPrincipal)
	codName, auxName := "codigoPrincipal", "codigoAuxiliar"
	if nc {
		codName, auxName = "codigoInterno", "codigoAdicional"
	}
	err := requireFields("detalle", codName, codigo, "descripcion", desc)
	if err == nil && len(d.Impuestos) == 0 {
		err = &domain.MissingFieldError{Section: "detalle " + codigo, Fields: []string{"impuestos"}}
	}

	total := domsri.PrecioTotalSinImpuesto(d.Cantidad, d.PrecioUnitario, d.Descuento)
	if d.PrecioTotalSinImpuesto != nil {
		total = *d.PrecioTotalSinImpuesto
	}

	var f xmlnode.Fields
	f.AddOptional(codName, codigo).
		AddOptional(auxName, texto(d.CodigoAuxiliar)).
		Add("descripcion", desc)
	if !nc {
		f.AddOptional("unidadMedida", texto(d.UnidadMedida))
	}
	f.Add("cantidad", domsri.FormatCantidad(d.Cantidad)).
		Add("precioUnitario", domsri.FormatCantidad(d.PrecioUnitario))
	if !nc && d.PrecioSinSubsidio != nil {
		f.Add("precioSinSubsidio", domsri.FormatCantidad(*d.PrecioSinSubsidio))
	}
	f.Add("descuento", domsri.FormatMonto(d.Descuento)).
		Add("precioTotalSinImpuesto", domsri.FormatMonto(total))

	adic := make([]xmlnode.Node, 0, len(d.DetallesAdicionales))
	for _, a := range d.DetallesAdicionales {
		adic = append(adic, xmlnode.AttributedScalar{
			Name:  "detAdicional",
			Attrs: []xmlnode.Attr{{Name: "nombre", Value: texto(a.Nombre)}, {Name: "valor", Value: texto(a.Valor)}},
		})
	}
	f.AddNode(xmlnode.Repeated{Name: "detallesAdicionales", Items: adic})

	imps := make([]xmlnode.Node, 0, len(d.Impuestos))
	for _, imp := range d.Impuestos {
		var fi xmlnode.Fields
		fi.Add("codigo", imp.Codigo).
			Add("codigoPorcentaje", imp.CodigoPorcentaje).
			Add("tarifa", domsri.FormatTarifa(imp.Tarifa)).
			Add("baseImponible", domsri.FormatMonto(imp.BaseImponible)).
			Add("valor", domsri.FormatMonto(imp.Valor))
		imps = append(imps, fi.Object("impuesto"))
	}
	f.AddNode(xmlnode.Repeated{Name: "impuestos", Items: imps})
	return f.Object("detalle"), err
}

// totalConImpuestosNode; nc omite los campos que el XSD de nota de crédito no admite.
func totalConImpuestosNode(items []comprobante.TotalImpuesto, nc bool) xmlnode.Repeated {
	nodes := make([]xmlnode.Node, 0, len(items))
	for _, t := range items {
		var f xmlnode.Fields
		f.Add("codigo", t.Codigo).Add("codigoPorcentaje", t.CodigoPorcentaje)
		if !nc && t.DescuentoAdicional != nil {
			f.Add("descuentoAdicional", domsri.FormatMonto(*t.DescuentoAdicional))
		}
		f.Add("baseImponible", domsri.FormatMonto(t.BaseImponible))
		if !nc && t.Tarifa != nil {
			f.Add("tarifa", domsri.FormatTarifa(*t.Tarifa))
		}
		f.Add("valor", domsri.FormatMonto(t.Valor))
		if t.ValorDevolucionIva != nil {
			f.Add("valorDevolucionIva", domsri.FormatMonto(*t.ValorDevolucionIva))
		}
		nodes = append(nodes, f.Object("totalImpuesto"))
	}
	return xmlnode.Repeated{Name: "totalConImpuestos", Items: nodes}
}

// ── helpers ───────────────────────────────────────────────────────────────────

// texto recorta y normaliza a NFC el texto libre.
func texto(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// requireFields recibe pares nombre/valor y devuelve un MissingFieldError con los vacíos.
func requireFields(section string, pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &domain.MissingFieldError{Section: section, Fields: missing}
}

func joinErrs(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

func formatFecha(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(fechaSRI)
}

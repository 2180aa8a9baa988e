// Package pdf genera el RIDE (Representación Impresa del Documento Electrónico)
// de facturas y notas de crédito autorizadas por el SRI.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  EMISOR: Razón social + RUC  │  Tipo + N° + Autorización    │
//	│                              │  Clave de acceso (barras)    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  COMPRADOR: Nombre + identificación + fecha emisión          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cód | Cant | Descripción | P.Unit | Desc | Total     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  INFO ADICIONAL              │  TOTALES                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/jhoicas/facturacion-sri/internal/application/billing"
	"github.com/jhoicas/facturacion-sri/internal/domain/comprobante"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoRIDEGenerator implementa billing.RIDEGenerator usando Maroto v2.
type MarotoRIDEGenerator struct{}

// NewMarotoRIDEGenerator construye el generador.
func NewMarotoRIDEGenerator() *MarotoRIDEGenerator { return &MarotoRIDEGenerator{} }

var _ appbilling.RIDEGenerator = (*MarotoRIDEGenerator)(nil)

// GenerateRIDE genera el PDF y devuelve sus bytes.
func (g *MarotoRIDEGenerator) GenerateRIDE(_ context.Context, d appbilling.RIDEData) ([]byte, error) {
	if d.ClaveAcceso == "" {
		return nil, fmt.Errorf("pdf: RIDE sin clave de acceso")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(tituloDocumento(d.CodDoc), true).
		WithAuthor(d.RazonSocial, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(d))
	m.AddRows(claveRows(d)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(compradorRow(d))
	if d.CodDoc == comprobante.CodDocNotaCredito {
		m.AddRows(modificadoRow(d))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de detalles
	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(d.Lineas)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(d))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor (izq) y tipo, número y autorización (der).
func headerRow(d appbilling.RIDEData) core.Row {
	return row.New(30).Add(
		col.New(6).Add(
			text.New(d.RazonSocial, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(d.NombreComercial, ""), props.Text{
				Size: 9, Top: 8,
			}),
			text.New("Dir. Matriz: "+nonEmpty(d.DirMatriz, "-"), props.Text{
				Size: 8, Top: 14, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New("R.U.C.: "+d.RUC, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New(tituloDocumento(d.CodDoc), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right,
				Color: colorPrimary, Top: 7,
			}),
			text.New("No. "+d.NumeroComprobante, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 13,
			}),
			text.New("AUTORIZACIÓN: "+d.FechaAutorizacion, props.Text{
				Size: 8, Align: align.Right, Top: 19, Color: colorGray,
			}),
			text.New("AMBIENTE: "+nonEmpty(d.Ambiente, "-"), props.Text{
				Size: 8, Align: align.Right, Top: 24, Color: colorGray,
			}),
		),
	)
}

// claveRows: número de autorización y clave de acceso en código de barras.
func claveRows(d appbilling.RIDEData) []core.Row {
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("NÚMERO DE AUTORIZACIÓN: "+d.NumeroAutorizacion, props.Text{
				Style: fontstyle.Bold, Size: 7, Top: 1,
			}),
		)),
		row.New(14).Add(col.New(12).Add(
			code.NewBar(d.ClaveAcceso, props.Barcode{Percent: 95, Center: true}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New("CLAVE DE ACCESO: "+d.ClaveAcceso, props.Text{
				Size: 7, Align: align.Center, Color: colorGray,
			}),
		)),
	}
}

// compradorRow: datos del comprador.
func compradorRow(d appbilling.RIDEData) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("Razón Social / Nombres y Apellidos:", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(d.CompradorNombre, props.Text{Size: 9, Top: 6}),
		),
		col.New(4).Add(
			text.New("Identificación: "+d.CompradorID, props.Text{
				Size: 8, Align: align.Right, Top: 1,
			}),
			text.New("Fecha Emisión: "+d.FechaEmision, props.Text{
				Size: 8, Align: align.Right, Top: 6,
			}),
		),
	)
}

// modificadoRow: comprobante que modifica la nota de crédito.
func modificadoRow(d appbilling.RIDEData) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New("Comprobante que se modifica: FACTURA "+nonEmpty(d.DocModificado, "-"), props.Text{
			Size: 8, Top: 1,
		}),
		text.New("Razón de modificación: "+nonEmpty(d.Motivo, "-"), props.Text{
			Size: 8, Top: 5, Color: colorGray,
		}),
	))
}

// tableHeaderRow: cabecera de la tabla de detalles.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cód.", 2, align.Left),
		h("Cant.", 1, align.Center),
		h("Descripción", 4, align.Left),
		h("P. Unitario", 2, align.Right),
		h("Descuento", 1, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea de detalle.
func tableDetailRows(lineas []appbilling.RIDELinea) []core.Row {
	result := make([]core.Row, 0, len(lineas))
	for _, l := range lineas {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(l.Codigo, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(l.Cantidad, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(l.Descripcion, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.PrecioUnitario, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(l.Descuento, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(l.Total, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// footerRow: información adicional (izq) y totales (der).
func footerRow(d appbilling.RIDEData) core.Row {
	info := col.New(7).Add(text.New("Información Adicional", props.Text{
		Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
	}))
	top := 6.0
	for _, campo := range d.InfoAdicional {
		info.Add(text.New(campo[0]+": "+campo[1], props.Text{Size: 8, Top: top, Color: colorGray}))
		top += 5
	}

	label := func(s string, t float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: t})
	}
	value := func(s string, t float64) core.Component {
		return text.New("$"+nonEmpty(s, "0.00"), props.Text{Size: 9, Align: align.Right, Right: 1, Top: t})
	}
	totalLabel := "VALOR TOTAL:"
	if d.CodDoc == comprobante.CodDocNotaCredito {
		totalLabel = "VALOR MODIFICACIÓN:"
	}

	return row.New(30).Add(
		info,
		col.New(3).Add(
			label("SUBTOTAL SIN IMPUESTOS:", 1),
			label("TOTAL DESCUENTO:", 7),
			text.New(totalLabel, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 13,
			}),
		),
		col.New(2).Add(
			value(d.TotalSinImpuestos, 1),
			value(d.TotalDescuento, 7),
			text.New("$"+nonEmpty(d.ImporteTotal, "0.00"), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 13,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func tituloDocumento(codDoc string) string {
	if codDoc == comprobante.CodDocNotaCredito {
		return "NOTA DE CRÉDITO"
	}
	return "FACTURA"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

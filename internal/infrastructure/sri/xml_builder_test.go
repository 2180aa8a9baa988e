package sri_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-sri/internal/domain"
	"github.com/jhoicas/facturacion-sri/internal/domain/comprobante"
	infrasri "github.com/jhoicas/facturacion-sri/internal/infrastructure/sri"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/sri/xmlnode"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testHeader() comprobante.InfoTributaria {
	return comprobante.InfoTributaria{
		Ambiente:       comprobante.AmbientePruebas,
		TipoEmision:    comprobante.TipoEmisionNormal,
		RazonSocial:    "DISTRIBUIDORA ANDINA S.A.",
		RUC:            "1790012345001",
		CodigoNumerico: "12345678",
		Estab:          "001",
		PtoEmi:         "001",
		Secuencial:     "000000001",
		DirMatriz:      "Av. Amazonas N34-120, Quito",
	}
}

func testFactura() *comprobante.Factura {
	return &comprobante.Factura{
		InfoTributaria:       testHeader(),
		FechaEmision:         time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC),
		DirEstablecimiento:   "Av. Amazonas N34-120, Quito",
		ObligadoContabilidad: "SI",
		Comprador: comprobante.Comprador{
			TipoIdentificacion: "05",
			Identificacion:     "1710034065",
			RazonSocial:        "Juan Pérez",
		},
		Totales: comprobante.Totales{
			TotalSinImpuestos: dec("25.83"),
			TotalDescuento:    decimal.Zero,
			TotalConImpuestos: []comprobante.TotalImpuesto{{
				Codigo: "2", CodigoPorcentaje: "4", BaseImponible: dec("25.83"), Valor: dec("3.87"),
			}},
			Propina:      decimal.Zero,
			ImporteTotal: dec("29.70"),
			Pagos:        []comprobante.Pago{{FormaPago: "01", Total: dec("29.70")}},
		},
		Detalles: []comprobante.Detalle{{
			CodigoPrincipal: "P-001",
			Descripcion:     "Cable UTP cat6 (metro)",
			Cantidad:        dec("2.5"),
			PrecioUnitario:  dec("10.333333"),
			Descuento:       decimal.Zero,
			Impuestos: []comprobante.Impuesto{{
				Codigo: "2", CodigoPorcentaje: "4", Tarifa: dec("15"), BaseImponible: dec("25.83"), Valor: dec("3.87"),
			}},
		}},
		InfoAdicional: []comprobante.CampoAdicional{{Nombre: "Email", Valor: "juan@example.com"}},
	}
}

func childNames(o xmlnode.Object) []string {
	out := make([]string, 0, len(o.Children))
	for _, c := range o.Children {
		out = append(out, c.NodeName())
	}
	return out
}

func child(t *testing.T, o xmlnode.Object, name string) xmlnode.Object {
	t.Helper()
	n, ok := o.Lookup(name)
	require.True(t, ok, "falta %s en %s", name, o.Name)
	obj, ok := n.(xmlnode.Object)
	require.True(t, ok, "%s no es objeto", name)
	return obj
}

func TestFacturaBuilder_ClaveAccesoDeterminista(t *testing.T) {
	out, err := infrasri.BuildDocumento(testFactura())
	require.NoError(t, err)

	assert.Equal(t, "1501202401179001234500110010010000000011234567810", out.ClaveAcceso.String())
	assert.Equal(t, comprobante.CodDocFactura, out.CodDoc)
	assert.Contains(t, string(out.XML), "<claveAcceso>1501202401179001234500110010010000000011234567810</claveAcceso>")
	assert.True(t, strings.HasPrefix(string(out.XML), xmlnode.Header))
}

func TestFacturaBuilder_OrdenInfoTributariaEInfoFactura(t *testing.T) {
	out, err := infrasri.BuildDocumento(testFactura())
	require.NoError(t, err)

	assert.Equal(t, []string{"infoTributaria", "infoFactura", "detalles", "infoAdicional"}, childNames(out.Tree))
	assert.Equal(t, []string{
		"ambiente", "tipoEmision", "razonSocial", "ruc", "claveAcceso", "codDoc",
		"estab", "ptoEmi", "secuencial", "dirMatriz",
	}, childNames(child(t, out.Tree, "infoTributaria")))
	assert.Equal(t, []string{
		"fechaEmision", "dirEstablecimiento", "obligadoContabilidad",
		"tipoIdentificacionComprador", "razonSocialComprador", "identificacionComprador",
		"totalSinImpuestos", "totalDescuento", "totalConImpuestos", "propina",
		"importeTotal", "moneda", "pagos",
	}, childNames(child(t, out.Tree, "infoFactura")))
}

func TestFacturaBuilder_RedondeoLineaYFormatoFijo(t *testing.T) {
	out, err := infrasri.BuildDocumento(testFactura())
	require.NoError(t, err)

	s := string(out.XML)
	assert.Contains(t, s, "<cantidad>2.500000</cantidad>")
	assert.Contains(t, s, "<precioUnitario>10.333333</precioUnitario>")
	assert.Contains(t, s, "<precioTotalSinImpuesto>25.83</precioTotalSinImpuesto>")
	assert.Contains(t, s, "<descuento>0.00</descuento>")
	assert.Contains(t, s, "<tarifa>15</tarifa>")
	assert.Contains(t, s, "<fechaEmision>15/01/2024</fechaEmision>")
	assert.Contains(t, s, `<factura id="comprobante" version="2.1.0">`)
}

func TestFacturaBuilder_RoundTripCampoPorCampo(t *testing.T) {
	out, err := infrasri.BuildDocumento(testFactura())
	require.NoError(t, err)

	parsed, err := xmlnode.Decode(out.XML)
	require.NoError(t, err)
	assert.Equal(t, xmlnode.Paths(out.Tree), xmlnode.Paths(parsed))
}

func TestFacturaBuilder_OmiteSeccionesOpcionalesVacias(t *testing.T) {
	out, err := infrasri.BuildDocumento(testFactura())
	require.NoError(t, err)

	s := string(out.XML)
	for _, tag := range []string{
		"<compensaciones", "<reembolsos", "<retenciones", "<infoSustitutivaGuiaRemision",
		"<otrosRubrosTerceros", "<tipoNegociable", "<maquinaFiscal", "<nombreComercial",
		"<contribuyenteEspecial", "<detallesAdicionales", "<valorRetIva", "<totalSubsidio",
		"<comercioExterior", "<contribuyenteRimpe",
	} {
		assert.NotContains(t, s, tag)
	}
}

func TestFacturaBuilder_SeccionesExtendidasEnOrden(t *testing.T) {
	f := testFactura()
	f.ContribuyenteRimpe = true
	f.Compensaciones = []comprobante.Compensacion{{Codigo: "1", Tarifa: dec("2"), Valor: dec("0.52")}}
	f.Retenciones = []comprobante.Retencion{{Codigo: "4", CodigoPorcentaje: "327", Tarifa: dec("0.20"), Valor: dec("0.77")}}
	f.RubrosTerceros = []comprobante.Rubro{{Concepto: "Tasa municipal", Total: dec("1.5")}}
	f.TipoNegociableCorreo = "cobros@example.com"
	f.MaquinaFiscal = &comprobante.MaquinaFiscal{Marca: "EPSON", Modelo: "TM-T20", Serie: "X123"}
	flete := dec("12")
	f.Totales.FleteInternacional = &flete
	f.ComercioExterior = &comprobante.ComercioExterior{ComercioExterior: "EXPORTADOR", IncoTermFactura: "FOB", PaisDestino: "US"}

	out, err := infrasri.BuildDocumento(f)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"infoTributaria", "infoFactura", "detalles", "retenciones",
		"otrosRubrosTerceros", "tipoNegociable", "maquinaFiscal", "infoAdicional",
	}, childNames(out.Tree))
	assert.Equal(t, []string{
		"fechaEmision", "dirEstablecimiento", "obligadoContabilidad",
		"comercioExterior", "incoTermFactura", "paisDestino",
		"tipoIdentificacionComprador", "razonSocialComprador", "identificacionComprador",
		"totalSinImpuestos", "totalDescuento", "totalConImpuestos", "compensaciones",
		"propina", "fleteInternacional", "importeTotal", "moneda", "pagos",
	}, childNames(child(t, out.Tree, "infoFactura")))

	info := child(t, out.Tree, "infoTributaria")
	n, ok := info.Lookup("contribuyenteRimpe")
	require.True(t, ok)
	assert.Equal(t, comprobante.LeyendaRimpe, xmlnode.Text(n))
	assert.Contains(t, string(out.XML), "<total>1.50</total>")
}

func TestFacturaBuilder_ReportaTodosLosCamposFaltantes(t *testing.T) {
	_, err := infrasri.NewFacturaBuilder().
		SetHeader(comprobante.InfoTributaria{RUC: "1790012345001"}).
		SetBody(infrasri.InfoFactura{}).
		Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingRequiredField))

	var mf *domain.MissingFieldError
	require.True(t, errors.As(err, &mf))

	msg := err.Error()
	for _, field := range []string{"razonSocial", "estab", "dirMatriz", "razonSocialComprador", "fechaEmision", "detalle", "totales"} {
		assert.Contains(t, msg, field)
	}
}

func TestFacturaBuilder_IdentificacionCompradorInvalida(t *testing.T) {
	f := testFactura()
	f.Comprador.Identificacion = "1710034066"

	_, err := infrasri.BuildDocumento(f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidIdentification))
}

func TestFacturaBuilder_AnchoSecuencialInvalido(t *testing.T) {
	f := testFactura()
	f.Secuencial = "12"

	_, err := infrasri.BuildDocumento(f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidFieldWidth))
}

func TestFacturaBuilder_NormalizaTextoNFC(t *testing.T) {
	f := testFactura()
	f.Comprador.RazonSocial = "  Jose\u0301 Pe\u0301rez  "

	out, err := infrasri.BuildDocumento(f)
	require.NoError(t, err)
	assert.Contains(t, string(out.XML), "<razonSocialComprador>Jos\u00e9 P\u00e9rez</razonSocialComprador>")
}

func TestSerialized_Save(t *testing.T) {
	out, err := infrasri.BuildDocumento(testFactura())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "generados", out.ClaveAcceso.String()+".xml")
	require.NoError(t, out.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out.XML, data)
}

func testNotaCredito() *comprobante.NotaCredito {
	h := testHeader()
	h.Secuencial = "000000010"
	return &comprobante.NotaCredito{
		InfoTributaria:     h,
		FechaEmision:       time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC),
		DirEstablecimiento: "Av. Amazonas N34-120, Quito",
		Comprador: comprobante.Comprador{
			TipoIdentificacion: "04",
			Identificacion:     "1790016919001",
			RazonSocial:        "COMERCIAL QUITO CIA. LTDA.",
		},
		Modificado: comprobante.DocumentoModificado{
			CodDoc:       comprobante.CodDocFactura,
			Numero:       "001-001-000000001",
			FechaEmision: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		TotalSinImpuestos: dec("10"),
		ValorModificacion: dec("11.5"),
		TotalConImpuestos: []comprobante.TotalImpuesto{{
			Codigo: "2", CodigoPorcentaje: "4", BaseImponible: dec("10"), Valor: dec("1.5"),
		}},
		Motivo: "Devolución de mercadería",
		Detalles: []comprobante.Detalle{{
			CodigoPrincipal: "P-001",
			Descripcion:     "Cable UTP cat6 (metro)",
			Cantidad:        dec("1"),
			PrecioUnitario:  dec("10"),
			Descuento:       decimal.Zero,
			Impuestos: []comprobante.Impuesto{{
				Codigo: "2", CodigoPorcentaje: "4", Tarifa: dec("15"), BaseImponible: dec("10"), Valor: dec("1.5"),
			}},
		}},
	}
}

func TestNotaCreditoBuilder_OrdenYCampos(t *testing.T) {
	out, err := infrasri.BuildDocumento(testNotaCredito())
	require.NoError(t, err)

	assert.Equal(t, comprobante.CodDocNotaCredito, out.CodDoc)
	assert.Equal(t, "04", out.ClaveAcceso.CodDoc())
	assert.Equal(t, "000000010", out.ClaveAcceso.Secuencial())
	assert.Equal(t, []string{"infoTributaria", "infoNotaCredito", "detalles"}, childNames(out.Tree))
	assert.Equal(t, []string{
		"fechaEmision", "dirEstablecimiento", "tipoIdentificacionComprador",
		"razonSocialComprador", "identificacionComprador", "codDocModificado",
		"numDocModificado", "fechaEmisionDocSustento", "totalSinImpuestos",
		"valorModificacion", "moneda", "totalConImpuestos", "motivo",
	}, childNames(child(t, out.Tree, "infoNotaCredito")))

	s := string(out.XML)
	assert.Contains(t, s, `<notaCredito id="comprobante" version="1.1.0">`)
	assert.Contains(t, s, "<codigoInterno>P-001</codigoInterno>")
	assert.NotContains(t, s, "codigoPrincipal")
	assert.Contains(t, s, "<valorModificacion>11.50</valorModificacion>")
}

func TestNotaCreditoBuilder_SetTotalsFormateaMontos(t *testing.T) {
	nc := testNotaCredito()
	out, err := infrasri.NotaCreditoFrom(nc).
		SetTotals(infrasri.TotalesNotaCredito{
			TotalSinImpuestos: dec("10.5"),
			ValorModificacion: dec("12.075"),
			TotalConImpuestos: nc.TotalConImpuestos,
		}).
		Build()
	require.NoError(t, err)

	s := string(out.XML)
	assert.Contains(t, s, "<totalSinImpuestos>10.50</totalSinImpuestos>")
	assert.Contains(t, s, "<valorModificacion>12.08</valorModificacion>")
	assert.NotContains(t, s, "10,5")
}

func TestNotaCreditoBuilder_FaltaDocumentoModificado(t *testing.T) {
	n := testNotaCredito()
	n.Modificado = comprobante.DocumentoModificado{}

	_, err := infrasri.BuildDocumento(n)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingRequiredField))
	assert.Contains(t, err.Error(), "numDocModificado")
	assert.Contains(t, err.Error(), "fechaEmisionDocSustento")
}

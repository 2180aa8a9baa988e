package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/facturacion-sri/internal/application/billing"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/pdf"
)

func rideData(codDoc string) appbilling.RIDEData {
	return appbilling.RIDEData{
		ClaveAcceso:        "1501202401179001234500110010010000000011234567810",
		NumeroAutorizacion: "1501202401179001234500110010010000000011234567810",
		FechaAutorizacion:  "2024-01-15T10:05:00-05:00",
		Ambiente:           "PRUEBAS",
		CodDoc:             codDoc,
		RazonSocial:        "DISTRIBUIDORA ANDINA S.A.",
		RUC:                "1790012345001",
		DirMatriz:          "Av. Amazonas N34-120, Quito",
		NumeroComprobante:  "001-001-000000001",
		FechaEmision:       "15/01/2024",
		CompradorNombre:    "Juan Pérez",
		CompradorID:        "1710034065",
		Lineas: []appbilling.RIDELinea{{
			Codigo: "P-001", Descripcion: "Cable UTP cat6 (metro)", Cantidad: "2.500000",
			PrecioUnitario: "10.333333", Descuento: "0.00", Total: "25.83",
		}},
		TotalSinImpuestos: "25.83",
		TotalDescuento:    "0.00",
		ImporteTotal:      "29.70",
		InfoAdicional:     [][2]string{{"Email", "juan@example.com"}},
	}
}

func TestGenerateRIDE_Factura(t *testing.T) {
	out, err := pdf.NewMarotoRIDEGenerator().GenerateRIDE(context.Background(), rideData("01"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateRIDE_NotaCredito(t *testing.T) {
	d := rideData("04")
	d.DocModificado = "001-001-000000001"
	d.Motivo = "Devolución"

	out, err := pdf.NewMarotoRIDEGenerator().GenerateRIDE(context.Background(), d)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateRIDE_SinClave(t *testing.T) {
	d := rideData("01")
	d.ClaveAcceso = ""

	_, err := pdf.NewMarotoRIDEGenerator().GenerateRIDE(context.Background(), d)
	assert.Error(t, err)
}

package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/jhoicas/facturacion-sri/internal/domain"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/sri"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/storage"
)

// RIDELinea una línea de detalle tal como se imprime.
type RIDELinea struct {
	Codigo         string
	Descripcion    string
	Cantidad       string
	PrecioUnitario string
	Descuento      string
	Total          string
}

// RIDEData datos que necesita el generador del RIDE, leídos del XML autorizado.
type RIDEData struct {
	ClaveAcceso        string
	NumeroAutorizacion string
	FechaAutorizacion  string
	Ambiente           string
	CodDoc             string
	RazonSocial        string
	NombreComercial    string
	RUC                string
	DirMatriz          string
	NumeroComprobante  string // 001-001-000000001
	FechaEmision       string
	CompradorNombre    string
	CompradorID        string
	Lineas             []RIDELinea
	TotalSinImpuestos  string
	TotalDescuento     string
	ImporteTotal       string
	DocModificado      string // solo notas de crédito
	Motivo             string
	InfoAdicional      [][2]string
}

// RIDEUseCase genera el RIDE (PDF) de un comprobante ya autorizado.
type RIDEUseCase struct {
	store     storage.Store
	generator RIDEGenerator
}

// NewRIDEUseCase construye el caso de uso.
func NewRIDEUseCase(store storage.Store, generator RIDEGenerator) *RIDEUseCase {
	return &RIDEUseCase{store: store, generator: generator}
}

// Download devuelve el PDF y el nombre de archivo sugerido.
//
// Retorna:
//   - domain.ErrAuthorizedNotAvailable si la clave no tiene archivo en autorizados.
//   - domain.ErrInvalidInput si el archivo guardado no se puede interpretar.
func (uc *RIDEUseCase) Download(ctx context.Context, clave string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar el sobre autorizado ─────────────────────────────────────────
	raw, err := uc.store.Read(storage.StageAutorizados, clave)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: %s", domain.ErrAuthorizedNotAvailable, clave)
		}
		return nil, "", fmt.Errorf("ride: leer autorizado: %w", err)
	}

	// ── 2. Extraer los datos del comprobante ──────────────────────────────────
	data, err := RIDEDataFromEnvelope(raw)
	if err != nil {
		return nil, "", err
	}

	// ── 3. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateRIDE(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("ride: generación fallida: %w", err)
	}
	return pdfBytes, "RIDE_" + clave + ".pdf", nil
}

// RIDEDataFromEnvelope interpreta el sobre <autorizacion> guardado en autorizados.
func RIDEDataFromEnvelope(raw []byte) (RIDEData, error) {
	env, err := sri.ParseAuthorizedEnvelope(raw)
	if err != nil {
		return RIDEData{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(env.Comprobante); err != nil {
		return RIDEData{}, fmt.Errorf("%w: comprobante autorizado: %v", domain.ErrInvalidInput, err)
	}
	root := doc.Root()
	if root == nil {
		return RIDEData{}, fmt.Errorf("%w: comprobante autorizado vacío", domain.ErrInvalidInput)
	}

	info := root.SelectElement("infoTributaria")
	d := RIDEData{
		NumeroAutorizacion: env.NumeroAutorizacion,
		FechaAutorizacion:  env.FechaAutorizacion,
		Ambiente:           env.Ambiente,
		ClaveAcceso:        childText(info, "claveAcceso"),
		CodDoc:             childText(info, "codDoc"),
		RazonSocial:        childText(info, "razonSocial"),
		NombreComercial:    childText(info, "nombreComercial"),
		RUC:                childText(info, "ruc"),
		DirMatriz:          childText(info, "dirMatriz"),
		NumeroComprobante: strings.Join([]string{
			childText(info, "estab"), childText(info, "ptoEmi"), childText(info, "secuencial"),
		}, "-"),
	}

	// infoFactura o infoNotaCredito según la raíz.
	var body *etree.Element
	switch root.Tag {
	case "notaCredito":
		body = root.SelectElement("infoNotaCredito")
		d.TotalSinImpuestos = childText(body, "totalSinImpuestos")
		d.ImporteTotal = childText(body, "valorModificacion")
		d.DocModificado = childText(body, "numDocModificado")
		d.Motivo = childText(body, "motivo")
	default:
		body = root.SelectElement("infoFactura")
		d.TotalSinImpuestos = childText(body, "totalSinImpuestos")
		d.TotalDescuento = childText(body, "totalDescuento")
		d.ImporteTotal = childText(body, "importeTotal")
	}
	d.FechaEmision = childText(body, "fechaEmision")
	d.CompradorNombre = childText(body, "razonSocialComprador")
	d.CompradorID = childText(body, "identificacionComprador")

	for _, det := range root.FindElements("./detalles/detalle") {
		codigo := childText(det, "codigoPrincipal")
		if codigo == "" {
			codigo = childText(det, "codigoInterno")
		}
		d.Lineas = append(d.Lineas, RIDELinea{
			Codigo:         codigo,
			Descripcion:    childText(det, "descripcion"),
			Cantidad:       childText(det, "cantidad"),
			PrecioUnitario: childText(det, "precioUnitario"),
			Descuento:      childText(det, "descuento"),
			Total:          childText(det, "precioTotalSinImpuesto"),
		})
	}
	for _, campo := range root.FindElements("./infoAdicional/campoAdicional") {
		d.InfoAdicional = append(d.InfoAdicional, [2]string{campo.SelectAttrValue("nombre", ""), strings.TrimSpace(campo.Text())})
	}
	return d, nil
}

func childText(el *etree.Element, tag string) string {
	if el == nil {
		return ""
	}
	c := el.SelectElement(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}

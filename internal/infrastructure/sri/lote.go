package sri

import (
	"context"
	"fmt"

	"github.com/beevik/etree"

	"github.com/jhoicas/facturacion-sri/internal/domain/comprobante"
	domsri "github.com/jhoicas/facturacion-sri/internal/domain/sri"
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/storage"
)

// LoteVersion versión del esquema de lote masivo.
const LoteVersion = "1.0.0"

// LoteResult resultado del envío de un lote.
type LoteResult struct {
	ClaveAcceso string
	Path        string // copia en generados
	Recepcion   ReceptionResult
}

// SendBatch envía hasta MaxBatchSize comprobantes firmados en un único lote. El tamaño
// se valida antes de cualquier llamada de red.
func (c *Client) SendBatch(ctx context.Context, signedDocs [][]byte) (LoteResult, error) {
	switch n := len(signedDocs); {
	case n == 0:
		return LoteResult{}, ErrBatchEmpty
	case n > MaxBatchSize:
		return LoteResult{}, &BatchSizeError{Size: n, Max: MaxBatchSize}
	}

	clave, err := c.claveLote()
	if err != nil {
		return LoteResult{}, err
	}
	payload, err := buildLote(clave, c.cfg.Emisor.RUC, signedDocs)
	if err != nil {
		return LoteResult{}, err
	}

	name := "lote_" + c.now().Format("20060102150405")
	path, err := c.store.Write(storage.StageGenerados, name, payload)
	if err != nil {
		return LoteResult{}, err
	}
	c.log.Info().Str("clave_acceso", clave.String()).Int("comprobantes", len(signedDocs)).
		Str("path", path).Msg("sri: lote generado")

	res, err := c.Send(ctx, payload)
	return LoteResult{ClaveAcceso: clave.String(), Path: path, Recepcion: res}, err
}

// claveLote genera una clave propia del lote con secuencial y código aleatorios.
func (c *Client) claveLote() (domsri.ClaveAcceso, error) {
	secuencial, err := domsri.NewSecuencialAleatorio()
	if err != nil {
		return "", err
	}
	codigo, err := domsri.NewCodigoNumerico()
	if err != nil {
		return "", err
	}
	clave, err := domsri.Generate(domsri.ClaveAccesoParams{
		Fecha:           domsri.FormatFecha(c.now()),
		TipoComprobante: comprobante.CodDocFactura,
		RUC:             c.cfg.Emisor.RUC,
		Ambiente:        c.cfg.Emisor.Ambiente,
		Serie:           c.cfg.Emisor.Serie,
		Secuencial:      secuencial,
		CodigoNumerico:  codigo,
		TipoEmision:     comprobante.TipoEmisionNormal,
	})
	if err != nil {
		return "", fmt.Errorf("sri: clave de lote: %w", err)
	}
	return clave, nil
}

// buildLote arma <lote><claveAcceso/><ruc/><comprobantes><comprobante><![CDATA[..]]>.
func buildLote(clave domsri.ClaveAcceso, ruc string, docs [][]byte) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	lote := doc.CreateElement("lote")
	lote.CreateAttr("version", LoteVersion)
	lote.CreateElement("claveAcceso").SetText(clave.String())
	lote.CreateElement("ruc").SetText(ruc)
	comprobantes := lote.CreateElement("comprobantes")
	for _, d := range docs {
		comprobantes.CreateElement("comprobante").CreateCData(string(d))
	}
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("sri: serializar lote: %w", err)
	}
	return out, nil
}

package billing

import (
	"fmt"
	"time"

	"github.com/jhoicas/facturacion-sri/internal/application/dto"
	"github.com/jhoicas/facturacion-sri/internal/domain"
	"github.com/jhoicas/facturacion-sri/internal/domain/comprobante"
	"github.com/jhoicas/facturacion-sri/pkg/config"
)

const fechaRequest = "2006-01-02"

// Emisor datos fijos del contribuyente que se copian en cada infoTributaria.
type Emisor struct {
	Ambiente              string
	TipoEmision           string
	RUC                   string
	RazonSocial           string
	NombreComercial       string
	DirMatriz             string
	DirEstablecimiento    string
	ContribuyenteEspecial string
	ObligadoContabilidad  string
	Rimpe                 bool
	AgenteRetencion       string
	Estab                 string
	PtoEmi                string
}

// EmisorFromConfig arma el emisor desde la configuración SRI.
func EmisorFromConfig(c config.SRIConfig) Emisor {
	return Emisor{
		Ambiente:              c.Ambiente,
		TipoEmision:           c.TipoEmision,
		RUC:                   c.Emisor.RUC,
		RazonSocial:           c.Emisor.RazonSocial,
		NombreComercial:       c.Emisor.NombreComercial,
		DirMatriz:             c.Emisor.DirMatriz,
		DirEstablecimiento:    c.Emisor.DirEstablecimiento,
		ContribuyenteEspecial: c.Emisor.ContribuyenteEspecial,
		ObligadoContabilidad:  c.Emisor.ObligadoContabilidad,
		Rimpe:                 c.Emisor.Rimpe,
		AgenteRetencion:       c.Emisor.AgenteRetencion,
		Estab:                 c.Emisor.Establecimiento,
		PtoEmi:                c.Emisor.PuntoEmision,
	}
}

func (e Emisor) infoTributaria(secuencial, codigoNumerico string) comprobante.InfoTributaria {
	return comprobante.InfoTributaria{
		Ambiente:           e.Ambiente,
		TipoEmision:        e.TipoEmision,
		RazonSocial:        e.RazonSocial,
		NombreComercial:    e.NombreComercial,
		RUC:                e.RUC,
		CodigoNumerico:     codigoNumerico,
		Estab:              e.Estab,
		PtoEmi:             e.PtoEmi,
		Secuencial:         secuencial,
		DirMatriz:          e.DirMatriz,
		AgenteRetencion:    e.AgenteRetencion,
		ContribuyenteRimpe: e.Rimpe,
	}
}

// Factura convierte el request en el documento del dominio. El builder valida el resto.
func (e Emisor) Factura(in dto.FacturaRequest) (*comprobante.Factura, error) {
	fecha, err := parseFecha("fecha_emision", in.FechaEmision)
	if err != nil {
		return nil, err
	}
	return &comprobante.Factura{
		InfoTributaria:        e.infoTributaria(in.Secuencial, in.CodigoNumerico),
		FechaEmision:          fecha,
		DirEstablecimiento:    e.DirEstablecimiento,
		ContribuyenteEspecial: e.ContribuyenteEspecial,
		ObligadoContabilidad:  e.ObligadoContabilidad,
		Comprador:             comprador(in.Comprador),
		Totales: comprobante.Totales{
			TotalSinImpuestos: in.TotalSinImpuestos,
			TotalDescuento:    in.TotalDescuento,
			TotalConImpuestos: totalesImpuesto(in.TotalConImpuestos),
			Propina:           in.Propina,
			ImporteTotal:      in.ImporteTotal,
			Pagos:             pagos(in.Pagos),
		},
		Detalles:      detalles(in.Detalles),
		InfoAdicional: camposAdicionales(in.InfoAdicional),
	}, nil
}

// NotaCredito convierte el request en el documento del dominio.
func (e Emisor) NotaCredito(in dto.NotaCreditoRequest) (*comprobante.NotaCredito, error) {
	fecha, err := parseFecha("fecha_emision", in.FechaEmision)
	if err != nil {
		return nil, err
	}
	fechaSustento, err := parseFecha("doc_modificado.fecha_emision", in.Modificado.FechaEmision)
	if err != nil {
		return nil, err
	}
	codDoc := in.Modificado.CodDoc
	if codDoc == "" {
		codDoc = comprobante.CodDocFactura
	}
	return &comprobante.NotaCredito{
		InfoTributaria:        e.infoTributaria(in.Secuencial, in.CodigoNumerico),
		FechaEmision:          fecha,
		DirEstablecimiento:    e.DirEstablecimiento,
		Comprador:             comprador(in.Comprador),
		ContribuyenteEspecial: e.ContribuyenteEspecial,
		ObligadoContabilidad:  e.ObligadoContabilidad,
		Modificado: comprobante.DocumentoModificado{
			CodDoc:       codDoc,
			Numero:       in.Modificado.Numero,
			FechaEmision: fechaSustento,
		},
		TotalSinImpuestos: in.TotalSinImpuestos,
		ValorModificacion: in.ValorModificacion,
		TotalConImpuestos: totalesImpuesto(in.TotalConImpuestos),
		Motivo:            in.Motivo,
		Detalles:          detalles(in.Detalles),
		InfoAdicional:     camposAdicionales(in.InfoAdicional),
	}, nil
}

func parseFecha(campo, s string) (time.Time, error) {
	t, err := time.Parse(fechaRequest, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s debe tener formato AAAA-MM-DD", domain.ErrInvalidInput, campo)
	}
	return t, nil
}

func comprador(c dto.CompradorRequest) comprobante.Comprador {
	return comprobante.Comprador{
		TipoIdentificacion: c.TipoIdentificacion,
		Identificacion:     c.Identificacion,
		RazonSocial:        c.RazonSocial,
		Direccion:          c.Direccion,
	}
}

func detalles(in []dto.DetalleRequest) []comprobante.Detalle {
	out := make([]comprobante.Detalle, 0, len(in))
	for _, d := range in {
		imps := make([]comprobante.Impuesto, 0, len(d.Impuestos))
		for _, i := range d.Impuestos {
			imps = append(imps, comprobante.Impuesto{
				Codigo:           i.Codigo,
				CodigoPorcentaje: i.CodigoPorcentaje,
				Tarifa:           i.Tarifa,
				BaseImponible:    i.BaseImponible,
				Valor:            i.Valor,
			})
		}
		out = append(out, comprobante.Detalle{
			CodigoPrincipal: d.CodigoPrincipal,
			CodigoAuxiliar:  d.CodigoAuxiliar,
			Descripcion:     d.Descripcion,
			Cantidad:        d.Cantidad,
			PrecioUnitario:  d.PrecioUnitario,
			Descuento:       d.Descuento,
			Impuestos:       imps,
		})
	}
	return out
}

func totalesImpuesto(in []dto.TotalImpuestoRequest) []comprobante.TotalImpuesto {
	out := make([]comprobante.TotalImpuesto, 0, len(in))
	for _, t := range in {
		out = append(out, comprobante.TotalImpuesto{
			Codigo:           t.Codigo,
			CodigoPorcentaje: t.CodigoPorcentaje,
			BaseImponible:    t.BaseImponible,
			Valor:            t.Valor,
		})
	}
	return out
}

func pagos(in []dto.PagoRequest) []comprobante.Pago {
	out := make([]comprobante.Pago, 0, len(in))
	for _, p := range in {
		out = append(out, comprobante.Pago{
			FormaPago:    p.FormaPago,
			Total:        p.Total,
			Plazo:        p.Plazo,
			UnidadTiempo: p.UnidadTiempo,
		})
	}
	return out
}

func camposAdicionales(in []dto.CampoAdicionalRequest) []comprobante.CampoAdicional {
	if len(in) == 0 {
		return nil
	}
	out := make([]comprobante.CampoAdicional, 0, len(in))
	for _, c := range in {
		out = append(out, comprobante.CampoAdicional{Nombre: c.Nombre, Valor: c.Valor})
	}
	return out
}

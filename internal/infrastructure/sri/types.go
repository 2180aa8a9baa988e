package sri

import (
	"context"

	sricat "github.com/jhoicas/facturacion-sri/pkg/sri"
)

// ── Estado de protocolo ──────────────────────────────────────────────────────

// ProtocolStatus estado normalizado de una respuesta de recepción o autorización.
type ProtocolStatus string

const (
	StatusReceived      ProtocolStatus = "RECEIVED"
	StatusNotReceived   ProtocolStatus = "NOT_RECEIVED"
	StatusAuthorized    ProtocolStatus = "AUTHORIZED"
	StatusNotAuthorized ProtocolStatus = "NOT_AUTHORIZED"
	StatusPending       ProtocolStatus = "PENDING"
	StatusError         ProtocolStatus = "ERROR"
)

// StatusFromEstado traduce el estado textual del web service.
func StatusFromEstado(estado string) ProtocolStatus {
	switch estado {
	case sricat.EstadoRecibida:
		return StatusReceived
	case sricat.EstadoDevuelta:
		return StatusNotReceived
	case sricat.EstadoAutorizado:
		return StatusAuthorized
	case sricat.EstadoNoAutorizado:
		return StatusNotAuthorized
	case sricat.EstadoEnProceso:
		return StatusPending
	default:
		return StatusError
	}
}

// ── Resultados ───────────────────────────────────────────────────────────────

// Mensaje diagnóstico del SRI; Identificador y Mensaje se conservan tal cual.
type Mensaje struct {
	Identificador        string `json:"identificador"`
	Mensaje              string `json:"mensaje"`
	InformacionAdicional string `json:"informacionAdicional,omitempty"`
	Tipo                 string `json:"tipo"`
}

// ComprobanteRecibido detalle por comprobante en la respuesta de recepción.
type ComprobanteRecibido struct {
	ClaveAcceso string
	Mensajes    []Mensaje
}

// ReceptionResult respuesta de validarComprobante.
type ReceptionResult struct {
	Estado       string
	Status       ProtocolStatus
	Comprobantes []ComprobanteRecibido
}

// Messages aplana los mensajes de todos los comprobantes, en orden.
func (r ReceptionResult) Messages() []Mensaje {
	var out []Mensaje
	for _, c := range r.Comprobantes {
		out = append(out, c.Mensajes...)
	}
	return out
}

// Autorizacion una entrada de la respuesta de autorización.
type Autorizacion struct {
	Estado             string
	NumeroAutorizacion string
	FechaAutorizacion  string
	Ambiente           string
	Comprobante        string // XML autorizado devuelto por el SRI
	Mensajes           []Mensaje
}

// Status estado normalizado de la autorización.
func (a Autorizacion) Status() ProtocolStatus { return StatusFromEstado(a.Estado) }

// AuthorizationResult respuesta de autorizacionComprobante.
type AuthorizationResult struct {
	ClaveAccesoConsultada string
	NumeroComprobantes    string
	Status                ProtocolStatus
	Autorizaciones        []Autorizacion
}

// First devuelve la autorización más reciente. El SRI lista primero la vigente.
func (r AuthorizationResult) First() (Autorizacion, bool) {
	if len(r.Autorizaciones) == 0 {
		return Autorizacion{}, false
	}
	return r.Autorizaciones[0], true
}

// ── Puertos ──────────────────────────────────────────────────────────────────

// Receiver operación de recepción; la implementación concreta es SOAP, en tests un fake.
type Receiver interface {
	Validar(ctx context.Context, xml []byte) (ReceptionResult, error)
}

// Authorizer operación de consulta de autorización.
type Authorizer interface {
	Autorizacion(ctx context.Context, clave string) (AuthorizationResult, error)
}

// Gateway ambos endpoints del SRI.
type Gateway interface {
	Receiver
	Authorizer
}

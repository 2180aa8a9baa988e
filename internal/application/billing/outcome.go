package billing

import (
	"github.com/jhoicas/facturacion-sri/internal/infrastructure/sri"
)

// OutcomeKind discriminador del resultado.
type OutcomeKind string

const (
	KindAuthorized     OutcomeKind = "authorized"
	KindDenied         OutcomeKind = "denied"
	KindNotReceived    OutcomeKind = "not_received"
	KindPending        OutcomeKind = "pending"
	KindTransportError OutcomeKind = "transport_error"
)

// Outcome resultado de Submit o CheckStatus. Es una unión cerrada: Authorized, Denied,
// NotReceived, Pending o TransportError; el llamador debe manejar todas con un type switch.
type Outcome interface {
	Kind() OutcomeKind
	Clave() string
	isOutcome()
}

// Authorized el SRI autorizó el comprobante y el archivo quedó en autorizados.
type Authorized struct {
	ClaveAcceso        string
	Path               string
	NumeroAutorizacion string
	FechaAutorizacion  string
}

// Denied el SRI respondió NO AUTORIZADO.
type Denied struct {
	ClaveAcceso string
	Messages    []sri.Mensaje
}

// NotReceived recepción DEVUELTA; los mensajes vienen tal cual del SRI.
type NotReceived struct {
	ClaveAcceso string
	Messages    []sri.Mensaje
}

// Pending recibido pero aún EN PROCESO, o el SRI no devolvió autorizaciones;
// checkStatus puede volver a consultar.
type Pending struct {
	ClaveAcceso string
	Messages    []sri.Mensaje
}

// TransportError el SRI no respondió o respondió algo que no se pudo interpretar.
type TransportError struct {
	ClaveAcceso string
	Detail      string
	Err         error
}

func (o Authorized) Kind() OutcomeKind     { return KindAuthorized }
func (o Denied) Kind() OutcomeKind         { return KindDenied }
func (o NotReceived) Kind() OutcomeKind    { return KindNotReceived }
func (o Pending) Kind() OutcomeKind        { return KindPending }
func (o TransportError) Kind() OutcomeKind { return KindTransportError }

func (o Authorized) Clave() string     { return o.ClaveAcceso }
func (o Denied) Clave() string         { return o.ClaveAcceso }
func (o NotReceived) Clave() string    { return o.ClaveAcceso }
func (o Pending) Clave() string        { return o.ClaveAcceso }
func (o TransportError) Clave() string { return o.ClaveAcceso }

func (Authorized) isOutcome()     {}
func (Denied) isOutcome()         {}
func (NotReceived) isOutcome()    {}
func (Pending) isOutcome()        {}
func (TransportError) isOutcome() {}

func (o TransportError) Error() string {
	if o.Detail != "" {
		return o.Detail
	}
	if o.Err != nil {
		return o.Err.Error()
	}
	return "sri: error de transporte"
}

// Unwrap expone la causa para errors.Is / errors.As sobre el resultado.
func (o TransportError) Unwrap() error { return o.Err }

// MessagesOf mensajes del SRI de cualquier resultado (vacío si no aplica).
func MessagesOf(o Outcome) []sri.Mensaje {
	switch v := o.(type) {
	case Denied:
		return v.Messages
	case NotReceived:
		return v.Messages
	case Pending:
		return v.Messages
	default:
		return nil
	}
}

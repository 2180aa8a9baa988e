package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida local de un comprobante electrónico.
const (
	EstadoGenerado     = "GENERADO"
	EstadoFirmado      = "FIRMADO"
	EstadoRecibido     = "RECIBIDO"
	EstadoDevuelto     = "DEVUELTO"
	EstadoAutorizado   = "AUTORIZADO"
	EstadoNoAutorizado = "NO_AUTORIZADO"
	EstadoEnProceso    = "EN_PROCESO"
	EstadoContingencia = "CONTINGENCIA"
	EstadoError        = "ERROR"
)

// MensajeSRI diagnóstico devuelto por el SRI, persistido tal cual.
type MensajeSRI struct {
	Identificador        string `json:"identificador"`
	Mensaje              string `json:"mensaje"`
	InformacionAdicional string `json:"informacionAdicional,omitempty"`
	Tipo                 string `json:"tipo"`
}

// Comprobante registro de estado de un comprobante, indexado por clave de acceso.
type Comprobante struct {
	ClaveAcceso        string
	CodDoc             string
	Estado             string
	NumeroAutorizacion string
	FechaAutorizacion  string
	ImporteTotal       decimal.Decimal
	Mensajes           []MensajeSRI
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

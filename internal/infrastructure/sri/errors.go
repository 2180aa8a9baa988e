package sri

import (
	"errors"
	"fmt"
)

// Errores de transporte y lote.
var (
	ErrTransportExhausted   = errors.New("sri: reintentos agotados")
	ErrBatchEmpty           = errors.New("sri: lote vacío")
	ErrBatchSizeExceeded    = errors.New("sri: lote excede el máximo de comprobantes")
	ErrUnexpectedResponse   = errors.New("sri: respuesta inesperada del web service")
	ErrQueuedForContingency = errors.New("sri: comprobante encolado en contingencia")
)

// TransportFault falla de red, HTTP 5xx o SOAP Fault. Es la única condición reintentable.
type TransportFault struct {
	Op  string
	Err error
}

func (e *TransportFault) Error() string {
	return fmt.Sprintf("sri: falla de transporte en %s: %v", e.Op, e.Err)
}

func (e *TransportFault) Unwrap() error { return e.Err }

// TransportExhaustedError se devuelve cuando todos los intentos fallaron por transporte.
type TransportExhaustedError struct {
	Op          string
	ClaveAcceso string
	Attempts    int
	Err         error // última causa
}

func (e *TransportExhaustedError) Error() string {
	return fmt.Sprintf("%s: %s clave=%s intentos=%d: %v", ErrTransportExhausted, e.Op, e.ClaveAcceso, e.Attempts, e.Err)
}

func (e *TransportExhaustedError) Unwrap() []error { return []error{ErrTransportExhausted, e.Err} }

// BatchSizeError lote con más comprobantes de los permitidos.
type BatchSizeError struct {
	Size int
	Max  int
}

func (e *BatchSizeError) Error() string {
	return fmt.Sprintf("%s: %d (máximo %d)", ErrBatchSizeExceeded, e.Size, e.Max)
}

func (e *BatchSizeError) Unwrap() error { return ErrBatchSizeExceeded }

// IsRetryable indica si err es una falla de transporte reintentable. Un error de
// reintentos agotados ya no lo es aunque envuelva la última falla.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrTransportExhausted) {
		return false
	}
	var fault *TransportFault
	return errors.As(err, &fault)
}

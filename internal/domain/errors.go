package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")

	// Precondiciones: nunca se reintentan.
	ErrInvalidFieldWidth      = errors.New("ancho de campo inválido")
	ErrMissingRequiredField   = errors.New("campo obligatorio ausente")
	ErrInvalidIdentification  = errors.New("identificación inválida")
	ErrUnsupportedDocument    = errors.New("tipo de comprobante no soportado")
	ErrAuthorizedNotAvailable = errors.New("comprobante autorizado no disponible")
)

// FieldWidthError indica que un campo de ancho fijo no cumple su longitud o no es numérico.
type FieldWidthError struct {
	Field string
	Want  int
	Got   string
}

func (e *FieldWidthError) Error() string {
	return fmt.Sprintf("%s: %s debe tener %d dígitos, se recibió %q", ErrInvalidFieldWidth, e.Field, e.Want, e.Got)
}

func (e *FieldWidthError) Unwrap() error { return ErrInvalidFieldWidth }

// MissingFieldError agrupa los campos obligatorios ausentes de una sección.
type MissingFieldError struct {
	Section string
	Fields  []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s en %s: %s", ErrMissingRequiredField, e.Section, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingRequiredField }

// Package sri: clave de acceso de 49 dígitos de los comprobantes electrónicos SRI (Ecuador).
// Estructura: fecha(8) + tipo(2) + ruc(13) + ambiente(1) + serie(6) + secuencial(9) +
// código numérico(8) + tipo de emisión(1) + dígito verificador módulo 11 (1).

package sri

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/jhoicas/facturacion-sri/internal/domain"
)

// LongitudClaveAcceso es el largo total de la clave, con dígito verificador.
const LongitudClaveAcceso = 49

// ClaveAcceso identifica un comprobante durante toda su vida (generado, firmado, enviado, autorizado).
type ClaveAcceso string

// ClaveAccesoParams contiene los campos en el orden exigido por el SRI.
type ClaveAccesoParams struct {
	Fecha           string // ddMMyyyy
	TipoComprobante string // 01 factura, 04 nota de crédito
	RUC             string // 13 dígitos
	Ambiente        string // 1 pruebas, 2 producción
	Serie           string // establecimiento + punto de emisión
	Secuencial      string // 9 dígitos
	CodigoNumerico  string // 8 dígitos
	TipoEmision     string // 1 normal
}

// Generate valida los anchos fijos y devuelve la clave con su dígito verificador.
func Generate(p ClaveAccesoParams) (ClaveAcceso, error) {
	fields := []struct {
		name  string
		value string
		width int
	}{
		{"fecha", p.Fecha, 8},
		{"tipoComprobante", p.TipoComprobante, 2},
		{"ruc", p.RUC, 13},
		{"ambiente", p.Ambiente, 1},
		{"serie", p.Serie, 6},
		{"secuencial", p.Secuencial, 9},
		{"codigoNumerico", p.CodigoNumerico, 8},
		{"tipoEmision", p.TipoEmision, 1},
	}
	base := make([]byte, 0, LongitudClaveAcceso)
	for _, f := range fields {
		if len(f.value) != f.width || !allDigits(f.value) {
			return "", &domain.FieldWidthError{Field: f.name, Want: f.width, Got: f.value}
		}
		base = append(base, f.value...)
	}
	if _, err := time.Parse("02012006", p.Fecha); err != nil {
		return "", &domain.FieldWidthError{Field: "fecha", Want: 8, Got: p.Fecha}
	}
	digit := CheckDigit(string(base))
	return ClaveAcceso(string(base) + strconv.Itoa(digit)), nil
}

// CheckDigit calcula el dígito módulo 11 de una cadena de dígitos.
// Factores 2..7 aplicados de derecha a izquierda; 11 → 0 y 10 → 1.
func CheckDigit(digits string) int {
	factor := 2
	sum := 0
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * factor
		if factor == 7 {
			factor = 2
		} else {
			factor++
		}
	}
	switch d := 11 - sum%11; d {
	case 11:
		return 0
	case 10:
		return 1
	default:
		return d
	}
}

// Valid comprueba longitud, dígitos y dígito verificador.
func (c ClaveAcceso) Valid() bool {
	s := string(c)
	if len(s) != LongitudClaveAcceso || !allDigits(s) {
		return false
	}
	return CheckDigit(s[:48]) == int(s[48]-'0')
}

func (c ClaveAcceso) String() string { return string(c) }

// Fecha devuelve la fecha de emisión codificada en la clave.
func (c ClaveAcceso) Fecha() (time.Time, error) {
	if len(c) < 8 {
		return time.Time{}, fmt.Errorf("sri: clave de acceso incompleta")
	}
	return time.Parse("02012006", string(c[:8]))
}

// CodDoc devuelve el tipo de comprobante (posiciones 9-10).
func (c ClaveAcceso) CodDoc() string { return c.slice(8, 10) }

// RUC devuelve el RUC del emisor (posiciones 11-23).
func (c ClaveAcceso) RUC() string { return c.slice(10, 23) }

// Ambiente devuelve el ambiente (posición 24).
func (c ClaveAcceso) Ambiente() string { return c.slice(23, 24) }

// Serie devuelve establecimiento + punto de emisión.
func (c ClaveAcceso) Serie() string { return c.slice(24, 30) }

// Secuencial devuelve el secuencial de 9 dígitos.
func (c ClaveAcceso) Secuencial() string { return c.slice(30, 39) }

func (c ClaveAcceso) slice(from, to int) string {
	if len(c) < to {
		return ""
	}
	return string(c[from:to])
}

// FormatFecha da formato ddMMyyyy a una fecha para la clave.
func FormatFecha(t time.Time) string { return t.Format("02012006") }

// FormatSecuencial rellena con ceros a la izquierda hasta 9 dígitos.
func FormatSecuencial(n int64) (string, error) {
	if n < 1 || n > 999_999_999 {
		return "", &domain.FieldWidthError{Field: "secuencial", Want: 9, Got: strconv.FormatInt(n, 10)}
	}
	return fmt.Sprintf("%09d", n), nil
}

// NewCodigoNumerico genera un código numérico aleatorio de 8 dígitos.
func NewCodigoNumerico() (string, error) {
	return randomDigits(8)
}

// NewSecuencialAleatorio genera un secuencial aleatorio (uso en claves de lote).
func NewSecuencialAleatorio() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(999_999_999))
	if err != nil {
		return "", fmt.Errorf("sri: generar secuencial: %w", err)
	}
	return fmt.Sprintf("%09d", n.Int64()+1), nil
}

func randomDigits(width int) (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(width)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("sri: generar código numérico: %w", err)
	}
	return fmt.Sprintf("%0*d", width, n.Int64()), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

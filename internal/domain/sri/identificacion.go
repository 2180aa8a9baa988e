package sri

import (
	"fmt"

	"github.com/jhoicas/facturacion-sri/internal/domain"
)

// Tipos de identificación del comprador (tabla 6 de la ficha técnica SRI).
const (
	IdentificacionRUC             = "04"
	IdentificacionCedula          = "05"
	IdentificacionPasaporte       = "06"
	IdentificacionConsumidorFinal = "07"
	IdentificacionExterior        = "08"

	// IDConsumidorFinal es la identificación fija de ventas a consumidor final.
	IDConsumidorFinal = "9999999999999"
)

// coeficientes módulo 10 para cédula y RUC de persona natural.
var coefPersonaNatural = [9]int{2, 1, 2, 1, 2, 1, 2, 1, 2}

// coeficientes módulo 11 para sociedades públicas (tercer dígito 6).
var coefSociedadPublica = [8]int{3, 2, 7, 6, 5, 4, 3, 2}

// coeficientes módulo 11 para sociedades privadas y extranjeros (tercer dígito 9).
var coefSociedadPrivada = [9]int{4, 3, 2, 7, 6, 5, 4, 3, 2}

// ValidateCedula valida una cédula ecuatoriana de 10 dígitos (módulo 10).
func ValidateCedula(cedula string) error {
	if len(cedula) != 10 || !allDigits(cedula) {
		return fmt.Errorf("%w: la cédula debe tener 10 dígitos", domain.ErrInvalidIdentification)
	}
	if !provinciaValida(cedula[:2]) {
		return fmt.Errorf("%w: código de provincia %s inexistente", domain.ErrInvalidIdentification, cedula[:2])
	}
	if cedula[2]-'0' >= 6 {
		return fmt.Errorf("%w: el tercer dígito de una cédula debe ser menor a 6", domain.ErrInvalidIdentification)
	}
	if !digitoModulo10(cedula) {
		return fmt.Errorf("%w: dígito verificador de cédula incorrecto", domain.ErrInvalidIdentification)
	}
	return nil
}

// ValidateRUCFormato exige 13 dígitos terminados en un establecimiento distinto de 000.
func ValidateRUCFormato(ruc string) error {
	if len(ruc) != 13 || !allDigits(ruc) {
		return fmt.Errorf("%w: el RUC debe tener 13 dígitos", domain.ErrInvalidIdentification)
	}
	if ruc[10:] == "000" {
		return fmt.Errorf("%w: el RUC debe terminar en un establecimiento válido (001)", domain.ErrInvalidIdentification)
	}
	return nil
}

// ValidateRUC valida formato y dígito verificador según el tipo de contribuyente
// indicado por el tercer dígito: <6 natural, 6 pública, 9 privada.
func ValidateRUC(ruc string) error {
	if err := ValidateRUCFormato(ruc); err != nil {
		return err
	}
	if !provinciaValida(ruc[:2]) {
		return fmt.Errorf("%w: código de provincia %s inexistente", domain.ErrInvalidIdentification, ruc[:2])
	}
	var ok bool
	switch tercero := ruc[2] - '0'; {
	case tercero < 6:
		ok = digitoModulo10(ruc[:10])
	case tercero == 6:
		ok = digitoModulo11(ruc, coefSociedadPublica[:], 8)
	case tercero == 9:
		ok = digitoModulo11(ruc, coefSociedadPrivada[:], 9)
	default:
		return fmt.Errorf("%w: tercer dígito %c no corresponde a ningún tipo de contribuyente", domain.ErrInvalidIdentification, ruc[2])
	}
	if !ok {
		return fmt.Errorf("%w: dígito verificador del RUC incorrecto", domain.ErrInvalidIdentification)
	}
	return nil
}

// ValidateIdentificacion valida la identificación del comprador según su tipo.
// Pasaporte e identificación del exterior solo requieren valor no vacío.
func ValidateIdentificacion(tipo, id string) error {
	switch tipo {
	case IdentificacionRUC:
		return ValidateRUC(id)
	case IdentificacionCedula:
		return ValidateCedula(id)
	case IdentificacionConsumidorFinal:
		if id != IDConsumidorFinal {
			return fmt.Errorf("%w: consumidor final debe usar %s", domain.ErrInvalidIdentification, IDConsumidorFinal)
		}
		return nil
	case IdentificacionPasaporte, IdentificacionExterior:
		if id == "" || len(id) > 20 {
			return fmt.Errorf("%w: identificación de 1 a 20 caracteres", domain.ErrInvalidIdentification)
		}
		return nil
	default:
		return fmt.Errorf("%w: tipo de identificación %q desconocido", domain.ErrInvalidIdentification, tipo)
	}
}

func provinciaValida(p string) bool {
	n := int(p[0]-'0')*10 + int(p[1]-'0')
	return (n >= 1 && n <= 24) || n == 30
}

func digitoModulo10(s string) bool {
	sum := 0
	for i, c := range coefPersonaNatural {
		v := int(s[i]-'0') * c
		if v >= 10 {
			v -= 9
		}
		sum += v
	}
	expected := 0
	if sum%10 != 0 {
		expected = 10 - sum%10
	}
	return int(s[9]-'0') == expected
}

func digitoModulo11(s string, coef []int, pos int) bool {
	sum := 0
	for i, c := range coef {
		sum += int(s[i]-'0') * c
	}
	expected := 0
	if r := sum % 11; r != 0 {
		expected = 11 - r
	}
	return int(s[pos]-'0') == expected
}

package sri_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/facturacion-sri/internal/domain"
	"github.com/jhoicas/facturacion-sri/internal/domain/sri"
)

func TestValidateCedula(t *testing.T) {
	assert.NoError(t, sri.ValidateCedula("1710034065"))
	assert.NoError(t, sri.ValidateCedula("0926687856"))

	assert.ErrorIs(t, sri.ValidateCedula("1710034066"), domain.ErrInvalidIdentification, "dígito alterado")
	assert.ErrorIs(t, sri.ValidateCedula("171003406"), domain.ErrInvalidIdentification, "9 dígitos")
	assert.ErrorIs(t, sri.ValidateCedula("5010034065"), domain.ErrInvalidIdentification, "provincia 50")
	assert.ErrorIs(t, sri.ValidateCedula("1770034065"), domain.ErrInvalidIdentification, "tercer dígito 7")
}

func TestValidateRUC(t *testing.T) {
	assert.NoError(t, sri.ValidateRUC("1790016919001"), "sociedad privada")
	assert.NoError(t, sri.ValidateRUC("1710034065001"), "persona natural")

	assert.ErrorIs(t, sri.ValidateRUC("1790016919000"), domain.ErrInvalidIdentification, "establecimiento 000")
	assert.ErrorIs(t, sri.ValidateRUC("1790016918001"), domain.ErrInvalidIdentification, "dígito alterado")
	assert.ErrorIs(t, sri.ValidateRUC("17900169190"), domain.ErrInvalidIdentification, "longitud")
}

func TestValidateRUCFormato_NoExigeDigito(t *testing.T) {
	assert.NoError(t, sri.ValidateRUCFormato("1790012345001"))
	assert.Error(t, sri.ValidateRUCFormato("179001234500A"))
}

func TestValidateIdentificacion_PorTipo(t *testing.T) {
	assert.NoError(t, sri.ValidateIdentificacion(sri.IdentificacionConsumidorFinal, sri.IDConsumidorFinal))
	assert.Error(t, sri.ValidateIdentificacion(sri.IdentificacionConsumidorFinal, "1710034065"))
	assert.NoError(t, sri.ValidateIdentificacion(sri.IdentificacionPasaporte, "AB123456"))
	assert.Error(t, sri.ValidateIdentificacion(sri.IdentificacionPasaporte, ""))
	assert.Error(t, sri.ValidateIdentificacion("99", "x"))
}

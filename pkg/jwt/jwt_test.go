package jwt_test

import (
	"errors"
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-sri/pkg/jwt"
)

const secret = "secreto-de-prueba"

func TestGenerate_RolDesconocido(t *testing.T) {
	_, err := jwt.Generate(secret, "u1", "1790012345001", "bodeguero", "facturacion-sri", 5)
	assert.True(t, errors.Is(err, jwt.ErrUnknownRole))
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u1", "1790012345001", jwt.RoleAdmin, "facturacion-sri", 5)
	assert.True(t, errors.Is(err, jwt.ErrEmptySecret))
}

func TestParseClaims_ConservaIssuerYSubject(t *testing.T) {
	tok, err := jwt.Generate(secret, "u1", "1790012345001", jwt.RoleConsulta, "facturacion-sri", 5)
	require.NoError(t, err)

	claims, err := jwt.ParseClaims(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "facturacion-sri", claims.Issuer)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "1790012345001", claims.CompanyID)
	assert.Equal(t, jwt.RoleConsulta, claims.Role)
}

func TestParseClaims_RechazaOtroAlgoritmo(t *testing.T) {
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, jwt.Claims{Role: jwt.RoleAdmin}).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = jwt.ParseClaims(secret, tok)
	assert.Error(t, err)
}

func TestParseClaims_SinExpiracionEsInvalido(t *testing.T) {
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, jwt.Claims{Role: jwt.RoleAdmin}).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = jwt.ParseClaims(secret, tok)
	assert.Error(t, err)
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{jwt.RoleAdmin, jwt.RoleEmisor, jwt.RoleConsulta} {
		assert.True(t, jwt.ValidRole(r), r)
	}
	assert.False(t, jwt.ValidRole(""))
	assert.False(t, jwt.ValidRole("Admin"))
}

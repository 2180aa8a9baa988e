package sri_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-sri/internal/domain"
	"github.com/jhoicas/facturacion-sri/internal/domain/sri"
)

// ──────────────────────────────────────────────────────────────────────────────
// Vector de prueba calculado a mano con el algoritmo módulo 11:
//
//	Base (48) = "15012024" + "01" + "1790012345001" + "1" + "001001" +
//	            "000000001" + "12345678" + "1"
//	Suma ponderada (factores 2..7 desde la derecha) ≡ 0 (mod 11) → 11 → 0
// ──────────────────────────────────────────────────────────────────────────────

const testClaveEsperada = "1501202401179001234500110010010000000011234567810"

func buildTestParams() sri.ClaveAccesoParams {
	return sri.ClaveAccesoParams{
		Fecha:           "15012024",
		TipoComprobante: "01",
		RUC:             "1790012345001",
		Ambiente:        "1",
		Serie:           "001001",
		Secuencial:      "000000001",
		CodigoNumerico:  "12345678",
		TipoEmision:     "1",
	}
}

func TestGenerate_VectorExacto(t *testing.T) {
	clave, err := sri.Generate(buildTestParams())
	require.NoError(t, err)
	assert.Equal(t, testClaveEsperada, clave.String())
	assert.Len(t, clave.String(), sri.LongitudClaveAcceso)
	assert.True(t, clave.Valid())
}

func TestGenerate_DigitoRecalculable(t *testing.T) {
	for n := int64(1); n <= 60; n++ {
		p := buildTestParams()
		sec, err := sri.FormatSecuencial(n)
		require.NoError(t, err)
		p.Secuencial = sec

		clave, err := sri.Generate(p)
		require.NoError(t, err)
		s := clave.String()
		require.Len(t, s, 49)
		assert.Equal(t, int(s[48]-'0'), sri.CheckDigit(s[:48]), "secuencial %d", n)
	}
}

// Residuo 0 → 11 → dígito 0; residuo 1 → 10 → dígito 1.
func TestCheckDigit_Bordes(t *testing.T) {
	base := func(sec string) string {
		return "15012024" + "01" + "1790012345001" + "1" + "001001" + sec + "12345678" + "1"
	}
	assert.Equal(t, 0, sri.CheckDigit(base("000000001")), "residuo 0 debe producir 0")
	assert.Equal(t, 0, sri.CheckDigit(base("000000012")), "residuo 0 debe producir 0")
	assert.Equal(t, 1, sri.CheckDigit(base("000000010")), "residuo 1 debe producir 1, no 10")
	assert.Equal(t, 1, sri.CheckDigit(base("000000003")), "resultado 10 debe mapear a 1")
	assert.Equal(t, 6, sri.CheckDigit(base("000000002")))
}

func TestGenerate_ErrorAnchoInvalido(t *testing.T) {
	cases := map[string]func(p *sri.ClaveAccesoParams){
		"fecha corta":        func(p *sri.ClaveAccesoParams) { p.Fecha = "1501202" },
		"fecha inexistente":  func(p *sri.ClaveAccesoParams) { p.Fecha = "32132024" },
		"ruc con letras":     func(p *sri.ClaveAccesoParams) { p.RUC = "17900123450AB" },
		"serie larga":        func(p *sri.ClaveAccesoParams) { p.Serie = "0010011" },
		"secuencial sin pad": func(p *sri.ClaveAccesoParams) { p.Secuencial = "1" },
		"codigo vacio":       func(p *sri.ClaveAccesoParams) { p.CodigoNumerico = "" },
		"tipo emision doble": func(p *sri.ClaveAccesoParams) { p.TipoEmision = "11" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := buildTestParams()
			mutate(&p)
			_, err := sri.Generate(p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidFieldWidth))

			var fwErr *domain.FieldWidthError
			assert.True(t, errors.As(err, &fwErr))
		})
	}
}

func TestClaveAcceso_Accesores(t *testing.T) {
	clave := sri.ClaveAcceso(testClaveEsperada)

	fecha, err := clave.Fecha()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), fecha)
	assert.Equal(t, "01", clave.CodDoc())
	assert.Equal(t, "1790012345001", clave.RUC())
	assert.Equal(t, "1", clave.Ambiente())
	assert.Equal(t, "001001", clave.Serie())
	assert.Equal(t, "000000001", clave.Secuencial())
}

func TestClaveAcceso_InvalidaSiDigitoAlterado(t *testing.T) {
	alterada := sri.ClaveAcceso(testClaveEsperada[:48] + "5")
	assert.False(t, alterada.Valid())
	assert.False(t, sri.ClaveAcceso("123").Valid())
}

func TestNewCodigoNumerico_OchoDigitos(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := sri.NewCodigoNumerico()
		require.NoError(t, err)
		assert.Regexp(t, `^\d{8}$`, code)
	}
	sec, err := sri.NewSecuencialAleatorio()
	require.NoError(t, err)
	assert.Regexp(t, `^\d{9}$`, sec)
	assert.NotEqual(t, "000000000", sec)
}

func TestFormatSecuencial(t *testing.T) {
	s, err := sri.FormatSecuencial(42)
	require.NoError(t, err)
	assert.Equal(t, "000000042", s)

	_, err = sri.FormatSecuencial(0)
	assert.ErrorIs(t, err, domain.ErrInvalidFieldWidth)
	_, err = sri.FormatSecuencial(1_000_000_000)
	assert.ErrorIs(t, err, domain.ErrInvalidFieldWidth)
}

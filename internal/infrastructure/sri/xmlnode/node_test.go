package xmlnode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-sri/internal/infrastructure/sri/xmlnode"
)

func sampleTree() xmlnode.Object {
	var info xmlnode.Fields
	info.Add("ambiente", "1").Add("razonSocial", "ACME & HIJOS <S.A.>").AddOptional("agenteRetencion", "")

	return xmlnode.Object{
		Name:  "factura",
		Attrs: []xmlnode.Attr{{Name: "id", Value: "comprobante"}, {Name: "version", Value: "2.1.0"}},
		Children: []xmlnode.Node{
			info.Object("infoTributaria"),
			xmlnode.Repeated{Name: "detalles", Items: []xmlnode.Node{
				xmlnode.Object{Name: "detalle", Children: []xmlnode.Node{xmlnode.Scalar{Name: "cantidad", Value: "2.500000"}}},
				xmlnode.Object{Name: "detalle", Children: []xmlnode.Node{xmlnode.Scalar{Name: "cantidad", Value: "1.000000"}}},
			}},
			xmlnode.Repeated{Name: "retenciones"},
			xmlnode.Repeated{Name: "infoAdicional", Items: []xmlnode.Node{
				xmlnode.AttributedScalar{Name: "campoAdicional", Attrs: []xmlnode.Attr{{Name: "nombre", Value: "Email"}}, Value: "a@b.ec"},
			}},
		},
	}
}

func TestMarshal_OmiteRepetidosVacios(t *testing.T) {
	out, err := xmlnode.Marshal(sampleTree())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, s, `<factura id="comprobante" version="2.1.0">`)
	assert.NotContains(t, s, "retenciones", "un grupo repetido vacío no debe emitirse")
	assert.NotContains(t, s, "agenteRetencion", "un escalar opcional vacío no debe emitirse")
	assert.Contains(t, s, "ACME &amp; HIJOS &lt;S.A.&gt;")
	assert.Contains(t, s, `<campoAdicional nombre="Email">a@b.ec</campoAdicional>`)
}

func TestDecode_RoundTripConservaOrden(t *testing.T) {
	tree := sampleTree()
	out, err := xmlnode.Marshal(tree)
	require.NoError(t, err)

	decoded, err := xmlnode.Decode(out)
	require.NoError(t, err)

	assert.Equal(t, xmlnode.Paths(tree), xmlnode.Paths(decoded))
	assert.Equal(t, []string{
		"factura[id=comprobante][version=2.1.0]/infoTributaria/ambiente=1",
		"factura[id=comprobante][version=2.1.0]/infoTributaria/razonSocial=ACME & HIJOS <S.A.>",
		"factura[id=comprobante][version=2.1.0]/detalles/detalle/cantidad=2.500000",
		"factura[id=comprobante][version=2.1.0]/detalles/detalle/cantidad=1.000000",
		"factura[id=comprobante][version=2.1.0]/infoAdicional/campoAdicional[nombre=Email]=a@b.ec",
	}, xmlnode.Paths(decoded))
}

func TestPaths_SensibleAlOrden(t *testing.T) {
	a := xmlnode.Object{Name: "x", Children: []xmlnode.Node{
		xmlnode.Scalar{Name: "a", Value: "1"}, xmlnode.Scalar{Name: "b", Value: "2"},
	}}
	b := xmlnode.Object{Name: "x", Children: []xmlnode.Node{
		xmlnode.Scalar{Name: "b", Value: "2"}, xmlnode.Scalar{Name: "a", Value: "1"},
	}}
	assert.ElementsMatch(t, xmlnode.Paths(a), xmlnode.Paths(b))
	assert.NotEqual(t, xmlnode.Paths(a), xmlnode.Paths(b))
}

func TestDecode_ErrorXMLMalformado(t *testing.T) {
	_, err := xmlnode.Decode([]byte("<factura><sin-cierre></factura>"))
	assert.Error(t, err)
}

func TestObjectLookup(t *testing.T) {
	tree := sampleTree()
	n, ok := tree.Lookup("infoTributaria")
	require.True(t, ok)
	info := n.(xmlnode.Object)
	amb, ok := info.Lookup("ambiente")
	require.True(t, ok)
	assert.Equal(t, "1", xmlnode.Text(amb))
	_, ok = tree.Lookup("noExiste")
	assert.False(t, ok)
}

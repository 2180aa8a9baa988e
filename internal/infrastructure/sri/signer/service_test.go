package signer_test

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ucarion/c14n"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"

	"github.com/jhoicas/facturacion-sri/internal/infrastructure/sri/signer"
)

const testPassword = "clave-firma"

var now = time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

const unsignedXML = `<?xml version="1.0" encoding="UTF-8"?>
<factura id="comprobante" version="2.1.0">
  <infoTributaria>
    <ambiente>1</ambiente>
    <razonSocial>DISTRIBUIDORA ANDINA &amp; CIA</razonSocial>
  </infoTributaria>
  <infoFactura>
    <importeTotal>29.70</importeTotal>
  </infoFactura>
</factura>`

func newCert(t *testing.T, key *rsa.PrivateKey, parent *x509.Certificate, parentKey *rsa.PrivateKey, cn string, notBefore, notAfter time.Time, isCA bool) *x509.Certificate {
	t.Helper()
	serial, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: cn, Organization: []string{"SECURITY DATA S.A."}, Country: []string{"EC"}},
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageContentCommitment | x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		IsCA:                  isCA,
	}
	if parent == nil {
		parent, parentKey = tmpl, key
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, &key.PublicKey, parentKey)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return cert
}

// writeP12 genera un .p12 con llave RSA; chain agrega una CA intermedia al archivo.
func writeP12(t *testing.T, notBefore, notAfter time.Time, chain bool) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	var cert *x509.Certificate
	var cas []*x509.Certificate
	if chain {
		caKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		ca := newCert(t, caKey, nil, nil, "AC PRUEBAS", notBefore, notAfter, true)
		cert = newCert(t, key, ca, caKey, "FIRMANTE PRUEBAS", notBefore, notAfter, false)
		cas = []*x509.Certificate{ca}
	} else {
		cert = newCert(t, key, nil, nil, "FIRMANTE PRUEBAS", notBefore, notAfter, false)
	}

	data, err := gopkcs12.LegacyDES.Encode(key, cert, cas, testPassword)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "firma.p12")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func validP12(t *testing.T) string {
	return writeP12(t, now.AddDate(-1, 0, 0), now.AddDate(1, 0, 0), false)
}

func TestLoadIdentity_OK(t *testing.T) {
	cert, err := signer.LoadIdentity(validP12(t), testPassword, now)
	require.NoError(t, err)
	require.NotNil(t, cert.Leaf)
	assert.Equal(t, "FIRMANTE PRUEBAS", cert.Leaf.Subject.CommonName)
	_, ok := cert.PrivateKey.(*rsa.PrivateKey)
	assert.True(t, ok)
}

func TestLoadIdentity_CadenaCompleta(t *testing.T) {
	path := writeP12(t, now.AddDate(-1, 0, 0), now.AddDate(1, 0, 0), true)
	cert, err := signer.LoadIdentity(path, testPassword, now)
	require.NoError(t, err)
	assert.Equal(t, "FIRMANTE PRUEBAS", cert.Leaf.Subject.CommonName)
}

func TestLoadIdentity_Errores(t *testing.T) {
	valid := validP12(t)
	expired := writeP12(t, now.AddDate(-2, 0, 0), now.AddDate(0, 0, -1), false)
	future := writeP12(t, now.AddDate(0, 0, 1), now.AddDate(2, 0, 0), false)

	tests := []struct {
		name     string
		path     string
		password string
		want     error
	}{
		{"archivo inexistente", filepath.Join(t.TempDir(), "no.p12"), testPassword, signer.ErrCertificateNotFound},
		{"clave incorrecta", valid, "otra", signer.ErrInvalidPassphrase},
		{"expirado", expired, testPassword, signer.ErrCertificateExpired},
		{"aún no vigente", future, testPassword, signer.ErrCertificateNotYetValid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := signer.LoadIdentity(tt.path, tt.password, now)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "se esperaba %v, se obtuvo %v", tt.want, err)
		})
	}
}

// multilineXML lleva saltos de línea dentro de atributos, como un campoAdicional con dirección.
const multilineXML = `<?xml version="1.0" encoding="UTF-8"?>
<factura id="comprobante" version="2.1.0">
  <infoTributaria>
    <razonSocial>DISTRIBUIDORA ANDINA &amp; CIA</razonSocial>
  </infoTributaria>
  <infoAdicional>
    <campoAdicional nombre="Dirección&#xA;Bodega">Av. Amazonas&#xD;
N34</campoAdicional>
  </infoAdicional>
</factura>`

func signSample(t *testing.T) []byte {
	t.Helper()
	out, _ := signWith(t, unsignedXML)
	return out
}

func signWith(t *testing.T, in string) ([]byte, tls.Certificate) {
	t.Helper()
	cert, err := signer.LoadIdentity(validP12(t), testPassword, now)
	require.NoError(t, err)
	svc := signer.NewDigitalSignatureService(signer.WithClock(func() time.Time { return now }))
	out, err := svc.Sign([]byte(in), cert)
	require.NoError(t, err)
	return out, cert
}

// exclusiveC14N canonicaliza con ucarion/c14n, implementación independiente de la del firmador.
func exclusiveC14N(t *testing.T, data []byte) []byte {
	t.Helper()
	out, err := c14n.Canonicalize(xml.NewDecoder(bytes.NewReader(data)))
	require.NoError(t, err)
	return out
}

func between(t *testing.T, s []byte, open, close string) []byte {
	t.Helper()
	i := bytes.Index(s, []byte(open))
	require.GreaterOrEqual(t, i, 0, open)
	j := bytes.Index(s[i:], []byte(close))
	require.GreaterOrEqual(t, j, 0, close)
	return s[i : i+j+len(close)]
}

func sha1B64(data []byte) string {
	h := sha1.Sum(data)
	return base64.StdEncoding.EncodeToString(h[:])
}

func digestValues(t *testing.T, signed []byte) []string {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(signed))
	var out []string
	for _, dv := range doc.FindElements("//ds:SignedInfo/ds:Reference/ds:DigestValue") {
		out = append(out, dv.Text())
	}
	require.Len(t, out, 3)
	return out
}

func TestSign_EstructuraXAdESBES(t *testing.T) {
	out := signSample(t)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	children := doc.Root().ChildElements()
	last := children[len(children)-1]
	assert.Equal(t, "ds:Signature", last.FullTag(), "la firma debe ser el último hijo de la raíz")

	refs := last.FindElements("./ds:SignedInfo/ds:Reference")
	require.Len(t, refs, 3)
	assert.Equal(t, signer.TypeSignedProps, refs[0].SelectAttrValue("Type", ""))
	assert.Equal(t, "#comprobante", refs[2].SelectAttrValue("URI", ""))
	transforms := refs[2].FindElements("./ds:Transforms/ds:Transform")
	require.Len(t, transforms, 1, "el comprobante solo lleva enveloped-signature")
	assert.Equal(t, signer.TransformEnveloped, transforms[0].SelectAttrValue("Algorithm", ""))

	s := string(out)
	assert.Contains(t, s, signer.AlgRSASHA1)
	assert.Contains(t, s, signer.AlgSHA1)
	assert.Contains(t, s, signer.TransformEnveloped)
	assert.Contains(t, s, "<etsi:Description>contenido comprobante</etsi:Description>")
	assert.Contains(t, s, "<etsi:MimeType>text/xml</etsi:MimeType>")
	assert.Contains(t, s, "<etsi:SigningTime>2024-01-15T10:00:00Z</etsi:SigningTime>")
	assert.Contains(t, s, "<ds:X509Certificate>")
	assert.Contains(t, s, "<ds:RSAKeyValue>")

	target := last.FindElement(".//etsi:QualifyingProperties")
	require.NotNil(t, target)
	assert.Equal(t, "#"+last.SelectAttrValue("Id", ""), target.SelectAttrValue("Target", ""))
}

func TestSign_VerificaYDetectaAlteracion(t *testing.T) {
	out := signSample(t)
	require.NoError(t, signer.Verify(out))

	tampered := bytes.Replace(out, []byte("<importeTotal>29.70"), []byte("<importeTotal>29.71"), 1)
	require.NotEqual(t, out, tampered)
	err := signer.Verify(tampered)
	require.Error(t, err)
	assert.True(t, errors.Is(err, signer.ErrSignatureInvalid))
}

func TestSign_CanonicalizacionDeclarada(t *testing.T) {
	assert.Equal(t, string(dsig.CanonicalXML10RecAlgorithmId), signer.AlgC14N)
	assert.Contains(t, string(signSample(t)), `<ds:CanonicalizationMethod Algorithm="`+signer.AlgC14N+`"/>`)
}

func TestSign_ComprobanteIntactoConAtributosMultilinea(t *testing.T) {
	out, _ := signWith(t, multilineXML)

	sig := between(t, out, "<ds:Signature ", "</ds:Signature>")
	unsigned := bytes.Replace(out, sig, nil, 1)
	assert.Equal(t, multilineXML, string(unsigned), "fuera de ds:Signature los bytes no cambian")
	assert.Contains(t, string(out), `nombre="Dirección&#xA;Bodega"`)

	// Sin namespaces en el comprobante, C14N exclusivo e inclusivo coinciden.
	assert.Equal(t, sha1B64(exclusiveC14N(t, unsigned)), digestValues(t, out)[2])
	require.NoError(t, signer.Verify(out))
}

func TestSign_SignedInfoConNamespacesHeredados(t *testing.T) {
	out, cert := signWith(t, unsignedXML)

	// En C14N inclusivo el apex declara todos los namespaces en alcance. El exclusivo
	// omite xmlns:etsi porque SignedInfo no lo usa; se agrega tras xmlns:ds.
	raw := between(t, out, "<ds:SignedInfo", "</ds:SignedInfo>")
	raw = bytes.Replace(raw, []byte("<ds:SignedInfo"), []byte(`<ds:SignedInfo xmlns:ds="`+signer.NamespaceDS+`" xmlns:etsi="`+signer.NamespaceETSI+`"`), 1)
	exc := exclusiveC14N(t, raw)
	dsDecl := []byte(`xmlns:ds="` + signer.NamespaceDS + `"`)
	require.True(t, bytes.HasPrefix(exc, append([]byte("<ds:SignedInfo "), dsDecl...)))
	inclusive := bytes.Replace(exc, dsDecl, append(dsDecl, []byte(` xmlns:etsi="`+signer.NamespaceETSI+`"`)...), 1)

	value := between(t, out, "<ds:SignatureValue", "</ds:SignatureValue>")
	value = value[bytes.IndexByte(value, '>')+1 : len(value)-len("</ds:SignatureValue>")]
	sigBytes, err := base64.StdEncoding.DecodeString(string(value))
	require.NoError(t, err)

	h := sha1.Sum(inclusive)
	pub := cert.Leaf.PublicKey.(*rsa.PublicKey)
	assert.NoError(t, rsa.VerifyPKCS1v15(pub, crypto.SHA1, h[:], sigBytes))

	exH := sha1.Sum(exc)
	assert.Error(t, rsa.VerifyPKCS1v15(pub, crypto.SHA1, exH[:], sigBytes), "la forma sin xmlns:etsi no es la firmada")
}

func TestSign_RaizAutocerrada(t *testing.T) {
	cert, err := signer.LoadIdentity(validP12(t), testPassword, now)
	require.NoError(t, err)
	_, err = signer.NewDigitalSignatureService().Sign([]byte(`<factura id="comprobante"/>`), cert)
	assert.ErrorIs(t, err, signer.ErrMalformedDocument)
}

func TestSign_XMLMalformado(t *testing.T) {
	cert, err := signer.LoadIdentity(validP12(t), testPassword, now)
	require.NoError(t, err)
	svc := signer.NewDigitalSignatureService()

	for _, in := range []string{"", "<factura id=\"comprobante\"><sin-cierre></factura>", "<factura><a>1</a></factura>"} {
		_, err := svc.Sign([]byte(in), cert)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, signer.ErrMalformedDocument), in)
	}
}

func TestSign_IDsUnicosPorFirma(t *testing.T) {
	a, b := signSample(t), signSample(t)
	id := func(x []byte) string {
		doc := etree.NewDocument()
		require.NoError(t, doc.ReadFromBytes(x))
		return doc.Root().SelectElement("ds:Signature").SelectAttrValue("Id", "")
	}
	assert.True(t, strings.HasPrefix(id(a), "Signature"))
	assert.NotEqual(t, id(a), id(b))
}

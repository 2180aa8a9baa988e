// Servicio de firma digital XAdES-BES para comprobantes electrónicos SRI.
// Inyecta <ds:Signature> como último hijo del nodo raíz del comprobante.

package signer

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/tls"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"

	"github.com/jhoicas/facturacion-sri/pkg/sri"
)

// DigitalSignatureService implementa la firma XAdES-BES e inyecta el nodo en el XML.
type DigitalSignatureService struct {
	now func() time.Time
}

// Option configura el servicio.
type Option func(*DigitalSignatureService)

// WithClock fija el reloj usado para SigningTime.
func WithClock(now func() time.Time) Option {
	return func(s *DigitalSignatureService) { s.now = now }
}

// NewDigitalSignatureService crea el servicio.
func NewDigitalSignatureService(opts ...Option) *DigitalSignatureService {
	s := &DigitalSignatureService{now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ids de los nodos de la firma; comparten un sufijo numérico aleatorio.
type sigIDs struct {
	signature, signedInfo, signatureValue, certificate string
	signedProps, signedPropsRef, object, reference     string
}

func newSigIDs() (sigIDs, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return sigIDs{}, fmt.Errorf("signer: generar id: %w", err)
	}
	sfx := fmt.Sprintf("%d", n.Int64()+100000)
	sig := "Signature" + sfx
	return sigIDs{
		signature:      sig,
		signedInfo:     "Signature-SignedInfo" + sfx,
		signatureValue: "SignatureValue" + sfx,
		certificate:    "Certificate" + sfx,
		signedProps:    sig + "-SignedProperties" + sfx,
		signedPropsRef: "SignedPropertiesID" + sfx,
		object:         sig + "-Object" + sfx,
		reference:      "Reference-ID-" + sfx,
	}, nil
}

// Sign implementa pkg/sri.Signer.
func (s *DigitalSignatureService) Sign(xmlBytes []byte, cert tls.Certificate) ([]byte, error) {
	if len(bytes.TrimSpace(xmlBytes)) == 0 {
		return nil, fmt.Errorf("%w: XML vacío", ErrMalformedDocument)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: documento sin raíz", ErrMalformedDocument)
	}
	rootID := root.SelectAttrValue("id", "")
	if rootID == "" {
		return nil, fmt.Errorf("%w: el nodo raíz no tiene atributo id", ErrMalformedDocument)
	}

	priv, ok := cert.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrUnsupportedKey
	}
	x509Cert, err := leafOf(cert)
	if err != nil {
		return nil, fmt.Errorf("signer: parsear certificado: %w", err)
	}
	ids, err := newSigIDs()
	if err != nil {
		return nil, err
	}

	// 1) Digest del comprobante (C14N). La firma aún no existe: equivale al enveloped transform.
	canonicalDoc, err := canonical(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	docDigest := digestB64(canonicalDoc)

	// 2) KeyInfo y SignedProperties, con sus propios digest
	keyInfoXML := buildKeyInfo(ids, x509Cert.Raw, &priv.PublicKey)
	keyInfoDigest, err := fragmentDigest(keyInfoXML)
	if err != nil {
		return nil, err
	}
	certDigestB64, issuerName, serial := CertDigestAndIssuerSerial(x509Cert)
	signingTime := s.now().Format(time.RFC3339)
	signedPropsXML := buildSignedProperties(ids, signingTime, certDigestB64, issuerName, serial)
	signedPropsDigest, err := fragmentDigest(signedPropsXML)
	if err != nil {
		return nil, err
	}

	// 3) SignedInfo firmado con RSA-SHA1
	signedInfoXML := buildSignedInfo(ids, "#"+rootID, docDigest, keyInfoDigest, signedPropsDigest)
	signedInfo, err := parseInSignature(signedInfoXML)
	if err != nil {
		return nil, err
	}
	canonicalSignedInfo, err := canonical(signedInfo)
	if err != nil {
		return nil, fmt.Errorf("signer: canonicalizar SignedInfo: %w", err)
	}
	signHash := sha1.Sum(canonicalSignedInfo)
	signatureValue, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA1, signHash[:])
	if err != nil {
		return nil, fmt.Errorf("signer: firmar SignedInfo: %w", err)
	}

	signatureXML := buildFullSignature(ids, signedInfoXML, base64.StdEncoding.EncodeToString(signatureValue), keyInfoXML, signedPropsXML)

	// 4) Inyectar como último hijo de la raíz, sin re-serializar el comprobante
	return injectSignature(xmlBytes, root.FullTag(), signatureXML)
}

// c14n10 C14N 1.0 inclusivo, el declarado en CanonicalizationMethod.
var c14n10 = dsig.MakeC14N10RecCanonicalizer()

// canonical aplica C14N inclusivo al nodo en su contexto: el nodo conserva las
// declaraciones xmlns heredadas de sus ancestros, se usen o no.
func canonical(el *etree.Element) ([]byte, error) {
	return c14n10.Canonicalize(withInScopeNamespaces(el))
}

func withInScopeNamespaces(el *etree.Element) *etree.Element {
	cp := el.Copy()
	declared := map[string]bool{}
	for _, a := range cp.Attr {
		if isNamespaceDecl(a) {
			declared[a.FullKey()] = true
		}
	}
	for p := el.Parent(); p != nil; p = p.Parent() {
		for _, a := range p.Attr {
			if !isNamespaceDecl(a) || declared[a.FullKey()] {
				continue
			}
			declared[a.FullKey()] = true
			cp.CreateAttr(a.FullKey(), a.Value)
		}
	}
	return cp
}

func isNamespaceDecl(a etree.Attr) bool {
	return a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns")
}

func digestB64(data []byte) string {
	h := sha1.Sum(data)
	return base64.StdEncoding.EncodeToString(h[:])
}

// parseInSignature ubica el fragmento dentro de ds:Signature para que herede
// los mismos namespaces que tendrá en el documento firmado.
func parseInSignature(fragment string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(`<ds:Signature ` + nsDecl + `>` + fragment + `</ds:Signature>`); err != nil {
		return nil, fmt.Errorf("signer: parsear fragmento: %w", err)
	}
	children := doc.Root().ChildElements()
	if len(children) == 0 {
		return nil, fmt.Errorf("signer: fragmento vacío")
	}
	return children[0], nil
}

func fragmentDigest(fragment string) (string, error) {
	el, err := parseInSignature(fragment)
	if err != nil {
		return "", err
	}
	out, err := canonical(el)
	if err != nil {
		return "", fmt.Errorf("signer: canonicalizar %s: %w", el.FullTag(), err)
	}
	return digestB64(out), nil
}

func buildSignedInfo(ids sigIDs, docURI, docDigest, keyInfoDigest, signedPropsDigest string) string {
	var sb strings.Builder
	sb.WriteString(`<ds:SignedInfo Id="` + ids.signedInfo + `">`)
	sb.WriteString(`<ds:CanonicalizationMethod Algorithm="` + AlgC14N + `"/>`)
	sb.WriteString(`<ds:SignatureMethod Algorithm="` + AlgRSASHA1 + `"/>`)
	sb.WriteString(`<ds:Reference Id="` + ids.signedPropsRef + `" Type="` + TypeSignedProps + `" URI="#` + ids.signedProps + `">`)
	sb.WriteString(`<ds:DigestMethod Algorithm="` + AlgSHA1 + `"/>`)
	sb.WriteString(`<ds:DigestValue>` + signedPropsDigest + `</ds:DigestValue>`)
	sb.WriteString(`</ds:Reference>`)
	sb.WriteString(`<ds:Reference URI="#` + ids.certificate + `">`)
	sb.WriteString(`<ds:DigestMethod Algorithm="` + AlgSHA1 + `"/>`)
	sb.WriteString(`<ds:DigestValue>` + keyInfoDigest + `</ds:DigestValue>`)
	sb.WriteString(`</ds:Reference>`)
	sb.WriteString(`<ds:Reference Id="` + ids.reference + `" URI="` + docURI + `">`)
	sb.WriteString(`<ds:Transforms><ds:Transform Algorithm="` + TransformEnveloped + `"/></ds:Transforms>`)
	sb.WriteString(`<ds:DigestMethod Algorithm="` + AlgSHA1 + `"/>`)
	sb.WriteString(`<ds:DigestValue>` + docDigest + `</ds:DigestValue>`)
	sb.WriteString(`</ds:Reference>`)
	sb.WriteString(`</ds:SignedInfo>`)
	return sb.String()
}

func buildKeyInfo(ids sigIDs, certDER []byte, pub *rsa.PublicKey) string {
	modulus, exponent := rsaKeyValue(pub)
	var sb strings.Builder
	sb.WriteString(`<ds:KeyInfo Id="` + ids.certificate + `">`)
	sb.WriteString(`<ds:X509Data><ds:X509Certificate>` + base64.StdEncoding.EncodeToString(certDER) + `</ds:X509Certificate></ds:X509Data>`)
	sb.WriteString(`<ds:KeyValue><ds:RSAKeyValue><ds:Modulus>` + modulus + `</ds:Modulus><ds:Exponent>` + exponent + `</ds:Exponent></ds:RSAKeyValue></ds:KeyValue>`)
	sb.WriteString(`</ds:KeyInfo>`)
	return sb.String()
}

func buildSignedProperties(ids sigIDs, signingTime, certDigestB64, issuerName, serial string) string {
	var sb strings.Builder
	sb.WriteString(`<etsi:SignedProperties Id="` + ids.signedProps + `">`)
	sb.WriteString(`<etsi:SignedSignatureProperties>`)
	sb.WriteString(`<etsi:SigningTime>` + signingTime + `</etsi:SigningTime>`)
	sb.WriteString(`<etsi:SigningCertificate><etsi:Cert><etsi:CertDigest><ds:DigestMethod Algorithm="` + AlgSHA1 + `"/>`)
	sb.WriteString(`<ds:DigestValue>` + certDigestB64 + `</ds:DigestValue></etsi:CertDigest>`)
	sb.WriteString(`<etsi:IssuerSerial><ds:X509IssuerName>` + escapeXML(issuerName) + `</ds:X509IssuerName><ds:X509SerialNumber>` + serial + `</ds:X509SerialNumber></etsi:IssuerSerial></etsi:Cert></etsi:SigningCertificate>`)
	sb.WriteString(`</etsi:SignedSignatureProperties>`)
	sb.WriteString(`<etsi:SignedDataObjectProperties><etsi:DataObjectFormat ObjectReference="#` + ids.reference + `">`)
	sb.WriteString(`<etsi:Description>` + DescripcionContenido + `</etsi:Description><etsi:MimeType>` + MimeTypeContenido + `</etsi:MimeType>`)
	sb.WriteString(`</etsi:DataObjectFormat></etsi:SignedDataObjectProperties>`)
	sb.WriteString(`</etsi:SignedProperties>`)
	return sb.String()
}

func buildFullSignature(ids sigIDs, signedInfoXML, signatureValueB64, keyInfoXML, signedPropsXML string) string {
	var sb strings.Builder
	sb.WriteString(`<ds:Signature ` + nsDecl + ` Id="` + ids.signature + `">`)
	sb.WriteString(signedInfoXML)
	sb.WriteString(`<ds:SignatureValue Id="` + ids.signatureValue + `">` + signatureValueB64 + `</ds:SignatureValue>`)
	sb.WriteString(keyInfoXML)
	sb.WriteString(`<ds:Object Id="` + ids.object + `"><etsi:QualifyingProperties Target="#` + ids.signature + `">`)
	sb.WriteString(signedPropsXML)
	sb.WriteString(`</etsi:QualifyingProperties></ds:Object>`)
	sb.WriteString(`</ds:Signature>`)
	return sb.String()
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// injectSignature inserta la firma antes del cierre de la raíz. Los bytes del
// comprobante quedan intactos: son los mismos sobre los que se calculó el digest.
func injectSignature(xmlBytes []byte, rootTag, signatureXML string) ([]byte, error) {
	end := bytes.LastIndex(xmlBytes, []byte("</"+rootTag))
	if end < 0 {
		return nil, fmt.Errorf("%w: la raíz %s no tiene etiqueta de cierre", ErrMalformedDocument, rootTag)
	}
	out := make([]byte, 0, len(xmlBytes)+len(signatureXML))
	out = append(out, xmlBytes[:end]...)
	out = append(out, signatureXML...)
	out = append(out, xmlBytes[end:]...)
	return out, nil
}

var _ sri.Signer = (*DigitalSignatureService)(nil)
